package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/sacamantecas"
)

// Ensure Writer implements sacamantecas.SkimmedSink at compile time.
var _ sacamantecas.SkimmedSink = (*Writer)(nil)

// Writer writes skimmed metadata as text:
//
//	[row] uri
//	    key: value
//
// Output goes to a temporary file beside path that replaces path on Close,
// so an interrupted run never leaves a truncated output file behind.
type Writer struct {
	path string
	tmp  *os.File
	buf  *bufio.Writer
}

// CreateWriter creates a Writer for the text file at path.
func CreateWriter(path string) (*Writer, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}
	return &Writer{path: path, tmp: tmp, buf: bufio.NewWriter(tmp)}, nil
}

// AddMetadata appends the metadata for one manteca.
func (w *Writer) AddMetadata(row int, uri string, result *sacamantecas.ExtractionResult) error {
	if _, err := fmt.Fprintf(w.buf, "[%d] %s\n", row, uri); err != nil {
		return err
	}
	for _, e := range result.Entries {
		if _, err := fmt.Fprintf(w.buf, "    %s: %s\n", e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes the output and moves it into place.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.abort()
		return err
	}
	if err := w.tmp.Close(); err != nil {
		os.Remove(w.tmp.Name())
		return err
	}
	return os.Rename(w.tmp.Name(), w.path)
}

// abort discards the temporary output.
func (w *Writer) abort() {
	w.tmp.Close()
	os.Remove(w.tmp.Name())
}
