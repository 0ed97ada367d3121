// Package fs reads mantecas from plain text files and writes skimmed
// metadata back as text.
package fs

import (
	"bufio"
	"os"
	"strings"

	"github.com/fwojciec/sacamantecas"
)

// Ensure Source implements sacamantecas.MantecaSource at compile time.
var _ sacamantecas.MantecaSource = (*Source)(nil)

// Source reads one URI per line from a UTF-8 text file. Blank lines are
// skipped; the row of a manteca is its 1-based line number.
type Source struct {
	file *os.File
}

// OpenSource opens the text file at path.
func OpenSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, sacamantecas.Errorf(sacamantecas.ENOTFOUND, "input file %q not found", path)
	} else if err != nil {
		return nil, err
	}
	return &Source{file: f}, nil
}

// Mantecas returns every non-blank line in file order.
func (s *Source) Mantecas() ([]sacamantecas.Manteca, error) {
	var mantecas []sacamantecas.Manteca

	scanner := bufio.NewScanner(s.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for row := 1; scanner.Scan(); row++ {
		line := scanner.Text()
		if row == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		uri := strings.TrimSpace(line)
		if uri == "" {
			continue
		}
		mantecas = append(mantecas, sacamantecas.Manteca{Row: row, URI: uri})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mantecas, nil
}

// Close closes the input file.
func (s *Source) Close() error {
	return s.file.Close()
}
