package sacamantecas

import (
	"path/filepath"
	"strings"
)

// Manteca is a catalog URI to be skimmed, together with the row of the
// input file it came from.
type Manteca struct {
	Row int
	URI string
}

// MantecaSource reads mantecas from an input file.
type MantecaSource interface {
	// Mantecas returns every manteca in input order.
	Mantecas() ([]Manteca, error)

	// Close releases the input file.
	Close() error
}

// SkimmedSink receives extracted metadata for each manteca.
// AddMetadata is always called in input order.
type SkimmedSink interface {
	AddMetadata(row int, uri string, result *ExtractionResult) error

	// Close flushes and releases the output file.
	Close() error
}

// IsSpreadsheet reports whether path names an Excel workbook.
func IsSpreadsheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls", ".xlsx":
		return true
	}
	return false
}

// OutputPath derives the output file name from the input file name by
// inserting "_out" before the extension.
func OutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_out" + ext
}
