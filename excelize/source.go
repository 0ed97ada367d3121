// Package excelize reads mantecas from Excel workbooks and writes skimmed
// metadata back as new columns of a copy of the workbook.
package excelize

import (
	"net/url"
	"strings"

	"github.com/fwojciec/sacamantecas"
	"github.com/xuri/excelize/v2"
)

// Ensure Source implements sacamantecas.MantecaSource at compile time.
var _ sacamantecas.MantecaSource = (*Source)(nil)

// Source reads mantecas from the first worksheet of a workbook. Only the
// first cell of each row holding an http(s) URI is used.
type Source struct {
	file  *excelize.File
	sheet string
}

// OpenSource opens the workbook at path.
func OpenSource(path string) (*Source, error) {
	f, sheet, err := openFirstSheet(path)
	if err != nil {
		return nil, err
	}
	return &Source{file: f, sheet: sheet}, nil
}

// Mantecas returns one manteca per row holding a URI, in row order.
func (s *Source) Mantecas() ([]sacamantecas.Manteca, error) {
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return nil, err
	}

	var mantecas []sacamantecas.Manteca
	for i, row := range rows {
		for col, value := range row {
			if !isURI(value) {
				continue
			}
			if !s.isText(col+1, i+1) {
				continue
			}
			mantecas = append(mantecas, sacamantecas.Manteca{Row: i + 1, URI: value})
			break
		}
	}
	return mantecas, nil
}

// isText reports whether the cell holds a string rather than a formula.
func (s *Source) isText(col, row int) bool {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}
	typ, err := s.file.GetCellType(s.sheet, cell)
	if err != nil {
		return false
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeUnset:
		return true
	}
	return false
}

// Close closes the workbook.
func (s *Source) Close() error {
	return s.file.Close()
}

func isURI(value string) bool {
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return strings.HasPrefix(u.Scheme, "http")
}

// openFirstSheet opens the workbook at path and returns the name of its
// first worksheet.
func openFirstSheet(path string) (*excelize.File, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", err
	}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, "", sacamantecas.Errorf(sacamantecas.EINVALID, "workbook %q has no worksheets", path)
	}
	return f, sheets[0], nil
}
