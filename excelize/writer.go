package excelize

import (
	"strings"

	"github.com/fwojciec/sacamantecas"
	"github.com/xuri/excelize/v2"
)

// HeaderPrefix marks the columns added by the writer.
const HeaderPrefix = "[sm] "

// columnWidth is the width of the added columns, in characters.
const columnWidth = 42

// headerFill is the background color of added header cells.
const headerFill = "BADDAD"

// Ensure Writer implements sacamantecas.SkimmedSink at compile time.
var _ sacamantecas.SkimmedSink = (*Writer)(nil)

// Writer adds metadata to the first worksheet of a copy of the input
// workbook. Each key gets its own column, headed by HeaderPrefix and the
// key on row 1, and the values of a row go to that row. The copy is saved
// on Close.
type Writer struct {
	file        *excelize.File
	sheet       string
	output      string
	headerStyle int
	columns     map[string]int
	nextColumn  int
}

// CreateWriter opens the workbook at input; Close saves it to output.
func CreateWriter(input, output string) (*Writer, error) {
	f, sheet, err := openFirstSheet(input)
	if err != nil {
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Family: "Calibri"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	cols, err := f.GetCols(sheet)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Writer{
		file:        f,
		sheet:       sheet,
		output:      output,
		headerStyle: style,
		columns:     make(map[string]int),
		nextColumn:  len(cols) + 1,
	}, nil
}

// AddMetadata writes the values of result to row. Repeated keys are
// joined with " / " since a row has one cell per key.
func (w *Writer) AddMetadata(row int, uri string, result *sacamantecas.ExtractionResult) error {
	for _, key := range result.Keys() {
		col, err := w.column(key)
		if err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellStr(w.sheet, cell, strings.Join(result.Values(key), " / ")); err != nil {
			return err
		}
	}
	return nil
}

// column returns the column for key, adding its header the first time.
func (w *Writer) column(key string) (int, error) {
	if col, ok := w.columns[key]; ok {
		return col, nil
	}

	col := w.nextColumn
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return 0, err
	}
	cell := name + "1"
	if err := w.file.SetCellStr(w.sheet, cell, HeaderPrefix+key); err != nil {
		return 0, err
	}
	if err := w.file.SetCellStyle(w.sheet, cell, cell, w.headerStyle); err != nil {
		return 0, err
	}
	if err := w.file.SetColWidth(w.sheet, name, name, columnWidth); err != nil {
		return 0, err
	}

	w.columns[key] = col
	w.nextColumn++
	return col, nil
}

// Close saves the workbook to the output path.
func (w *Writer) Close() error {
	err := w.file.SaveAs(w.output)
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	return err
}
