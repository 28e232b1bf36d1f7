package xlembed

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ExcelizeTransformer implements Transformer using excelize.
type ExcelizeTransformer struct {
	file *excelize.File

	mu sync.Mutex // single writer for layout and picture mutations
}

// NewExcelizeTransformer creates a Transformer from an excelize file.
func NewExcelizeTransformer(f *excelize.File) *ExcelizeTransformer {
	return &ExcelizeTransformer{file: f}
}

// OpenWorkbook parses workbook bytes into a Transformer. The bytes are copied
// into a reader, so the caller's slice is never written to.
func OpenWorkbook(data []byte) (*ExcelizeTransformer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrWorkbook)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkbook, err)
	}
	return NewExcelizeTransformer(f), nil
}

// SheetNames returns all sheet names.
func (tx *ExcelizeTransformer) SheetNames() []string {
	return tx.file.GetSheetList()
}

// ActiveSheet returns the name of the sheet selected when the workbook was saved.
func (tx *ExcelizeTransformer) ActiveSheet() string {
	return tx.file.GetSheetName(tx.file.GetActiveSheetIndex())
}

// Rows returns the formatted cell values of every row in the sheet.
func (tx *ExcelizeTransformer) Rows(sheet string) ([][]string, error) {
	rows, err := tx.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// SetColumnWidth sets the width of a 1-based column.
func (tx *ExcelizeTransformer) SetColumnWidth(sheet string, col int, width float64) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.file.SetColWidth(sheet, name, name, width)
}

// SetRowHeight sets the height of a 1-based row in points.
func (tx *ExcelizeTransformer) SetRowHeight(sheet string, row int, height float64) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.file.SetRowHeight(sheet, row, height)
}

// AddImage inserts an image anchored at the top-left corner of cell.
// The anchor moves with the cell but does not resize with it.
func (tx *ExcelizeTransformer) AddImage(sheet string, cell string, imgBytes []byte, imgType string, scaleX, scaleY float64) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	ext := ".png"
	switch strings.ToUpper(imgType) {
	case "JPEG", "JPG":
		ext = ".jpg"
	case "GIF":
		ext = ".gif"
	case "BMP":
		ext = ".bmp"
	case "TIFF", "TIF":
		ext = ".tif"
	}

	return tx.file.AddPictureFromBytes(sheet, cell, &excelize.Picture{
		Extension: ext,
		File:      imgBytes,
		Format: &excelize.GraphicOptions{
			ScaleX:      scaleX,
			ScaleY:      scaleY,
			Positioning: "oneCell",
		},
	})
}

// Write writes the workbook to the given writer.
func (tx *ExcelizeTransformer) Write(w io.Writer) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return tx.file.Write(w)
}

// Close closes the underlying excelize file.
func (tx *ExcelizeTransformer) Close() error {
	return tx.file.Close()
}

// File returns the underlying excelize file for advanced operations.
func (tx *ExcelizeTransformer) File() *excelize.File {
	return tx.file
}
