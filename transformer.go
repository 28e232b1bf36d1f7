package xlembed

import "io"

// Transformer abstracts the workbook operations the pipeline needs: reading
// sheet rows, adjusting layout, inserting pictures and writing the result.
// Columns and rows are 1-based.
type Transformer interface {
	// Sheet data
	SheetNames() []string
	ActiveSheet() string
	Rows(sheet string) ([][]string, error)

	// Layout
	SetColumnWidth(sheet string, col int, width float64) error
	SetRowHeight(sheet string, row int, height float64) error

	// Images
	AddImage(sheet string, cell string, imgBytes []byte, imgType string, scaleX, scaleY float64) error

	// I/O
	Write(w io.Writer) error
	Close() error
}
