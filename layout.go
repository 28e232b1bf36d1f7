package xlembed

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// Layout holds the column widths and row height applied before any image
// is placed. Widths are in Excel character units, the height in points.
type Layout struct {
	IdentifierWidth float64            `yaml:"identifier_width"`
	TargetWidth     float64            `yaml:"target_width"`
	ColumnWidths    map[string]float64 `yaml:"column_widths"` // column letter → width
	RowHeight       float64            `yaml:"row_height"`
}

// DefaultLayout returns the layout sized for the default 280x160 px image:
// a 50-wide target column (about 355 px) and 120 pt rows (160 px).
func DefaultLayout() Layout {
	return Layout{
		IdentifierWidth: 15,
		TargetWidth:     50,
		ColumnWidths: map[string]float64{
			"B": 80,
			"D": 5,
			"E": 10,
			"F": 50,
		},
		RowHeight: 120,
	}
}

// ApplyLayout sets column widths and the height of rows 2..lastRow. Auxiliary
// columns are applied first, then the identifier column, then the target
// column, so the target width always holds. Zero values are left unset.
func ApplyLayout(tx Transformer, sheet string, cols ColumnRef, lastRow int, l Layout) error {
	letters := make([]string, 0, len(l.ColumnWidths))
	for letter := range l.ColumnWidths {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	for _, letter := range letters {
		col, err := excelize.ColumnNameToNumber(letter)
		if err != nil {
			return fmt.Errorf("layout column %q: %w", letter, err)
		}
		if err := setWidth(tx, sheet, col, l.ColumnWidths[letter]); err != nil {
			return err
		}
	}
	if err := setWidth(tx, sheet, cols.Identifier, l.IdentifierWidth); err != nil {
		return err
	}
	if err := setWidth(tx, sheet, cols.Target, l.TargetWidth); err != nil {
		return err
	}

	if l.RowHeight <= 0 {
		return nil
	}
	for row := 2; row <= lastRow; row++ {
		if err := tx.SetRowHeight(sheet, row, l.RowHeight); err != nil {
			return fmt.Errorf("set height of row %d: %w", row, err)
		}
	}
	return nil
}

func setWidth(tx Transformer, sheet string, col int, width float64) error {
	if width <= 0 {
		return nil
	}
	if err := tx.SetColumnWidth(sheet, col, width); err != nil {
		return fmt.Errorf("set width of column %d: %w", col, err)
	}
	return nil
}
