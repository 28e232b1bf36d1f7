package xlembed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestApplyLayout_Default(t *testing.T) {
	f := excelize.NewFile()
	tx := NewExcelizeTransformer(f)
	defer tx.Close()

	cols := ColumnRef{Identifier: 1, Target: 6}
	require.NoError(t, ApplyLayout(tx, "Sheet1", cols, 4, DefaultLayout()))

	widths := map[string]float64{"A": 15, "B": 80, "D": 5, "E": 10, "F": 50}
	for col, want := range widths {
		got, err := f.GetColWidth("Sheet1", col)
		require.NoError(t, err)
		assert.Equal(t, want, got, "column %s", col)
	}
	for row := 2; row <= 4; row++ {
		h, err := f.GetRowHeight("Sheet1", row)
		require.NoError(t, err)
		assert.Equal(t, 120.0, h, "row %d", row)
	}
	h, err := f.GetRowHeight("Sheet1", 1)
	require.NoError(t, err)
	assert.NotEqual(t, 120.0, h, "header row keeps its height")
}

func TestApplyLayout_TargetWinsOverAuxiliary(t *testing.T) {
	f := excelize.NewFile()
	tx := NewExcelizeTransformer(f)
	defer tx.Close()

	// Target sits in D, which the default layout narrows to 5.
	cols := ColumnRef{Identifier: 1, Target: 4}
	require.NoError(t, ApplyLayout(tx, "Sheet1", cols, 2, DefaultLayout()))

	w, err := f.GetColWidth("Sheet1", "D")
	require.NoError(t, err)
	assert.Equal(t, 50.0, w)
}

func TestApplyLayout_DefaultWidensFWhenTargetElsewhere(t *testing.T) {
	f := excelize.NewFile()
	tx := NewExcelizeTransformer(f)
	defer tx.Close()

	cols := ColumnRef{Identifier: 1, Target: 3}
	require.NoError(t, ApplyLayout(tx, "Sheet1", cols, 2, DefaultLayout()))

	for col, want := range map[string]float64{"C": 50, "F": 50} {
		got, err := f.GetColWidth("Sheet1", col)
		require.NoError(t, err)
		assert.Equal(t, want, got, "column %s", col)
	}
}

func TestApplyLayout_ZeroValuesLeftUnset(t *testing.T) {
	f := excelize.NewFile()
	tx := NewExcelizeTransformer(f)
	defer tx.Close()

	before, err := f.GetColWidth("Sheet1", "A")
	require.NoError(t, err)

	require.NoError(t, ApplyLayout(tx, "Sheet1", ColumnRef{Identifier: 1, Target: 2}, 3, Layout{TargetWidth: 30}))

	after, err := f.GetColWidth("Sheet1", "A")
	require.NoError(t, err)
	assert.Equal(t, before, after)
	w, err := f.GetColWidth("Sheet1", "B")
	require.NoError(t, err)
	assert.Equal(t, 30.0, w)
}

func TestApplyLayout_InvalidColumnLetter(t *testing.T) {
	tx := NewExcelizeTransformer(excelize.NewFile())
	defer tx.Close()

	l := Layout{ColumnWidths: map[string]float64{"1A": 10}}
	err := ApplyLayout(tx, "Sheet1", ColumnRef{Identifier: 1, Target: 2}, 2, l)
	assert.Error(t, err)
}
