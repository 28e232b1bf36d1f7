package xlembed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAssetName(t *testing.T) {
	assert.Equal(t, "part_101.jpg", DefaultAssetName("101"))
	name, err := partNamer{}.AssetName(RowInput{Key: "A-7"})
	require.NoError(t, err)
	assert.Equal(t, "part_A-7.jpg", name)
}

func TestExprNamer(t *testing.T) {
	n, err := NewExprNamer(`"shot_" + key + "_" + string(row) + ".png"`)
	require.NoError(t, err)
	name, err := n.AssetName(RowInput{Row: 3, Key: "102"})
	require.NoError(t, err)
	assert.Equal(t, "shot_102_3.png", name)
}

func TestExprNamer_Cells(t *testing.T) {
	n, err := NewExprNamer(`lower(cells["Material Name"]) + "_" + key + ".jpg"`)
	require.NoError(t, err)
	name, err := n.AssetName(RowInput{Key: "5", Cells: map[string]string{"Material Name": "Steel"}})
	require.NoError(t, err)
	assert.Equal(t, "steel_5.jpg", name)
}

func TestExprNamer_CompileError(t *testing.T) {
	_, err := NewExprNamer(`"part_" + `)
	assert.Error(t, err)
}

func TestExprNamer_MustBeString(t *testing.T) {
	_, err := NewExprNamer(`row + 1`)
	assert.Error(t, err)
}

func TestNewNamer_Default(t *testing.T) {
	n, err := newNamer(defaultOptions())
	require.NoError(t, err)
	assert.IsType(t, partNamer{}, n)
}
