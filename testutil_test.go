package xlembed

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var propertyHeader = []any{"Property ID", "Property Name", "Thickness", "MID", "Material Name", "Screenshot"}

// createWorkbook builds an xlsx in memory with header in row 1 and rows below it.
func createWorkbook(t *testing.T, header []any, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		row := row
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// createPropertyWorkbook builds the screenshot workbook used throughout the tests:
//
//	Property ID | Property Name | Thickness | MID | Material Name | Screenshot
//	101         | Bracket       | 2.0       | 5   | Steel         |
//	102         | Plate         | 1.5       | 6   | Aluminium     |
func createPropertyWorkbook(t *testing.T) []byte {
	t.Helper()
	return createWorkbook(t, propertyHeader,
		[]any{101, "Bracket", 2.0, 5, "Steel", ""},
		[]any{102, "Plate", 1.5, 6, "Aluminium", ""},
	)
}

func fillImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

// createTestJPEG generates a w x h JPEG image.
func createTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, fillImage(w, h), nil))
	return buf.Bytes()
}

// createTestPNG generates a w x h PNG image.
func createTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, fillImage(w, h)))
	return buf.Bytes()
}

// createPNGHeader returns a PNG that declares w x h RGB pixels but carries no
// image data. DecodeConfig accepts it; a full decode would allocate the image.
func createPNGHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := func(typ string, data []byte) {
		binary.Write(&buf, binary.BigEndian, uint32(len(data)))
		crc := crc32.NewIEEE()
		crc.Write([]byte(typ))
		crc.Write(data)
		buf.WriteString(typ)
		buf.Write(data)
		binary.Write(&buf, binary.BigEndian, crc.Sum32())
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 2 // truecolor
	chunk("IHDR", ihdr)
	chunk("IEND", nil)
	return buf.Bytes()
}

// createZip builds a zip archive. Names ending in "/" become directory entries.
func createZip(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		if len(files[name]) > 0 {
			_, err = w.Write(files[name])
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// openOutput parses result bytes for assertions.
func openOutput(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

// pictureCells returns the sorted cells holding pictures.
func pictureCells(t *testing.T, f *excelize.File, sheet string) []string {
	t.Helper()
	cells, err := f.GetPictureCells(sheet)
	require.NoError(t, err)
	sort.Strings(cells)
	return cells
}
