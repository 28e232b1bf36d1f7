package xlembed

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestResizeImage_ForcesDimensions(t *testing.T) {
	for _, tc := range []struct {
		name string
		data []byte
		fmt  string
	}{
		{"jpeg wide", createTestJPEG(t, 640, 100), "jpeg"},
		{"jpeg small", createTestJPEG(t, 8, 8), "jpeg"},
		{"png tall", createTestPNG(t, 50, 400), "png"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, format, err := ResizeImage(tc.data, 280, 160, 90, DefaultMaxPixels)
			require.NoError(t, err)
			assert.Equal(t, tc.fmt, format)

			cfg, outFormat, err := image.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, "jpeg", outFormat)
			assert.Equal(t, 280, cfg.Width)
			assert.Equal(t, 160, cfg.Height)
		})
	}
}

func TestResizeImage_Garbage(t *testing.T) {
	_, _, err := ResizeImage([]byte("not an image"), 280, 160, 90, DefaultMaxPixels)
	assert.Error(t, err)
}

func TestResizeImage_Truncated(t *testing.T) {
	data := createTestJPEG(t, 64, 64)
	_, _, err := ResizeImage(data[:len(data)/3], 280, 160, 90, DefaultMaxPixels)
	assert.Error(t, err)
}

func TestResizeImage_TooLarge(t *testing.T) {
	_, format, err := ResizeImage(createPNGHeader(40000, 40000), 280, 160, 90, DefaultMaxPixels)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errImageTooLarge))
	assert.Equal(t, "png", format)

	_, _, err = ResizeImage(createTestJPEG(t, 20, 20), 280, 160, 90, 399)
	assert.True(t, errors.Is(err, errImageTooLarge))
	_, _, err = ResizeImage(createTestJPEG(t, 20, 20), 280, 160, 90, 400)
	assert.NoError(t, err)
}

func TestResizeImage_TransparentBecomesWhite(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, image.NewNRGBA(image.Rect(0, 0, 20, 20))))

	out, _, err := ResizeImage(src.Bytes(), 10, 10, 90, DefaultMaxPixels)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	r, g, b, _ := img.At(5, 5).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestPlaceImage(t *testing.T) {
	f := excelize.NewFile()
	tx := NewExcelizeTransformer(f)
	defer tx.Close()

	img, _, err := ResizeImage(createTestPNG(t, 10, 10), 280, 160, 90, DefaultMaxPixels)
	require.NoError(t, err)

	cell, err := PlaceImage(tx, "Sheet1", 6, 2, img)
	require.NoError(t, err)
	assert.Equal(t, "F2", cell)

	pics, err := f.GetPictures("Sheet1", "F2")
	require.NoError(t, err)
	require.Len(t, pics, 1)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(pics[0].File))
	require.NoError(t, err)
	assert.Equal(t, 280, cfg.Width)
	assert.Equal(t, 160, cfg.Height)
}

func TestPlaceImage_InvalidCoordinates(t *testing.T) {
	tx := NewExcelizeTransformer(excelize.NewFile())
	defer tx.Close()
	_, err := PlaceImage(tx, "Sheet1", 0, 2, []byte{})
	assert.Error(t, err)
}
