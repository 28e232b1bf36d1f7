package xlembed

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/xuri/excelize/v2"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	errEmptyImage    = errors.New("image has no pixels")
	errImageTooLarge = errors.New("image exceeds pixel limit")
)

// DefaultMaxPixels caps the decoded size of a source image.
const DefaultMaxPixels = 50_000_000

// ResizeImage decodes data in any registered format, scales it to exactly
// width x height pixels and re-encodes it as JPEG. The aspect ratio is not
// preserved and transparent areas are flattened onto white. Sources whose
// header declares more than maxPixels pixels are rejected before decoding;
// maxPixels <= 0 disables the check. It also returns the detected source
// format.
func ResizeImage(data []byte, width, height, quality, maxPixels int) ([]byte, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, format, fmt.Errorf("%w: %dx%d > %d", errImageTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if src.Bounds().Empty() {
		return nil, format, errEmptyImage
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, format, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), format, nil
}

// PlaceImage anchors img at the top-left of the cell at (col, row), both
// 1-based, and returns the cell name. The cell itself is not resized.
func PlaceImage(tx Transformer, sheet string, col, row int, img []byte) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	if err := tx.AddImage(sheet, cell, img, "JPEG", 1.0, 1.0); err != nil {
		return "", fmt.Errorf("add image at %s: %w", cell, err)
	}
	return cell, nil
}
