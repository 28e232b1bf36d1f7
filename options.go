package xlembed

import "github.com/rs/zerolog"

// Default header labels for the identifier and image-target columns.
const (
	DefaultIdentifierColumn = "Property ID"
	DefaultTargetColumn     = "Screenshot"
)

// Default embedded image size in pixels.
const (
	DefaultImageWidth  = 280
	DefaultImageHeight = 160
)

// Options holds configuration for the Embedder.
type Options struct {
	sheet            string
	identifierColumn string
	targetColumn     string
	layout           Layout
	imageWidth       int
	imageHeight      int
	jpegQuality      int
	maxPixels        int
	assetNameExpr    string
	stagingDir       string
	concurrency      int
	logger           zerolog.Logger
}

func defaultOptions() *Options {
	return &Options{
		identifierColumn: DefaultIdentifierColumn,
		targetColumn:     DefaultTargetColumn,
		layout:           DefaultLayout(),
		imageWidth:       DefaultImageWidth,
		imageHeight:      DefaultImageHeight,
		jpegQuality:      90,
		maxPixels:        DefaultMaxPixels,
		concurrency:      1,
		logger:           zerolog.Nop(),
	}
}

// Option configures the Embedder.
type Option func(*Options)

// WithSheet selects the sheet to process (default: the active sheet).
func WithSheet(name string) Option {
	return func(o *Options) { o.sheet = name }
}

// WithColumns sets the header labels of the identifier and image-target columns.
func WithColumns(identifier, target string) Option {
	return func(o *Options) {
		if identifier != "" {
			o.identifierColumn = identifier
		}
		if target != "" {
			o.targetColumn = target
		}
	}
}

// WithLayout replaces the column widths and row height applied to the sheet.
func WithLayout(l Layout) Option {
	return func(o *Options) { o.layout = l }
}

// WithImageSize sets the forced pixel size of every embedded image.
func WithImageSize(width, height int) Option {
	return func(o *Options) {
		if width > 0 && height > 0 {
			o.imageWidth = width
			o.imageHeight = height
		}
	}
}

// WithJPEGQuality sets the quality used when re-encoding resized images (1-100).
func WithJPEGQuality(q int) Option {
	return func(o *Options) {
		if q >= 1 && q <= 100 {
			o.jpegQuality = q
		}
	}
}

// WithMaxPixels sets the largest source image, in pixels, that is decoded.
// Larger images become ImageDecodeError notices.
func WithMaxPixels(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.maxPixels = n
		}
	}
}

// WithAssetNameExpr derives asset filenames from an expression instead of
// the fixed "part_<key>.jpg" template. The expression sees key, row and cells.
func WithAssetNameExpr(code string) Option {
	return func(o *Options) { o.assetNameExpr = code }
}

// WithStagingDir sets the parent directory for the temporary archive staging area.
func WithStagingDir(dir string) Option {
	return func(o *Options) { o.stagingDir = dir }
}

// WithConcurrency sets the number of workers decoding and resizing images.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger used for stage transitions and row notices.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.logger = l }
}
