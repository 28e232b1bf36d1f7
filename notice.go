package xlembed

import "fmt"

// Reason classifies a per-row soft failure.
type Reason int

const (
	AssetMissing     Reason = iota + 1 // no asset with the expected filename
	ImageDecodeError                   // asset found but could not be decoded or embedded
)

// String returns the reason name used in reports.
func (r Reason) String() string {
	switch r {
	case AssetMissing:
		return "AssetMissing"
	case ImageDecodeError:
		return "ImageDecodeError"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the reason by name.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Notice is a soft failure recorded for one data row. The run continues and
// the output workbook is still produced.
type Notice struct {
	Row    int    `json:"row"` // 1-based sheet row
	Key    string `json:"key"`
	Asset  string `json:"asset"`
	Reason Reason `json:"reason"`
	Err    error  `json:"-"`
	Error  string `json:"error,omitempty"` // Err text, set when the notice is recorded
}

// String formats the notice as `row 3 key "102": AssetMissing (part_102.jpg)`.
func (n Notice) String() string {
	s := fmt.Sprintf("row %d key %q: %s (%s)", n.Row, n.Key, n.Reason, n.Asset)
	if n.Err != nil {
		s += ": " + n.Err.Error()
	}
	return s
}

// Placement records one embedded image.
type Placement struct {
	Row    int    `json:"row"`
	Key    string `json:"key"`
	Asset  string `json:"asset"`
	Cell   string `json:"cell"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
