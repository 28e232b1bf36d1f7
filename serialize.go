package xlembed

import (
	"bytes"
	"fmt"
)

// Serialize writes the workbook into a new buffer and returns its bytes.
func Serialize(tx Transformer) ([]byte, error) {
	var buf bytes.Buffer
	if err := tx.Write(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialize, err)
	}
	return buf.Bytes(), nil
}
