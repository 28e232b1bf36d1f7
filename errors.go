package xlembed

import (
	"errors"
	"fmt"
	"strings"
)

// ErrArchive indicates the asset archive is not a well-formed zip file.
var ErrArchive = errors.New("invalid asset archive")

// ErrSchema indicates a required header column is missing.
var ErrSchema = errors.New("required column not found")

// ErrWorkbook indicates the input workbook could not be read.
var ErrWorkbook = errors.New("unreadable workbook")

// ErrSerialize indicates the output workbook could not be written.
var ErrSerialize = errors.New("serialize workbook")

// SchemaError reports the header columns that could not be resolved.
type SchemaError struct {
	Sheet   string
	Missing []string // column names absent from the header row
	Empty   bool     // header row itself is missing
}

func (e *SchemaError) Error() string {
	if e.Empty {
		return fmt.Sprintf("sheet %q: header row is empty", e.Sheet)
	}
	quoted := make([]string, len(e.Missing))
	for i, name := range e.Missing {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("sheet %q: column %s not found in header row", e.Sheet, strings.Join(quoted, ", "))
}

// Is reports ErrSchema as the sentinel for every SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// Kind classifies a hard failure for callers that surface it to users.
// It returns "archive", "schema", "workbook", "serialize" or "internal".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrArchive):
		return "archive"
	case errors.Is(err, ErrSchema):
		return "schema"
	case errors.Is(err, ErrWorkbook):
		return "workbook"
	case errors.Is(err, ErrSerialize):
		return "serialize"
	default:
		return "internal"
	}
}
