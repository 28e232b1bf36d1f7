package xlembed

// ColumnRef holds the resolved 1-based positions of the identifier and
// image-target columns. Every step after schema resolution works on
// positions, not names.
type ColumnRef struct {
	Identifier     int
	Target         int
	IdentifierName string
	TargetName     string
}

// ResolveSchema locates idName and targetName in the header row by exact
// match, first occurrence.
func ResolveSchema(header []string, idName, targetName string) (ColumnRef, error) {
	if len(header) == 0 {
		return ColumnRef{}, &SchemaError{Empty: true}
	}
	ref := ColumnRef{
		Identifier:     headerIndex(header, idName),
		Target:         headerIndex(header, targetName),
		IdentifierName: idName,
		TargetName:     targetName,
	}

	var missing []string
	if ref.Identifier == 0 {
		missing = append(missing, idName)
	}
	if ref.Target == 0 {
		missing = append(missing, targetName)
	}
	if len(missing) > 0 {
		return ColumnRef{}, &SchemaError{Missing: missing}
	}
	return ref, nil
}

// headerIndex returns the 1-based position of name in header, or 0.
func headerIndex(header []string, name string) int {
	for i, v := range header {
		if v == name {
			return i + 1
		}
	}
	return 0
}

// cellAt returns the value at a 1-based column, or "" past the end of the row.
func cellAt(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return row[col-1]
}
