package xlembed

import "fmt"

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Embed will fail
	SeverityWarning                 // Embed succeeds but rows may stay empty
)

// ValidationIssue is a single problem found while checking the inputs.
type ValidationIssue struct {
	Severity Severity
	Row      int // 1-based sheet row, 0 for workbook-wide issues
	Message  string
}

// String formats the issue as "[WARN] row 3: message" or "[ERROR] message".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	if v.Row > 0 {
		return fmt.Sprintf("[%s] row %d: %s", sev, v.Row, v.Message)
	}
	return fmt.Sprintf("[%s] %s", sev, v.Message)
}

// Validate checks a workbook and archive pair without producing output.
// A malformed archive or unreadable workbook returns an error; schema
// problems, duplicate keys and unmatched assets are returned as issues.
func Validate(workbook, archive []byte, opts ...Option) ([]ValidationIssue, error) {
	return NewEmbedder(opts...).Validate(workbook, archive)
}

// Validate performs the checks of the package-level Validate.
func (e *Embedder) Validate(workbook, archive []byte) ([]ValidationIssue, error) {
	if e.namerErr != nil {
		return []ValidationIssue{{Severity: SeverityError, Message: e.namerErr.Error()}}, nil
	}
	store, err := loadAssets(archive, e.opts.stagingDir)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	tx, err := OpenWorkbook(workbook)
	if err != nil {
		return nil, err
	}
	defer tx.Close()

	sheet, rows, err := e.readSheet(tx)
	if err != nil {
		return nil, err
	}
	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	cols, err := ResolveSchema(header, e.opts.identifierColumn, e.opts.targetColumn)
	if err != nil {
		return []ValidationIssue{{Severity: SeverityError, Message: fmt.Sprintf("sheet %q: %v", sheet, err)}}, nil
	}

	var issues []ValidationIssue
	issues = append(issues, validateHeader(header, cols)...)

	b := &binder{store: store, namer: e.namer, cols: cols, header: header}
	used := make(map[string]bool)
	firstRow := make(map[string]int)
	for i := 1; i < len(rows); i++ {
		rowNum := i + 1
		rb, notice, ok, err := b.bind(rowNum, rows[i])
		if err != nil {
			return nil, err
		}
		key := cellAt(rows[i], cols.Identifier)
		if key == "" {
			continue
		}
		if prev, dup := firstRow[key]; dup {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning, Row: rowNum,
				Message: fmt.Sprintf("key %q repeats row %d; both rows receive the same image", key, prev),
			})
		} else {
			firstRow[key] = rowNum
		}
		if notice != nil {
			issues = append(issues, ValidationIssue{Severity: SeverityWarning, Row: rowNum, Message: notice.String()})
			continue
		}
		if ok {
			used[rb.asset] = true
		}
	}

	var unused []string
	for _, name := range store.Names() {
		if !used[name] {
			unused = append(unused, name)
		}
	}
	for _, name := range unused {
		issues = append(issues, ValidationIssue{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("asset %q matches no row", name),
		})
	}
	return issues, nil
}

// validateHeader warns when a required label appears more than once; only
// the first occurrence is used.
func validateHeader(header []string, cols ColumnRef) []ValidationIssue {
	var issues []ValidationIssue
	for _, name := range []string{cols.IdentifierName, cols.TargetName} {
		count := 0
		for _, v := range header {
			if v == name {
				count++
			}
		}
		if count > 1 {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning, Row: 1,
				Message: fmt.Sprintf("column %q appears %d times; using column %d", name, count, headerIndex(header, name)),
			})
		}
	}
	return issues
}
