package xlembed

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable report of a run: the resolved columns,
// every embedded image and every soft failure, in row order.
func (r *Result) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sheet: %s (%d data rows)\n", r.Sheet, r.Rows)
	fmt.Fprintf(&b, "  Identifier: %q column %d\n", r.Columns.IdentifierName, r.Columns.Identifier)
	fmt.Fprintf(&b, "  Target:     %q column %d\n", r.Columns.TargetName, r.Columns.Target)

	if len(r.Placements) > 0 {
		fmt.Fprintf(&b, "  Embedded (%d):\n", len(r.Placements))
		for _, p := range r.Placements {
			fmt.Fprintf(&b, "    %s %s %dx%d key=%q\n", p.Cell, p.Asset, p.Width, p.Height, p.Key)
		}
	}
	if len(r.Notices) > 0 {
		fmt.Fprintf(&b, "  Notices (%d):\n", len(r.Notices))
		for _, n := range r.Notices {
			b.WriteString("    ")
			b.WriteString(n.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// NoticesByReason groups notice keys by reason name.
func (r *Result) NoticesByReason() map[string][]string {
	out := make(map[string][]string)
	for _, n := range r.Notices {
		out[n.Reason.String()] = append(out[n.Reason.String()], n.Key)
	}
	return out
}
