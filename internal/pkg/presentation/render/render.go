package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/insurdesk/backoffice/internal/pkg/application/console"
	"github.com/insurdesk/backoffice/pkg/records"
)

// ResultSet writes the records of the last dispatched operation as a
// table, one row per record, values formatted by the schema codec.
func ResultSet(w io.Writer, s records.Schema, resultSet []records.Record) {
	if resultSet == nil {
		fmt.Fprintln(w, "no results")
		return
	}

	if len(resultSet) == 0 {
		fmt.Fprintf(w, "no %s found\n", s.Resource)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	labels := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		labels = append(labels, strings.ToUpper(f.Label))
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))

	for _, r := range resultSet {
		values := make([]string, 0, len(s.Fields))
		for _, f := range s.Fields {
			value := s.FormatValue(f.Name, r[f.Name])
			if f.Kind == records.KindEnum {
				value = statusGlyph(value) + value
			}
			values = append(values, value)
		}
		fmt.Fprintln(tw, strings.Join(values, "\t"))
	}

	tw.Flush()
}

// Screen writes the state of a screen: selected operation, search key
// and the draft fields the operation exposes for editing.
func Screen(w io.Writer, sc *console.Screen) {
	s := sc.Schema()

	fmt.Fprintf(w, "%s screen, %s mode\n", strings.ToLower(s.Type), sc.Mode())

	key := sc.SearchKey()
	if key == "" {
		key = "(all)"
	}
	fmt.Fprintf(w, "%s: %s\n", s.KeyField().Label, key)

	editable := sc.Mode().EditableFields(s)
	if len(editable) == 0 {
		return
	}

	draft := sc.Draft()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, f := range editable {
		fmt.Fprintf(tw, "  %s\t%s\n", f.Label, s.FormatValue(f.Name, draft[f.Name]))
	}
	tw.Flush()
}

func statusGlyph(status string) string {
	switch status {
	case "Approved":
		return "✓ "
	case "Rejected":
		return "✗ "
	case "Pending":
		return "· "
	}
	return ""
}
