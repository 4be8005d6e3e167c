package diagnostic

import (
	"fmt"
	"strings"

	"github.com/phoenix-lang/phoenix/internal/position"
)

// Reporter formats diagnostics for presentation. It is a pure
// formatting leaf: it never inspects or re-derives program state,
// only renders what the verifier recorded.
type Reporter struct {
	source *position.SourceFile
}

// NewReporter creates a reporter over the given source file, which is
// used to show the offending line under each diagnostic.
func NewReporter(source *position.SourceFile) *Reporter {
	return &Reporter{source: source}
}

// Format renders one diagnostic: the PhoenixError line, the locator,
// the offending source line, and a caret under the column.
func (r *Reporter) Format(d Diagnostic) string {
	var b strings.Builder
	b.WriteString(d.String())

	pos := d.Span.Start
	if !pos.IsValid() {
		return b.String()
	}

	b.WriteString(fmt.Sprintf("\n  --> %s", pos))

	line := ""
	if r.source != nil {
		line = r.source.Line(pos.Line)
	}
	if line != "" {
		b.WriteString("\n   |")
		b.WriteString(fmt.Sprintf("\n%2d | %s", pos.Line, strings.TrimRight(line, " \t")))
		b.WriteString(fmt.Sprintf("\n   | %s^", strings.Repeat(" ", pos.Column-1)))
	}
	return b.String()
}

// FormatAll renders every diagnostic in order, blank-line separated.
func (r *Reporter) FormatAll(list List) string {
	parts := make([]string, 0, len(list))
	for _, d := range list {
		parts = append(parts, r.Format(d))
	}
	return strings.Join(parts, "\n\n")
}
