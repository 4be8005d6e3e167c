package diagnostic

import (
	"strings"
	"testing"

	"github.com/phoenix-lang/phoenix/internal/position"
)

func spanAt(line, col int) position.Span {
	return position.NewSpan(position.Position{Filename: "test.px", Line: line, Column: col, Offset: 0}, 1)
}

func TestStringRendering(t *testing.T) {
	d := New(TypeMutationError, spanAt(2, 1), "Variable '%s' changed type (%s → %s)", "x", "int", "str")
	want := "PhoenixError: Variable 'x' changed type (int → str)"
	if d.String() != want {
		t.Errorf("String() = %q, want %q", d.String(), want)
	}
}

func TestCodeRendering(t *testing.T) {
	d := New(NonStaticLoopBoundError, spanAt(3, 10), "whatever")
	want := "(NonStaticLoopBoundError, test.px:3:10)"
	if d.Code() != want {
		t.Errorf("Code() = %q, want %q", d.Code(), want)
	}
}

func TestListAccumulatesInOrder(t *testing.T) {
	var l List
	if l.HasErrors() {
		t.Fatal("empty list reports errors")
	}
	l.Add(SyntaxError, spanAt(1, 1), "first")
	l.Add(TypeMismatchError, spanAt(2, 1), "second")
	if !l.HasErrors() || len(l) != 2 {
		t.Fatalf("len = %d, want 2", len(l))
	}
	if l[0].Message != "first" || l[1].Message != "second" {
		t.Error("diagnostics out of order")
	}
}

func TestReporterShowsLineAndCaret(t *testing.T) {
	src := position.NewSourceFile("test.px", "x = 5\nx = \"hello\"\n")
	r := NewReporter(src)
	d := New(TypeMutationError, spanAt(2, 1), "Variable 'x' changed type (int → str)")
	got := r.Format(d)

	for _, want := range []string{
		"PhoenixError: Variable 'x' changed type (int → str)",
		"--> test.px:2:1",
		"x = \"hello\"",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rendering missing %q:\n%s", want, got)
		}
	}
	lines := strings.Split(got, "\n")
	last := lines[len(lines)-1]
	if !strings.HasSuffix(last, "^") {
		t.Errorf("last line %q is not a caret line", last)
	}
}

func TestReporterWithoutSourceStillRenders(t *testing.T) {
	r := NewReporter(nil)
	d := New(SyntaxError, spanAt(1, 1), "boom")
	got := r.Format(d)
	if !strings.Contains(got, "PhoenixError: boom") {
		t.Errorf("rendering = %q", got)
	}
}
