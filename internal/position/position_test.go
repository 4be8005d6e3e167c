package position

import "testing"

func at(line, col, off int) Position {
	return Position{Filename: "test.px", Line: line, Column: col, Offset: off}
}

func TestPositionString(t *testing.T) {
	if got := at(3, 7, 20).String(); got != "test.px:3:7" {
		t.Errorf("String() = %q", got)
	}
	anon := Position{Line: 1, Column: 2}
	if got := anon.String(); got != "1:2" {
		t.Errorf("String() = %q", got)
	}
}

func TestSpanUnion(t *testing.T) {
	a := NewSpan(at(1, 1, 0), 3)
	b := NewSpan(at(1, 9, 8), 2)
	u := a.Union(b)
	if u.Start != a.Start {
		t.Errorf("union start = %v, want %v", u.Start, a.Start)
	}
	if u.End != b.End {
		t.Errorf("union end = %v, want %v", u.End, b.End)
	}
	var invalid Span
	if got := a.Union(invalid); got != a {
		t.Errorf("union with invalid span = %v, want %v", got, a)
	}
}

func TestSourceFileLine(t *testing.T) {
	sf := NewSourceFile("test.px", "first\nsecond\nthird\n")
	if got := sf.Line(2); got != "second" {
		t.Errorf("Line(2) = %q", got)
	}
	if got := sf.Line(0); got != "" {
		t.Errorf("Line(0) = %q, want empty", got)
	}
	if got := sf.Line(99); got != "" {
		t.Errorf("Line(99) = %q, want empty", got)
	}
}
