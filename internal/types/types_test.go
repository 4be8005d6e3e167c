package types

import "testing"

func TestEqualIsStructural(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same scalar", Int, Int, true},
		{"different scalars", Int, Float, false},
		{"same list", ListOf(Int, 4), ListOf(Int, 4), true},
		{"different element", ListOf(Int, 4), ListOf(Float, 4), false},
		{"different length", ListOf(Int, 4), ListOf(Int, 5), false},
		{"nested lists", ListOf(ListOf(Int, 2), 3), ListOf(ListOf(Int, 2), 3), true},
		{"unit vs int", Unit, Int, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestUnifyRejectsPromotion(t *testing.T) {
	if _, ok := Unify(Int, Float); ok {
		t.Fatal("Unify(int, float) succeeded; there is no implicit promotion")
	}
	joined, ok := Unify(Int, Int)
	if !ok || !joined.Equal(Int) {
		t.Fatalf("Unify(int, int) = %s, %v", joined, ok)
	}
	if _, ok := Unify(ListOf(Int, 4), ListOf(Int, 5)); ok {
		t.Fatal("lists of different lengths unified")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		t    Type
		want string
	}{
		{Int, "int"},
		{Float, "float"},
		{Bool, "bool"},
		{String, "str"},
		{Unit, "unit"},
		{ListOf(Int, 4), "list[int, 4]"},
		{ListOf(ListOf(Float, 2), 3), "list[list[float, 2], 3]"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestPredicates(t *testing.T) {
	if !Int.IsNumeric() || !Float.IsNumeric() {
		t.Error("int and float must be numeric")
	}
	if Bool.IsNumeric() || String.IsNumeric() {
		t.Error("bool and str are not numeric")
	}
	if !String.IsScalar() || ListOf(Int, 1).IsScalar() || Unit.IsScalar() {
		t.Error("scalar predicate wrong")
	}
	var zero Type
	if zero.IsValid() {
		t.Error("zero value must be invalid")
	}
}
