// Package types defines the closed set of Phoenix types and the
// unifier that joins types produced on different control-flow paths.
//
// The type language is deliberately tiny: four scalars plus
// fixed-length homogeneous lists. There is no unknown or dynamic
// state; every value a verified program manipulates has exactly one
// of these types, decided at verification time.
package types

import "fmt"

// Kind discriminates the closed Type variant.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindList
	KindUnit // result of a function with no return statements
)

// String returns the surface-language name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "str"
	case KindList:
		return "list"
	case KindUnit:
		return "unit"
	default:
		return "invalid"
	}
}

// Type is a closed tagged variant: Int | Float | Bool | String |
// List(element, length) | Unit. Lists are fixed-length and homogeneous
// by construction. The zero value is invalid.
type Type struct {
	Kind   Kind
	Elem   *Type // list element type, nil otherwise
	Length int   // list length, fixed at construction
}

// Predeclared scalar types.
var (
	Int    = Type{Kind: KindInt}
	Float  = Type{Kind: KindFloat}
	Bool   = Type{Kind: KindBool}
	String = Type{Kind: KindString}
	Unit   = Type{Kind: KindUnit}
)

// ListOf returns the type of a fixed-length homogeneous list.
func ListOf(elem Type, length int) Type {
	e := elem
	return Type{Kind: KindList, Elem: &e, Length: length}
}

// IsValid reports whether t is one of the closed variants.
func (t Type) IsValid() bool { return t.Kind != KindInvalid }

// IsNumeric reports whether t is int or float.
func (t Type) IsNumeric() bool { return t.Kind == KindInt || t.Kind == KindFloat }

// IsScalar reports whether t is a non-list, non-unit value type.
func (t Type) IsScalar() bool {
	switch t.Kind {
	case KindInt, KindFloat, KindBool, KindString:
		return true
	}
	return false
}

// Equal reports structural identity: same kind, and for lists the same
// element type and the same length.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind == KindList {
		return t.Length == other.Length && t.Elem.Equal(*other.Elem)
	}
	return true
}

// String returns the surface-language spelling of the type.
func (t Type) String() string {
	if t.Kind == KindList {
		return fmt.Sprintf("list[%s, %d]", t.Elem.String(), t.Length)
	}
	return t.Kind.String()
}
