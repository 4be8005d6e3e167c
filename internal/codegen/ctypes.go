package codegen

import (
	"strconv"
	"strings"

	"github.com/phoenix-lang/phoenix/internal/types"
)

// cType returns the C11 spelling of a Phoenix type. The table is
// closed: the verifier guarantees no other kind reaches emission.
// Lists have no single-token spelling in C; callers that can hold a
// list use cDecl or cParam instead.
func cType(t types.Type) string {
	switch t.Kind {
	case types.KindInt:
		return "int"
	case types.KindFloat:
		return "double"
	case types.KindBool:
		return "bool"
	case types.KindString:
		return "const char *"
	case types.KindUnit:
		return "void"
	case types.KindList:
		return cType(*t.Elem)
	}
	return "int"
}

// cDecl returns the declarator for a named variable of type t, e.g.
// "int x" or "int values[4]".
func cDecl(name string, t types.Type) string {
	if t.Kind == types.KindList {
		return cType(*t.Elem) + " " + name + "[" + strconv.Itoa(t.Length) + "]"
	}
	base := cType(t)
	if strings.HasSuffix(base, "*") {
		return base + name
	}
	return base + " " + name
}

// printfFormat returns the printf conversion for one scalar type.
// Booleans print as 0/1; the C side has no native bool formatting.
func printfFormat(t types.Type) string {
	switch t.Kind {
	case types.KindFloat:
		return "%f"
	case types.KindString:
		return "%s"
	default:
		return "%d"
	}
}

// cQuote renders a string literal as a C string constant.
func cQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
