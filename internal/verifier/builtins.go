package verifier

import "github.com/phoenix-lang/phoenix/internal/types"

// Builtin is one entry in the fixed builtin registry: the accepted
// argument types, the result type, and the C header the generated
// code needs when the builtin is used.
type Builtin struct {
	Name      string // dotted surface name, e.g. "math.sqrt"
	Params    []types.Type
	Result    types.Type
	Header    string // required C header, empty if none
	AnyScalar bool   // print accepts any single scalar
}

// builtins is the closed registry. An unrecognized call name is an
// UnknownBuiltinError; nothing is looked up dynamically.
var builtins = map[string]*Builtin{
	"print": {
		Name:      "print",
		AnyScalar: true,
		Result:    types.Unit,
		Header:    "<stdio.h>",
	},
	"int": {
		Name:   "int",
		Params: []types.Type{types.Float},
		Result: types.Int,
	},
	"math.sqrt": {
		Name:   "math.sqrt",
		Params: []types.Type{types.Float},
		Result: types.Float,
		Header: "<math.h>",
	},
}

// LookupBuiltin returns the registry entry for a dotted call name.
func LookupBuiltin(name string) (*Builtin, bool) {
	b, ok := builtins[name]
	return b, ok
}
