package types

// Unify merges two types produced on different control-flow paths
// into one. It succeeds only when the two are structurally identical;
// for lists that means equal element type and equal length. There is
// no implicit numeric promotion here: int and float never unify, so a
// branch join or a return join can never silently widen a type.
//
// The caller owns the failure report; the verifier turns a false
// result into the diagnostic appropriate for the join site
// (branch mismatch, return mismatch, or plain type mismatch) carrying
// both types and both contributing locations.
func Unify(a, b Type) (Type, bool) {
	if !a.IsValid() || !b.IsValid() {
		return Type{}, false
	}
	if a.Equal(b) {
		return a, true
	}
	return Type{}, false
}
