// Package optypes defines OpType and lists the operator types built into mathops.
//
// Operator registries are keyed by the type name (OpType.String()), so operators registered
// by users don't need an OpType value. These are the ones the forward bindings and the
// emitted gradients use.
package optypes

// OpType is an enum of the built-in operator types.
type OpType int

//go:generate go tool enumer -type=OpType -output=gen_optype_enumer.go optypes.go

const (
	Invalid OpType = iota

	// Log computes the natural logarithm, element-wise.
	Log

	// Sqr squares its input, element-wise.
	Sqr

	// Pow raises its input to the power given by the "exponent" argument, element-wise.
	Pow

	// Mul multiplies two tensors of the same shape, element-wise.
	Mul

	// Div divides the first tensor by the second, element-wise.
	Div

	// Scale multiplies its input by the "scale" argument.
	Scale

	// Last should always be kept the last, it is used as a counter/marker.
	Last
)

// Builtin returns all the valid built-in operator types, in declaration order.
func Builtin() []OpType {
	ops := make([]OpType, 0, int(Last)-1)
	for op := Invalid + 1; op < Last; op++ {
		ops = append(ops, op)
	}
	return ops
}
