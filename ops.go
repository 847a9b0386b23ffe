package mathops

import (
	"github.com/gomlx/mathops/internal/optypes"
	"github.com/gomlx/mathops/types/opdef"
)

// addOp adds a new operator of the given type with a single new output, and returns the output identifier.
func (b *Builder) addOp(opType optypes.OpType, inputs []string, args ...opdef.Argument) (string, error) {
	output := b.newTmpID()
	def := opdef.CreateOperatorDef(opType.String(), "", inputs, []string{output}, args...)
	if err := b.AddOp(def); err != nil {
		return "", err
	}
	return output, nil
}

// Log adds the natural logarithm of x, element-wise.
func (b *Builder) Log(x string) (string, error) {
	return b.addOp(optypes.Log, []string{x})
}

// Sqr adds x squared, element-wise.
func (b *Builder) Sqr(x string) (string, error) {
	return b.addOp(optypes.Sqr, []string{x})
}

// Pow adds x raised to exponent, element-wise.
func (b *Builder) Pow(x string, exponent float32) (string, error) {
	return b.addOp(optypes.Pow, []string{x}, opdef.FloatArg("exponent", exponent))
}

// Mul adds the element-wise product of lhs and rhs, which must have the same shape.
func (b *Builder) Mul(lhs, rhs string) (string, error) {
	return b.addOp(optypes.Mul, []string{lhs, rhs})
}

// Div adds the element-wise division of lhs by rhs, which must have the same shape.
func (b *Builder) Div(lhs, rhs string) (string, error) {
	return b.addOp(optypes.Div, []string{lhs, rhs})
}

// Scale adds x multiplied by the scalar scale.
func (b *Builder) Scale(x string, scale float32) (string, error) {
	return b.addOp(optypes.Scale, []string{x}, opdef.FloatArg("scale", scale))
}
