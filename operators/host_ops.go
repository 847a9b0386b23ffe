package operators

import (
	"github.com/gomlx/mathops/internal/optypes"
	"github.com/gomlx/mathops/kernels"
	"github.com/gomlx/mathops/schema"
	"github.com/gomlx/mathops/types/opdef"
)

// Host operators used by the emitted gradients.

// scaleFunctor reads the "scale" argument (1 if absent) and returns the Scale kernel for it.
func scaleFunctor[T FloatType](args *opdef.ArgumentHelper) UnaryKernel[T] {
	scale := T(args.Float("scale", 1))
	return func(n int, x, y []T, ctx *kernels.CPUContext) error {
		return kernels.Scale(n, scale, x, y, ctx)
	}
}

func init() {
	DefaultRegistry.Register(optypes.Mul.String(), BinaryElementwiseOp[float32](kernels.Mul[float32]))
	DefaultRegistry.Register(optypes.Div.String(), BinaryElementwiseOp[float32](kernels.Div[float32]))
	DefaultRegistry.Register(optypes.Scale.String(), UnaryElementwiseWithArgsOp[float32](scaleFunctor[float32]))

	schema.Register(optypes.Mul.String()).
		NumInputs(2).
		NumOutputs(1).
		AllowInplace(schema.InplacePair{Input: 0, Output: 0}, schema.InplacePair{Input: 1, Output: 0}).
		IdenticalTypeAndShapeOfInput(0).
		SetDoc("Performs element-wise multiplication of A and B, which must have the same shape.").
		Input(0, "A", "First operand").
		Input(1, "B", "Second operand, with the same shape and type as A").
		Output(0, "C", "Result, with the same shape and type as A")

	schema.Register(optypes.Div.String()).
		NumInputs(2).
		NumOutputs(1).
		AllowInplace(schema.InplacePair{Input: 0, Output: 0}, schema.InplacePair{Input: 1, Output: 0}).
		IdenticalTypeAndShapeOfInput(0).
		SetDoc("Performs element-wise division of A by B, which must have the same shape.").
		Input(0, "A", "Dividend").
		Input(1, "B", "Divisor, with the same shape and type as A").
		Output(0, "C", "Result, with the same shape and type as A")

	schema.Register(optypes.Scale.String()).
		NumInputs(1).
		NumOutputs(1).
		Arg("scale", "(float, default 1.0) the scale to apply.", opdef.ArgFloat).
		AllowInplace(schema.InplacePair{Input: 0, Output: 0}).
		IdenticalTypeAndShape().
		SetDoc(`Scale takes one input data (Tensor<float>) and produces one output data (Tensor<float>) whose
value is the input data tensor scaled element-wise.`).
		Input(0, "input", "Input tensor").
		Output(0, "output", "Scaled input tensor")
}
