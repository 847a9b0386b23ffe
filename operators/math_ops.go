package operators

import (
	"github.com/gomlx/mathops/gradient"
	"github.com/gomlx/mathops/internal/optypes"
	"github.com/gomlx/mathops/kernels"
	"github.com/gomlx/mathops/schema"
	"github.com/gomlx/mathops/types/opdef"
)

// powFunctor reads the "exponent" argument (0 if absent) and returns the Pow kernel for it.
func powFunctor[T FloatType](args *opdef.ArgumentHelper) UnaryKernel[T] {
	exponent := T(args.Float("exponent", 0))
	return func(n int, x, y []T, ctx *kernels.CPUContext) error {
		return kernels.Pow(n, x, exponent, y, ctx)
	}
}

func init() {
	DefaultRegistry.Register(optypes.Log.String(), UnaryElementwiseOp[float32](kernels.Log[float32]))
	DefaultRegistry.Register(optypes.Sqr.String(), UnaryElementwiseOp[float32](kernels.Sqr[float32]))
	DefaultRegistry.Register(optypes.Pow.String(), UnaryElementwiseWithArgsOp[float32](powFunctor[float32]))

	schema.Register(optypes.Log.String()).
		NumInputs(1).
		NumOutputs(1).
		AllowInplace(schema.InplacePair{Input: 0, Output: 0}).
		IdenticalTypeAndShape().
		SetDoc(`Calculates the natural log of the given input tensor, element-wise. This operation can be done
in an in-place fashion too, by providing the same input and output blobs.`).
		Input(0, "input", "Input tensor").
		Output(0, "output", "The natural log of the input tensor computed element-wise")

	schema.Register(optypes.Sqr.String()).
		NumInputs(1).
		NumOutputs(1).
		AllowInplace(schema.InplacePair{Input: 0, Output: 0}).
		IdenticalTypeAndShape().
		SetDoc("Square (x^2) the elements of the input").
		Input(0, "input", "Input tensor").
		Output(0, "output", "Squared elements of the input")

	schema.Register(optypes.Pow.String()).
		NumInputs(1).
		NumOutputs(1).
		Arg("exponent", "The exponent of the power function.", opdef.ArgFloat).
		AllowInplace(schema.InplacePair{Input: 0, Output: 0}).
		IdenticalTypeAndShape().
		SetDoc(`Pow takes input data (Tensor<T>) and an argument exponent, and produces one output data
(Tensor<T>) where the function f(x) = x^exponent, is applied to the data tensor element-wise.`).
		Input(0, "X", "Input tensor of any shape").
		Output(0, "Y", "Output tensor (same size as X)")

	gradient.Register(optypes.Log.String(), func(base *gradient.Base) gradient.Maker { return &logGradient{base} })
	gradient.Register(optypes.Sqr.String(), func(base *gradient.Base) gradient.Maker { return &sqrGradient{base} })
	gradient.Register(optypes.Pow.String(), func(base *gradient.Base) gradient.Maker { return &powGradient{base} })
}

// logGradient: y = ln(x) => dx = dy / x.
type logGradient struct {
	*gradient.Base
}

func (g *logGradient) GetGradientDefs() []*opdef.OperatorDef {
	return []*opdef.OperatorDef{
		opdef.CreateOperatorDef(optypes.Div.String(), "", []string{g.GO(0), g.I(0)}, []string{g.GI(0)}),
	}
}

// sqrGradient: y = x^2 => dx = 2 * x * dy.
//
// GO(0) is scaled in-place: it must have no other consumer.
type sqrGradient struct {
	*gradient.Base
}

func (g *sqrGradient) GetGradientDefs() []*opdef.OperatorDef {
	return []*opdef.OperatorDef{
		opdef.CreateOperatorDef(optypes.Scale.String(), "", []string{g.GO(0)}, []string{g.GO(0)},
			opdef.FloatArg("scale", 2)),
		opdef.CreateOperatorDef(optypes.Mul.String(), "", []string{g.GO(0), g.I(0)}, []string{g.GI(0)}),
	}
}

// powGradient: y = x^e => dx = e * x^(e-1) * dy.
//
// GI(0) is used as scratch space for x^(e-1). The forward "exponent" is not copied to the emitted
// operators.
type powGradient struct {
	*gradient.Base
}

func (g *powGradient) GetGradientDefs() []*opdef.OperatorDef {
	exponent := opdef.GetSingleArgument(g.Def(), "exponent", float32(0))
	return []*opdef.OperatorDef{
		opdef.CreateOperatorDef(optypes.Pow.String(), "", []string{g.I(0)}, []string{g.GI(0)},
			opdef.FloatArg("exponent", exponent-1)),
		opdef.CreateOperatorDef(optypes.Mul.String(), "", []string{g.GI(0), g.GO(0)}, []string{g.GI(0)}),
		opdef.CreateOperatorDef(optypes.Scale.String(), "", []string{g.GI(0)}, []string{g.GI(0)},
			opdef.FloatArg("scale", exponent)),
	}
}

func (g *powGradient) CopyArguments() bool { return false }
