package mathops

import (
	"context"
	"math"
	"slices"

	"github.com/gomlx/mathops/tensors"
	"github.com/gomlx/mathops/types/opdef"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
)

// DefaultGradientCheckStep is the finite-difference step used by CheckGradient when step <= 0.
const DefaultGradientCheckStep = 5e-3

// GradientCheck is the result of CheckGradient.
type GradientCheck struct {
	// Def is the forward operator checked.
	Def *opdef.OperatorDef

	// X are the values where the gradient was evaluated.
	X []float32

	// Analytical is the gradient computed by the emitted gradient operators, Numerical the centered
	// finite-difference estimate.
	Analytical, Numerical []float64

	// MaxRelError is the largest relative difference between Analytical and Numerical.
	MaxRelError float64
}

// Ok returns whether MaxRelError is within tolerance.
func (c *GradientCheck) Ok(tolerance float64) bool {
	return c.MaxRelError <= tolerance
}

// CheckGradient compares the gradient emitted for the element-wise unary operator def with a centered
// finite-difference estimate of the derivative of its forward computation, evaluated at each value of x.
//
// Only the type and arguments of def are used: the net built has input "x" and output "y".
func CheckGradient(ctx context.Context, def *opdef.OperatorDef, x []float32, step float64) (*GradientCheck, error) {
	if len(x) == 0 {
		return nil, errors.New("CheckGradient requires at least one value")
	}
	if step <= 0 {
		step = DefaultGradientCheckStep
	}
	forwardDef := opdef.CreateOperatorDef(def.Type, def.Name, []string{"x"}, []string{"y"}, def.Args...)

	// Analytical: run forward and backward with an upstream gradient of ones.
	b := New("check_" + def.Type)
	if _, err := b.Input("x"); err != nil {
		return nil, err
	}
	if err := b.AddOp(forwardDef); err != nil {
		return nil, err
	}
	if err := b.Output("y"); err != nil {
		return nil, err
	}
	grads, err := b.AddGradientOperators(map[string]string{"y": "dy"})
	if err != nil {
		return nil, err
	}
	ones := make([]float32, len(x))
	for ii := range ones {
		ones[ii] = 1
	}
	ws := tensors.NewWorkspace()
	ws.FeedBlob("x", tensors.FromFlatAndDimensions(slices.Clone(x), len(x)))
	ws.FeedBlob("dy", tensors.FromFlatAndDimensions(ones, len(ones)))
	if err = b.Run(ctx, ws); err != nil {
		return nil, err
	}
	gradBlob, err := ws.Blob(grads["x"])
	if err != nil {
		return nil, err
	}
	gradFlat, err := tensors.Flat[float32](gradBlob)
	if err != nil {
		return nil, err
	}

	check := &GradientCheck{
		Def:        def,
		X:          slices.Clone(x),
		Analytical: make([]float64, len(x)),
		Numerical:  make([]float64, len(x)),
	}
	for ii, v := range gradFlat {
		check.Analytical[ii] = float64(v)
	}

	// Numerical: the forward net evaluated on single values.
	fwd := New("check_forward_" + def.Type)
	_, _ = fwd.Input("x")
	if err = fwd.AddOp(forwardDef); err != nil {
		return nil, err
	}
	var evalErr error
	f := func(v float64) float64 {
		fws := tensors.NewWorkspace()
		fws.FeedBlob("x", tensors.FromFlatAndDimensions([]float32{float32(v)}, 1))
		if err := fwd.Run(ctx, fws); err != nil {
			evalErr = err
			return math.NaN()
		}
		y, _ := fws.Blob("y")
		flat, err := tensors.Flat[float32](y)
		if err != nil {
			evalErr = err
			return math.NaN()
		}
		return float64(flat[0])
	}
	settings := &fd.Settings{Formula: fd.Central, Step: step}
	for ii, v := range x {
		check.Numerical[ii] = fd.Derivative(f, float64(v), settings)
		if evalErr != nil {
			return nil, errors.WithMessagef(evalErr, "evaluating %s at %g", def.Type, v)
		}
		check.MaxRelError = math.Max(check.MaxRelError, relativeError(check.Analytical[ii], check.Numerical[ii]))
	}
	return check, nil
}

// relativeError returns |a-b| / max(|a|, |b|), or 0 if both are 0.
func relativeError(a, b float64) float64 {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return math.Abs(a-b) / scale
}
