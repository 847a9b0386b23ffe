package mathops

import (
	"context"
	"math"
	"testing"

	"github.com/gomlx/mathops/tensors"
	"github.com/gomlx/mathops/types/opdef"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGradientOperators(t *testing.T) {
	// y = ln(x)^3 => dy/dx = 3 ln(x)^2 / x
	b := New("chain")
	x := must.M1(b.Input("x"))
	logX := must.M1(b.Log(x))
	y := must.M1(b.Pow(logX, 3))
	must.M(b.Output(y))
	grads, err := b.AddGradientOperators(map[string]string{y: "dy"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{y: "dy", logX: "t0_grad", x: "x_grad"}, grads)
	assert.Len(t, b.ForwardOps(), 2)
	assert.Len(t, b.GradientOps(), 4)

	net := must.M1(b.Build())
	assert.Equal(t, `net @chain(x) -> (t1) {
  t0 = "Log"(x)
  t1 = "Pow"(t0){exponent = 3.0 : f32}
  // gradients
  t0_grad = "Pow"(t0){exponent = 2.0 : f32}
  t0_grad = "Mul"(t0_grad, dy)
  t0_grad = "Scale"(t0_grad){scale = 3.0 : f32}
  x_grad = "Div"(t0_grad, x)
}
`, string(net))

	xValues := []float32{0.5, 1, 2, 5}
	ws := tensors.NewWorkspace()
	ws.FeedBlob(x, tensors.FromFlatAndDimensions(xValues, len(xValues)))
	ws.FeedBlob("dy", tensors.FromFlatAndDimensions([]float32{1, 1, 1, 1}, 4))
	require.NoError(t, b.Run(context.Background(), ws))
	got := must.M1(tensors.Flat[float32](must.M1(ws.Blob(grads[x]))))
	for ii, v := range xValues {
		lnX := math.Log(float64(v))
		want := 3 * lnX * lnX / float64(v)
		assert.InDelta(t, want, float64(got[ii]), 1e-5, "x=%g", v)
	}

	// Once gradients are added, the net is closed.
	_, err = b.AddGradientOperators(map[string]string{y: "dy"})
	require.Error(t, err)
	_, err = b.Sqr(x)
	require.Error(t, err)
}

func TestAddGradientOperators_Sqr(t *testing.T) {
	b := New("sqr")
	x := must.M1(b.Input("x"))
	y := must.M1(b.Sqr(x))
	grads := must.M1(b.AddGradientOperators(map[string]string{y: "dy"}))
	ws := tensors.NewWorkspace()
	ws.FeedBlob(x, tensors.FromFlatAndDimensions([]float32{1, 2, 3}, 3))
	ws.FeedBlob("dy", tensors.FromFlatAndDimensions([]float32{1, 1, 1}, 3))
	require.NoError(t, b.Run(context.Background(), ws))
	assert.Equal(t, []float32{2, 4, 6}, must.M1(ws.Blob(grads[x])).Value())
	// The upstream gradient is scaled in-place.
	assert.Equal(t, []float32{2, 2, 2}, must.M1(ws.Blob("dy")).Value())
}

func TestAddGradientOperators_Skips(t *testing.T) {
	// z has no gradient flowing into it, so Scale (which has no gradient) is skipped.
	b := New("skip")
	x := must.M1(b.Input("x"))
	y := must.M1(b.Log(x))
	_ = must.M1(b.Scale(x, 2))
	grads, err := b.AddGradientOperators(map[string]string{y: "dy"})
	require.NoError(t, err)
	assert.Equal(t, "x_grad", grads[x])
	require.Len(t, b.GradientOps(), 1)
	assert.Equal(t, "Div", b.GradientOps()[0].Type)
}

func TestAddGradientOperators_Errors(t *testing.T) {
	t.Run("fan-out", func(t *testing.T) {
		b := New("fanout")
		x := must.M1(b.Input("x"))
		y1 := must.M1(b.Log(x))
		y2 := must.M1(b.Sqr(x))
		_, err := b.AddGradientOperators(map[string]string{y1: "dy1", y2: "dy2"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gradient fan-out is not supported")
		assert.Empty(t, b.GradientOps(), "a failed call must leave the net unchanged")
	})

	t.Run("overwritten by later operator", func(t *testing.T) {
		b := New("overwritten")
		x := must.M1(b.Input("x"))
		y := must.M1(b.Log(x))
		require.NoError(t, b.AddOp(opdef.CreateOperatorDef("Sqr", "", []string{x}, []string{x})))
		_, err := b.AddGradientOperators(map[string]string{y: "dy"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `reads "x", but it is overwritten by forward operator #1`)
	})

	t.Run("overwritten in-place", func(t *testing.T) {
		b := New("inplace")
		x := must.M1(b.Input("x"))
		require.NoError(t, b.AddOp(opdef.CreateOperatorDef("Pow", "", []string{x}, []string{x},
			opdef.FloatArg("exponent", 2))))
		_, err := b.AddGradientOperators(map[string]string{x: "dx"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "overwritten by forward operator #0")
	})

	t.Run("no gradient", func(t *testing.T) {
		b := New("nograd")
		x := must.M1(b.Input("x"))
		y := must.M1(b.Scale(x, 2))
		_, err := b.AddGradientOperators(map[string]string{y: "dy"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no gradient registered")
	})

	t.Run("seeds", func(t *testing.T) {
		b := New("seeds")
		x := must.M1(b.Input("x"))
		y := must.M1(b.Log(x))
		_, err := b.AddGradientOperators(nil)
		require.Error(t, err)
		_, err = b.AddGradientOperators(map[string]string{"z": "dz"})
		require.Error(t, err)
		_, err = b.AddGradientOperators(map[string]string{y: x})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "collides with a forward tensor")
	})

	t.Run("seed named as a gradient", func(t *testing.T) {
		b := New("seed_as_gradient")
		x := must.M1(b.Input("x"))
		y := must.M1(b.Pow(x, 3))
		_, err := b.AddGradientOperators(map[string]string{y: "x_grad"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `collides with the gradient of "x"`)
		assert.Empty(t, b.GradientOps())

		// The same net seeded with a free identifier computes 3*x^2*dy.
		grads := must.M1(b.AddGradientOperators(map[string]string{y: "dy"}))
		require.NoError(t, b.Output(y))
		ws := tensors.NewWorkspace()
		ws.FeedBlob(x, tensors.FromFlatAndDimensions([]float32{1, 2, 3}, 3))
		ws.FeedBlob("dy", tensors.FromFlatAndDimensions([]float32{2, 2, 2}, 3))
		require.NoError(t, b.Run(context.Background(), ws))
		got := must.M1(tensors.Flat[float32](must.M1(ws.Blob(grads[x]))))
		assert.InDeltaSlice(t, []float32{6, 24, 54}, got, 1e-4)
	})

	t.Run("seed shared by two tensors", func(t *testing.T) {
		b := New("shared_seed")
		x := must.M1(b.Input("x"))
		z := must.M1(b.Input("z"))
		y1 := must.M1(b.Log(x))
		y2 := must.M1(b.Sqr(z))
		_, err := b.AddGradientOperators(map[string]string{y1: "dy", y2: "dy"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `gradient seed "dy" given to more than one tensor`)
	})

	t.Run("gradient overwrites forward tensor", func(t *testing.T) {
		b := New("collision")
		x := must.M1(b.Input("x"))
		_ = must.M1(b.Input("x_grad"))
		y := must.M1(b.Log(x))
		_, err := b.AddGradientOperators(map[string]string{y: "dy"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `overwrites forward tensor "x_grad"`)
	})
}

// TestCheckGradient compares the emitted gradients with centered finite differences.
func TestCheckGradient(t *testing.T) {
	const tolerance = 1e-3
	x := []float32{0.5, 0.75, 1, 1.5, 2, 2.5, 3}
	for _, def := range []*opdef.OperatorDef{
		opdef.CreateOperatorDef("Log", "", nil, nil),
		opdef.CreateOperatorDef("Sqr", "", nil, nil),
		opdef.CreateOperatorDef("Pow", "", nil, nil, opdef.FloatArg("exponent", 3)),
		opdef.CreateOperatorDef("Pow", "", nil, nil, opdef.FloatArg("exponent", 0.5)),
		opdef.CreateOperatorDef("Pow", "", nil, nil, opdef.FloatArg("exponent", -1.5)),
		opdef.CreateOperatorDef("Pow", "", nil, nil, opdef.FloatArg("exponent", 1)),
	} {
		t.Run(def.String(), func(t *testing.T) {
			check, err := CheckGradient(context.Background(), def, x, 0)
			require.NoError(t, err)
			assert.Len(t, check.Analytical, len(x))
			assert.True(t, check.Ok(tolerance), "max relative error %g > %g: analytical=%v, numerical=%v",
				check.MaxRelError, tolerance, check.Analytical, check.Numerical)
		})
	}

	_, err := CheckGradient(context.Background(), opdef.CreateOperatorDef("Log", "", nil, nil), nil, 0)
	require.Error(t, err)
	_, err = CheckGradient(context.Background(), opdef.CreateOperatorDef("Scale", "", nil, nil), x, 0)
	require.Error(t, err)
}
