package mathops

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/gomlx/mathops/tensors"
	"github.com/gomlx/mathops/types/opdef"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	t.Run("forward", func(t *testing.T) {
		b := New(t.Name())
		x := must.M1(b.Input("x"))
		logX := must.M1(b.Log(x))
		y := must.M1(b.Pow(logX, 3))
		must.M(b.Output(y))
		net := must.M1(b.Build())
		fmt.Printf("%s net:\n%s", t.Name(), net)
		assert.Equal(t, `net @TestBuilder/forward(x) -> (t1) {
  t0 = "Log"(x)
  t1 = "Pow"(t0){exponent = 3.0 : f32}
}
`, string(net))
		assert.Len(t, b.Ops(), 2)
		assert.Equal(t, []string{"x"}, b.Inputs())
		assert.Equal(t, []string{"t1"}, b.Outputs())
	})

	t.Run("binary", func(t *testing.T) {
		b := New("binary")
		x := must.M1(b.Input("x"))
		y := must.M1(b.Input("y"))
		prod := must.M1(b.Mul(x, y))
		quot := must.M1(b.Div(prod, y))
		scaled := must.M1(b.Scale(quot, 0.5))
		sqr := must.M1(b.Sqr(scaled))
		must.M(b.Output(sqr))
		ws := tensors.NewWorkspace()
		ws.FeedBlob("x", tensors.FromFlatAndDimensions([]float32{2, 4, 6}, 3))
		ws.FeedBlob("y", tensors.FromFlatAndDimensions([]float32{1, 2, 3}, 3))
		require.NoError(t, b.Run(context.Background(), ws))
		got := must.M1(ws.Blob(sqr))
		assert.Equal(t, []float32{1, 4, 9}, got.Value())
	})

	t.Run("in-place", func(t *testing.T) {
		b := New("in-place")
		x := must.M1(b.Input("x"))
		require.NoError(t, b.AddOp(opdef.CreateOperatorDef("Sqr", "square", []string{x}, []string{x})))
		must.M(b.Output(x))
		assert.Contains(t, b.String(), `x = "Sqr"(x)  // square`)
		ws := tensors.NewWorkspace()
		ws.FeedBlob("x", tensors.FromFlatAndDimensions([]float32{-2, 3}, 2))
		require.NoError(t, b.Run(context.Background(), ws))
		assert.Equal(t, []float32{4, 9}, must.M1(ws.Blob("x")).Value())
	})

	t.Run("normalized names", func(t *testing.T) {
		b := New("names")
		x := must.M1(b.Input("0 input"))
		assert.Equal(t, "_0_input", x)
		_, err := b.Log(x)
		require.NoError(t, err)
	})
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("no operators", func(t *testing.T) {
		b := New("empty")
		_ = must.M1(b.Input("x"))
		_, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `net "empty" has no operators`)
	})

	t.Run("no outputs", func(t *testing.T) {
		b := New("no_outputs")
		_ = must.M1(b.Log(must.M1(b.Input("x"))))
		_, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no outputs")
	})

	t.Run("undefined tensors", func(t *testing.T) {
		b := New("undefined")
		_, err := b.Log("x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `input #0 "x"`)
		require.Error(t, b.Output("x"))
		_ = must.M1(b.Input("x"))
		_, err = b.Input("x")
		require.Error(t, err)
		_, err = b.Input("")
		require.Error(t, err)
	})

	t.Run("schema violations", func(t *testing.T) {
		b := New("schema")
		x := must.M1(b.Input("x"))
		require.Error(t, b.AddOp(opdef.CreateOperatorDef("Exp", "", []string{x}, []string{"y"})))
		require.Error(t, b.AddOp(opdef.CreateOperatorDef("Log", "", []string{x, x}, []string{"y"})))
		require.Error(t, b.AddOp(opdef.CreateOperatorDef("Pow", "", []string{x}, []string{"y"},
			opdef.StringArg("exponent", "two"))))
		assert.Empty(t, b.Ops())
	})

	t.Run("run without inputs", func(t *testing.T) {
		b := New("run")
		_ = must.M1(b.Log(must.M1(b.Input("x"))))
		err := b.Run(context.Background(), tensors.NewWorkspace())
		require.Error(t, err)
		assert.Contains(t, err.Error(), `net "run"`)
	})
}

func TestRunForward(t *testing.T) {
	b := New("forward")
	x := must.M1(b.Input("x"))
	y := must.M1(b.Log(x))
	must.M(b.Output(y))
	ws := tensors.NewWorkspace()
	ws.FeedBlob(x, tensors.FromFlatAndDimensions([]float32{1, math.E, math.E * math.E}, 3))
	require.NoError(t, b.Run(context.Background(), ws))
	flat := must.M1(tensors.Flat[float32](must.M1(ws.Blob(y))))
	assert.InDeltaSlice(t, []float32{0, 1, 2}, flat, 1e-6)
}
