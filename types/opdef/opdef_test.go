package opdef

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOperatorDef(t *testing.T) {
	inputs := []string{"x"}
	outputs := []string{"x_grad"}
	exponent := FloatArg("exponent", 2)
	def := CreateOperatorDef("Pow", "", inputs, outputs, exponent)

	// Changing the caller's values must not change the definition.
	inputs[0] = "changed"
	outputs[0] = "changed"
	assert.Equal(t, []string{"x"}, def.Inputs)
	assert.Equal(t, []string{"x_grad"}, def.Outputs)

	floats := FloatsArg("values", 1, 2)
	def2 := CreateOperatorDef("Noop", "", nil, nil, floats)
	floats.Floats[0] = 10
	assert.Equal(t, []float32{1, 2}, def2.Args[0].Floats)

	// No arguments stays nil.
	assert.Nil(t, CreateOperatorDef("Mul", "", []string{"a", "b"}, []string{"c"}).Args)
}

func TestOperatorDef_Equal(t *testing.T) {
	a := CreateOperatorDef("Scale", "", []string{"g"}, []string{"g"}, FloatArg("scale", 2))
	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.Args[0].F = 3
	assert.False(t, a.Equal(b))
	assert.Equal(t, float32(2), a.Args[0].F, "Clone must not share arguments")

	c := a.Clone()
	c.Name = "named"
	assert.False(t, a.Equal(c))

	// nil vs empty lists.
	d := &OperatorDef{Type: "Div", Inputs: []string{"g", "x"}, Outputs: []string{"x_grad"}, Args: []Argument{}}
	e := CreateOperatorDef("Div", "", []string{"g", "x"}, []string{"x_grad"})
	assert.True(t, d.Equal(e))

	var nilDef *OperatorDef
	assert.False(t, nilDef.Equal(e))
	assert.True(t, nilDef.Equal(nil))

	// NaN arguments compare by bits.
	nan := float32(math.NaN())
	assert.True(t, FloatArg("scale", nan).Equal(FloatArg("scale", nan)))
	assert.False(t, FloatArg("scale", 1).Equal(IntArg("scale", 1)))
}

func TestOperatorDef_Write(t *testing.T) {
	def := CreateOperatorDef("Pow", "", []string{"x"}, []string{"x_grad"}, FloatArg("exponent", 2))
	assert.Equal(t, `x_grad = "Pow"(x){exponent = 2.0 : f32}`, def.String())

	def = CreateOperatorDef("Mul", "grad_mul", []string{"x_grad", "y_grad"}, []string{"x_grad"})
	assert.Equal(t, `x_grad = "Mul"(x_grad, y_grad)  // grad_mul`, def.String())

	def = CreateOperatorDef("Scale", "", []string{"g"}, []string{"g"}, FloatArg("scale", 0.5), IntArg("axis", -1),
		StringArg("mode", "fast"), IntsArg("dims", 1, 2))
	assert.Equal(t, `g = "Scale"(g){scale = 0.5 : f32, axis = -1 : i64, mode = "fast", dims = [1, 2] : i64}`, def.String())

	def = CreateOperatorDef("Print", "", []string{"x"}, nil)
	assert.Equal(t, `"Print"(x)`, def.String())
}

func TestArgumentHelper(t *testing.T) {
	def := CreateOperatorDef("Pow", "", []string{"x"}, []string{"y"},
		FloatArg("exponent", 3), IntArg("count", 7), StringArg("mode", "exact"),
		FloatArg("exponent", 100), FloatsArg("fs", 1, 2), IntsArg("is", 3))
	h := NewArgumentHelper(def)

	assert.True(t, h.Has("exponent"))
	assert.False(t, h.Has("scale"))
	assert.Equal(t, float32(3), h.Float("exponent", 0), "first argument with a name wins")
	assert.Equal(t, float32(7), h.Float("count", 0), "ints are widened to floats")
	assert.Equal(t, float32(1.5), h.Float("scale", 1.5))
	assert.Equal(t, float32(-1), h.Float("mode", -1), "strings can't be read as floats")
	assert.Equal(t, int64(7), h.Int("count", 0))
	assert.Equal(t, int64(9), h.Int("exponent", 9))
	assert.Equal(t, "exact", h.String("mode", ""))
	assert.Equal(t, "none", h.String("missing", "none"))
	assert.Equal(t, []float32{1, 2}, h.Floats("fs"))
	assert.Nil(t, h.Floats("is"))
	assert.Equal(t, []int64{3}, h.Ints("is"))

	require.Equal(t, float32(3), GetSingleArgument(def, "exponent", float32(0)))
	require.Equal(t, float32(0), GetSingleArgument(CreateOperatorDef("Pow", "", nil, nil), "exponent", float32(0)))
	require.Equal(t, int64(7), GetSingleArgument(def, "count", int64(0)))
	require.Equal(t, "exact", GetSingleArgument(def, "mode", ""))
}

func TestArgumentKindNames(t *testing.T) {
	assert.Equal(t, "Float", ArgFloat.String())
	kind, err := ArgumentKindString("strings")
	require.NoError(t, err)
	assert.Equal(t, ArgStrings, kind)
}
