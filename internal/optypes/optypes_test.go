package optypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpTypeNames(t *testing.T) {
	assert.Equal(t, "Log", Log.String())
	assert.Equal(t, "Scale", Scale.String())
	op, err := OpTypeString("pow")
	require.NoError(t, err)
	assert.Equal(t, Pow, op)
	_, err = OpTypeString("Exp")
	require.Error(t, err)
}

func TestBuiltin(t *testing.T) {
	assert.Equal(t, []OpType{Log, Sqr, Pow, Mul, Div, Scale}, Builtin())
}
