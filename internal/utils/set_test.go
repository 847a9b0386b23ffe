package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	// Sets are created empty.
	s := MakeSet[int](10)
	assert.Len(t, s, 0)

	// Check inserting and recovery.
	s.Insert(3, 7)
	assert.Len(t, s, 2)
	assert.True(t, s.Has(3))
	assert.True(t, s.Has(7))
	assert.False(t, s.Has(5))

	s2 := SetWith(5, 7, 7)
	assert.Len(t, s2, 2)
	assert.True(t, s2.Has(5))
	assert.False(t, s2.Has(3))

	delete(s, 7)
	assert.Len(t, s, 1)
	assert.False(t, s.Has(7))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"x", "x_grad", "y"}, SortedKeys(SetWith("x_grad", "x", "y")))
	assert.Empty(t, SortedKeys(MakeSet[int]()))
	assert.Equal(t, []string{"Log", "Pow", "Sqr"}, SortedKeys(map[string]int{"Sqr": 1, "Log": 2, "Pow": 3}))
}
