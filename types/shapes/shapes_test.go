package shapes

import (
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	if invalidShape.Ok() {
		t.Error("Invalid().Ok() should be false")
	}

	shape0 := Make(dtypes.Float64)
	if !shape0.Ok() {
		t.Error("shape0.Ok() should be true")
	}
	if !shape0.IsScalar() {
		t.Error("shape0.IsScalar() should be true")
	}
	if shape0.Rank() != 0 {
		t.Errorf("shape0.Rank() = %d, want 0", shape0.Rank())
	}
	if shape0.Size() != 1 {
		t.Errorf("shape0.Size() = %d, want 1", shape0.Size())
	}
	if int(shape0.Memory()) != 8 {
		t.Errorf("shape0.Memory() = %d, want 8", int(shape0.Memory()))
	}

	shape1 := Make(dtypes.Float32, 4, 3, 2)
	if shape1.IsScalar() {
		t.Error("shape1.IsScalar() should be false")
	}
	if shape1.Rank() != 3 {
		t.Errorf("shape1.Rank() = %d, want 3", shape1.Rank())
	}
	if shape1.Size() != 4*3*2 {
		t.Errorf("shape1.Size() = %d, want %d", shape1.Size(), 4*3*2)
	}
	if int(shape1.Memory()) != 4*4*3*2 {
		t.Errorf("shape1.Memory() = %d, want %d", int(shape1.Memory()), 4*4*3*2)
	}

	// Clone is deep.
	shape2 := shape1.Clone()
	shape2.Dimensions[0] = 7
	if shape1.Dimensions[0] != 4 {
		t.Errorf("Clone() shares dimensions with the original: %s", shape1)
	}
	if shape1.Equal(shape2) {
		t.Errorf("%s and %s should not be equal", shape1, shape2)
	}
	if !shape1.Equal(Make(dtypes.Float32, 4, 3, 2)) {
		t.Errorf("%s should be equal to itself", shape1)
	}
	if shape1.Equal(Make(dtypes.Float64, 4, 3, 2)) {
		t.Errorf("shapes with different dtypes should not be equal")
	}
	if !shape1.EqualDimensions(Make(dtypes.Float64, 4, 3, 2)) {
		t.Errorf("EqualDimensions should ignore dtypes")
	}
}

func TestCompact(t *testing.T) {
	if got := Make(dtypes.Float32, 1, 10).Compact(); got != "f32[1x10]" {
		t.Errorf("Compact() = %q, want %q", got, "f32[1x10]")
	}
	if got := Make(dtypes.Int32).Compact(); got != "i32[]" {
		t.Errorf("Compact() = %q, want %q", got, "i32[]")
	}
}

func TestFromAnyValue(t *testing.T) {
	shape, err := FromAnyValue([][]float32{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatalf("FromAnyValue failed: %+v", err)
	}
	if !shape.Equal(Make(dtypes.Float32, 2, 3)) {
		t.Errorf("FromAnyValue() = %s, want (Float32)[2 3]", shape)
	}

	shape, err = FromAnyValue(float32(7))
	if err != nil {
		t.Fatalf("FromAnyValue failed: %+v", err)
	}
	if !shape.IsScalar() || shape.DType != dtypes.Float32 {
		t.Errorf("FromAnyValue(float32) = %s, want scalar Float32", shape)
	}

	if _, err = FromAnyValue([][]float32{{1, 2}, {3}}); err == nil {
		t.Error("expected error for irregular sub-slices, got nil")
	}
	if _, err = FromAnyValue([]float32{}); err == nil {
		t.Error("expected error for empty slice, got nil")
	}
	if _, err = FromAnyValue(nil); err == nil {
		t.Error("expected error for nil, got nil")
	}
}
