// Package tensors implements the host tensor storage: a Tensor is a shape plus a flat Go slice holding its
// values in row-major order, and a Workspace holds the tensors of a net, indexed by their identifiers.
package tensors

import (
	"fmt"
	"reflect"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/mathops/types/shapes"
	"github.com/pkg/errors"
)

// Tensor is a dense tensor stored in host memory.
//
// The zero value is an empty (uninitialized) tensor: it has an invalid shape and no storage, and it is
// what Workspace.CreateBlob returns for a new blob. Operators give it a shape with ResizeLike.
type Tensor struct {
	shape shapes.Shape

	// flat holds the values: a slice of the Go type of shape.DType, with at least shape.Size() elements.
	flat any
}

// FromShape returns a Tensor with the given shape, with the data initialized with zeros.
func FromShape(shape shapes.Shape) *Tensor {
	if !shape.Ok() {
		exceptions.Panicf("tensors.FromShape(%s): invalid shape", shape)
	}
	t := &Tensor{}
	t.resize(shape)
	return t
}

// FromFlatAndDimensions creates a tensor with the given dimensions, filled with a copy of flat.
// The DType is inferred from T.
//
// It panics if the size of the dimensions doesn't match len(flat).
func FromFlatAndDimensions[T dtypes.Supported](flat []T, dimensions ...int) *Tensor {
	shape := shapes.Make(dtypes.FromGenericsType[T](), dimensions...)
	if len(flat) != shape.Size() {
		exceptions.Panicf("tensors.FromFlatAndDimensions(%s): data has %d elements, but dimensions size is %d",
			shape, len(flat), shape.Size())
	}
	t := FromShape(shape)
	copy(t.flat.([]T), flat)
	return t
}

// FromAnyValue creates a tensor from a scalar or a (multi-level) slice of scalars with regular dimensions.
//
// Example:
//
//	t, err := tensors.FromAnyValue([][]float32{{1, 2}, {3, 4}})
func FromAnyValue(value any) (*Tensor, error) {
	if t, ok := value.(*Tensor); ok {
		return t, nil
	}
	shape, err := shapes.FromAnyValue(value)
	if err != nil {
		return nil, errors.WithMessagef(err, "tensors.FromAnyValue(%T)", value)
	}
	t := FromShape(shape)
	flatV := reflect.ValueOf(t.flat)
	elemT := flatV.Type().Elem()
	pos := 0
	var copyRecursively func(v reflect.Value)
	copyRecursively = func(v reflect.Value) {
		if v.Kind() != reflect.Slice {
			// Go int is stored as int64 (or int32), so values may need a conversion.
			flatV.Index(pos).Set(v.Convert(elemT))
			pos++
			return
		}
		if v.Type().Elem() == elemT {
			pos += reflect.Copy(flatV.Slice(pos, flatV.Len()), v)
			return
		}
		for ii := range v.Len() {
			copyRecursively(v.Index(ii))
		}
	}
	copyRecursively(reflect.ValueOf(value))
	return t, nil
}

// Shape of the tensor. It is invalid for an uninitialized tensor.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType of the tensor's elements.
func (t *Tensor) DType() dtypes.DType { return t.shape.DType }

// Size is the number of elements of the tensor.
func (t *Tensor) Size() int {
	if !t.shape.Ok() {
		return 0
	}
	return t.shape.Size()
}

// IsInitialized returns whether the tensor has a shape and storage.
func (t *Tensor) IsInitialized() bool {
	return t.shape.Ok() && t.flat != nil
}

// Flat returns the storage of the tensor as a []T, with exactly t.Size() elements.
//
// The returned slice is not a copy: changes to it change the tensor.
func Flat[T dtypes.Supported](t *Tensor) ([]T, error) {
	if !t.IsInitialized() {
		return nil, errors.New("tensor is not initialized")
	}
	flat, ok := t.flat.([]T)
	if !ok {
		return nil, errors.Errorf("tensor has dtype %s, but it was accessed as %s",
			t.shape.DType, dtypes.FromGenericsType[T]())
	}
	return flat[:t.shape.Size()], nil
}

// Value returns a copy of the flat values of the tensor (e.g.: []float32), or nil if it is not initialized.
func (t *Tensor) Value() any {
	if !t.IsInitialized() {
		return nil
	}
	flatV := reflect.ValueOf(t.flat).Slice(0, t.shape.Size())
	cloneV := reflect.MakeSlice(flatV.Type(), flatV.Len(), flatV.Len())
	reflect.Copy(cloneV, flatV)
	return cloneV.Interface()
}

// ResizeLike gives t the shape of other, reusing its storage if the dtype is the same and it is large
// enough. The contents are undefined afterwards, except when t and other are the same tensor.
func (t *Tensor) ResizeLike(other *Tensor) error {
	if !other.shape.Ok() {
		return errors.New("cannot resize like an uninitialized tensor")
	}
	if t == other {
		return nil
	}
	t.resize(other.shape)
	return nil
}

// resize sets the shape, reallocating the storage when needed.
func (t *Tensor) resize(shape shapes.Shape) {
	size := shape.Size()
	if t.flat != nil && t.shape.DType == shape.DType && reflect.ValueOf(t.flat).Cap() >= size {
		t.flat = reflect.ValueOf(t.flat).Slice(0, size).Interface()
	} else {
		t.flat = reflect.MakeSlice(reflect.SliceOf(shape.DType.GoType()), size, size).Interface()
	}
	t.shape = shape.Clone()
}

// CopyFrom makes t a copy of other: same shape and values.
func (t *Tensor) CopyFrom(other *Tensor) error {
	if !other.IsInitialized() {
		return errors.New("cannot copy from an uninitialized tensor")
	}
	if t == other {
		return nil
	}
	t.resize(other.shape)
	reflect.Copy(reflect.ValueOf(t.flat), reflect.ValueOf(other.flat).Slice(0, other.shape.Size()))
	return nil
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	clone := &Tensor{}
	if t.IsInitialized() {
		_ = clone.CopyFrom(t)
	}
	return clone
}

// String implements fmt.Stringer. It prints the compact shape followed by the values.
func (t *Tensor) String() string {
	if !t.IsInitialized() {
		return "<uninitialized>"
	}
	return fmt.Sprintf("%s%v", t.shape.Compact(), t.Value())
}
