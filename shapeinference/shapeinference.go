// Package shapeinference calculates the shape resulting from operations and validates its inputs.
//
// It defines a UnaryOp function for the element-wise unary operators: they don't change the shape
// of their operand. BinaryOp handles the element-wise binary operators, which require operands of
// the same shape (no broadcasting).
package shapeinference

import (
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/mathops/internal/optypes"
	"github.com/gomlx/mathops/internal/utils"
	"github.com/gomlx/mathops/types/shapes"
	"github.com/pkg/errors"
)

var (
	// NumberOperations can take any type of number as input: integers or floats.
	NumberOperations = utils.SetWith(
		optypes.Sqr,
		optypes.Mul,
		optypes.Div,
		optypes.Scale,
	)

	// FloatOperations operates only on floats.
	FloatOperations = utils.SetWith(
		optypes.Log,
		optypes.Pow,
	)

	// StandardUnaryOperations include all operations that have a single operand as input, and the return shape is the
	// same as the input.
	StandardUnaryOperations = utils.SetWith(
		optypes.Log,
		optypes.Sqr,
		optypes.Pow,
		optypes.Scale,
	)

	// StandardBinaryOperations include all operations that have two operands of the same shape, usually named
	// lhs (left-hand-side) and rhs (right-hand-side).
	StandardBinaryOperations = utils.SetWith(
		optypes.Mul,
		optypes.Div,
	)
)

// checkDType validates the data type of an operand for the class of the operation.
func checkDType(opType optypes.OpType, shape shapes.Shape) error {
	if shape.DType == dtypes.InvalidDType {
		return errors.Errorf("invalid shape %s for %q", shape, opType)
	}
	if FloatOperations.Has(opType) && !shape.DType.IsFloat() {
		return errors.Errorf("float operation %s must have a float (Float32, Float64, ...) data type as input, got %s",
			opType, shape)
	}
	if NumberOperations.Has(opType) && !(shape.DType.IsInt() || shape.DType.IsFloat()) {
		return errors.Errorf("numeric operation %s must have a number (Int32, Float32, ...) data type as input, got %s",
			opType, shape)
	}
	return nil
}

// UnaryOp returns the expected output shape for ops in the StandardUnaryOperations set: the same as the operand.
//
// It returns an error if the data type (shape.DType) is invalid for the operation -- e.g.: Log of an integer.
func UnaryOp(opType optypes.OpType, operand shapes.Shape) (output shapes.Shape, err error) {
	if !StandardUnaryOperations.Has(opType) {
		err = errors.Errorf("operation %s is not in the StandardUnaryOperations set, cannot process it with UnaryOp", opType)
		return
	}
	if err = checkDType(opType, operand); err != nil {
		return
	}
	return operand.Clone(), nil
}

// BinaryOp returns the expected output shape for ops in the StandardBinaryOperations set.
//
// Both operands must have the same shape: the output has that shape too.
func BinaryOp(opType optypes.OpType, lhsShape, rhsShape shapes.Shape) (output shapes.Shape, err error) {
	if !StandardBinaryOperations.Has(opType) {
		err = errors.Errorf("operation %s is not in the StandardBinaryOperations set, cannot process it with BinaryOp", opType)
		return
	}
	if lhsShape.DType == dtypes.InvalidDType || rhsShape.DType == dtypes.InvalidDType {
		err = errors.Errorf("invalid shape for %s or %s for %q", lhsShape, rhsShape, opType)
		return
	}
	if !lhsShape.Equal(rhsShape) {
		err = errors.Errorf("shapes for %q must match, got %s and %s", opType, lhsShape, rhsShape)
		return
	}
	if err = checkDType(opType, lhsShape); err != nil {
		return
	}
	return lhsShape.Clone(), nil
}
