package operators

import (
	"fmt"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/gomlx/mathops/kernels"
	"github.com/gomlx/mathops/tensors"
	"github.com/gomlx/mathops/types/opdef"
	"github.com/pkg/errors"
)

// FloatType lists the element types the templates can be instantiated with.
type FloatType interface {
	float32 | float64
}

// UnaryKernel computes y from x, both with n elements. x and y may be the same buffer.
type UnaryKernel[T FloatType] func(n int, x, y []T, ctx *kernels.CPUContext) error

// BinaryKernel computes y from a and b, all with n elements. y may be the same buffer as a or b.
type BinaryKernel[T FloatType] func(n int, a, b, y []T, ctx *kernels.CPUContext) error

// describe returns the operator type, and its instance name if it has one.
func describe(def *opdef.OperatorDef) string {
	if def.Name == "" {
		return fmt.Sprintf("%q", def.Type)
	}
	return fmt.Sprintf("%q (%s)", def.Type, def.Name)
}

// bindTensors fetches the numInputs inputs of def from the workspace and creates its numOutputs outputs.
func bindTensors(def *opdef.OperatorDef, ws *tensors.Workspace, numInputs, numOutputs int) (
	inputs, outputs []*tensors.Tensor, err error) {
	if len(def.Inputs) != numInputs || len(def.Outputs) != numOutputs {
		err = errors.Errorf("operator %s requires %d inputs and %d outputs, got %d and %d",
			describe(def), numInputs, numOutputs, len(def.Inputs), len(def.Outputs))
		return
	}
	inputs = make([]*tensors.Tensor, numInputs)
	for ii, name := range def.Inputs {
		inputs[ii], err = ws.Blob(name)
		if err != nil {
			err = errors.WithMessagef(err, "input #%d of operator %s", ii, describe(def))
			return
		}
	}
	outputs = make([]*tensors.Tensor, numOutputs)
	for ii, name := range def.Outputs {
		outputs[ii] = ws.CreateBlob(name)
	}
	return
}

// checkDType returns an error if the input is not initialized or its dtype is not T.
func checkDType[T FloatType](def *opdef.OperatorDef, ii int, input *tensors.Tensor) error {
	if !input.IsInitialized() {
		return errors.Errorf("operator %s: input #%d (%q) is not initialized", describe(def), ii, def.Inputs[ii])
	}
	if want := dtypes.FromGenericsType[T](); input.DType() != want {
		return errors.Errorf("operator %s: input #%d (%q) has dtype %s, but only %s is supported",
			describe(def), ii, def.Inputs[ii], input.DType(), want)
	}
	return nil
}

// unaryOp is the Operator created by the unary templates.
type unaryOp[T FloatType] struct {
	def    *opdef.OperatorDef
	x, y   *tensors.Tensor
	kernel UnaryKernel[T]
}

// UnaryElementwiseOp returns a Factory of operators with one input and one output of the same shape,
// that apply kernel to the flat data. The input dtype must be T.
//
// If the input and the output are the same identifier, the kernel runs in-place.
func UnaryElementwiseOp[T FloatType](kernel UnaryKernel[T]) Factory {
	return UnaryElementwiseWithArgsOp[T](func(*opdef.ArgumentHelper) UnaryKernel[T] { return kernel })
}

// UnaryElementwiseWithArgsOp is like UnaryElementwiseOp, but the kernel is built from the operator's
// arguments when the operator is created.
func UnaryElementwiseWithArgsOp[T FloatType](newKernel func(args *opdef.ArgumentHelper) UnaryKernel[T]) Factory {
	return func(def *opdef.OperatorDef, ws *tensors.Workspace) (Operator, error) {
		inputs, outputs, err := bindTensors(def, ws, 1, 1)
		if err != nil {
			return nil, err
		}
		return &unaryOp[T]{
			def:    def,
			x:      inputs[0],
			y:      outputs[0],
			kernel: newKernel(opdef.NewArgumentHelper(def)),
		}, nil
	}
}

// Def implements Operator.
func (op *unaryOp[T]) Def() *opdef.OperatorDef { return op.def }

// Run implements Operator.
func (op *unaryOp[T]) Run(ctx *kernels.CPUContext) error {
	if err := checkDType[T](op.def, 0, op.x); err != nil {
		return err
	}
	if err := op.y.ResizeLike(op.x); err != nil {
		return errors.WithMessagef(err, "operator %s", describe(op.def))
	}
	x, err := tensors.Flat[T](op.x)
	if err != nil {
		return errors.WithMessagef(err, "operator %s", describe(op.def))
	}
	y, err := tensors.Flat[T](op.y)
	if err != nil {
		return errors.WithMessagef(err, "operator %s", describe(op.def))
	}
	if err = op.kernel(len(x), x, y, ctx); err != nil {
		return errors.WithMessagef(err, "operator %s", describe(op.def))
	}
	return nil
}

// binaryOp is the Operator created by BinaryElementwiseOp.
type binaryOp[T FloatType] struct {
	def     *opdef.OperatorDef
	a, b, y *tensors.Tensor
	kernel  BinaryKernel[T]
}

// BinaryElementwiseOp returns a Factory of operators with two inputs of the same shape and one output of
// that shape, that apply kernel to the flat data. The inputs dtype must be T.
//
// The output may be the same identifier as either input.
func BinaryElementwiseOp[T FloatType](kernel BinaryKernel[T]) Factory {
	return func(def *opdef.OperatorDef, ws *tensors.Workspace) (Operator, error) {
		inputs, outputs, err := bindTensors(def, ws, 2, 1)
		if err != nil {
			return nil, err
		}
		return &binaryOp[T]{def: def, a: inputs[0], b: inputs[1], y: outputs[0], kernel: kernel}, nil
	}
}

// Def implements Operator.
func (op *binaryOp[T]) Def() *opdef.OperatorDef { return op.def }

// Run implements Operator.
func (op *binaryOp[T]) Run(ctx *kernels.CPUContext) error {
	for ii, input := range []*tensors.Tensor{op.a, op.b} {
		if err := checkDType[T](op.def, ii, input); err != nil {
			return err
		}
	}
	if !op.a.Shape().Equal(op.b.Shape()) {
		return errors.Errorf("operator %s: inputs must have the same shape, got %s and %s",
			describe(op.def), op.a.Shape(), op.b.Shape())
	}
	if op.y != op.b {
		if err := op.y.ResizeLike(op.a); err != nil {
			return errors.WithMessagef(err, "operator %s", describe(op.def))
		}
	}
	a, err := tensors.Flat[T](op.a)
	if err != nil {
		return errors.WithMessagef(err, "operator %s", describe(op.def))
	}
	b, err := tensors.Flat[T](op.b)
	if err != nil {
		return errors.WithMessagef(err, "operator %s", describe(op.def))
	}
	y, err := tensors.Flat[T](op.y)
	if err != nil {
		return errors.WithMessagef(err, "operator %s", describe(op.def))
	}
	if err = op.kernel(len(a), a, b, y, ctx); err != nil {
		return errors.WithMessagef(err, "operator %s", describe(op.def))
	}
	return nil
}
