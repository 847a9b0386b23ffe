package operators

import (
	"context"

	"github.com/gomlx/mathops/kernels"
	"github.com/gomlx/mathops/schema"
	"github.com/gomlx/mathops/tensors"
	"github.com/gomlx/mathops/types/opdef"
	"github.com/gomlx/mathops/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Executor runs sequences of OperatorDefs on a Workspace, in order.
//
// Before running an operator it verifies it against its schema and, if shape checks are enabled (the
// default), infers the output shapes and checks the operator produced them.
type Executor struct {
	registry    *Registry
	device      *kernels.CPUContext
	shapeChecks bool
}

// ExecutorOption configures an Executor.
type ExecutorOption func(e *Executor)

// WithContext sets the device context kernels run on. The default is kernels.NewCPUContext().
func WithContext(device *kernels.CPUContext) ExecutorOption {
	return func(e *Executor) {
		e.device = device
	}
}

// WithShapeChecks enables or disables shape inference and checking of the outputs.
func WithShapeChecks(enabled bool) ExecutorOption {
	return func(e *Executor) {
		e.shapeChecks = enabled
	}
}

// NewExecutor creates an Executor that instantiates operators from the given registry.
// If registry is nil, DefaultRegistry is used.
func NewExecutor(registry *Registry, opts ...ExecutorOption) *Executor {
	if registry == nil {
		registry = DefaultRegistry
	}
	e := &Executor{
		registry:    registry,
		device:      kernels.NewCPUContext(),
		shapeChecks: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes ops in order. The inputs of the first operators must have been fed to ws.
//
// The context is checked between operators: kernels always run to completion.
func (e *Executor) Run(ctx context.Context, ws *tensors.Workspace, ops []*opdef.OperatorDef) error {
	klog.V(1).Infof("running %d operators on %s", len(ops), e.device)
	for ii, def := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "interrupted before operator #%d %s", ii, describe(def))
		}
		if err := e.runOne(ws, def); err != nil {
			return errors.WithMessagef(err, "operator #%d", ii)
		}
	}
	return nil
}

func (e *Executor) runOne(ws *tensors.Workspace, def *opdef.OperatorDef) error {
	s, found := schema.Get(def.Type)
	if !found {
		return errors.Errorf("no schema registered for operator %s", describe(def))
	}
	if err := s.Verify(def); err != nil {
		return err
	}

	var outputShapes []shapes.Shape
	if e.shapeChecks {
		inputShapes := make([]shapes.Shape, len(def.Inputs))
		for ii, name := range def.Inputs {
			t, err := ws.Blob(name)
			if err != nil {
				return errors.WithMessagef(err, "input #%d of operator %s", ii, describe(def))
			}
			if !t.IsInitialized() {
				return errors.Errorf("input #%d (%q) of operator %s is not initialized", ii, name, describe(def))
			}
			inputShapes[ii] = t.Shape()
		}
		var err error
		outputShapes, err = s.InferShapes(def, inputShapes)
		if err != nil {
			return err
		}
	}

	op, err := e.registry.Create(def, ws)
	if err != nil {
		return err
	}
	klog.V(2).Infof("running %s", def)
	if err = op.Run(e.device); err != nil {
		return err
	}

	for ii, want := range outputShapes {
		t, err := ws.Blob(def.Outputs[ii])
		if err != nil {
			return errors.WithMessagef(err, "output #%d of operator %s", ii, describe(def))
		}
		if !t.Shape().Equal(want) {
			return errors.Errorf("operator %s produced output #%d (%q) with shape %s, but %s was expected",
				describe(def), ii, def.Outputs[ii], t.Shape(), want)
		}
	}
	return nil
}
