// Package operators implements the CPU host operators: a registry of operator factories keyed by the
// operator type name, the element-wise operator templates, the Log, Sqr and Pow operators (with their
// schemas and gradient makers), the Mul, Div and Scale host operators used by the emitted gradients,
// and an Executor that runs a sequence of OperatorDefs on a Workspace.
package operators

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/mathops/internal/utils"
	"github.com/gomlx/mathops/kernels"
	"github.com/gomlx/mathops/tensors"
	"github.com/gomlx/mathops/types/opdef"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Operator is an instantiated OperatorDef, bound to the tensors of a Workspace.
type Operator interface {
	// Def returns the definition the operator was created from.
	Def() *opdef.OperatorDef

	// Run executes the operator synchronously on the given device context.
	Run(ctx *kernels.CPUContext) error
}

// Factory creates an Operator for def, taking its inputs from the workspace and creating its outputs
// in it.
type Factory func(def *opdef.OperatorDef, ws *tensors.Workspace) (Operator, error)

// Registry of operator factories, keyed by operator type.
//
// It is populated during initialization and read-only afterwards.
type Registry struct {
	name      string
	factories map[string]Factory
}

// NewRegistry creates an empty registry. The name is only used for logging.
func NewRegistry(name string) *Registry {
	return &Registry{name: name, factories: make(map[string]Factory)}
}

// DefaultRegistry holds the CPU operators of this package.
var DefaultRegistry = NewRegistry("CPU")

// Register the factory for opType. Registering the same type twice is a programming error and panics.
func (r *Registry) Register(opType string, factory Factory) {
	if _, found := r.factories[opType]; found {
		exceptions.Panicf("operator type %q registered twice in registry %s", opType, r.name)
	}
	r.factories[opType] = factory
	klog.V(2).Infof("registered operator %q in registry %s", opType, r.name)
}

// Get returns the factory for opType.
func (r *Registry) Get(opType string) (Factory, bool) {
	factory, found := r.factories[opType]
	return factory, found
}

// Create instantiates the operator for def.
func (r *Registry) Create(def *opdef.OperatorDef, ws *tensors.Workspace) (Operator, error) {
	factory, found := r.factories[def.Type]
	if !found {
		return nil, errors.Errorf("operator type %q not supported by registry %s", def.Type, r.name)
	}
	op, err := factory(def, ws)
	if err != nil {
		return nil, errors.WithMessagef(err, "creating operator %q", def.Type)
	}
	return op, nil
}

// SupportedOps returns the registered operator types, sorted.
func (r *Registry) SupportedOps() []string {
	return utils.SortedKeys(r.factories)
}
