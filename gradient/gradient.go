// Package gradient defines the symbolic gradient emitters ("gradient makers") and their process-wide
// registry, keyed by the forward operator type.
//
// A gradient maker receives a forward OperatorDef and returns an ordered sequence of OperatorDefs that,
// when run in order, computes the gradient of the loss with respect to the forward inputs (GI) from the
// gradients with respect to the forward outputs (GO). Emitted operators may reuse GO and GI identifiers as
// scratch space, overwriting them in-place: the sequence is an ordered block, not SSA.
//
// Makers are registered during initialization, alongside the forward operator they differentiate:
//
//	func init() {
//		gradient.Register("Log", func(base *gradient.Base) gradient.Maker {
//			return &logGradient{base}
//		})
//	}
package gradient

import (
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/mathops/internal/utils"
	"github.com/gomlx/mathops/types/opdef"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// GradientSuffix is appended to a tensor identifier to name its gradient.
const GradientSuffix = "_grad"

// GradientName returns the identifier of the gradient of the tensor id.
func GradientName(id string) string {
	return id + GradientSuffix
}

// Maker emits the gradient operators of one forward operator.
type Maker interface {
	// GetGradientDefs returns the ordered gradient operators. It must be a pure function of the
	// forward OperatorDef.
	GetGradientDefs() []*opdef.OperatorDef

	// CopyArguments returns whether the arguments of the forward operator are appended to every
	// emitted operator.
	CopyArguments() bool
}

// MakerFactory creates the Maker for one forward operator, given the Base that gives access to its
// identifiers.
type MakerFactory func(base *Base) Maker

// Base provides the identifier helpers used by makers. Makers embed it.
type Base struct {
	def      *opdef.OperatorDef
	gOutputs []string

	// gInputs[k] is the gradient identifier emitted for input k, or "" if none.
	gInputs []string
}

// NewBase creates the Base for the forward def, where gOutputs[k] is the identifier of the gradient
// of output k, or "" if the output has no gradient.
func NewBase(def *opdef.OperatorDef, gOutputs []string) *Base {
	return &Base{
		def:      def,
		gOutputs: gOutputs,
		gInputs:  make([]string, len(def.Inputs)),
	}
}

// Def returns the forward operator definition.
func (b *Base) Def() *opdef.OperatorDef { return b.def }

// I returns the identifier of forward input k.
func (b *Base) I(k int) string {
	if k < 0 || k >= len(b.def.Inputs) {
		exceptions.Panicf("gradient of %q: input #%d requested, but it has only %d inputs", b.def.Type, k, len(b.def.Inputs))
	}
	return b.def.Inputs[k]
}

// O returns the identifier of forward output k.
func (b *Base) O(k int) string {
	if k < 0 || k >= len(b.def.Outputs) {
		exceptions.Panicf("gradient of %q: output #%d requested, but it has only %d outputs", b.def.Type, k, len(b.def.Outputs))
	}
	return b.def.Outputs[k]
}

// GO returns the identifier of the gradient of forward output k, assigned by the driver.
func (b *Base) GO(k int) string {
	if k < 0 || k >= len(b.gOutputs) || b.gOutputs[k] == "" {
		exceptions.Panicf("gradient of %q: no gradient is available for output #%d", b.def.Type, k)
	}
	return b.gOutputs[k]
}

// GI returns the identifier of the gradient of forward input k, and records it as produced.
func (b *Base) GI(k int) string {
	name := GradientName(b.I(k))
	b.gInputs[k] = name
	return name
}

// CopyArguments defaults to true: the forward arguments are appended to every emitted operator.
func (b *Base) CopyArguments() bool { return true }

var registry = make(map[string]MakerFactory)

// Register the gradient maker for the forward operator type opType.
//
// It should be called during initialization. Registering the same type twice is a programming error and panics.
func Register(opType string, factory MakerFactory) {
	if _, found := registry[opType]; found {
		exceptions.Panicf("gradient for operator type %q registered twice", opType)
	}
	registry[opType] = factory
	klog.V(2).Infof("registered gradient for operator %q", opType)
}

// Has returns whether a gradient maker is registered for opType.
func Has(opType string) bool {
	_, found := registry[opType]
	return found
}

// RegisteredTypes returns the operator types with a registered gradient, sorted.
func RegisteredTypes() []string {
	return utils.SortedKeys(registry)
}

// OpsMeta is the result of Get.
type OpsMeta struct {
	// Ops are the emitted gradient operators, to be run in order.
	Ops []*opdef.OperatorDef

	// GradientInputs[k] is the identifier of the gradient of forward input k, or "" if the maker
	// produced none.
	GradientInputs []string
}

// Get emits the gradient operators of the forward def, given the gradient identifiers of its outputs
// (gOutputs[k] == "" if output k has no gradient).
//
// If the maker's CopyArguments is true, a copy of the forward arguments is appended to every emitted
// operator.
func Get(def *opdef.OperatorDef, gOutputs []string) (*OpsMeta, error) {
	if len(gOutputs) != len(def.Outputs) {
		return nil, errors.Errorf("gradient of %q: %d output gradients given, but it has %d outputs",
			def.Type, len(gOutputs), len(def.Outputs))
	}
	factory, found := registry[def.Type]
	if !found {
		return nil, errors.Errorf("no gradient registered for operator type %q", def.Type)
	}
	base := NewBase(def, gOutputs)
	var ops []*opdef.OperatorDef
	var copyArgs bool
	err := exceptions.TryCatch[error](func() {
		maker := factory(base)
		ops = maker.GetGradientDefs()
		copyArgs = maker.CopyArguments()
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to emit gradient of %q", def.Type)
	}
	if copyArgs && len(def.Args) > 0 {
		for _, op := range ops {
			for _, arg := range def.Args {
				op.Args = append(op.Args, arg.Clone())
			}
		}
	}
	if klog.V(1).Enabled() {
		var sb strings.Builder
		for _, op := range ops {
			sb.WriteString("\n\t")
			sb.WriteString(op.String())
		}
		klog.Infof("gradient of %s:%s", def, sb.String())
	}
	return &OpsMeta{Ops: ops, GradientInputs: base.gInputs}, nil
}
