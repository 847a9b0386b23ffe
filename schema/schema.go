// Package schema holds operator schemas: the declaration of an operator's arity, the input/output pairs
// that may share storage (in-place), its shape inference rule, its documentation and its recognized
// arguments.
//
// Schemas are registered once, during initialization, in a process-wide registry keyed by the operator
// type name, and are read-only afterwards. The executor verifies every OperatorDef against its schema
// before any kernel runs.
package schema

import (
	"fmt"
	"math"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/mathops/internal/optypes"
	"github.com/gomlx/mathops/internal/utils"
	"github.com/gomlx/mathops/shapeinference"
	"github.com/gomlx/mathops/types/opdef"
	"github.com/gomlx/mathops/types/shapes"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// InplacePair declares that output Output may be stored in the same tensor as input Input.
type InplacePair struct {
	Input, Output int
}

// String implements fmt.Stringer.
func (p InplacePair) String() string {
	return fmt.Sprintf("(%d,%d)", p.Input, p.Output)
}

// TensorDoc documents one input or output.
type TensorDoc struct {
	Index     int
	Name, Doc string
}

// ArgDoc documents a recognized argument.
type ArgDoc struct {
	Name, Doc string
	Kind      opdef.ArgumentKind
}

// InferenceFunc calculates the output shapes of def given its input shapes.
type InferenceFunc func(def *opdef.OperatorDef, inputs []shapes.Shape) ([]shapes.Shape, error)

// Schema of an operator type. Create it with Register and configure it with the chained setters.
type Schema struct {
	opType                 string
	minInputs, maxInputs   int
	minOutputs, maxOutputs int
	inplace                utils.Set[InplacePair]
	identicalToInput       int
	inferenceFn            InferenceFunc
	doc                    string
	inputs, outputs        []TensorDoc
	args                   []ArgDoc
}

var registry = make(map[string]*Schema)

// Register creates the schema for opType and adds it to the registry.
//
// It should be called during initialization. Registering the same operator type twice is a programming
// error and panics.
func Register(opType string) *Schema {
	if _, found := registry[opType]; found {
		exceptions.Panicf("schema for operator type %q registered twice", opType)
	}
	s := New(opType)
	registry[opType] = s
	klog.V(2).Infof("registered schema for operator %q", opType)
	return s
}

// New creates an unregistered schema: it accepts any number of inputs and outputs, and has no in-place pairs.
func New(opType string) *Schema {
	return &Schema{
		opType:           opType,
		maxInputs:        math.MaxInt,
		maxOutputs:       math.MaxInt,
		inplace:          utils.MakeSet[InplacePair](),
		identicalToInput: -1,
	}
}

// Get returns the registered schema for opType.
func Get(opType string) (*Schema, bool) {
	s, found := registry[opType]
	return s, found
}

// RegisteredTypes returns the operator types with a registered schema, sorted.
func RegisteredTypes() []string {
	return utils.SortedKeys(registry)
}

// NumInputs sets the exact number of inputs.
func (s *Schema) NumInputs(n int) *Schema {
	return s.NumInputsRange(n, n)
}

// NumInputsRange sets the accepted number of inputs, inclusive.
func (s *Schema) NumInputsRange(minInputs, maxInputs int) *Schema {
	s.minInputs, s.maxInputs = minInputs, maxInputs
	return s
}

// NumOutputs sets the exact number of outputs.
func (s *Schema) NumOutputs(n int) *Schema {
	s.minOutputs, s.maxOutputs = n, n
	return s
}

// AllowInplace declares the (input, output) pairs that may be the same tensor.
func (s *Schema) AllowInplace(pairs ...InplacePair) *Schema {
	s.inplace.Insert(pairs...)
	return s
}

// IdenticalTypeAndShape declares that every output has the data type and shape of the first input.
func (s *Schema) IdenticalTypeAndShape() *Schema {
	return s.IdenticalTypeAndShapeOfInput(0)
}

// IdenticalTypeAndShapeOfInput declares that every output has the data type and shape of the given input.
func (s *Schema) IdenticalTypeAndShapeOfInput(input int) *Schema {
	s.identicalToInput = input
	return s
}

// TensorInferenceFunction sets a custom shape inference function.
func (s *Schema) TensorInferenceFunction(fn InferenceFunc) *Schema {
	s.inferenceFn = fn
	return s
}

// SetDoc sets the operator documentation.
func (s *Schema) SetDoc(doc string) *Schema {
	s.doc = doc
	return s
}

// Input documents input #index.
func (s *Schema) Input(index int, name, doc string) *Schema {
	s.inputs = append(s.inputs, TensorDoc{Index: index, Name: name, Doc: doc})
	return s
}

// Output documents output #index.
func (s *Schema) Output(index int, name, doc string) *Schema {
	s.outputs = append(s.outputs, TensorDoc{Index: index, Name: name, Doc: doc})
	return s
}

// Arg declares a recognized argument.
func (s *Schema) Arg(name, doc string, kind opdef.ArgumentKind) *Schema {
	s.args = append(s.args, ArgDoc{Name: name, Doc: doc, Kind: kind})
	return s
}

// OpType returns the operator type the schema describes.
func (s *Schema) OpType() string { return s.opType }

// Doc returns the operator documentation.
func (s *Schema) Doc() string { return s.doc }

// Inputs returns the documented inputs.
func (s *Schema) Inputs() []TensorDoc { return slices.Clone(s.inputs) }

// Outputs returns the documented outputs.
func (s *Schema) Outputs() []TensorDoc { return slices.Clone(s.outputs) }

// Args returns the recognized arguments.
func (s *Schema) Args() []ArgDoc { return slices.Clone(s.args) }

// InputsRange returns the accepted number of inputs, inclusive.
func (s *Schema) InputsRange() (minInputs, maxInputs int) { return s.minInputs, s.maxInputs }

// OutputsRange returns the accepted number of outputs, inclusive.
func (s *Schema) OutputsRange() (minOutputs, maxOutputs int) { return s.minOutputs, s.maxOutputs }

// InplacePairs returns the declared in-place pairs, sorted by input then output.
func (s *Schema) InplacePairs() []InplacePair {
	pairs := make([]InplacePair, 0, len(s.inplace))
	for p := range s.inplace {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, func(a, b InplacePair) int {
		if a.Input != b.Input {
			return a.Input - b.Input
		}
		return a.Output - b.Output
	})
	return pairs
}

// InplaceAllowed returns whether input and output may share storage.
func (s *Schema) InplaceAllowed(input, output int) bool {
	return s.inplace.Has(InplacePair{Input: input, Output: output})
}

// Verify checks def against the schema: number of inputs and outputs, in-place usage and the kinds of the
// recognized arguments.
func (s *Schema) Verify(def *opdef.OperatorDef) error {
	if def.Type != s.opType {
		return errors.Errorf("operator %s verified against the schema of %q", describe(def), s.opType)
	}
	if n := len(def.Inputs); n < s.minInputs || n > s.maxInputs {
		return errors.Errorf("operator %s takes %s inputs, got %d", describe(def), rangeString(s.minInputs, s.maxInputs), n)
	}
	if n := len(def.Outputs); n < s.minOutputs || n > s.maxOutputs {
		return errors.Errorf("operator %s takes %s outputs, got %d", describe(def), rangeString(s.minOutputs, s.maxOutputs), n)
	}
	for outIdx, output := range def.Outputs {
		for inIdx, input := range def.Inputs {
			if input == output && !s.InplaceAllowed(inIdx, outIdx) {
				return errors.Errorf("operator %s: input #%d and output #%d are both %q (in-place), "+
					"but this is not supported", describe(def), inIdx, outIdx, input)
			}
		}
	}
	for _, argDoc := range s.args {
		arg, found := def.Arg(argDoc.Name)
		if !found {
			continue
		}
		if arg.Kind == argDoc.Kind || (argDoc.Kind == opdef.ArgFloat && arg.Kind == opdef.ArgInt) {
			continue
		}
		return errors.Errorf("operator %s: argument %q must be of kind %s, got %s",
			describe(def), argDoc.Name, argDoc.Kind, arg.Kind)
	}
	return nil
}

// InferShapes returns the output shapes of def, given the shapes of its inputs.
//
// Built-in element-wise operators also validate their data types (see package shapeinference).
func (s *Schema) InferShapes(def *opdef.OperatorDef, inputs []shapes.Shape) ([]shapes.Shape, error) {
	if len(inputs) != len(def.Inputs) {
		return nil, errors.Errorf("operator %s has %d inputs, but %d input shapes were given",
			describe(def), len(def.Inputs), len(inputs))
	}
	if s.inferenceFn != nil {
		outputs, err := s.inferenceFn(def, inputs)
		if err != nil {
			return nil, errors.WithMessagef(err, "shape inference for operator %s", describe(def))
		}
		return outputs, nil
	}
	if s.identicalToInput < 0 {
		return nil, errors.Errorf("operator %s has no shape inference rule", describe(def))
	}
	if s.identicalToInput >= len(inputs) {
		return nil, errors.Errorf("operator %s: output shape is the one of input #%d, but it only has %d inputs",
			describe(def), s.identicalToInput, len(inputs))
	}

	// Validate data types (and matching shapes) of the built-in operators.
	if opType, err := optypes.OpTypeString(s.opType); err == nil {
		switch {
		case shapeinference.StandardUnaryOperations.Has(opType):
			_, err = shapeinference.UnaryOp(opType, inputs[s.identicalToInput])
		case shapeinference.StandardBinaryOperations.Has(opType):
			if len(inputs) != 2 {
				return nil, errors.Errorf("operator %s takes 2 inputs, got %d", describe(def), len(inputs))
			}
			_, err = shapeinference.BinaryOp(opType, inputs[0], inputs[1])
		}
		if err != nil {
			return nil, errors.WithMessagef(err, "operator %s", describe(def))
		}
	}

	outputs := make([]shapes.Shape, len(def.Outputs))
	for i := range outputs {
		outputs[i] = inputs[s.identicalToInput].Clone()
	}
	return outputs, nil
}

// describe returns the operator type, and its instance name if it has one.
func describe(def *opdef.OperatorDef) string {
	if def.Name == "" {
		return fmt.Sprintf("%q", def.Type)
	}
	return fmt.Sprintf("%q (%s)", def.Type, def.Name)
}

func rangeString(minN, maxN int) string {
	switch {
	case minN == maxN:
		return fmt.Sprintf("exactly %d", minN)
	case maxN == math.MaxInt:
		return fmt.Sprintf("at least %d", minN)
	default:
		return fmt.Sprintf("between %d and %d", minN, maxN)
	}
}
