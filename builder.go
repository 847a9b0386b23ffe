package mathops

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gomlx/mathops/internal/utils"
	"github.com/gomlx/mathops/operators"
	"github.com/gomlx/mathops/schema"
	"github.com/gomlx/mathops/tensors"
	"github.com/gomlx/mathops/types/opdef"
	"github.com/pkg/errors"
)

// Builder is used to construct a net: an ordered list of OperatorDefs over named tensors.
// See details in New.
type Builder struct {
	name string

	// inputs and outputs of the net, in the order they were declared.
	inputs, outputs []string

	// ops holds the operators, in execution order. The first numForward are the forward operators,
	// the remaining ones are the gradient operators.
	ops        []*opdef.OperatorDef
	numForward int

	// gradientsAdded is set once AddGradientOperators succeeds: no more operators can be added.
	gradientsAdded bool

	// defined holds all the tensor identifiers defined by the forward net: inputs and operator outputs.
	defined utils.Set[string]

	// nextTmpID is the next ID to be assigned to new intermediary tensors.
	nextTmpID int
}

// New creates a new Builder object holding a net in construction.
//
// Declare the inputs with Builder.Input, add operators one by one, either with the typed helpers
// (Builder.Log, Builder.Pow, ...) or with Builder.AddOp, and declare the outputs with Builder.Output.
//
// Optionally, call Builder.AddGradientOperators to append the backward pass.
//
// Once you are all set, call Builder.Build to check and render the net, or Builder.Run to execute it.
func New(name string) *Builder {
	return &Builder{
		name:    name,
		defined: utils.MakeSet[string](),
	}
}

// Name of the net.
func (b *Builder) Name() string { return b.name }

// Input declares a new input tensor of the net and returns its (normalized) identifier.
// Its value must be fed to the workspace before running the net.
func (b *Builder) Input(name string) (string, error) {
	id := NormalizeIdentifier(name)
	if id == "" {
		return "", errors.New("input name cannot be empty")
	}
	if b.defined.Has(id) {
		return "", errors.Errorf("tensor %q already defined in net %q", id, b.name)
	}
	b.inputs = append(b.inputs, id)
	b.defined.Insert(id)
	return id, nil
}

// Inputs returns the identifiers of the inputs of the net.
func (b *Builder) Inputs() []string { return append([]string(nil), b.inputs...) }

// AddOp appends a copy of def to the net.
//
// It is verified against the schema of its type, and all its inputs must already be defined (net inputs
// or outputs of previous operators).
func (b *Builder) AddOp(def *opdef.OperatorDef) error {
	if b.gradientsAdded {
		return errors.Errorf("cannot add operator %s to net %q after its gradient operators were added", def, b.name)
	}
	s, found := schema.Get(def.Type)
	if !found {
		return errors.Errorf("unknown operator type %q in net %q", def.Type, b.name)
	}
	if err := s.Verify(def); err != nil {
		return errors.WithMessagef(err, "net %q", b.name)
	}
	for ii, input := range def.Inputs {
		if !b.defined.Has(input) {
			return errors.Errorf("input #%d %q of operator %s is not defined in net %q", ii, input, def, b.name)
		}
	}
	for _, output := range def.Outputs {
		b.defined.Insert(output)
	}
	b.ops = append(b.ops, def.Clone())
	b.numForward = len(b.ops)
	return nil
}

// newTmpID returns a new unique intermediary tensor identifier.
func (b *Builder) newTmpID() string {
	for {
		id := fmt.Sprintf("t%d", b.nextTmpID)
		b.nextTmpID++
		if !b.defined.Has(id) {
			return id
		}
	}
}

// Output declares the outputs of the net. It can be called multiple times, the outputs are appended.
func (b *Builder) Output(ids ...string) error {
	for _, id := range ids {
		if !b.defined.Has(id) {
			return errors.Errorf("output %q is not defined in net %q", id, b.name)
		}
	}
	b.outputs = append(b.outputs, ids...)
	return nil
}

// Outputs returns the identifiers of the declared outputs of the net.
func (b *Builder) Outputs() []string { return append([]string(nil), b.outputs...) }

// Ops returns a copy of the operators of the net, in execution order.
func (b *Builder) Ops() []*opdef.OperatorDef {
	ops := make([]*opdef.OperatorDef, len(b.ops))
	for ii, op := range b.ops {
		ops[ii] = op.Clone()
	}
	return ops
}

// ForwardOps returns a copy of the forward operators of the net.
func (b *Builder) ForwardOps() []*opdef.OperatorDef {
	return b.Ops()[:b.numForward]
}

// GradientOps returns a copy of the gradient operators of the net, if any.
func (b *Builder) GradientOps() []*opdef.OperatorDef {
	return b.Ops()[b.numForward:]
}

const IndentationStep = "  "

// Write the net (a readable string) to the given writer.
//
// It will write incomplete nets (without operators or outputs) without an error to help debugging.
//
// See Builder.Build to check and output the net.
func (b *Builder) Write(writer io.Writer) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			// No op if an error was encountered earlier
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}
	writeList := func(ids []string) {
		for ii, id := range ids {
			if ii > 0 {
				w(", ")
			}
			w("%s", id)
		}
	}
	writeOp := func(op *opdef.OperatorDef) {
		w("%s", IndentationStep)
		if err == nil {
			err = op.Write(writer)
		}
		w("\n")
	}

	// Header:
	w("net @%s(", NormalizeIdentifier(b.name))
	writeList(b.inputs)
	w(") -> (")
	writeList(b.outputs)
	w(") {\n")

	for _, op := range b.ops[:b.numForward] {
		writeOp(op)
	}
	if len(b.ops) > b.numForward {
		w("%s// gradients\n", IndentationStep)
		for _, op := range b.ops[b.numForward:] {
			writeOp(op)
		}
	}
	w("}\n")
	return err
}

// String implements fmt.Stringer. It returns the same as Write.
func (b *Builder) String() string {
	var buf bytes.Buffer
	_ = b.Write(&buf)
	return buf.String()
}

// Build checks the validity and renders the net.
//
// If you want the output of an incomplete net (without the checking), use Builder.Write instead.
func (b *Builder) Build() ([]byte, error) {
	if len(b.ops) == 0 {
		return nil, errors.Errorf("net %q has no operators", b.name)
	}
	if len(b.outputs) == 0 {
		return nil, errors.Errorf("net %q has no outputs", b.name)
	}
	var buf bytes.Buffer
	if err := b.Write(&buf); err != nil {
		return nil, errors.Wrapf(err, "failed to write net %q", b.name)
	}
	return buf.Bytes(), nil
}

// Run executes all the operators of the net (forward and gradients) on ws, using the default operators
// registry. The net inputs (and the gradient seeds, if gradients were added) must have been fed to ws.
func (b *Builder) Run(ctx context.Context, ws *tensors.Workspace, opts ...operators.ExecutorOption) error {
	if err := operators.NewExecutor(operators.DefaultRegistry, opts...).Run(ctx, ws, b.ops); err != nil {
		return errors.WithMessagef(err, "net %q", b.name)
	}
	return nil
}
