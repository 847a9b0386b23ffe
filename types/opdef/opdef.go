// Package opdef defines OperatorDef, the description of one node in a computation graph, and its
// Argument values.
//
// An OperatorDef only names tensors (by opaque string identifiers); it never holds data. It is what
// forward nets are made of, and what gradient emitters return.
package opdef

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// OperatorDef describes one operator in a computation graph.
type OperatorDef struct {
	// Type of the operator, the key of the registered kernel (e.g. "Log", "Pow").
	Type string

	// Name is an optional instance name, only used for debugging.
	Name string

	// Inputs are the identifiers of the input tensors, in order.
	Inputs []string

	// Outputs are the identifiers of the output tensors, in order.
	Outputs []string

	// Args are the named scalar arguments of the operator, in order.
	Args []Argument
}

// CreateOperatorDef returns a new OperatorDef. The slices and the arguments are copied, so the
// new definition doesn't share any state with the caller.
func CreateOperatorDef(opType, name string, inputs, outputs []string, args ...Argument) *OperatorDef {
	def := &OperatorDef{
		Type:    opType,
		Name:    name,
		Inputs:  slices.Clone(inputs),
		Outputs: slices.Clone(outputs),
	}
	for _, arg := range args {
		def.Args = append(def.Args, arg.Clone())
	}
	return def
}

// Clone returns a deep copy of the definition.
func (def *OperatorDef) Clone() *OperatorDef {
	return CreateOperatorDef(def.Type, def.Name, def.Inputs, def.Outputs, def.Args...)
}

// Equal compares type, instance name, inputs, outputs and arguments (in order).
// Nil and empty lists are considered equal.
func (def *OperatorDef) Equal(other *OperatorDef) bool {
	if def == nil || other == nil {
		return def == other
	}
	return def.Type == other.Type &&
		def.Name == other.Name &&
		slices.Equal(def.Inputs, other.Inputs) &&
		slices.Equal(def.Outputs, other.Outputs) &&
		slices.EqualFunc(def.Args, other.Args, Argument.Equal)
}

// Arg returns the first argument with the given name.
func (def *OperatorDef) Arg(name string) (Argument, bool) {
	for _, arg := range def.Args {
		if arg.Name == name {
			return arg, true
		}
	}
	return Argument{}, false
}

// HasArg returns whether the definition carries an argument with the given name.
func (def *OperatorDef) HasArg(name string) bool {
	_, found := def.Arg(name)
	return found
}

// Write writes the definition in a compact text form to the given writer, e.g.:
//
//	x_grad = "Pow"(x){exponent = 2.0 : f32}
func (def *OperatorDef) Write(writer io.Writer) error {
	var err error
	w := func(format string, args ...any) {
		if err != nil {
			// No op if an error was encountered earlier
			return
		}
		_, err = fmt.Fprintf(writer, format, args...)
	}

	// Output tensors are written first:
	if len(def.Outputs) > 0 {
		w("%s = ", strings.Join(def.Outputs, ", "))
	}

	// Operator type and inputs:
	w("%q(%s)", def.Type, strings.Join(def.Inputs, ", "))

	// Arguments:
	if len(def.Args) > 0 {
		w("{")
		for i, arg := range def.Args {
			if i > 0 {
				w(", ")
			}
			w("%s", arg)
		}
		w("}")
	}

	if def.Name != "" {
		w("  // %s", def.Name)
	}
	return err
}

// String implements fmt.Stringer.
func (def *OperatorDef) String() string {
	var sb strings.Builder
	_ = def.Write(&sb)
	return sb.String()
}
