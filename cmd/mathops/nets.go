package main

import (
	"github.com/gomlx/mathops"
	"github.com/gomlx/mathops/internal/optypes"
	"github.com/gomlx/mathops/schema"
	"github.com/gomlx/mathops/types/opdef"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// opFlags select one forward operator and its arguments.
type opFlags struct {
	op       string
	exponent float32
	scale    float32
}

func (f *opFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.op, "op", optypes.Pow.String(), "Forward operator type (see \"mathops schemas\")")
	cmd.Flags().Float32Var(&f.exponent, "exponent", 2, "Value of the \"exponent\" argument, for Pow")
	cmd.Flags().Float32Var(&f.scale, "scale", 1, "Value of the \"scale\" argument, for Scale")
}

// def returns the forward OperatorDef y = op(x), with the arguments its schema recognizes.
func (f *opFlags) def() (*opdef.OperatorDef, error) {
	s, found := schema.Get(f.op)
	if !found {
		return nil, errors.Errorf("unknown operator type %q", f.op)
	}
	var args []opdef.Argument
	for _, arg := range s.Args() {
		switch arg.Name {
		case "exponent":
			args = append(args, opdef.FloatArg("exponent", f.exponent))
		case "scale":
			args = append(args, opdef.FloatArg("scale", f.scale))
		}
	}
	return opdef.CreateOperatorDef(f.op, "", []string{"x"}, []string{"y"}, args...), nil
}

// buildNet builds the net y = def(x), followed by its gradient operators seeded by "dy".
// It returns the builder and the map of tensors to their gradients.
func buildNet(def *opdef.OperatorDef) (*mathops.Builder, map[string]string, error) {
	b := mathops.New(def.Type)
	if _, err := b.Input("x"); err != nil {
		return nil, nil, err
	}
	if err := b.AddOp(def); err != nil {
		return nil, nil, err
	}
	if err := b.Output("y"); err != nil {
		return nil, nil, err
	}
	grads, err := b.AddGradientOperators(map[string]string{"y": "dy"})
	if err != nil {
		return nil, nil, err
	}
	return b, grads, nil
}
