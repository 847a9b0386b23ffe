package main

import (
	"github.com/spf13/cobra"
)

func newGradientCmd() *cobra.Command {
	flags := &opFlags{}
	cmd := &cobra.Command{
		Use:     "gradient",
		Short:   "Print the net y = op(x) with its emitted gradient operators",
		Example: "  mathops gradient --op Pow --exponent 3",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return GradientHandler(cmd, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

// GradientHandler prints the forward net of the selected operator and its gradient operators.
func GradientHandler(cmd *cobra.Command, flags *opFlags) error {
	def, err := flags.def()
	if err != nil {
		return err
	}
	b, _, err := buildNet(def)
	if err != nil {
		return err
	}
	net, err := b.Build()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(net)
	return err
}
