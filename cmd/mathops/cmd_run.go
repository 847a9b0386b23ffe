package main

import (
	"context"
	"fmt"

	"github.com/gomlx/mathops/tensors"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	flags := &opFlags{}
	var x, upstream []float32
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run y = op(x) and its gradient on the given values",
		Example: "  mathops run --op Pow --exponent 3 --x 1,2,3 --go 1,1,1",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunHandler(cmd, flags, x, upstream)
		},
	}
	flags.register(cmd)
	cmd.Flags().Float32SliceVar(&x, "x", []float32{1, 2, 3}, "Input values")
	cmd.Flags().Float32SliceVar(&upstream, "go", nil, "Upstream gradient dL/dy (defaults to ones)")
	return cmd
}

// RunHandler runs the net y = op(x) and its gradient operators, and prints y and dL/dx.
func RunHandler(cmd *cobra.Command, flags *opFlags, x, upstream []float32) error {
	if len(x) == 0 {
		return errors.New("no input values given with --x")
	}
	if upstream == nil {
		upstream = make([]float32, len(x))
		for ii := range upstream {
			upstream[ii] = 1
		}
	}
	if len(upstream) != len(x) {
		return errors.Errorf("--go has %d values, but --x has %d", len(upstream), len(x))
	}

	def, err := flags.def()
	if err != nil {
		return err
	}
	b, grads, err := buildNet(def)
	if err != nil {
		return err
	}
	ws := tensors.NewWorkspace()
	ws.FeedBlob("x", tensors.FromFlatAndDimensions(x, len(x)))
	ws.FeedBlob("dy", tensors.FromFlatAndDimensions(upstream, len(upstream)))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err = b.Run(ctx, ws); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range []string{"x", "y", grads["x"]} {
		t, err := ws.Blob(name)
		if err != nil {
			return err
		}
		if _, err = fmt.Fprintf(out, "%s: %v\n", name, t.Value()); err != nil {
			return err
		}
	}
	return nil
}
