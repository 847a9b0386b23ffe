package main

import (
	"context"
	"fmt"

	"github.com/gomlx/mathops"
	"github.com/gomlx/mathops/internal/optypes"
	"github.com/gomlx/mathops/types/opdef"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// checkedOps are the forward operators verified by "mathops check".
var checkedOps = []*opdef.OperatorDef{
	opdef.CreateOperatorDef(optypes.Log.String(), "", nil, nil),
	opdef.CreateOperatorDef(optypes.Sqr.String(), "", nil, nil),
	opdef.CreateOperatorDef(optypes.Pow.String(), "", nil, nil, opdef.FloatArg("exponent", -1.5)),
	opdef.CreateOperatorDef(optypes.Pow.String(), "", nil, nil, opdef.FloatArg("exponent", 0.5)),
	opdef.CreateOperatorDef(optypes.Pow.String(), "", nil, nil, opdef.FloatArg("exponent", 1)),
	opdef.CreateOperatorDef(optypes.Pow.String(), "", nil, nil, opdef.FloatArg("exponent", 3)),
}

func newCheckCmd() *cobra.Command {
	var (
		x         []float32
		step      float64
		tolerance float64
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the emitted gradients against centered finite differences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return CheckHandler(cmd, x, step, tolerance)
		},
	}
	cmd.Flags().Float32SliceVar(&x, "x", []float32{0.5, 0.75, 1, 1.5, 2, 3}, "Values where gradients are evaluated")
	cmd.Flags().Float64Var(&step, "step", mathops.DefaultGradientCheckStep, "Finite-difference step")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-3, "Maximum relative error accepted")
	return cmd
}

// CheckHandler checks the gradients of all checkedOps concurrently, prints a table with the results and
// returns an error if any of them is out of tolerance.
func CheckHandler(cmd *cobra.Command, x []float32, step, tolerance float64) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	checks := make([]*mathops.GradientCheck, len(checkedOps))
	g, gCtx := errgroup.WithContext(ctx)
	for ii, def := range checkedOps {
		g.Go(func() error {
			check, err := mathops.CheckGradient(gCtx, def, x, step)
			if err != nil {
				return errors.WithMessagef(err, "checking %s", def)
			}
			checks[ii] = check
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var data [][]string
	var numFailed int
	for _, check := range checks {
		status := "ok"
		if !check.Ok(tolerance) {
			status = "FAILED"
			numFailed++
		}
		data = append(data, []string{check.Def.String(), fmt.Sprintf("%.3g", check.MaxRelError), status})
	}
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"OPERATOR", "MAX REL ERROR", "STATUS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	if numFailed > 0 {
		return errors.Errorf("%d of %d gradient checks failed with tolerance %g", numFailed, len(checks), tolerance)
	}
	return nil
}
