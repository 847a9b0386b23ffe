package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomlx/mathops/gradient"
	"github.com/gomlx/mathops/operators"
	"github.com/gomlx/mathops/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newSchemasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas [PREFIX]",
		Short: "List the registered operator schemas",
		Args:  cobra.MaximumNArgs(1),
		RunE:  SchemasHandler,
	}
}

// SchemasHandler prints a table with the registered schemas, optionally filtered by a type prefix.
func SchemasHandler(cmd *cobra.Command, args []string) error {
	var data [][]string
	for _, opType := range schema.RegisteredTypes() {
		if len(args) > 0 && !strings.HasPrefix(opType, args[0]) {
			continue
		}
		s, _ := schema.Get(opType)
		minIn, maxIn := s.InputsRange()
		minOut, maxOut := s.OutputsRange()

		var inplace []string
		for _, pair := range s.InplacePairs() {
			inplace = append(inplace, pair.String())
		}
		var argDocs []string
		for _, arg := range s.Args() {
			argDocs = append(argDocs, fmt.Sprintf("%s:%s", arg.Name, arg.Kind))
		}
		_, hasKernel := operators.DefaultRegistry.Get(opType)

		data = append(data, []string{
			opType,
			arityString(minIn, maxIn),
			arityString(minOut, maxOut),
			orDash(strings.Join(inplace, " ")),
			orDash(strings.Join(argDocs, " ")),
			yesNo(hasKernel),
			yesNo(gradient.Has(opType)),
		})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"TYPE", "INPUTS", "OUTPUTS", "IN-PLACE", "ARGUMENTS", "CPU", "GRADIENT"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
	return nil
}

func arityString(minN, maxN int) string {
	switch {
	case minN == maxN:
		return fmt.Sprint(minN)
	case maxN == math.MaxInt:
		return fmt.Sprintf("%d+", minN)
	}
	return fmt.Sprintf("%d-%d", minN, maxN)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
