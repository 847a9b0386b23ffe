// mathops lists the registered operator schemas, prints the gradient operators emitted for an operator,
// runs an operator forward and backward on literal values, and checks the emitted gradients against
// finite differences.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the mathops command with all its subcommands, and the klog flags (-v, ...).
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mathops",
		Short:         "Element-wise math operators and their symbolic gradients",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)

	rootCmd.AddCommand(
		newSchemasCmd(),
		newGradientCmd(),
		newRunCmd(),
		newCheckCmd(),
	)
	return rootCmd
}
