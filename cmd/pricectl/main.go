// Command pricectl inspects model artifacts and prices apartments from the
// command line, without Telegram.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pricectl",
		Short:         "Apartment price model tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("artifact", "a", "model/artifact.json", "path to the model artifact")

	root.AddCommand(
		newValidateCmd(),
		newPredictCmd(),
		newDistrictsCmd(),
	)
	return root
}
