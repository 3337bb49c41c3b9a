package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CraigKelly/stanrun/stanargs"
)

var gqFittedParams []string

// genQuantCmd composes generate-quantities invocations over existing draws.
var genQuantCmd = &cobra.Command{
	Use:   "generate-quantities",
	Short: "Compose generate-quantities invocations over existing draws",
	Long: `Compose one generate-quantities invocation per chain, replaying the
posterior draws in the given fitted-params CSV files. The chain count
defaults to the number of files given.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m := stanargs.GenQuant{SampleCSVFiles: gqFittedParams}
		return composeAll(cmd, m, len(gqFittedParams))
	},
}

func init() {
	fl := genQuantCmd.Flags()
	fl.StringSliceVar(&gqFittedParams, "fitted-params", nil, "Per-chain sample CSV files from a previous run")
	genQuantCmd.MarkFlagRequired("fitted-params")

	rootCmd.AddCommand(genQuantCmd)
}
