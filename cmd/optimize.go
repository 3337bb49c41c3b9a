package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CraigKelly/stanrun/stanargs"
)

var optAlgorithm string
var optInitAlpha float64
var optIter int

// optimizeCmd composes a single penalized maximum likelihood run.
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Compose a penalized maximum likelihood invocation",
	Long: `Compose a single optimization invocation. Optimization requires input
data (--data or --data-inline) and runs chainless unless --chains or
--chain-ids says otherwise.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fl := cmd.Flags()

		m := stanargs.Optimizer{Algorithm: optAlgorithm}
		if fl.Changed("init-alpha") {
			m.InitAlpha = &optInitAlpha
		}
		if fl.Changed("iter") {
			m.Iter = &optIter
		}

		return composeAll(cmd, m, 0)
	},
}

func init() {
	fl := optimizeCmd.Flags()
	fl.StringVar(&optAlgorithm, "algorithm", "", "Optimization algorithm: BFGS, LBFGS, or Newton")
	fl.Float64Var(&optInitAlpha, "init-alpha", 0, "Line search initial step size (not valid with Newton)")
	fl.IntVar(&optIter, "iter", 0, "Iteration cap")

	rootCmd.AddCommand(optimizeCmd)
}
