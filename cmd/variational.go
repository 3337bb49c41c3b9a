package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CraigKelly/stanrun/stanargs"
)

var viAlgorithm string
var viIter int
var viGradSamples int
var viElboSamples int
var viEta float64
var viAdaptEngaged bool
var viAdaptIter int
var viTolRelObj float64
var viEvalElbo int
var viOutputSamples int

// variationalCmd composes a single ADVI run.
var variationalCmd = &cobra.Command{
	Use:   "variational",
	Short: "Compose an ADVI (variational inference) invocation",
	Long: `Compose a single automatic differentiation variational inference
invocation. Step size adaptation is engaged unless --adapt-engaged=false;
a disengaged run must pass --adapt-iter 0 or leave it unset.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fl := cmd.Flags()

		m := stanargs.Variational{Algorithm: viAlgorithm}
		if fl.Changed("iter") {
			m.Iter = &viIter
		}
		if fl.Changed("grad-samples") {
			m.GradSamples = &viGradSamples
		}
		if fl.Changed("elbo-samples") {
			m.ElboSamples = &viElboSamples
		}
		if fl.Changed("eta") {
			m.Eta = &viEta
		}
		if fl.Changed("adapt-engaged") {
			m.AdaptEngaged = &viAdaptEngaged
		}
		if fl.Changed("adapt-iter") {
			m.AdaptIter = &viAdaptIter
		}
		if fl.Changed("tol-rel-obj") {
			m.TolRelObj = &viTolRelObj
		}
		if fl.Changed("eval-elbo") {
			m.EvalElbo = &viEvalElbo
		}
		if fl.Changed("output-samples") {
			m.OutputSamples = &viOutputSamples
		}

		return composeAll(cmd, m, 0)
	},
}

func init() {
	fl := variationalCmd.Flags()
	fl.StringVar(&viAlgorithm, "algorithm", "", "ADVI algorithm: meanfield or fullrank")
	fl.IntVar(&viIter, "iter", 0, "Maximum ADVI iterations")
	fl.IntVar(&viGradSamples, "grad-samples", 0, "MC draws per gradient estimate")
	fl.IntVar(&viElboSamples, "elbo-samples", 0, "MC draws per ELBO estimate")
	fl.Float64Var(&viEta, "eta", 0, "Step size scaling factor")
	fl.BoolVar(&viAdaptEngaged, "adapt-engaged", true, "Engage (or with =false disengage) step size adaptation")
	fl.IntVar(&viAdaptIter, "adapt-iter", 0, "Step size adaptation iterations")
	fl.Float64Var(&viTolRelObj, "tol-rel-obj", 0, "Convergence tolerance on the relative ELBO change")
	fl.IntVar(&viEvalElbo, "eval-elbo", 0, "Evaluate the ELBO every this many iterations")
	fl.IntVar(&viOutputSamples, "output-samples", 0, "Posterior draws to write out")

	rootCmd.AddCommand(variationalCmd)
}
