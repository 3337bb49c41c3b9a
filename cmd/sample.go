package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CraigKelly/stanrun/stanargs"
)

var sampWarmup int
var sampSamples int
var sampSaveWarmup bool
var sampThin int
var sampMaxDepth int
var sampMetric string
var sampMetricFiles []string
var sampStepSize float64
var sampStepSizes []float64
var sampAdaptEngaged bool
var sampAdaptDelta float64

// sampleCmd composes NUTS/HMC sampling invocations, one per chain.
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Compose NUTS/HMC sampling invocations",
	Long: `Compose one sampling invocation per chain for the NUTS/HMC adaptive
sampler. Runs 4 chains with ids 1-4 unless --chains or --chain-ids says
otherwise. Options left unset are omitted from the command line so the
executable applies its own defaults.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fl := cmd.Flags()

		m := stanargs.Sampler{
			SaveWarmup: sampSaveWarmup,
			Metric:     sampMetric,
		}
		if fl.Changed("warmup") {
			m.WarmupIters = &sampWarmup
		}
		if fl.Changed("samples") {
			m.SamplingIters = &sampSamples
		}
		if fl.Changed("thin") {
			m.Thin = &sampThin
		}
		if fl.Changed("max-depth") {
			m.MaxTreedepth = &sampMaxDepth
		}
		if len(sampMetricFiles) > 0 {
			m.MetricFiles = sampMetricFiles
		}
		if fl.Changed("step-size") {
			m.StepSize = &sampStepSize
		}
		if len(sampStepSizes) > 0 {
			m.StepSizes = sampStepSizes
		}
		if fl.Changed("adapt-engaged") {
			m.AdaptEngaged = &sampAdaptEngaged
		}
		if fl.Changed("adapt-delta") {
			m.AdaptDelta = &sampAdaptDelta
		}

		return composeAll(cmd, m, 4)
	},
}

func init() {
	fl := sampleCmd.Flags()
	fl.IntVar(&sampWarmup, "warmup", 0, "Warmup (adaptation) iterations")
	fl.IntVar(&sampSamples, "samples", 0, "Post-warmup sampling iterations")
	fl.BoolVar(&sampSaveWarmup, "save-warmup", false, "Keep warmup draws in the output")
	fl.IntVar(&sampThin, "thin", 0, "Keep every thin-th draw")
	fl.IntVar(&sampMaxDepth, "max-depth", 0, "NUTS maximum tree depth")
	fl.StringVar(&sampMetric, "metric", "", "Metric name (diag_e or dense_e) or a single metric file")
	fl.StringSliceVar(&sampMetricFiles, "metric-files", nil, "Per-chain metric files")
	fl.Float64Var(&sampStepSize, "step-size", 0, "Leapfrog integrator step size")
	fl.Float64SliceVar(&sampStepSizes, "step-sizes", nil, "Per-chain integrator step sizes")
	fl.BoolVar(&sampAdaptEngaged, "adapt-engaged", false, "Engage (or with =false disengage) adaptation")
	fl.Float64Var(&sampAdaptDelta, "adapt-delta", 0, "Adaptation target acceptance statistic")

	rootCmd.AddCommand(sampleCmd)
}
