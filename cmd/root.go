package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool
var modelExe string
var modelName string
var dataFile string
var dataInline string
var flagSeed int64
var flagSeeds []int64
var flagInits float64
var flagInitFile string
var flagInitFiles []string
var outputBase string
var flagRefresh int
var chainCount int
var chainIDList []int

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stanrun",
	Short: "Compose command lines for compiled Stan model executables",
	Long: `stanrun validates inference options and composes the exact command
line a compiled Stan model executable expects, one invocation per chain.
Among other features:

  - NUTS/HMC sampling, optimization, ADVI, and generate-quantities runs
  - Per-chain seeds, metric files, step sizes, and initial values
  - Metric files read in both JSON and Rdump encodings
  - Inline JSON data serialized to a temp file for the executable

Composed commands are printed to stdout, one line per chain. Nothing is
launched.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Verbose logging (default is much more parsimonious)")

	pf.StringVarP(&modelExe, "exe", "x", "", "Path to the compiled model executable")
	pf.StringVarP(&modelName, "name", "n", "", "Model name (default is the executable basename)")
	pf.StringVarP(&dataFile, "data", "d", "", "Input data file (JSON or Rdump)")
	pf.StringVar(&dataInline, "data-inline", "", "Inline JSON input data, serialized to a temp file")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed in [0, 2^32-1] (default is a fresh draw in [1, 99999])")
	pf.Int64SliceVar(&flagSeeds, "seeds", nil, "Per-chain RNG seeds")
	pf.Float64Var(&flagInits, "init", 0, "Radius for uniform random parameter initialization")
	pf.StringVar(&flagInitFile, "init-file", "", "Initial values file")
	pf.StringSliceVar(&flagInitFiles, "init-files", nil, "Per-chain initial values files")
	pf.StringVarP(&outputBase, "output", "o", "", "Output basename (default is the model name)")
	pf.IntVar(&flagRefresh, "refresh", 0, "Progress report interval for the executable")
	pf.IntVarP(&chainCount, "chains", "c", 0, "Number of chains, ids 1..N")
	pf.IntSliceVar(&chainIDList, "chain-ids", nil, "Explicit chain ids (overrides --chains)")

	rootCmd.MarkPersistentFlagRequired("exe")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
