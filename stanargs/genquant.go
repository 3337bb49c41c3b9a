package stanargs

import (
	"fmt"
	"os"
	"strings"
)

// GenQuant holds the arguments for generating quantities of interest over
// an existing set of posterior draws. Each chain replays the draws from
// one fitted-params CSV file produced by a previous sampler run.
type GenQuant struct {
	SampleCSVFiles []string // one existing draws file per chain
}

// Kind implements Method.
func (g GenQuant) Kind() MethodKind { return MethodGenerateQuantities }

// validate implements Method.
func (g GenQuant) validate(chains int) (Method, error) {
	if chains < 1 {
		return nil, configErrorf("generate_quantities expects number of chains to be greater than 0, found %d", chains)
	}
	if len(g.SampleCSVFiles) != chains {
		return nil, configErrorf("Number of sample csv files must match number of chains, found %d files for %d chains", len(g.SampleCSVFiles), chains)
	}
	for _, csv := range g.SampleCSVFiles {
		if _, err := os.Stat(csv); err != nil {
			return nil, configErrorf("Invalid path for sample csv file: %s", csv)
		}
	}
	g.SampleCSVFiles = append([]string(nil), g.SampleCSVFiles...)
	return g, nil
}

// compose implements Method. Chains are matched to fitted-params files
// one-based: the chain with index idx replays file idx-1, and an index of
// 0 wraps around to the last file.
func (g GenQuant) compose(idx int, cmd *strings.Builder) {
	cmd.WriteString(" method=generate_quantities")
	i := idx - 1
	if i < 0 {
		i += len(g.SampleCSVFiles)
	}
	fmt.Fprintf(cmd, " fitted_params=%s", g.SampleCSVFiles[i])
}
