package stanargs

import (
	"fmt"
	"strings"
)

// optimizeAlgos is the closed set of algorithm names the optimizer accepts.
var optimizeAlgos = []string{"BFGS", "LBFGS", "Newton"}

// Optimizer holds the arguments for penalized maximum likelihood
// estimation. Optimization runs need input data, which NewRunConfig
// enforces.
type Optimizer struct {
	Algorithm string   // one of BFGS, LBFGS, Newton ("" lets the executable choose)
	InitAlpha *float64 // line search initial step size; not valid with Newton
	Iter      *int     // iteration cap
}

// Kind implements Method.
func (o Optimizer) Kind() MethodKind { return MethodOptimize }

// validate implements Method. The chain count is ignored: optimization is
// a single run.
func (o Optimizer) validate(chains int) (Method, error) {
	if o.Algorithm != "" && !algoKnown(o.Algorithm, optimizeAlgos) {
		return nil, configErrorf("Please specify optimizer algorithms as one of [%s]", strings.Join(optimizeAlgos, ", "))
	}
	if o.InitAlpha != nil {
		if o.Algorithm == "Newton" {
			return nil, configErrorf("init_alpha must not be set when algorithm is Newton")
		}
		if *o.InitAlpha < 0 {
			return nil, configErrorf("init_alpha must be greater than 0, found %v", *o.InitAlpha)
		}
	}
	if o.Iter != nil && *o.Iter < 0 {
		return nil, configErrorf("iter must be greater than 0, found %d", *o.Iter)
	}
	return o, nil
}

// compose implements Method. The algorithm name is lowercased on the
// command line (the executable's grammar is all lowercase).
func (o Optimizer) compose(idx int, cmd *strings.Builder) {
	cmd.WriteString(" method=optimize")
	if o.Algorithm != "" {
		fmt.Fprintf(cmd, " algorithm=%s", strings.ToLower(o.Algorithm))
	}
	if o.InitAlpha != nil {
		fmt.Fprintf(cmd, " init_alpha=%v", *o.InitAlpha)
	}
	if o.Iter != nil {
		fmt.Fprintf(cmd, " iter=%d", *o.Iter)
	}
}

func algoKnown(name string, algos []string) bool {
	for _, a := range algos {
		if a == name {
			return true
		}
	}
	return false
}
