package stanargs

import (
	"fmt"
	"strings"
)

// variationalAlgos is the closed set of ADVI algorithm names.
var variationalAlgos = []string{"meanfield", "fullrank"}

// Variational holds the arguments for automatic differentiation
// variational inference. Leaving AdaptEngaged nil keeps step size
// adaptation engaged, the executable default.
type Variational struct {
	Algorithm     string   // meanfield or fullrank ("" lets the executable choose)
	Iter          *int     // maximum ADVI iterations (>= 1)
	GradSamples   *int     // MC draws per gradient estimate (>= 1)
	ElboSamples   *int     // MC draws per ELBO estimate (>= 1)
	Eta           *float64 // step size scaling factor (>= 0)
	AdaptEngaged  *bool    // nil or true keeps adaptation engaged
	AdaptIter     *int     // adaptation iterations (>= 1, or exactly 0 when disengaged)
	TolRelObj     *float64 // convergence tolerance on the relative ELBO change (>= 1)
	EvalElbo      *int     // evaluate the ELBO every this many iterations (>= 1)
	OutputSamples *int     // posterior draws to write out (>= 1)
}

// Kind implements Method.
func (v Variational) Kind() MethodKind { return MethodVariational }

// engaged reports whether step size adaptation is on (the default).
func (v Variational) engaged() bool {
	return v.AdaptEngaged == nil || *v.AdaptEngaged
}

// validate implements Method. The chain count is ignored: ADVI is a
// single run.
func (v Variational) validate(chains int) (Method, error) {
	if v.Algorithm != "" && !algoKnown(v.Algorithm, variationalAlgos) {
		return nil, configErrorf("Please specify variational algorithms as one of [%s]", strings.Join(variationalAlgos, ", "))
	}
	if v.Iter != nil && *v.Iter < 1 {
		return nil, configErrorf("iter must be a positive integer, found %d", *v.Iter)
	}
	if v.GradSamples != nil && *v.GradSamples < 1 {
		return nil, configErrorf("grad_samples must be a positive integer, found %d", *v.GradSamples)
	}
	if v.ElboSamples != nil && *v.ElboSamples < 1 {
		return nil, configErrorf("elbo_samples must be a positive integer, found %d", *v.ElboSamples)
	}
	if v.Eta != nil && *v.Eta < 0 {
		return nil, configErrorf("eta must be a non-negative number, found %v", *v.Eta)
	}
	if v.AdaptIter != nil {
		if !v.engaged() {
			if *v.AdaptIter > 0 {
				return nil, configErrorf("Adaptation not engaged, adapt_iter must be 0, found %d", *v.AdaptIter)
			}
		} else if *v.AdaptIter < 1 {
			return nil, configErrorf("adapt_iter must be a positive integer, found %d", *v.AdaptIter)
		}
	}
	if v.TolRelObj != nil && *v.TolRelObj < 1 {
		return nil, configErrorf("tol_rel_obj must be a positive number, found %v", *v.TolRelObj)
	}
	if v.EvalElbo != nil && *v.EvalElbo < 1 {
		return nil, configErrorf("eval_elbo must be a positive integer, found %d", *v.EvalElbo)
	}
	if v.OutputSamples != nil && *v.OutputSamples < 1 {
		return nil, configErrorf("output_samples must be a positive integer, found %d", *v.OutputSamples)
	}
	return v, nil
}

// compose implements Method. Exactly one adapt clause is always emitted:
// "adapt iter=N" when adaptation is engaged and an iteration count was
// given, "adapt engaged=0" in every other case.
func (v Variational) compose(idx int, cmd *strings.Builder) {
	cmd.WriteString(" method=variational")
	if v.Algorithm != "" {
		fmt.Fprintf(cmd, " algorithm=%s", v.Algorithm)
	}
	if v.Iter != nil {
		fmt.Fprintf(cmd, " iter=%d", *v.Iter)
	}
	if v.GradSamples != nil {
		fmt.Fprintf(cmd, " grad_samples=%d", *v.GradSamples)
	}
	if v.ElboSamples != nil {
		fmt.Fprintf(cmd, " elbo_samples=%d", *v.ElboSamples)
	}
	if v.Eta != nil {
		fmt.Fprintf(cmd, " eta=%v", *v.Eta)
	}
	if v.engaged() && v.AdaptIter != nil {
		fmt.Fprintf(cmd, " adapt iter=%d", *v.AdaptIter)
	} else {
		cmd.WriteString(" adapt engaged=0")
	}
	if v.TolRelObj != nil {
		fmt.Fprintf(cmd, " tol_rel_obj=%v", *v.TolRelObj)
	}
	if v.EvalElbo != nil {
		fmt.Fprintf(cmd, " eval_elbo=%d", *v.EvalElbo)
	}
	if v.OutputSamples != nil {
		fmt.Fprintf(cmd, " output_samples=%d", *v.OutputSamples)
	}
}
