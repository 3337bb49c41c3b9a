package stanargs

import "strings"

// MethodKind identifies which inference method a run invokes. Every run
// selects exactly one.
type MethodKind int

// The inference methods understood by compiled model executables.
const (
	MethodSample MethodKind = iota
	MethodOptimize
	MethodGenerateQuantities
	MethodVariational
)

// String returns the executable-facing method name.
func (k MethodKind) String() string {
	switch k {
	case MethodSample:
		return "sample"
	case MethodOptimize:
		return "optimize"
	case MethodGenerateQuantities:
		return "generate_quantities"
	case MethodVariational:
		return "variational"
	}
	return "unknown"
}

// Method is the closed set of per-method argument containers: Sampler,
// Optimizer, GenQuant, and Variational. Populate one as a plain struct
// literal and hand it to NewRunConfig, which validates it once and keeps
// the validated copy. Only that copy is ever composed against.
type Method interface {
	// Kind reports which inference method these arguments describe.
	Kind() MethodKind

	// validate checks the arguments against the chain count and returns
	// the validated form: list options copied, derived fields (like the
	// resolved metric name) filled in.
	validate(chains int) (Method, error)

	// compose appends the method-specific tail of the command line for
	// one zero-based chain index.
	compose(idx int, cmd *strings.Builder)
}
