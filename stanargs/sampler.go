package stanargs

import (
	"fmt"
	"os"
	"strings"

	"github.com/CraigKelly/stanrun/metric"
)

// MetricReader resolves the dimensions of a mass matrix stored in a metric
// file, one entry per dimension in order. The zero value of metric.Reader
// is the default implementation.
type MetricReader interface {
	Dims(path string) ([]int, error)
}

// Sampler holds the arguments for the NUTS/HMC adaptive sampler. A nil
// pointer field means "not set": the flag is omitted from the composed
// command and the executable applies its own default. Zero is a meaningful
// value for several options (WarmupIters in particular), which is why the
// optional fields are pointers.
type Sampler struct {
	WarmupIters   *int      // num_warmup: iterations spent adapting (>= 0)
	SamplingIters *int      // num_samples: post-warmup draws (>= 0)
	SaveWarmup    bool      // keep warmup draws in the output file
	Thin          *int      // keep every thin-th draw (>= 1)
	MaxTreedepth  *int      // NUTS tree depth cap (>= 1)
	Metric        string    // metric name (diag, diag_e, dense, dense_e) or a single metric file
	MetricFiles   []string  // per-chain metric files (distinct, consistent dimensions)
	StepSize      *float64  // leapfrog integrator step size
	StepSizes     []float64 // per-chain step sizes
	AdaptEngaged  *bool     // engaged=0/1; nil leaves adaptation to the executable
	AdaptDelta    *float64  // adaptation target acceptance, strictly between 0 and 1

	// Reader resolves metric file dimensions; nil uses metric.Reader.
	Reader MetricReader

	metricName  string   // resolved metric name, set during validation
	metricFile  string   // resolved single metric file
	metricFiles []string // resolved per-chain metric files
}

// Kind implements Method.
func (s Sampler) Kind() MethodKind { return MethodSample }

func (s Sampler) reader() MetricReader {
	if s.Reader != nil {
		return s.Reader
	}
	return metric.Reader{}
}

// validate implements Method. Metric files are read here so that the
// resolved metric name (diag_e or dense_e) is fixed before any command is
// composed.
func (s Sampler) validate(chains int) (Method, error) {
	if chains < 1 {
		return nil, configErrorf("Sampler expects number of chains to be greater than 0, found %d", chains)
	}

	if s.WarmupIters != nil {
		if *s.WarmupIters < 0 {
			return nil, configErrorf("warmup_iters must be a non-negative integer, found %d", *s.WarmupIters)
		}
		if s.AdaptEngaged != nil && *s.AdaptEngaged && *s.WarmupIters == 0 {
			return nil, configErrorf("Adaptation requested but 0 warmup iterations specified, must run warmup iterations")
		}
	}
	if s.SamplingIters != nil && *s.SamplingIters < 0 {
		return nil, configErrorf("sampling_iters must be a non-negative integer, found %d", *s.SamplingIters)
	}
	if s.Thin != nil && *s.Thin < 1 {
		return nil, configErrorf("thin must be at least 1, found %d", *s.Thin)
	}
	if s.MaxTreedepth != nil && *s.MaxTreedepth < 1 {
		return nil, configErrorf("max_treedepth must be at least 1, found %d", *s.MaxTreedepth)
	}

	if s.StepSize != nil && s.StepSizes != nil {
		return nil, configErrorf("step_size must be a single value or one value per chain, not both")
	}
	if s.StepSize != nil && *s.StepSize < 0 {
		return nil, configErrorf("step_size must be > 0, found %v", *s.StepSize)
	}
	if s.StepSizes != nil {
		if len(s.StepSizes) != chains {
			return nil, configErrorf("Number of step_sizes must match number of chains, found %d step_sizes for %d chains", len(s.StepSizes), chains)
		}
		for _, ss := range s.StepSizes {
			if ss < 0 {
				return nil, configErrorf("step_size must be > 0, found %v", ss)
			}
		}
		s.StepSizes = append([]float64(nil), s.StepSizes...)
	}

	if s.Metric != "" && s.MetricFiles != nil {
		return nil, configErrorf("metric must be a single name or file, or one file per chain, not both")
	}
	var dims []int
	switch s.Metric {
	case "":
		// nothing specified, or per-chain files handled below
	case "diag", "diag_e":
		s.metricName = "diag_e"
	case "dense", "dense_e":
		s.metricName = "dense_e"
	default:
		if _, err := os.Stat(s.Metric); err != nil {
			return nil, configErrorf("No such file %s", s.Metric)
		}
		d, err := s.reader().Dims(s.Metric)
		if err != nil {
			return nil, configWrapf(err, "Could not read metric file %s", s.Metric)
		}
		dims = d
		s.metricFile = s.Metric
	}
	if s.MetricFiles != nil {
		if len(s.MetricFiles) != chains {
			return nil, configErrorf("Number of metric files must match number of chains, found %d metric files for %d chains", len(s.MetricFiles), chains)
		}
		seen := make(map[string]bool, len(s.MetricFiles))
		for _, mf := range s.MetricFiles {
			if seen[mf] {
				return nil, configErrorf("Each chain must have its own metric file, found duplicate %s", mf)
			}
			seen[mf] = true
		}
		for i, mf := range s.MetricFiles {
			if _, err := os.Stat(mf); err != nil {
				return nil, configErrorf("No such file %s", mf)
			}
			d, err := s.reader().Dims(mf)
			if err != nil {
				return nil, configWrapf(err, "Could not read metric file %s", mf)
			}
			if i == 0 {
				dims = d
			} else if !sameDims(dims, d) {
				return nil, configErrorf("Metric files %s, %s have inconsistent metrics", s.MetricFiles[0], mf)
			}
		}
		s.metricFiles = append([]string(nil), s.MetricFiles...)
	}
	if s.metricFile != "" || s.metricFiles != nil {
		switch {
		case len(dims) == 1:
			s.metricName = "diag_e"
		case len(dims) == 2 && dims[0] == dims[1]:
			s.metricName = "dense_e"
		default:
			return nil, configErrorf("Bad metric specification, dims %v", dims)
		}
	}

	if s.AdaptDelta != nil && (*s.AdaptDelta <= 0 || *s.AdaptDelta >= 1) {
		return nil, configErrorf("adapt_delta must be between 0 and 1, found %v", *s.AdaptDelta)
	}

	return s, nil
}

// compose implements Method. The flag order matches the executable's
// argument grammar: iteration counts, algorithm, engine, integrator,
// metric, then the adapt block.
func (s Sampler) compose(idx int, cmd *strings.Builder) {
	cmd.WriteString(" method=sample")
	if s.SamplingIters != nil {
		fmt.Fprintf(cmd, " num_samples=%d", *s.SamplingIters)
	}
	if s.WarmupIters != nil {
		fmt.Fprintf(cmd, " num_warmup=%d", *s.WarmupIters)
	}
	if s.SaveWarmup {
		cmd.WriteString(" save_warmup=1")
	}
	if s.Thin != nil {
		fmt.Fprintf(cmd, " thin=%d", *s.Thin)
	}
	cmd.WriteString(" algorithm=hmc")
	if s.MaxTreedepth != nil {
		fmt.Fprintf(cmd, " engine=nuts max_depth=%d", *s.MaxTreedepth)
	}
	if s.StepSize != nil {
		fmt.Fprintf(cmd, " stepsize=%v", *s.StepSize)
	} else if s.StepSizes != nil {
		fmt.Fprintf(cmd, " stepsize=%v", s.StepSizes[idx])
	}
	if s.metricName != "" {
		fmt.Fprintf(cmd, " metric=%s", s.metricName)
	}
	if s.metricFile != "" {
		fmt.Fprintf(cmd, " metric_file=%q", s.metricFile)
	} else if s.metricFiles != nil {
		fmt.Fprintf(cmd, " metric_file=%q", s.metricFiles[idx])
	}
	if s.AdaptEngaged != nil || s.AdaptDelta != nil {
		cmd.WriteString(" adapt")
	}
	if s.AdaptEngaged != nil {
		if *s.AdaptEngaged {
			cmd.WriteString(" engaged=1")
		} else {
			cmd.WriteString(" engaged=0")
		}
	}
	if s.AdaptDelta != nil {
		fmt.Fprintf(cmd, " delta=%v", *s.AdaptDelta)
	}
}

func sameDims(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
