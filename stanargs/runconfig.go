package stanargs

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/CraigKelly/stanrun/rand"
)

// SeedSource draws the default random seed for a run when the caller does
// not supply one. rand.Generator implements it; tests inject deterministic
// sources.
type SeedSource interface {
	Int63n(n int64) int64
}

// maxSeed is the largest seed the executable accepts (2^32 - 1).
const maxSeed = int64(math.MaxUint32)

// RunOpts are the options common to every inference method. Zero values
// mean "not set": the composed command omits the flag and the executable
// applies its own default. Scalar and per-chain forms of the same option
// (Seed/Seeds, Inits/InitsFile/InitsFiles, DataFile/Data) are mutually
// exclusive.
type RunOpts struct {
	ModelName  string                 // model name (required)
	ModelExe   string                 // compiled model executable (required, not stat-checked)
	ChainIDs   []int                  // per-chain ids (>= 1, no duplicates); nil runs chainless
	DataFile   string                 // input data file, must exist
	Data       map[string]interface{} // inline input data; see the Data method on RunConfig
	Seed       *int64                 // RNG seed in [0, 2^32-1]
	Seeds      []int64                // per-chain RNG seeds
	Inits      *float64               // radius for uniform random initialization (>= 0)
	InitsFile  string                 // initial values file, must exist
	InitsFiles []string               // per-chain initial values files (distinct, existing)
	OutputBase string                 // output path; its directory must exist and be writable
	Refresh    *int                   // progress report interval
}

// RunConfig is a validated, immutable description of one run: the common
// options plus one validated Method. Construct with NewRunConfig. Nothing
// mutates a RunConfig after construction, so ComposeCommand may be called
// from multiple goroutines.
type RunConfig struct {
	modelName  string
	modelExe   string
	chainIDs   []int
	dataFile   string
	data       map[string]interface{}
	seed       int64
	seeds      []int64
	inits      *float64
	initsFile  string
	initsFiles []string
	outputBase string
	refresh    *int

	kind   MethodKind
	method Method
}

// NewRunConfig validates opts and m and returns the immutable config.
// Validation stops at the first violation and returns a ConfigError. When
// opts leaves the seed unset, src draws a default in [1, 99999]; a nil src
// falls back to a time-seeded Mersenne Twister.
func NewRunConfig(opts RunOpts, m Method, src SeedSource) (*RunConfig, error) {
	if m == nil {
		return nil, configErrorf("No method arguments given")
	}
	vm, err := m.validate(len(opts.ChainIDs))
	if err != nil {
		return nil, err
	}

	if opts.ModelName == "" {
		return nil, configErrorf("No Stan model specified")
	}
	if opts.ModelExe == "" {
		return nil, configErrorf("Model not compiled, no executable given")
	}

	rc := &RunConfig{
		modelName: opts.ModelName,
		modelExe:  opts.ModelExe,
		dataFile:  opts.DataFile,
		data:      opts.Data,
		initsFile: opts.InitsFile,
		kind:      vm.Kind(),
		method:    vm,
	}

	if opts.ChainIDs != nil {
		seen := make(map[int]bool, len(opts.ChainIDs))
		for _, id := range opts.ChainIDs {
			if id < 1 {
				return nil, configErrorf("Invalid chain_id %d", id)
			}
			if seen[id] {
				return nil, configErrorf("Duplicate chain_id %d", id)
			}
			seen[id] = true
		}
		rc.chainIDs = append([]int(nil), opts.ChainIDs...)
	}

	if opts.OutputBase != "" {
		base, err := probeOutputPath(opts.OutputBase)
		if err != nil {
			return nil, err
		}
		rc.outputBase = base
	}

	switch {
	case opts.Seed != nil && opts.Seeds != nil:
		return nil, configErrorf("seed must be a single value or one value per chain, not both")
	case opts.Seed != nil:
		if *opts.Seed < 0 || *opts.Seed > maxSeed {
			return nil, configErrorf("seed must be an integer between 0 and 2^32-1, found %d", *opts.Seed)
		}
		rc.seed = *opts.Seed
	case opts.Seeds != nil:
		if opts.ChainIDs == nil {
			return nil, configErrorf("seed must not be a list when no chains used")
		}
		if len(opts.Seeds) != len(opts.ChainIDs) {
			return nil, configErrorf("Number of seeds must match number of chains, found %d seeds for %d chains", len(opts.Seeds), len(opts.ChainIDs))
		}
		for _, sd := range opts.Seeds {
			if sd < 0 || sd > maxSeed {
				return nil, configErrorf("seed must be an integer between 0 and 2^32-1, found %d", sd)
			}
		}
		rc.seeds = append([]int64(nil), opts.Seeds...)
	default:
		if src == nil {
			src = rand.NewTimeSeeded()
		}
		rc.seed = src.Int63n(99999) + 1
	}

	if opts.DataFile != "" && opts.Data != nil {
		return nil, configErrorf("data must be a file or an inline mapping, not both")
	}
	if opts.DataFile != "" {
		if _, err := os.Stat(opts.DataFile); err != nil {
			return nil, configErrorf("No such file %s", opts.DataFile)
		}
	} else if opts.Data == nil && rc.kind == MethodOptimize {
		return nil, configErrorf("Data must be set when optimizing")
	}

	haveInits := 0
	if opts.Inits != nil {
		haveInits++
	}
	if opts.InitsFile != "" {
		haveInits++
	}
	if opts.InitsFiles != nil {
		haveInits++
	}
	if haveInits > 1 {
		return nil, configErrorf("inits must be a single value, a file, or one file per chain, not a combination")
	}
	switch {
	case opts.Inits != nil:
		if *opts.Inits < 0 {
			return nil, configErrorf("inits must be > 0, found %v", *opts.Inits)
		}
		v := *opts.Inits
		rc.inits = &v
	case opts.InitsFile != "":
		if _, err := os.Stat(opts.InitsFile); err != nil {
			return nil, configErrorf("No such file %s", opts.InitsFile)
		}
	case opts.InitsFiles != nil:
		if opts.ChainIDs == nil {
			return nil, configErrorf("inits must not be a list when no chains are used")
		}
		if len(opts.InitsFiles) != len(opts.ChainIDs) {
			return nil, configErrorf("Number of inits files must match number of chains, found %d inits files for %d chains", len(opts.InitsFiles), len(opts.ChainIDs))
		}
		seen := make(map[string]bool, len(opts.InitsFiles))
		for _, f := range opts.InitsFiles {
			if seen[f] {
				return nil, configErrorf("Each chain must have its own init file, found duplicate %s", f)
			}
			seen[f] = true
		}
		for _, f := range opts.InitsFiles {
			if _, err := os.Stat(f); err != nil {
				return nil, configErrorf("No such file %s", f)
			}
		}
		rc.initsFiles = append([]string(nil), opts.InitsFiles...)
	}

	if opts.Refresh != nil {
		v := *opts.Refresh
		rc.refresh = &v
	}

	return rc, nil
}

// probeOutputPath verifies that base names a writable location, then
// returns base with its extension stripped. The probe opens the file for
// writing without truncating it; a file created by the probe is removed,
// a file that already existed is left exactly as it was.
func probeOutputPath(base string) (string, error) {
	if info, err := os.Stat(filepath.Dir(base)); err != nil || !info.IsDir() {
		return "", configErrorf("Invalid path for output files: %s", base)
	}
	_, statErr := os.Stat(base)
	f, err := os.OpenFile(base, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return "", configErrorf("Invalid path for output files: %s", base)
	}
	f.Close()
	if os.IsNotExist(statErr) {
		os.Remove(base)
	}
	return strings.TrimSuffix(base, filepath.Ext(base)), nil
}

// ComposeCommand renders the complete invocation string for one chain.
// idx is the zero-based chain index; when the run is chainless it is
// ignored. csvFile is where the executable writes its draws. The result
// is deterministic: composing the same index twice yields the same string.
func (rc *RunConfig) ComposeCommand(idx int, csvFile string) (string, error) {
	if rc.chainIDs != nil && (idx < 0 || idx > len(rc.chainIDs)-1) {
		return "", configErrorf("Index (%d) exceeds number of chains (%d)", idx, len(rc.chainIDs))
	}

	var cmd strings.Builder
	cmd.WriteString(rc.modelExe)
	if rc.chainIDs != nil {
		fmt.Fprintf(&cmd, " id=%d", rc.chainIDs[idx])
	}
	if rc.seeds != nil {
		fmt.Fprintf(&cmd, " random seed=%d", rc.seeds[idx])
	} else {
		fmt.Fprintf(&cmd, " random seed=%d", rc.seed)
	}
	if rc.dataFile != "" {
		fmt.Fprintf(&cmd, " data file=%s", rc.dataFile)
	}
	switch {
	case rc.inits != nil:
		fmt.Fprintf(&cmd, " init=%v", *rc.inits)
	case rc.initsFile != "":
		fmt.Fprintf(&cmd, " init=%s", rc.initsFile)
	case rc.initsFiles != nil:
		fmt.Fprintf(&cmd, " init=%s", rc.initsFiles[idx])
	}
	fmt.Fprintf(&cmd, " output file=%s", csvFile)
	if rc.refresh != nil {
		fmt.Fprintf(&cmd, " refresh=%d", *rc.refresh)
	}
	rc.method.compose(idx, &cmd)

	return cmd.String(), nil
}

// ModelName returns the model name.
func (rc *RunConfig) ModelName() string { return rc.modelName }

// ModelExe returns the path to the compiled model executable.
func (rc *RunConfig) ModelExe() string { return rc.modelExe }

// Kind reports which inference method this run invokes.
func (rc *RunConfig) Kind() MethodKind { return rc.kind }

// ChainIDs returns a copy of the per-chain id list, nil for a chainless
// run.
func (rc *RunConfig) ChainIDs() []int {
	if rc.chainIDs == nil {
		return nil
	}
	return append([]int(nil), rc.chainIDs...)
}

// ChainCount returns the number of chains, 0 for a chainless run.
func (rc *RunConfig) ChainCount() int { return len(rc.chainIDs) }

// Seed returns the scalar RNG seed (the drawn default when the caller
// supplied none). When per-chain seeds are in use, see Seeds.
func (rc *RunConfig) Seed() int64 { return rc.seed }

// Seeds returns a copy of the per-chain seed list, nil when a single seed
// covers the whole run.
func (rc *RunConfig) Seeds() []int64 {
	if rc.seeds == nil {
		return nil
	}
	return append([]int64(nil), rc.seeds...)
}

// DataFile returns the input data file path, "" if none was given.
func (rc *RunConfig) DataFile() string { return rc.dataFile }

// Data returns the inline data mapping, nil if none was given. The
// mapping never renders into a composed command. Serialize it with the
// standata package and pass the resulting path as DataFile instead. The
// returned map is shared with the caller that built the RunOpts.
func (rc *RunConfig) Data() map[string]interface{} { return rc.data }

// OutputBase returns the validated output basename, extension stripped,
// "" if none was given.
func (rc *RunConfig) OutputBase() string { return rc.outputBase }
