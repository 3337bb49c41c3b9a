package stanargs

import (
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunConfigRequiredParts(t *testing.T) {
	assert := assert.New(t)

	rc, err := NewRunConfig(vanillaOpts(), nil, nil)
	assert.Nil(rc)
	assert.Error(err)
	assert.True(IsConfigError(err))

	opts := vanillaOpts()
	opts.ModelName = ""
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	opts = vanillaOpts()
	opts.ModelExe = ""
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	// Sampling without chains fails in the method check
	opts = vanillaOpts()
	opts.ChainIDs = nil
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)
}

func TestRunConfigChainIDs(t *testing.T) {
	assert := assert.New(t)

	opts := vanillaOpts()
	opts.ChainIDs = []int{0, 1}
	_, err := NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	opts.ChainIDs = []int{1, 1}
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	opts.ChainIDs = []int{2, 7}
	rc, err := NewRunConfig(opts, Sampler{}, fixedSeed{10})
	assert.NoError(err)
	assert.Equal(2, rc.ChainCount())
	assert.Equal([]int{2, 7}, rc.ChainIDs())

	line, err := rc.ComposeCommand(0, "o.csv")
	assert.NoError(err)
	assert.Contains(line, " id=2 ")
	line, err = rc.ComposeCommand(1, "o.csv")
	assert.NoError(err)
	assert.Contains(line, " id=7 ")
}

func TestRunConfigSeeds(t *testing.T) {
	assert := assert.New(t)

	opts := vanillaOpts()
	opts.Seed = i64p(-1)
	_, err := NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	opts.Seed = i64p(int64(math.MaxUint32) + 1)
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	opts.Seed = i64p(int64(math.MaxUint32))
	rc, err := NewRunConfig(opts, Sampler{}, nil)
	assert.NoError(err)
	assert.Equal(int64(math.MaxUint32), rc.Seed())

	// Scalar and per-chain seeds are mutually exclusive
	opts = vanillaOpts()
	opts.Seed = i64p(1)
	opts.Seeds = []int64{1, 2}
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	opts = vanillaOpts()
	opts.Seeds = []int64{1}
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	opts.Seeds = []int64{1, -2}
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	opts.Seeds = []int64{11, 22}
	rc, err = NewRunConfig(opts, Sampler{}, nil)
	assert.NoError(err)
	assert.Equal([]int64{11, 22}, rc.Seeds())

	line, err := rc.ComposeCommand(0, "o.csv")
	assert.NoError(err)
	assert.Contains(line, " random seed=11 ")
	line, err = rc.ComposeCommand(1, "o.csv")
	assert.NoError(err)
	assert.Contains(line, " random seed=22 ")

	// Per-chain seeds require chains
	opts = vanillaOpts()
	opts.ChainIDs = nil
	opts.Seeds = []int64{1}
	_, err = NewRunConfig(opts, Optimizer{}, nil)
	assert.Error(err)
}

func TestRunConfigSeedDefaultDraw(t *testing.T) {
	assert := assert.New(t)

	// An injected source makes the draw deterministic
	rc, err := NewRunConfig(vanillaOpts(), Sampler{}, fixedSeed{41})
	assert.NoError(err)
	assert.Equal(int64(42), rc.Seed())

	line, err := rc.ComposeCommand(0, "o.csv")
	assert.NoError(err)
	assert.Contains(line, " random seed=42 ")

	// With no source the seed is drawn fresh, always in [1, 99999]
	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		rc, err := NewRunConfig(vanillaOpts(), Sampler{}, nil)
		assert.NoError(err)
		s := rc.Seed()
		assert.True(s >= 1 && s <= 99999)
		seen[s] = true
	}
	assert.True(len(seen) > 1)
}

func TestRunConfigData(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	opts := vanillaOpts()
	opts.DataFile = filepath.Join(dir, "gone.json")
	_, err := NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	data := tmpFile(t, dir, "data.json", `{"N": 10, "y": [0, 1, 0, 0, 0, 0, 0, 0, 0, 1]}`)
	opts.DataFile = data
	rc, err := NewRunConfig(opts, Sampler{}, fixedSeed{1})
	assert.NoError(err)
	assert.Equal(data, rc.DataFile())

	line, err := rc.ComposeCommand(0, "o.csv")
	assert.NoError(err)
	assert.Contains(line, " data file="+data+" ")

	// Optimization needs data in some form
	opts = vanillaOpts()
	opts.ChainIDs = nil
	_, err = NewRunConfig(opts, Optimizer{}, nil)
	assert.Error(err)

	opts.DataFile = data
	_, err = NewRunConfig(opts, Optimizer{}, nil)
	assert.NoError(err)

	// Inline data satisfies the requirement but never reaches the command
	opts = vanillaOpts()
	opts.ChainIDs = nil
	opts.Data = map[string]interface{}{"N": 10}
	rc, err = NewRunConfig(opts, Optimizer{}, fixedSeed{1})
	assert.NoError(err)
	assert.NotNil(rc.Data())

	line, err = rc.ComposeCommand(0, "o.csv")
	assert.NoError(err)
	assert.NotContains(line, "data file=")

	// File and inline data are mutually exclusive
	opts.DataFile = data
	_, err = NewRunConfig(opts, Optimizer{}, nil)
	assert.Error(err)
}

func TestRunConfigInits(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	opts := vanillaOpts()
	opts.Inits = fp(-1.0)
	_, err := NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	opts.Inits = fp(2.5)
	rc, err := NewRunConfig(opts, Sampler{}, fixedSeed{1})
	assert.NoError(err)
	line, err := rc.ComposeCommand(0, "o.csv")
	assert.NoError(err)
	assert.Contains(line, " init=2.5 ")

	opts = vanillaOpts()
	opts.InitsFile = filepath.Join(dir, "gone.json")
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	inits := tmpFile(t, dir, "inits.json", `{"theta": 0.5}`)
	opts.InitsFile = inits
	rc, err = NewRunConfig(opts, Sampler{}, fixedSeed{1})
	assert.NoError(err)
	line, err = rc.ComposeCommand(1, "o.csv")
	assert.NoError(err)
	assert.Contains(line, " init="+inits+" ")

	// Per-chain init files
	i1 := tmpFile(t, dir, "i1.json", `{"theta": 0.1}`)
	i2 := tmpFile(t, dir, "i2.json", `{"theta": 0.9}`)

	opts = vanillaOpts()
	opts.InitsFiles = []string{i1}
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	opts.InitsFiles = []string{i1, i1}
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	opts.InitsFiles = []string{i1, filepath.Join(dir, "gone.json")}
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)

	opts.InitsFiles = []string{i1, i2}
	rc, err = NewRunConfig(opts, Sampler{}, fixedSeed{1})
	assert.NoError(err)
	line, err = rc.ComposeCommand(0, "o.csv")
	assert.NoError(err)
	assert.Contains(line, " init="+i1+" ")
	line, err = rc.ComposeCommand(1, "o.csv")
	assert.NoError(err)
	assert.Contains(line, " init="+i2+" ")

	// Lists require chains
	opts = vanillaOpts()
	opts.ChainIDs = nil
	opts.InitsFiles = []string{i1}
	_, err = NewRunConfig(opts, Variational{}, nil)
	assert.Error(err)

	// Only one form of inits at a time
	opts = vanillaOpts()
	opts.Inits = fp(1.0)
	opts.InitsFile = inits
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)
}

func TestRunConfigOutputProbe(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	// The probe file is created and removed again
	opts := vanillaOpts()
	opts.OutputBase = filepath.Join(dir, "results.csv")
	rc, err := NewRunConfig(opts, Sampler{}, fixedSeed{1})
	assert.NoError(err)
	assert.Equal(filepath.Join(dir, "results"), rc.OutputBase())

	_, statErr := os.Stat(opts.OutputBase)
	assert.True(os.IsNotExist(statErr))

	// A file that already exists is left exactly as it was
	keep := filepath.Join(dir, "keep.csv")
	assert.NoError(ioutil.WriteFile(keep, []byte("precious draws"), 0644))

	opts.OutputBase = keep
	rc, err = NewRunConfig(opts, Sampler{}, fixedSeed{1})
	assert.NoError(err)
	assert.Equal(filepath.Join(dir, "keep"), rc.OutputBase())

	contents, err := ioutil.ReadFile(keep)
	assert.NoError(err)
	assert.Equal("precious draws", string(contents))

	// Missing parent directory
	opts.OutputBase = filepath.Join(dir, "nope", "results.csv")
	_, err = NewRunConfig(opts, Sampler{}, nil)
	assert.Error(err)
	assert.True(IsConfigError(err))
}

func TestComposeBounds(t *testing.T) {
	assert := assert.New(t)

	rc, err := NewRunConfig(vanillaOpts(), Sampler{}, fixedSeed{1})
	assert.NoError(err)

	_, err = rc.ComposeCommand(-1, "o.csv")
	assert.Error(err)
	assert.True(IsConfigError(err))

	_, err = rc.ComposeCommand(2, "o.csv")
	assert.Error(err)

	// A chainless run ignores the index entirely
	opts := vanillaOpts()
	opts.ChainIDs = nil
	opts.Data = map[string]interface{}{"N": 1}
	rc, err = NewRunConfig(opts, Optimizer{}, fixedSeed{1})
	assert.NoError(err)

	line, err := rc.ComposeCommand(5, "o.csv")
	assert.NoError(err)
	assert.NotContains(line, " id=")
	assert.Equal(
		"./bernoulli random seed=2 output file=o.csv method=optimize",
		line,
	)
}

func TestRunConfigRefresh(t *testing.T) {
	assert := assert.New(t)

	opts := vanillaOpts()
	opts.Refresh = ip(100)
	rc, err := NewRunConfig(opts, Sampler{}, fixedSeed{1})
	assert.NoError(err)

	line, err := rc.ComposeCommand(0, "o.csv")
	assert.NoError(err)
	assert.Contains(line, " refresh=100 method=sample")
}
