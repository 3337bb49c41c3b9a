package cmd

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/CraigKelly/stanrun/rand"
	"github.com/CraigKelly/stanrun/stanargs"
	"github.com/CraigKelly/stanrun/standata"
)

// startupParams is the state shared by every subcommand: the persistent
// flags mapped onto run options, plus a logger that is silent unless
// --verbose was given.
type startupParams struct {
	out      *log.Logger
	opts     stanargs.RunOpts
	tempData string // temp file holding inline data, "" if none
}

// newStartupParams maps the persistent flags onto run options. defChains
// is the chain count to use when neither --chains nor --chain-ids was
// given (sampling defaults to 4, single-run methods to 0). Flags the user
// never touched stay unset so the executable's own defaults apply.
func newStartupParams(cmd *cobra.Command, defChains int) (*startupParams, error) {
	sp := &startupParams{
		out: log.New(ioutil.Discard, "", 0),
	}
	if verbose {
		sp.out = log.New(os.Stderr, "", 0)
	}

	fl := cmd.Flags()

	sp.opts.ModelExe = modelExe
	sp.opts.ModelName = modelName
	if sp.opts.ModelName == "" && modelExe != "" {
		base := filepath.Base(modelExe)
		sp.opts.ModelName = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ids := chainIDList
	if ids == nil {
		n := chainCount
		if n < 1 {
			n = defChains
		}
		if n > 0 {
			ids = make([]int, n)
			for i := range ids {
				ids[i] = i + 1
			}
		}
	}
	sp.opts.ChainIDs = ids

	if fl.Changed("seed") {
		v := flagSeed
		sp.opts.Seed = &v
	}
	if len(flagSeeds) > 0 {
		sp.opts.Seeds = flagSeeds
	}
	if fl.Changed("init") {
		v := flagInits
		sp.opts.Inits = &v
	}
	sp.opts.InitsFile = flagInitFile
	if len(flagInitFiles) > 0 {
		sp.opts.InitsFiles = flagInitFiles
	}
	if fl.Changed("refresh") {
		v := flagRefresh
		sp.opts.Refresh = &v
	}

	switch {
	case dataFile != "" && dataInline != "":
		return nil, errors.New("Only one of --data and --data-inline may be given")
	case dataFile != "":
		sp.opts.DataFile = dataFile
	case dataInline != "":
		var vals map[string]interface{}
		if err := json.Unmarshal([]byte(dataInline), &vals); err != nil {
			return nil, errors.Wrap(err, "Could not parse --data-inline")
		}
		tmp, err := standata.DumpTemp("", vals)
		if err != nil {
			return nil, err
		}
		sp.tempData = tmp
		sp.opts.DataFile = tmp
		sp.out.Printf("Inline data written to %s\n", tmp)
	}

	sp.opts.OutputBase = outputBase
	if sp.opts.OutputBase == "" {
		sp.opts.OutputBase = sp.opts.ModelName
	}

	return sp, nil
}

// composeAll validates the full configuration and prints one composed
// invocation per chain to stdout. The temp data file (if any) is left in
// place: the printed commands reference it.
func composeAll(cmd *cobra.Command, m stanargs.Method, defChains int) error {
	sp, err := newStartupParams(cmd, defChains)
	if err != nil {
		return err
	}

	rc, err := stanargs.NewRunConfig(sp.opts, m, rand.NewTimeSeeded())
	if err != nil {
		if sp.tempData != "" {
			os.Remove(sp.tempData)
		}
		return err
	}

	sp.out.Printf("Model:  %s\n", rc.ModelName())
	sp.out.Printf("Method: %s\n", rc.Kind())
	sp.out.Printf("Chains: %d\n", rc.ChainCount())
	if rc.Seeds() == nil {
		sp.out.Printf("Seed:   %d\n", rc.Seed())
	}

	if rc.ChainCount() == 0 {
		line, err := rc.ComposeCommand(0, rc.OutputBase()+".csv")
		if err != nil {
			return err
		}
		fmt.Println(line)
		return nil
	}

	ids := rc.ChainIDs()
	for i := 0; i < rc.ChainCount(); i++ {
		csv := fmt.Sprintf("%s-%d.csv", rc.OutputBase(), ids[i])
		line, err := rc.ComposeCommand(i, csv)
		if err != nil {
			return err
		}
		fmt.Println(line)
	}

	return nil
}
