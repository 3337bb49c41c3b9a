package standata

import (
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
)

// Dump writes model input data to path as JSON in the layout compiled
// model executables read: one top-level entry per data block variable.
// Values must be JSON-encodable (numbers, bools, and nested arrays).
func Dump(path string, vals map[string]interface{}) error {
	buf, err := json.Marshal(vals)
	if err != nil {
		return errors.Wrapf(err, "Could not encode data for %s", path)
	}
	if err := ioutil.WriteFile(path, buf, 0644); err != nil {
		return errors.Wrapf(err, "Could not write data file %s", path)
	}
	return nil
}

// DumpTemp writes vals to a fresh temp file in dir and returns its path.
// An empty dir means the system temp directory. The caller owns the file
// and removes it when the run is done.
func DumpTemp(dir string, vals map[string]interface{}) (string, error) {
	f, err := ioutil.TempFile(dir, "stanrun-data-*.json")
	if err != nil {
		return "", errors.Wrap(err, "Could not create temp data file")
	}
	name := f.Name()
	f.Close()

	if err := Dump(name, vals); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}
