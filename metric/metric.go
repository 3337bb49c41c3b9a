package metric

import (
	"encoding/json"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Reader resolves the dimensions of a mass matrix ("metric") stored on
// disk. Two encodings are understood, the same two the inference
// executable consumes: JSON files (extension .json) with an "inv_metric"
// entry, and Rdump files with an inv_metric vector or structure. The zero
// value is ready to use.
type Reader struct{}

// Dims returns the ordered dimensions of the inv_metric entry in the
// file: one entry for a vector (diagonal metric), two for a matrix (dense
// metric).
func (Reader) Dims(path string) ([]int, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not read metric file %s", path)
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return jsonDims(data, path)
	}
	return rdumpDims(string(data), path)
}

// jsonDims pulls the shape of the inv_metric entry out of a JSON metric
// file. Nested arrays must be rectangular.
func jsonDims(data []byte, path string) ([]int, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "Invalid JSON in metric file %s", path)
	}
	entry, ok := doc["inv_metric"]
	if !ok {
		return nil, errors.Errorf("Metric file %s has no inv_metric entry", path)
	}
	dims, err := shape(entry)
	if err != nil {
		return nil, errors.Wrapf(err, "Metric file %s", path)
	}
	return dims, nil
}

// shape walks nested JSON arrays and returns their lengths, outermost
// first. A scalar entry yields no dimensions at all.
func shape(v interface{}) ([]int, error) {
	dims := []int{}
	for {
		arr, ok := v.([]interface{})
		if !ok {
			return dims, nil
		}
		dims = append(dims, len(arr))
		if len(arr) == 0 {
			return dims, nil
		}
		if err := rectangular(arr); err != nil {
			return nil, err
		}
		v = arr[0]
	}
}

// rectangular fails when sibling rows of one array level disagree on
// length or nesting.
func rectangular(arr []interface{}) error {
	first, nested := arr[0].([]interface{})
	for _, e := range arr[1:] {
		row, ok := e.([]interface{})
		if ok != nested || (ok && len(row) != len(first)) {
			return errors.Errorf("has ragged inv_metric rows")
		}
	}
	return nil
}

// rdumpDims scans an Rdump metric file for the inv_metric entry. A bare
// vector (inv_metric <- c(...)) is one-dimensional; a structure takes its
// shape from the .Dim attribute.
func rdumpDims(text, path string) ([]int, error) {
	at := strings.Index(text, "inv_metric")
	if at < 0 {
		return nil, errors.Errorf("Metric file %s has no inv_metric entry", path)
	}
	rest := text[at+len("inv_metric"):]
	arrow := strings.Index(rest, "<-")
	if arrow < 0 {
		return nil, errors.Errorf("Metric file %s has no value for inv_metric", path)
	}
	expr := strings.TrimSpace(rest[arrow+2:])

	switch {
	case strings.HasPrefix(expr, "structure"):
		dim := strings.Index(expr, ".Dim")
		if dim < 0 {
			return nil, errors.Errorf("Metric file %s has a structure with no .Dim", path)
		}
		dims, err := intVector(expr[dim:])
		if err != nil {
			return nil, errors.Wrapf(err, "Metric file %s has an invalid .Dim", path)
		}
		return dims, nil
	case strings.HasPrefix(expr, "c("):
		vals, err := floatVector(expr)
		if err != nil {
			return nil, errors.Wrapf(err, "Metric file %s has an invalid inv_metric vector", path)
		}
		return []int{len(vals)}, nil
	}
	return nil, errors.Errorf("Metric file %s has an unrecognized inv_metric value", path)
}

// intVector parses the first c(...) in s as integers. R dumps write
// dimensions as either ints or floats (c(2, 2) vs c(2., 2.)).
func intVector(s string) ([]int, error) {
	vals, err := floatVector(s)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = int(v)
	}
	return out, nil
}

// floatVector parses the first c(...) in s as floats.
func floatVector(s string) ([]float64, error) {
	fields, err := splitVector(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.Errorf("Bad vector entry %q", f)
		}
		out[i] = v
	}
	return out, nil
}

// splitVector returns the comma-separated fields of the first c(...) in s.
// The vector may span lines.
func splitVector(s string) ([]string, error) {
	open := strings.Index(s, "c(")
	if open < 0 {
		return nil, errors.Errorf("No c(...) vector found")
	}
	end := strings.Index(s[open:], ")")
	if end < 0 {
		return nil, errors.Errorf("Unterminated c(...) vector")
	}

	out := []string{}
	for _, p := range strings.Split(s[open+2:open+end], ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) < 1 {
		return nil, errors.Errorf("Empty c(...) vector")
	}
	return out, nil
}
