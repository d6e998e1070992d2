package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
	"github.com/SLassalle/real-estate-price-prediction/internal/registry"
)

// LoadRegistry loads the feature registry for a command. An empty path
// selects the built-in Ames registry; otherwise the YAML file at path is
// schema-validated and decoded.
func LoadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Ames(), nil
	}
	return registry.Load(path)
}

// LoadDataset reads a CSV file into a Dataset under the registry's column
// policies. The header row names the columns; every header column must be
// declared in the registry, and each cell is parsed with its column's
// declared raw type. Empty cells and "NA" become the missing marker.
func LoadDataset(path string, reg *registry.Registry) (*feature.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // length-checked below with row context

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	// Collect every undeclared column before failing so one pass over the
	// header reports the full problem.
	var unknown []string
	specs := make([]feature.Spec, len(header))
	for i, col := range header {
		spec, lookupErr := reg.Lookup(col)
		if lookupErr != nil {
			unknown = append(unknown, col)
			continue
		}
		specs[i] = spec
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("dataset columns not declared in registry: %s", strings.Join(unknown, ", "))
	}

	ds := &feature.Dataset{Columns: header}
	row := 1
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row %d: %w", row, err)
		}
		if len(fields) != len(header) {
			return nil, fmt.Errorf("dataset row %d has %d fields, header has %d", row, len(fields), len(header))
		}

		rec := make(feature.RawRecord, len(header))
		for i, raw := range fields {
			v, err := feature.ParseCell(strings.TrimSpace(raw), specs[i].RawType)
			if err != nil {
				return nil, fmt.Errorf("dataset row %d, column %q: %w", row, header[i], err)
			}
			rec[header[i]] = v
		}
		ds.Records = append(ds.Records, rec)
		row++
	}

	if len(ds.Records) == 0 {
		return nil, fmt.Errorf("dataset %s has a header but no rows", path)
	}
	return ds, nil
}
