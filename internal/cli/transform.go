package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
	"github.com/SLassalle/real-estate-price-prediction/internal/leakage"
	"github.com/SLassalle/real-estate-price-prediction/internal/store"
	"github.com/SLassalle/real-estate-price-prediction/internal/transform"
)

// TransformOptions holds flags for the transform command.
type TransformOptions struct {
	*RootOptions
	Registry string
	Out      string
	Database string
}

// TransformSummary is the JSON payload describing a transform run.
type TransformSummary struct {
	Rows         int      `json:"rows"`
	Features     int      `json:"features"`
	FeatureNames []string `json:"feature_names"`
	Fingerprint  string   `json:"fingerprint"`
	Out          string   `json:"out,omitempty"`
	Persisted    bool     `json:"persisted"`
}

// NewTransformCommand creates the transform command.
func NewTransformCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransformOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "transform <data.csv>",
		Short: "Fit the transform on a dataset and emit the numeric matrix",
		Long: `Fit the preprocessing transform on a CSV dataset and write the
resulting numeric feature matrix.

The leakage filter runs first, then per-column strategies are fitted on
the full input (median impute, ordinal ranks, one-hot vocabularies) and
applied to it. The matrix is written as CSV with derived feature names
in the header.

Example:
  homeprice transform ./ames.csv --out matrix.csv
  homeprice transform ./ames.csv --registry custom.yaml --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Registry, "registry", "", "registry YAML file (default: built-in Ames)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "output CSV path (default: stdout)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database to persist the fitted transform")

	return cmd
}

func runTransform(opts *TransformOptions, dataPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	reg, err := LoadRegistry(opts.Registry)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load registry", err)
	}
	ds, err := LoadDataset(dataPath, reg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load dataset", err)
	}
	slog.Info("dataset loaded", "path", dataPath, "rows", ds.Len(), "columns", len(ds.Columns))

	surviving, err := leakage.Filter(ds.Columns, reg)
	if err != nil {
		return WrapExitError(ExitFailure, "leakage filter failed", err)
	}
	formatter.VerboseLog("Leakage filter: %d of %d columns survive", len(surviving), len(ds.Columns))

	ft, err := transform.Fit(ds, surviving, reg)
	if err != nil {
		return WrapExitError(ExitFailure, "transform fit failed", err)
	}
	transformed, err := ft.Apply(ds.Records)
	if err != nil {
		return WrapExitError(ExitFailure, "transform apply failed", err)
	}

	fp, err := ft.Fingerprint()
	if err != nil {
		return WrapExitError(ExitFailure, "transform fingerprint failed", err)
	}

	// The matrix goes to --out or, in text mode, to stdout. In JSON mode
	// stdout carries the summary, so a destination file is required.
	if opts.Out == "" && opts.Format == "json" {
		return NewExitError(ExitCommandError, "--out is required with --format json")
	}

	var matrixW io.Writer = cmd.OutOrStdout()
	if opts.Out != "" {
		f, err := os.Create(opts.Out)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create output file", err)
		}
		defer f.Close()
		matrixW = f
	}
	if err := writeMatrixCSV(matrixW, ft.FeatureNames, transformed); err != nil {
		return WrapExitError(ExitCommandError, "failed to write matrix", err)
	}

	persisted := false
	if opts.Database != "" {
		regFP, err := reg.Fingerprint()
		if err != nil {
			return WrapExitError(ExitFailure, "registry fingerprint failed", err)
		}
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		if _, err := st.WriteTransform(cmd.Context(), ft, regFP); err != nil {
			return WrapExitError(ExitCommandError, "failed to persist transform", err)
		}
		persisted = true
		slog.Info("fitted transform persisted", "db", opts.Database, "fingerprint", fp)
	}

	summary := TransformSummary{
		Rows:         ds.Len(),
		Features:     len(ft.FeatureNames),
		FeatureNames: ft.FeatureNames,
		Fingerprint:  fp,
		Out:          opts.Out,
		Persisted:    persisted,
	}
	if opts.Format == "json" {
		return formatter.Success(summary)
	}
	if opts.Out != "" {
		fmt.Fprintf(formatter.Writer, "✓ Transformed %d rows into %d features (%s)\n", summary.Rows, summary.Features, opts.Out)
	}
	return nil
}

// writeMatrixCSV writes the transformed matrix with derived feature names
// as the header. Values use shortest round-trip formatting so the output
// is byte-stable across runs.
func writeMatrixCSV(w io.Writer, featureNames []string, rows []feature.TransformedRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(featureNames); err != nil {
		return err
	}
	record := make([]string, len(featureNames))
	for _, row := range rows {
		for i, v := range row.Values {
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
