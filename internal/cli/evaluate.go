package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SLassalle/real-estate-price-prediction/internal/eval"
	"github.com/SLassalle/real-estate-price-prediction/internal/model"
	"github.com/SLassalle/real-estate-price-prediction/internal/store"
)

// EvaluateOptions holds flags for the evaluate command.
type EvaluateOptions struct {
	*RootOptions
	Registry    string
	Model       string
	Alpha       float64
	K           int
	Seed        int64
	NoShuffle   bool
	LogTarget   bool
	Tolerance   float64
	Concurrency int
	Database    string
}

// NewEvaluateCommand creates the evaluate command.
func NewEvaluateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvaluateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "evaluate <data.csv>",
		Short: "Score a model with K-fold cross-validation",
		Long: `Run leakage-safe K-fold cross-validation over a CSV dataset.

Each fold fits the preprocessing transform and a fresh model on its
training partition only, scores the held-out partition, and the per-fold
MAE, RMSE and R² are aggregated into a report with a stability verdict.
An unstable run (metric spread above tolerance) exits with code 1.

Example:
  homeprice evaluate ./ames.csv --k 5 --seed 42
  homeprice evaluate ./ames.csv --model ridge --alpha 1.0 --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Registry, "registry", "", "registry YAML file (default: built-in Ames)")
	cmd.Flags().StringVar(&opts.Model, "model", "ridge", "model to evaluate (ridge|mean)")
	cmd.Flags().Float64Var(&opts.Alpha, "alpha", 1.0, "ridge regularization strength")
	cmd.Flags().IntVar(&opts.K, "k", eval.DefaultK, "number of folds")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "shuffle seed")
	cmd.Flags().BoolVar(&opts.NoShuffle, "no-shuffle", false, "deal folds in row order without shuffling")
	cmd.Flags().BoolVar(&opts.LogTarget, "log-target", false, "train on log1p(target), invert predictions before MAE/RMSE")
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", eval.DefaultStabilityTolerance, "maximum relative metric spread (std/mean) for a stable run")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 1, "folds evaluated in parallel")
	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database to persist the report")

	return cmd
}

func runEvaluate(opts *EvaluateOptions, dataPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	factory, err := modelFactory(opts.Model, opts.Alpha)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid model", err)
	}

	reg, err := LoadRegistry(opts.Registry)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load registry", err)
	}
	ds, err := LoadDataset(dataPath, reg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load dataset", err)
	}

	report, err := eval.Evaluate(cmd.Context(), ds, reg, factory, eval.Options{
		K:                  opts.K,
		Seed:               opts.Seed,
		NoShuffle:          opts.NoShuffle,
		LogTarget:          opts.LogTarget,
		StabilityTolerance: opts.Tolerance,
		Concurrency:        opts.Concurrency,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "evaluation failed", err)
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		if err := st.WriteReport(cmd.Context(), report); err != nil {
			return WrapExitError(ExitCommandError, "failed to persist report", err)
		}
		slog.Info("report persisted", "db", opts.Database, "run_id", report.RunID)
	}

	if opts.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		renderReport(formatter, report)
	}

	if !report.Stability.Pass {
		return NewExitError(ExitFailure,
			fmt.Sprintf("run is unstable: MAE spread %.4f, RMSE spread %.4f, tolerance %.4f",
				report.Stability.MAESpread, report.Stability.RMSESpread, report.Stability.Tolerance))
	}
	return nil
}

// modelFactory resolves the --model flag into a model constructor.
func modelFactory(name string, alpha float64) (model.Factory, error) {
	switch name {
	case "ridge":
		return model.RidgeFactory(alpha), nil
	case "mean":
		return model.MeanFactory(), nil
	default:
		return nil, fmt.Errorf("unknown model %q (want ridge or mean)", name)
	}
}

// renderReport prints the human-readable report.
func renderReport(f *OutputFormatter, r *eval.Report) {
	w := f.Writer
	fmt.Fprintf(w, "Run %s\n", r.RunID)
	fmt.Fprintf(w, "  rows=%d features=%d k=%d seed=%d shuffle=%t log_target=%t\n",
		r.Rows, r.Features, r.K, r.Seed, r.Shuffle, r.LogTarget)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  fold     MAE        RMSE       R²")
	for _, fr := range r.Folds {
		fmt.Fprintf(w, "  %4d  %10.2f %10.2f  %7.4f\n", fr.Fold, fr.MAE, fr.RMSE, fr.R2)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  MAE  mean %.2f std %.2f\n", r.MAE.Mean, r.MAE.Std)
	fmt.Fprintf(w, "  RMSE mean %.2f std %.2f\n", r.RMSE.Mean, r.RMSE.Std)
	fmt.Fprintf(w, "  R²   mean %.4f std %.4f\n", r.R2.Mean, r.R2.Std)
	fmt.Fprintln(w)

	if r.Stability.Pass {
		fmt.Fprintf(w, "✓ stable (MAE spread %.4f, RMSE spread %.4f, tolerance %.4f)\n",
			r.Stability.MAESpread, r.Stability.RMSESpread, r.Stability.Tolerance)
	} else {
		fmt.Fprintf(w, "✗ unstable (MAE spread %.4f, RMSE spread %.4f, tolerance %.4f)\n",
			r.Stability.MAESpread, r.Stability.RMSESpread, r.Stability.Tolerance)
	}
}
