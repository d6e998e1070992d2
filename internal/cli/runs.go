package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SLassalle/real-estate-price-prediction/internal/store"
)

// RunsOptions holds flags for the runs command group.
type RunsOptions struct {
	*RootOptions
	Database string
}

// NewRunsCommand creates the runs command group (list, show).
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect persisted evaluation runs",
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newRunsListCommand(opts))
	cmd.AddCommand(newRunsShowCommand(opts))

	return cmd
}

func newRunsListCommand(opts *RunsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List persisted runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsList(opts, cmd)
		},
	}
}

func newRunsShowCommand(opts *RunsOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Show the full report for a run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsShow(opts, args[0], cmd)
		},
	}
}

func runRunsList(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	summaries, err := st.ListRuns(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if opts.Format == "json" {
		return formatter.Success(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}
	for _, s := range summaries {
		stable := "stable"
		if !s.Stable {
			stable = "UNSTABLE"
		}
		fmt.Fprintf(formatter.Writer, "%s  %s  k=%d seed=%d rows=%d  MAE %.2f  RMSE %.2f  R² %.4f  %s\n",
			s.RunID, s.CreatedAt, s.K, s.Seed, s.Rows, s.MAEMean, s.RMSEMean, s.R2Mean, stable)
	}
	return nil
}

func runRunsShow(opts *RunsOptions, runID string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st)

	report, err := st.ReadReport(cmd.Context(), runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if opts.Format == "json" {
		return formatter.Success(report)
	}
	renderReport(formatter, report)
	return nil
}

func openStore(path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
