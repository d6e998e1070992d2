package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SLassalle/real-estate-price-prediction/internal/registry"
)

// ValidationResult holds registry validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Features int                        `json:"features,omitempty"`
	Target   string                     `json:"target,omitempty"`
	Errors   []registry.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "validate [registry.yaml]",
		Short: "Validate a feature registry",
		Long: `Validate a feature registry YAML file without processing any data.

Checks the file against the embedded schema, then runs the semantic
checks (duplicate columns, target count, ordinal orders, strategy
compatibility) and reports every violation at once. With no argument the
built-in Ames registry is validated.

When --data is given, the dataset header is additionally checked for
column presence against the registry.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, dataPath, cmd)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "CSV dataset to check for column presence")

	return cmd
}

func runValidate(opts *RootOptions, registryPath, dataPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	reg, err := LoadRegistry(registryPath)
	if err != nil {
		var invalid *registry.InvalidRegistryError
		if errors.As(err, &invalid) {
			return outputValidationErrors(formatter, invalid.Violations)
		}
		// File-level problems (unreadable, schema mismatch) are command
		// errors, not registry violations.
		_ = formatter.Error("E200", err.Error(), nil)
		return WrapExitError(ExitCommandError, "registry load failed", err)
	}

	formatter.VerboseLog("Registry loaded: %d features, target %q", reg.Len(), reg.Target())

	if dataPath != "" {
		ds, err := LoadDataset(dataPath, reg)
		if err != nil {
			_ = formatter.Error("E201", err.Error(), nil)
			return WrapExitError(ExitCommandError, "dataset load failed", err)
		}
		if missing := reg.MissingColumns(ds.Columns, true); len(missing) > 0 {
			msg := fmt.Sprintf("dataset is missing expected columns: %s", strings.Join(missing, ", "))
			_ = formatter.Error("E202", msg, missing)
			return NewExitError(ExitFailure, msg)
		}
		formatter.VerboseLog("Dataset %s: %d rows, all registry columns present", dataPath, ds.Len())
	}

	return outputValidateSuccess(formatter, reg.Len(), reg.Target())
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, features int, target string) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Features: features, Target: target})
	}

	fmt.Fprintf(formatter.Writer, "✓ Registry valid (%d features, target %s)\n", features, target)
	return nil
}

// outputValidationErrors outputs the collected registry violations.
func outputValidationErrors(formatter *OutputFormatter, errs []registry.ValidationError) error {
	if formatter.Format == "json" {
		err := formatter.emit(envelope{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error:  &errorBody{Code: errs[0].Code, Message: errs[0].Message},
		})
		if err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Registry invalid")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		if e.Column != "" {
			fmt.Fprintf(formatter.Writer, "  %s: column %q, %s: %s\n", e.Code, e.Column, e.Field, e.Message)
		} else {
			fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", e.Code, e.Field, e.Message)
		}
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
