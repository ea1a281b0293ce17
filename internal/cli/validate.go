package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fmdgen/internal/spec"
	"fmdgen/internal/specfile"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                   `json:"valid"`
	Errors []spec.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <spec-file>",
		Short: "Validate a spec file without generating anything",
		Long: `Load a YAML or CUE spec file and run every validation check,
reporting all problems at once rather than stopping at the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, cmd *cobra.Command, specPath string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sp, err := specfile.Load(specPath)
	if err != nil {
		code := specfile.ErrCodeGeneric
		var loadErr *specfile.LoadError
		if errors.As(err, &loadErr) {
			code = loadErr.Code
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}

	errs := spec.Validate(sp)
	if len(errs) == 0 {
		if opts.Format == "json" {
			return formatter.Success(ValidationResult{Valid: true})
		}
		fmt.Fprintf(formatter.Writer, "%s is valid\n", specPath)
		return nil
	}

	if opts.Format == "json" {
		_ = formatter.Success(ValidationResult{Valid: false, Errors: errs})
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(errs)))
	}
	return outputValidationErrors(formatter, errs)
}
