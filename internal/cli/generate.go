package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"fmdgen/internal/render"
	"fmdgen/internal/spec"
	"fmdgen/internal/specfile"
	"fmdgen/internal/writer"
)

// GenerateResult is the success payload of the generate command.
type GenerateResult struct {
	OutputDir string   `json:"output_dir"`
	Files     []string `json:"files"`
	DryRun    bool     `json:"dry_run,omitempty"`
}

// NewGenerateCommand creates the batch generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		outDir string
		force  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "generate <spec-file>",
		Short: "Render a spec file to fmdtools Python sources",
		Long: `Load a model spec from a YAML or CUE file, validate it and render the
full artifact set: one file per component, flows.py, architecture.py,
the level file and __init__.py.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(rootOpts, cmd, args[0], outDir, force, dryRun)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "parent directory for the generated package")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the files that would be written without writing them")
	return cmd
}

func runGenerate(opts *RootOptions, cmd *cobra.Command, specPath, outDir string, force, dryRun bool) error {
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

	if errs := spec.Validate(sp); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	arts, err := render.Render(sp)
	if err != nil {
		_ = formatter.Error(specfile.ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, err.Error(), nil)
	}

	target := filepath.Join(outDir, render.OutputDir(sp))
	formatter.VerboseLog("rendering %d artifacts to %s", len(arts), target)

	if dryRun {
		res := GenerateResult{OutputDir: target, Files: render.Paths(arts), DryRun: true}
		return outputGenerateSuccess(formatter, res)
	}

	written, err := writer.Write(target, arts, force)
	if err != nil {
		_ = formatter.Error(specfile.ErrCodeGeneric, err.Error(), nil)
		var collision *writer.CollisionError
		if errors.As(err, &collision) {
			return WrapExitError(ExitFailure, err.Error(), nil)
		}
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}

	return outputGenerateSuccess(formatter, GenerateResult{OutputDir: target, Files: written})
}

func outputGenerateSuccess(f *OutputFormatter, res GenerateResult) error {
	if f.Format == "json" {
		return f.Success(res)
	}
	if res.DryRun {
		fmt.Fprintf(f.Writer, "Would write %d files to %s:\n", len(res.Files), res.OutputDir)
	} else {
		fmt.Fprintf(f.Writer, "Generated %d files in %s:\n", len(res.Files), res.OutputDir)
	}
	for _, p := range res.Files {
		fmt.Fprintf(f.Writer, "  %s\n", p)
	}
	return nil
}

// outputValidationErrors reports every validation error, then fails the
// command with exit code 1.
func outputValidationErrors(f *OutputFormatter, errs spec.ValidationErrors) error {
	message := fmt.Sprintf("spec validation failed with %d error(s)", len(errs))
	if f.Format == "json" {
		_ = f.Error(errs[0].Code, message, errs)
		return NewExitError(ExitFailure, message)
	}
	fmt.Fprintf(f.Writer, "Error: %s\n", message)
	for _, e := range errs {
		fmt.Fprintf(f.Writer, "  [%s] %s: %s\n", e.Code, e.Field, e.Message)
	}
	return NewExitError(ExitFailure, message)
}
