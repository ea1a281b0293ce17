package cli

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"fmdgen/internal/dialog"
	"fmdgen/internal/render"
	"fmdgen/internal/spec"
	"fmdgen/internal/specfile"
	"fmdgen/internal/store"
	"fmdgen/internal/writer"
)

// NewWizardCommand creates the interactive wizard command.
func NewWizardCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		outDir   string
		force    bool
		dbPath   string
		resume   string
		specPath string
	)

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Interactively describe a system and generate its model",
		Long: `Describe a system in plain language, one statement at a time. The
wizard extracts components, state variables, fault modes and flows,
asks targeted follow-up questions, and once the specification is
complete, "generate" writes the fmdtools package.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(rootOpts, cmd, outDir, force, dbPath, resume, specPath)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "parent directory for the generated package")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files on generate")
	cmd.Flags().StringVar(&dbPath, "session-db", "", "persist the session to this database")
	cmd.Flags().StringVar(&resume, "resume", "", "resume the session with this ID (requires --session-db)")
	cmd.Flags().StringVar(&specPath, "spec", "", "pre-fill the conversation from a spec file")
	return cmd
}

func runWizard(opts *RootOptions, cmd *cobra.Command, outDir string, force bool, dbPath, resume, specPath string) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	var st *store.Store
	if dbPath != "" {
		var err error
		if st, err = store.Open(dbPath); err != nil {
			return WrapExitError(ExitCommandError, "opening session db", err)
		}
		defer st.Close()
	}

	sess, err := openSession(cmd, st, resume, specPath)
	if err != nil {
		return err
	}
	if st != nil {
		if err := st.CreateSession(ctx, sess.ID, sess.Spec.Name); err != nil {
			return WrapExitError(ExitCommandError, "registering session", err)
		}
		fmt.Fprintf(out, "Session %s\n", sess.ID)
	}

	ctrl := dialog.NewController()

	fmt.Fprintln(out, "Describe the system you want to model. Type 'help' for commands.")
	fmt.Fprint(out, "> ")

	in := bufio.NewScanner(cmd.InOrStdin())
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		switch strings.ToLower(line) {
		case "":
			fmt.Fprint(out, "> ")
			continue
		case "help":
			printWizardHelp(out)
			fmt.Fprint(out, "> ")
			continue
		case "status":
			fmt.Fprintln(out, dialog.Summary(sess))
			fmt.Fprint(out, "> ")
			continue
		case "quit", "exit":
			fmt.Fprintln(out, "Session ended.")
			return nil
		}

		tr := ctrl.Advance(sess, line)
		fmt.Fprintln(out, tr.Acknowledgment)
		for _, q := range tr.Questions {
			fmt.Fprintf(out, "  ? %s\n", q)
		}

		if st != nil {
			turn := store.Turn{Utterance: line, Acknowledgment: tr.Acknowledgment, Status: string(tr.Status)}
			if err := st.SaveTurn(ctx, sess.ID, sess.Turns, turn, sess.Spec); err != nil {
				return WrapExitError(ExitCommandError, "persisting turn", err)
			}
		}

		if tr.GenerateRequested && tr.Status == spec.StatusReady {
			target := filepath.Join(outDir, render.OutputDir(sess.Spec))
			if err := generateFromSession(out, ctrl, sess, target, force); err != nil {
				// Recoverable: report and keep the conversation open.
				fmt.Fprintln(out, err.Error())
				fmt.Fprint(out, "> ")
				continue
			}
			return nil
		}
		fmt.Fprint(out, "> ")
	}
	return in.Err()
}

// openSession builds the session from the resume ID, the pre-fill spec
// file, or fresh.
func openSession(cmd *cobra.Command, st *store.Store, resume, specPath string) (*dialog.Session, error) {
	switch {
	case resume != "":
		if st == nil {
			return nil, NewExitError(ExitCommandError, "--resume requires --session-db")
		}
		sp, seq, err := st.LatestSpec(cmd.Context(), resume)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "resuming session "+resume, err)
		}
		sess := dialog.NewSessionFromPartial(sp)
		sess.ID = resume
		sess.Turns = seq
		return sess, nil
	case specPath != "":
		sp, err := specfile.Load(specPath)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "loading spec", err)
		}
		return dialog.NewSessionFromPartial(sp), nil
	default:
		return dialog.NewSession(), nil
	}
}

func generateFromSession(out io.Writer, ctrl *dialog.Controller, sess *dialog.Session, target string, force bool) error {
	arts, err := ctrl.Generate(sess)
	if err != nil {
		return err
	}
	written, err := writer.Write(target, arts, force)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Generated %d files in %s:\n", len(written), target)
	for _, p := range written {
		fmt.Fprintf(out, "  %s\n", p)
	}
	return nil
}

func printWizardHelp(out io.Writer) {
	fmt.Fprint(out, `Commands:
  status    show what the specification contains so far
  generate  render the model once the specification is complete
  quit      end the session without generating

Everything else is treated as a description of your system, e.g.:
  components: Pump, Motor
  the pump has pressure: 100 and can fail due to cavitation
  connect Pump to Motor via WaterFlow
`)
}
