package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fmdgen/internal/store"
)

// NewSessionsCommand creates the session listing command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:           "sessions",
		Short:         "List persisted wizard sessions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessions(rootOpts, cmd, dbPath)
		},
	}

	cmd.Flags().StringVar(&dbPath, "session-db", "", "path to the session database")
	cmd.MarkFlagRequired("session-db")
	return cmd
}

func runSessions(opts *RootOptions, cmd *cobra.Command, dbPath string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}
	defer st.Close()

	sessions, err := st.Sessions(cmd.Context())
	if err != nil {
		_ = formatter.Error("E001", err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}

	if opts.Format == "json" {
		return formatter.Success(sessions)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(formatter.Writer, "no sessions")
		return nil
	}
	for _, s := range sessions {
		name := s.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(formatter.Writer, "%s  %s  %d turns  %s\n", s.ID, name, s.Turns, s.CreatedAt)
	}
	return nil
}
