package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AndreasVerhoeven/condlayout/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string
	View     string // optional - filter to one subject view
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	SessionID string       `json:"session_id"`
	Scene     string       `json:"scene"`
	StartedAt string       `json:"started_at"`
	Passes    []PassReport `json:"passes"`
	Stats     RunStats     `json:"stats"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show a recorded activation trace",
		Long: `Show the pass timeline of a recorded session: which items were active
after every evaluation pass, whether the pass changed the active set, and
whether the swap was animated.

With --session, shows that session. Without it, lists all sessions in the
database.

Examples:
  condlayout trace --db ./traces.db
  condlayout trace --db ./traces.db --session 0190f8c2-...
  condlayout trace --db ./traces.db --session 0190f8c2-... --view sidebar --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceCmd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id to show")
	cmd.Flags().StringVar(&opts.View, "view", "", "filter to one subject view")

	return cmd
}

func runTraceCmd(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer st.Close()

	if opts.Session == "" {
		return listSessions(ctx, opts, st, cmd)
	}

	sess, err := st.ReadSession(ctx, opts.Session)
	if errors.Is(err, sql.ErrNoRows) {
		return NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", opts.Session))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}

	passes, err := st.ReadPasses(ctx, sess.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read passes", err)
	}

	if opts.View != "" {
		filtered := passes[:0]
		for _, p := range passes {
			if p.View == opts.View {
				filtered = append(filtered, p)
			}
		}
		passes = filtered
	}

	run := buildRunResult(sess.Scene, sess.ID, passes)
	result := TraceResult{
		SessionID: sess.ID,
		Scene:     sess.Scene,
		StartedAt: sess.StartedAt,
		Passes:    run.Passes,
		Stats:     run.Stats,
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: result})
	}
	return outputTraceText(cmd, result)
}

func listSessions(ctx context.Context, opts *TraceOptions, st *trace.Store, cmd *cobra.Command) error {
	sessions, err := st.ListSessions(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list sessions", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: sessions})
	}

	w := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return nil
	}
	for _, sess := range sessions {
		fmt.Fprintf(w, "%s  %-20s %s\n", sess.ID, sess.Scene, sess.StartedAt)
	}
	return nil
}

func outputTraceText(cmd *cobra.Command, result TraceResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Session: %s\n", result.SessionID)
	fmt.Fprintf(w, "Scene:   %s\n", result.Scene)
	fmt.Fprintf(w, "Started: %s\n", result.StartedAt)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Passes ===")
	if len(result.Passes) == 0 {
		fmt.Fprintln(w, "  (no passes)")
	}
	for _, p := range result.Passes {
		fmt.Fprintf(w, "  [%d] %s %s%s\n", p.Seq, p.View, flagString(p), activeString(p.Active))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Total Passes:    %d\n", result.Stats.TotalPasses)
	fmt.Fprintf(w, "  Changed Passes:  %d\n", result.Stats.ChangedPasses)
	fmt.Fprintf(w, "  Animated Passes: %d\n", result.Stats.AnimatedPasses)

	return nil
}
