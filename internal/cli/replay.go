package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AndreasVerhoeven/condlayout/conditional"
	"github.com/AndreasVerhoeven/condlayout/internal/scene"
	"github.com/AndreasVerhoeven/condlayout/internal/trace"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string
}

// ReplayResult is the replay command's output payload.
type ReplayResult struct {
	SessionID  string `json:"session_id"`
	Scene      string `json:"scene"`
	Passes     int    `json:"passes"`
	Match      bool   `json:"match"`
	Divergence string `json:"divergence,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <scene-file>",
		Short: "Re-run a scene and verify it against a recorded trace",
		Long: `Re-run a scene from scratch and compare the produced passes against a
recorded session pass-for-pass. The engine is deterministic, so any
divergence means the scene file or the engine changed since the recording.

Without --session, the most recent session for the scene is used.

Exit codes:
  0 - replay matches the recording
  1 - replay diverges
  2 - command error (missing files, unknown session)

Examples:
  condlayout replay ./scenes/sidebar.yaml --db ./traces.db
  condlayout replay ./scenes/sidebar.yaml --db ./traces.db --session 0190f8c2-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id to verify against (default: latest for the scene)")

	return cmd
}

func runReplay(opts *ReplayOptions, path string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	ctx := context.Background()

	sc, err := scene.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scene", err)
	}

	st, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer st.Close()

	sess, err := resolveSession(ctx, st, opts.Session, sc.Name)
	if err != nil {
		return err
	}

	recorded, err := st.ReadPasses(ctx, sess.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read recorded passes", err)
	}

	memory := &trace.MemoryRecorder{}
	build, err := scene.BuildScene(sc, conditional.WithRecorder(memory))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build scene", err)
	}
	if err := build.RunScript(); err != nil {
		return WrapExitError(ExitFailure, "script failed", err)
	}

	result := ReplayResult{
		SessionID: sess.ID,
		Scene:     sess.Scene,
		Passes:    len(recorded),
		Match:     true,
	}
	if divergence := trace.Compare(recorded, memory.Passes()); divergence != nil {
		result.Match = false
		result.Divergence = divergence.Error()
	}

	if opts.Format == "json" {
		status := "ok"
		if !result.Match {
			status = "error"
		}
		if err := writeJSON(cmd.OutOrStdout(), CLIResponse{Status: status, Data: result}); err != nil {
			return err
		}
	} else {
		outputReplayText(cmd, result)
	}

	if !result.Match {
		return NewExitError(ExitFailure, "replay diverged from recorded trace")
	}
	return nil
}

func resolveSession(ctx context.Context, st *trace.Store, sessionID, sceneName string) (trace.Session, error) {
	if sessionID != "" {
		sess, err := st.ReadSession(ctx, sessionID)
		if errors.Is(err, sql.ErrNoRows) {
			return trace.Session{}, NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", sessionID))
		}
		if err != nil {
			return trace.Session{}, WrapExitError(ExitCommandError, "failed to read session", err)
		}
		return sess, nil
	}

	sess, err := st.LatestSession(ctx, sceneName)
	if errors.Is(err, sql.ErrNoRows) {
		return trace.Session{}, NewExitError(ExitCommandError, fmt.Sprintf("no recorded sessions for scene %q", sceneName))
	}
	if err != nil {
		return trace.Session{}, WrapExitError(ExitCommandError, "failed to find latest session", err)
	}
	return sess, nil
}

func outputReplayText(cmd *cobra.Command, result ReplayResult) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Session: %s\n", result.SessionID)
	fmt.Fprintf(w, "Scene:   %s\n", result.Scene)
	fmt.Fprintf(w, "Passes:  %d\n", result.Passes)
	if result.Match {
		fmt.Fprintln(w, "Result:  MATCH")
		return
	}
	fmt.Fprintln(w, "Result:  DIVERGED")
	fmt.Fprintf(w, "  %s\n", result.Divergence)
}
