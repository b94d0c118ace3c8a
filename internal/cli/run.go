package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AndreasVerhoeven/condlayout/conditional"
	"github.com/AndreasVerhoeven/condlayout/internal/scene"
	"github.com/AndreasVerhoeven/condlayout/internal/trace"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
}

// RunResult is the run command's output payload.
type RunResult struct {
	Scene     string       `json:"scene"`
	SessionID string       `json:"session_id,omitempty"`
	Passes    []PassReport `json:"passes"`
	Stats     RunStats     `json:"stats"`
}

// PassReport is one evaluation pass in the run output.
type PassReport struct {
	Seq      int64    `json:"seq"`
	View     string   `json:"view"`
	Active   []string `json:"active"`
	Changed  bool     `json:"changed"`
	Animated bool     `json:"animated"`
}

// RunStats summarizes a run.
type RunStats struct {
	TotalPasses    int `json:"total_passes"`
	ChangedPasses  int `json:"changed_passes"`
	AnimatedPasses int `json:"animated_passes"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scene-file>",
		Short: "Run a scene and print its activation timeline",
		Long: `Build a scene's view tree, install its conditional layout rules, execute
the script, and print every evaluation pass.

With --db, the run is also recorded into a SQLite trace database for later
inspection (trace) and verification (replay).

Example:
  condlayout run ./scenes/sidebar.yaml
  condlayout run ./scenes/sidebar.yaml --db ./traces.db --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScene(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (optional)")

	return cmd
}

func runScene(opts *RunOptions, path string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	slog.Info("loading scene", "path", path)
	sc, err := scene.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scene", err)
	}

	memory := &trace.MemoryRecorder{}
	recorder := conditional.PassRecorder(memory)

	var sessionID string
	if opts.Database != "" {
		slog.Info("opening trace database", "path", opts.Database)
		st, err := trace.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open trace database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing trace database", "error", closeErr)
			}
		}()

		sessionID, err = st.BeginSession(context.Background(), sc.Name)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create trace session", err)
		}
		recorder = trace.Fanout(memory, trace.NewRecorder(st, sessionID))
	}

	build, err := scene.BuildScene(sc, conditional.WithRecorder(recorder))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build scene", err)
	}
	if err := build.RunScript(); err != nil {
		return WrapExitError(ExitFailure, "script failed", err)
	}

	result := buildRunResult(sc.Name, sessionID, memory.Passes())

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: result})
	}
	return outputRunText(cmd, result, opts.Verbose)
}

func buildRunResult(sceneName, sessionID string, passes []trace.Pass) RunResult {
	result := RunResult{
		Scene:     sceneName,
		SessionID: sessionID,
		Passes:    make([]PassReport, 0, len(passes)),
	}
	for _, p := range passes {
		result.Passes = append(result.Passes, PassReport{
			Seq:      p.Seq,
			View:     p.View,
			Active:   p.ActiveIDs,
			Changed:  p.Changed,
			Animated: p.Animated,
		})
		result.Stats.TotalPasses++
		if p.Changed {
			result.Stats.ChangedPasses++
		}
		if p.Animated {
			result.Stats.AnimatedPasses++
		}
	}
	return result
}

func outputRunText(cmd *cobra.Command, result RunResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Scene: %s\n", result.Scene)
	if result.SessionID != "" {
		fmt.Fprintf(w, "Session: %s\n", result.SessionID)
	}
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

func flagString(p PassReport) string {
	switch {
	case p.Changed && p.Animated:
		return "CHANGED/ANIMATED"
	case p.Changed:
		return "CHANGED"
	default:
		return "unchanged"
	}
}

func activeString(ids []string) string {
	if len(ids) == 0 {
		return " active={}"
	}
	out := " active={"
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += id
	}
	return out + "}"
}

// configureLogging sets the default slog handler level from the verbose flag.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
