package trace

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/AndreasVerhoeven/condlayout/view"
)

// Pass is one recorded evaluation pass.
type Pass struct {
	SessionID string
	Seq       int64
	View      string
	ActiveIDs []string
	Changed   bool
	Animated  bool
}

// BeginSession creates a new trace session for a scene run and returns its id.
func (s *Store) BeginSession(ctx context.Context, scene string) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, scene) VALUES (?, ?)`, id, scene)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// WritePass records one evaluation pass and its active-id set in a single
// transaction: a pass with half its activations is worse than no pass.
func (s *Store) WritePass(ctx context.Context, p Pass) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO passes (session_id, seq, view, changed, animated)
		 VALUES (?, ?, ?, ?, ?)`,
		p.SessionID, p.Seq, p.View, boolToInt(p.Changed), boolToInt(p.Animated))
	if err != nil {
		return fmt.Errorf("failed to write pass: %w", err)
	}

	for ord, itemID := range p.ActiveIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO activations (session_id, seq, ord, item_id)
			 VALUES (?, ?, ?, ?)`,
			p.SessionID, p.Seq, ord, itemID)
		if err != nil {
			return fmt.Errorf("failed to write activation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pass: %w", err)
	}
	return nil
}

// Recorder adapts a Store into the engine's pass-recording hook for one
// session. Write errors are logged and swallowed: tracing must never take
// down a layout pass.
type Recorder struct {
	store     *Store
	sessionID string
}

// NewRecorder creates a recorder writing into the given session.
func NewRecorder(store *Store, sessionID string) *Recorder {
	return &Recorder{store: store, sessionID: sessionID}
}

// SessionID returns the session this recorder writes into.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Pass implements conditional.PassRecorder.
func (r *Recorder) Pass(seq int64, owner *view.View, activeIDs []string, changed, animated bool) {
	err := r.store.WritePass(context.Background(), Pass{
		SessionID: r.sessionID,
		Seq:       seq,
		View:      owner.Name(),
		ActiveIDs: activeIDs,
		Changed:   changed,
		Animated:  animated,
	})
	if err != nil {
		slog.Error("failed to record pass", "session", r.sessionID, "seq", seq, "error", err)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
