package trace

import (
	"context"
	"database/sql"
	"fmt"
)

// Session is one recorded scene run.
type Session struct {
	ID        string
	Scene     string
	StartedAt string
}

// ReadSession returns session metadata, or sql.ErrNoRows when unknown.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, scene, started_at FROM sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.Scene, &sess.StartedAt)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

// ListSessions returns all sessions, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scene, started_at FROM sessions ORDER BY started_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Scene, &sess.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// LatestSession returns the most recent session for a scene, or
// sql.ErrNoRows when the scene has never been recorded.
func (s *Store) LatestSession(ctx context.Context, scene string) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, scene, started_at FROM sessions
		 WHERE scene = ? ORDER BY started_at DESC, id DESC LIMIT 1`, scene).
		Scan(&sess.ID, &sess.Scene, &sess.StartedAt)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

// ReadPasses returns every pass of a session in sequence order, each with its
// active-id set in recorded order.
func (s *Store) ReadPasses(ctx context.Context, sessionID string) ([]Pass, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, view, changed, animated FROM passes
		 WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read passes: %w", err)
	}
	defer rows.Close()

	var passes []Pass
	for rows.Next() {
		p := Pass{SessionID: sessionID}
		var changed, animated int
		if err := rows.Scan(&p.Seq, &p.View, &changed, &animated); err != nil {
			return nil, fmt.Errorf("failed to scan pass: %w", err)
		}
		p.Changed = changed != 0
		p.Animated = animated != 0
		passes = append(passes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range passes {
		ids, err := s.readActivations(ctx, sessionID, passes[i].Seq)
		if err != nil {
			return nil, err
		}
		passes[i].ActiveIDs = ids
	}
	return passes, nil
}

func (s *Store) readActivations(ctx context.Context, sessionID string, seq int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id FROM activations
		 WHERE session_id = ? AND seq = ? ORDER BY ord`, sessionID, seq)
	if err != nil {
		return nil, fmt.Errorf("failed to read activations: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan activation: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SessionStats summarizes one session.
type SessionStats struct {
	TotalPasses    int
	ChangedPasses  int
	AnimatedPasses int
}

// ReadStats computes summary statistics for a session.
func (s *Store) ReadStats(ctx context.Context, sessionID string) (SessionStats, error) {
	var stats SessionStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(changed), 0),
		        COALESCE(SUM(animated), 0)
		 FROM passes WHERE session_id = ?`, sessionID).
		Scan(&stats.TotalPasses, &stats.ChangedPasses, &stats.AnimatedPasses)
	if err != nil && err != sql.ErrNoRows {
		return SessionStats{}, fmt.Errorf("failed to read stats: %w", err)
	}
	return stats, nil
}
