package trace

import (
	"fmt"

	"github.com/AndreasVerhoeven/condlayout/conditional"
	"github.com/AndreasVerhoeven/condlayout/view"
)

// MemoryRecorder collects passes in memory. Used by replay verification and
// by tests that assert on the recorded trace without a database.
type MemoryRecorder struct {
	passes []Pass
}

// Pass implements conditional.PassRecorder.
func (r *MemoryRecorder) Pass(seq int64, owner *view.View, activeIDs []string, changed, animated bool) {
	r.passes = append(r.passes, Pass{
		Seq:       seq,
		View:      owner.Name(),
		ActiveIDs: append([]string(nil), activeIDs...),
		Changed:   changed,
		Animated:  animated,
	})
}

// Passes returns the recorded passes in order.
func (r *MemoryRecorder) Passes() []Pass {
	return r.passes
}

// Fanout forwards every pass to all recorders in order.
func Fanout(recorders ...conditional.PassRecorder) conditional.PassRecorder {
	return fanout(recorders)
}

type fanout []conditional.PassRecorder

func (f fanout) Pass(seq int64, owner *view.View, activeIDs []string, changed, animated bool) {
	for _, r := range f {
		r.Pass(seq, owner, activeIDs, changed, animated)
	}
}

// Divergence describes the first point where a replay differs from the
// recorded trace.
type Divergence struct {
	Index    int
	Field    string
	Recorded string
	Replayed string
}

func (d *Divergence) Error() string {
	return fmt.Sprintf("pass %d: %s differs: recorded %s, replayed %s",
		d.Index, d.Field, d.Recorded, d.Replayed)
}

// Compare checks a replayed trace against the recorded one pass-for-pass.
// Returns nil when they match, or the first divergence.
//
// Sequence numbers, subject views, active-id sets (including order), the
// changed flag, and the animated flag must all match: the engine is
// deterministic, so any difference means the scene or the engine changed
// since the trace was recorded.
func Compare(recorded, replayed []Pass) error {
	if len(recorded) != len(replayed) {
		return &Divergence{
			Index:    min(len(recorded), len(replayed)),
			Field:    "pass count",
			Recorded: fmt.Sprintf("%d", len(recorded)),
			Replayed: fmt.Sprintf("%d", len(replayed)),
		}
	}

	for i := range recorded {
		rec, rep := recorded[i], replayed[i]
		if rec.Seq != rep.Seq {
			return &Divergence{i, "seq", fmt.Sprintf("%d", rec.Seq), fmt.Sprintf("%d", rep.Seq)}
		}
		if rec.View != rep.View {
			return &Divergence{i, "view", rec.View, rep.View}
		}
		if rec.Changed != rep.Changed {
			return &Divergence{i, "changed", fmt.Sprintf("%t", rec.Changed), fmt.Sprintf("%t", rep.Changed)}
		}
		if rec.Animated != rep.Animated {
			return &Divergence{i, "animated", fmt.Sprintf("%t", rec.Animated), fmt.Sprintf("%t", rep.Animated)}
		}
		if err := compareIDs(i, rec.ActiveIDs, rep.ActiveIDs); err != nil {
			return err
		}
	}
	return nil
}

func compareIDs(index int, recorded, replayed []string) error {
	if len(recorded) != len(replayed) {
		return &Divergence{
			Index:    index,
			Field:    "active set size",
			Recorded: fmt.Sprintf("%d", len(recorded)),
			Replayed: fmt.Sprintf("%d", len(replayed)),
		}
	}
	for j := range recorded {
		if recorded[j] != replayed[j] {
			return &Divergence{index, fmt.Sprintf("active[%d]", j), recorded[j], replayed[j]}
		}
	}
	return nil
}
