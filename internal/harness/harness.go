package harness

import (
	"fmt"

	"github.com/AndreasVerhoeven/condlayout/conditional"
	"github.com/AndreasVerhoeven/condlayout/internal/scene"
	"github.com/AndreasVerhoeven/condlayout/internal/trace"
)

// Result holds the outcome of one scenario execution.
type Result struct {
	// Trace is every recorded evaluation pass, in order.
	Trace []trace.Pass

	// FinalActive maps each subject view name to its final active item ids
	// in insertion order.
	FinalActive map[string][]string

	// Errors collects assertion failures. Empty means the scenario passed.
	Errors []string
}

// Passed reports whether all assertions held.
func (r *Result) Passed() bool {
	return len(r.Errors) == 0
}

// AddError records an assertion failure.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Run executes a scenario against the real engine and returns the result.
//
// Each scenario runs in a fresh registry for isolation; the sequential id
// generator and the engine clock make the trace deterministic, so repeated
// runs produce identical results.
func Run(scenario *Scenario) (*Result, error) {
	recorder := &trace.MemoryRecorder{}

	build, err := scene.BuildScene(&scenario.Scene, conditional.WithRecorder(recorder))
	if err != nil {
		return nil, fmt.Errorf("failed to build scene: %w", err)
	}
	if err := build.RunScript(); err != nil {
		return nil, fmt.Errorf("failed to run script: %w", err)
	}

	result := &Result{
		Trace:       recorder.Passes(),
		FinalActive: make(map[string][]string),
	}
	for name, v := range build.Views {
		if l := build.Coordinator.PeekList(v); l != nil {
			result.FinalActive[name] = l.ActiveIDs()
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}
