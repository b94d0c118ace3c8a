package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/AndreasVerhoeven/condlayout/internal/trace"
)

// TraceSnapshot captures the complete trace for a scenario execution.
// Serialized as indented JSON with fixed field order for deterministic
// golden file comparison.
type TraceSnapshot struct {
	ScenarioName string      `json:"scenario_name"`
	Trace        []PassEntry `json:"trace"`
}

// PassEntry is one pass in a snapshot.
type PassEntry struct {
	Seq      int64    `json:"seq"`
	View     string   `json:"view"`
	Active   []string `json:"active"`
	Changed  bool     `json:"changed"`
	Animated bool     `json:"animated"`
}

func snapshotOf(name string, passes []trace.Pass) TraceSnapshot {
	snapshot := TraceSnapshot{
		ScenarioName: name,
		Trace:        make([]PassEntry, 0, len(passes)),
	}
	for _, p := range passes {
		active := p.ActiveIDs
		if active == nil {
			active = []string{}
		}
		snapshot.Trace = append(snapshot.Trace, PassEntry{
			Seq:      p.Seq,
			View:     p.View,
			Active:   active,
			Changed:  p.Changed,
			Animated: p.Animated,
		})
	}
	return snapshot
}

// RunWithGolden executes a scenario and compares the trace against a golden
// file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files are the source of truth for expected trace behavior; assertion
// failures from the scenario itself are reported through t as well.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, msg)
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares the given result's trace against a golden file.
// Useful when a test has already run a scenario and wants the comparison
// without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := json.MarshalIndent(snapshotOf(scenarioName, result.Trace), "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
