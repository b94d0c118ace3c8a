package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AndreasVerhoeven/condlayout/internal/scene"
)

// Scenario defines a conformance test scenario: a scene plus assertions on
// the trace it produces.
type Scenario struct {
	// Name uniquely identifies this scenario. Doubles as the golden file
	// name when comparing traces.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Scene is the inline scene definition: views, rules, script.
	Scene scene.Scene `yaml:"scene"`

	// Assertions validate the recorded trace and the final active sets.
	// Supported types: pass_count, changed_count, final_active,
	// final_active_count
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates the trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "pass_count": total recorded passes (optionally for one view)
	// - "changed_count": passes that changed the active set
	// - "final_active": the view's final active item ids, in order
	// - "final_active_count": size of the view's final active set
	Type string `yaml:"type"`

	// View scopes the assertion to one subject view. Required for
	// final_active and final_active_count; optional for the count types.
	View string `yaml:"view,omitempty"`

	// Count is the expected count (pass_count, changed_count,
	// final_active_count).
	Count int `yaml:"count,omitempty"`

	// Items is the expected active id list (final_active).
	Items []string `yaml:"items,omitempty"`
}

// Assertion type constants.
const (
	AssertPassCount        = "pass_count"
	AssertChangedCount     = "changed_count"
	AssertFinalActive      = "final_active"
	AssertFinalActiveCount = "final_active_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML bytes. See LoadScenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
// The embedded scene is validated by re-marshaling through the scene loader,
// so a scenario cannot smuggle in a scene the CLI would reject.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	sceneYAML, err := yaml.Marshal(&s.Scene)
	if err != nil {
		return fmt.Errorf("failed to re-marshal scene: %w", err)
	}
	if _, err := scene.Parse(sceneYAML); err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertPassCount, AssertChangedCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertFinalActive:
		if a.View == "" {
			return fmt.Errorf("assertions[%d]: view is required for final_active", index)
		}
	case AssertFinalActiveCount:
		if a.View == "" {
			return fmt.Errorf("assertions[%d]: view is required for final_active_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for final_active_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
