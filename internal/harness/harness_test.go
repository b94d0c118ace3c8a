package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreasVerhoeven/condlayout/internal/scene"
)

const adaptivePanelScenario = `
name: adaptive-panel
description: a panel fills a wide root and centers in a narrow one
scene:
  name: adaptive-panel
  views:
    - name: root
      window: true
      bounds: {width: 800, height: 600}
      subviews:
        - name: panel
  rules:
    - view: root
      when: {minWidth: 600}
      then: [{op: fill, child: panel}]
      else: [{op: center, child: panel}]
  script:
    - {op: resize, view: root, width: 500, height: 600}
    - {op: turn}
    - {op: resize, view: root, width: 800, height: 600}
assertions:
  - {type: pass_count, count: 3}
  - {type: changed_count, count: 3}
  - {type: final_active, view: panel, items: [item-1]}
  - {type: final_active_count, view: panel, count: 1}
`

func TestRun_AdaptivePanel(t *testing.T) {
	scenario, err := ParseScenario([]byte(adaptivePanelScenario))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "assertion failures: %v", result.Errors)

	require.Len(t, result.Trace, 3)
	assert.Equal(t, []string{"item-1"}, result.Trace[0].ActiveIDs, "wide at build time")
	assert.Equal(t, []string{"item-2"}, result.Trace[1].ActiveIDs, "narrow after resize")
	assert.Equal(t, []string{"item-1"}, result.Trace[2].ActiveIDs, "wide again")
	assert.Equal(t, []string{"item-1"}, result.FinalActive["panel"])
}

func TestRun_IsDeterministic(t *testing.T) {
	scenario, err := ParseScenario([]byte(adaptivePanelScenario))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace, "fresh runs replay identically")
	assert.Equal(t, first.FinalActive, second.FinalActive)
}

func TestRun_FailedAssertionsReported(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: failing
description: every assertion here is wrong on purpose
scene:
  name: failing
  views:
    - name: root
      window: true
      bounds: {width: 800, height: 600}
      subviews:
        - name: panel
  rules:
    - view: root
      when: {minWidth: 600}
      then: [{op: fill, child: panel}]
assertions:
  - {type: pass_count, count: 99}
  - {type: final_active, view: panel, items: [item-9]}
  - {type: final_active_count, view: panel, count: 7}
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Passed())
	assert.Len(t, result.Errors, 3, "all failures reported, no fail-fast")
	assert.Contains(t, result.Errors[0], "pass_count")
}

func TestRun_InvalidSceneFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "broken",
		Description: "configuration rules reject else branches at build time",
		Scene: scene.Scene{
			Name: "broken",
			Views: []scene.ViewSpec{{
				Name:     "root",
				Subviews: []scene.ViewSpec{{Name: "a"}, {Name: "b"}},
			}},
			Rules: []scene.Rule{{
				View:          "root",
				Configuration: "editing",
				Then:          []scene.LayoutOp{{Op: scene.OpFill, Child: "a"}},
				Else:          []scene.LayoutOp{{Op: scene.OpFill, Child: "b"}},
			}},
		},
		Assertions: []Assertion{{Type: AssertPassCount}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build scene")
}
