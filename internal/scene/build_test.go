package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreasVerhoeven/condlayout/conditional"
	"github.com/AndreasVerhoeven/condlayout/view"
)

func buildFromYAML(t *testing.T, src string, opts ...conditional.Option) *Build {
	t.Helper()
	sc, err := Parse([]byte(src))
	require.NoError(t, err)
	b, err := BuildScene(sc, opts...)
	require.NoError(t, err)
	return b
}

func TestBuildScene_Tree(t *testing.T) {
	b := buildFromYAML(t, `
name: tree
scale: 2
views:
  - name: root
    window: true
    bounds: {x: 0, y: 0, width: 800, height: 600}
    subviews:
      - name: panel
        hidden: true
        traits: [compact, dark]
        config: editing
  - name: floater
`)

	root := b.Views["root"]
	panel := b.Views["panel"]
	floater := b.Views["floater"]
	require.NotNil(t, root)
	require.NotNil(t, panel)
	require.NotNil(t, floater)

	assert.Same(t, root, panel.Superview())
	assert.True(t, root.InWindow())
	assert.True(t, panel.InWindow(), "window state cascades into subtrees")
	assert.False(t, floater.InWindow())

	assert.Equal(t, 2.0, root.Scale())
	assert.Equal(t, 2.0, panel.Scale(), "scene scale applies to every view")
	assert.True(t, panel.Hidden())
	assert.Equal(t, "editing", panel.ActiveConfigurationName())
	assert.True(t, panel.Traits().Contains("compact"))
}

func TestBuildScene_RuleInitialState(t *testing.T) {
	b := buildFromYAML(t, `
name: rule
views:
  - name: root
    window: true
    bounds: {width: 800, height: 600}
    subviews:
      - name: panel
rules:
  - view: root
    when: {minWidth: 600}
    then:
      - {op: fill, child: panel}
    else:
      - {op: center, child: panel}
`)

	// Both branches lay out the panel, so the items live on its list; the
	// condition itself observes the root.
	l := b.Coordinator.PeekList(b.Views["panel"])
	require.NotNil(t, l)
	assert.True(t, l.Installed())
	assert.Equal(t, []string{"item-1"}, l.ActiveIDs(),
		"an 800-wide root satisfies the rule at build time")
}

func TestBuildScene_SequentialIDsAreDefault(t *testing.T) {
	b := buildFromYAML(t, `
name: ids
views:
  - name: root
    subviews: [{name: a}, {name: b}]
rules:
  - view: root
    when: {minWidth: 100}
    then: [{op: fill, child: a}]
    else: [{op: fill, child: b}]
`)

	la := b.Coordinator.PeekList(b.Views["a"])
	lb := b.Coordinator.PeekList(b.Views["b"])
	require.NotNil(t, la)
	require.NotNil(t, lb)
	require.Len(t, la.Items(), 1)
	require.Len(t, lb.Items(), 1)
	assert.Equal(t, "item-1", la.Items()[0].ID)
	assert.Equal(t, "item-2", lb.Items()[0].ID)
}

func TestBuildScene_ConfigurationRule(t *testing.T) {
	b := buildFromYAML(t, `
name: config
views:
  - name: root
    subviews: [{name: toolbar}]
rules:
  - view: root
    configuration: editing
    then: [{op: fill, child: toolbar}]
`)

	l := b.Coordinator.PeekList(b.Views["toolbar"])
	require.NotNil(t, l)
	assert.Empty(t, l.ActiveIDs())

	b.Views["root"].SetActiveConfigurationName("editing")
	b.Registry.Loop().Turn()
	assert.Equal(t, []string{"item-1"}, l.ActiveIDs())
}

func TestBuildScene_ConfigurationRuleRejectsElse(t *testing.T) {
	sc, err := Parse([]byte(`
name: bad
views:
  - name: root
    subviews: [{name: a}, {name: b}]
rules:
  - view: root
    configuration: editing
    then: [{op: fill, child: a}]
    else: [{op: fill, child: b}]
`))
	require.NoError(t, err, "structurally the file is fine")

	_, err = BuildScene(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot have an else branch")
}

func TestBuildScene_BoundCondition(t *testing.T) {
	b := buildFromYAML(t, `
name: bound
views:
  - name: window
    window: true
    bounds: {width: 500, height: 400}
  - name: sidebar
    subviews: [{name: content}]
rules:
  - view: sidebar
    when: {minWidth: 600, view: window}
    then: [{op: fill, child: content}]
`)

	l := b.Coordinator.PeekList(b.Views["content"])
	require.NotNil(t, l)
	assert.Empty(t, l.ActiveIDs())

	// The sidebar's own size is irrelevant; the window drives the rule.
	win := b.Views["window"]
	bounds := win.Bounds()
	bounds.Width = 900
	win.SetBounds(bounds)
	b.Registry.Loop().Turn()
	assert.Equal(t, []string{"item-1"}, l.ActiveIDs())
}

func TestRunScript(t *testing.T) {
	rec := &memoryLog{}
	b := buildFromYAML(t, `
name: script
views:
  - name: root
    window: true
    bounds: {width: 800, height: 600}
    subviews: [{name: panel}]
rules:
  - view: root
    when: {minWidth: 600}
    then: [{op: fill, child: panel}]
    else: [{op: center, child: panel}]
script:
  - {op: resize, view: root, width: 500, height: 600}
  - {op: turn}
  - {op: resize, view: root, width: 700, height: 600}
`, conditional.WithRecorder(rec))

	require.NoError(t, b.RunScript())

	l := b.Coordinator.PeekList(b.Views["panel"])
	assert.Equal(t, []string{"item-1"}, l.ActiveIDs(),
		"the implicit final turn flushes the last resize")

	var changed []string
	for _, p := range rec.passes {
		if p.changed {
			changed = append(changed, p.active...)
		}
	}
	assert.Equal(t, []string{"item-1", "item-2", "item-1"}, changed,
		"fill, then center, then fill again")
}

func TestRunScript_StepMutations(t *testing.T) {
	b := buildFromYAML(t, `
name: steps
views:
  - name: root
script:
  - {op: hide, view: root}
  - {op: traits, view: root, set: [regular]}
  - {op: configure, view: root, name: editing}
  - {op: scale, view: root, value: 3}
  - {op: window, view: root, on: true}
  - {op: resize, view: root, width: 640, height: 480}
  - {op: show, view: root}
`)

	require.NoError(t, b.RunScript())
	root := b.Views["root"]
	assert.False(t, root.Hidden())
	assert.True(t, root.Traits().Contains("regular"))
	assert.Equal(t, "editing", root.ActiveConfigurationName())
	assert.Equal(t, 3.0, root.Scale())
	assert.True(t, root.InWindow())
	assert.Equal(t, 640.0, root.Bounds().Width)
}

// memoryLog is a minimal PassRecorder for build tests.
type memoryLog struct {
	passes []struct {
		active  []string
		changed bool
	}
}

func (m *memoryLog) Pass(seq int64, owner *view.View, activeIDs []string, changed, animated bool) {
	m.passes = append(m.passes, struct {
		active  []string
		changed bool
	}{append([]string(nil), activeIDs...), changed})
}
