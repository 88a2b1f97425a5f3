package lattice

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// testStep is a single action in a test script.
type testStep struct {
	Action  string  `yaml:"action"`
	Label   string  `yaml:"label,omitempty"`
	X       float64 `yaml:"x,omitempty"`
	Y       float64 `yaml:"y,omitempty"`
	FromX   float64 `yaml:"fromX,omitempty"`
	FromY   float64 `yaml:"fromY,omitempty"`
	ToX     float64 `yaml:"toX,omitempty"`
	ToY     float64 `yaml:"toY,omitempty"`
	Frames  int     `yaml:"frames,omitempty"`
	Notches float64 `yaml:"notches,omitempty"`
	Key     string  `yaml:"key,omitempty"`
}

// testScript is the top-level YAML document of a test script.
type testScript struct {
	Steps []testStep `yaml:"steps"`
}

var knownActions = map[string]bool{
	"click": true, "drag": true, "hover": true, "wheel": true,
	"keydown": true, "keyup": true, "wait": true, "screenshot": true,
}

// TestRunner sequences injected input and screenshots across frames for
// scripted replays. Attach it to a Game with SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a YAML test script such as:
//
//	steps:
//	  - action: wheel
//	    x: 400
//	    y: 300
//	    notches: 1
//	  - action: wait
//	    frames: 30
//	  - action: screenshot
//	    label: zoomed
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script testScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("lattice: parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("lattice: parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("lattice: parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a runner. Its step method runs at the start of
// every Update.
func (g *Game) SetTestRunner(r *TestRunner) {
	g.testRunner = r
}

// Done reports whether every step has executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(g *Game) {
	if r.done {
		return
	}
	if len(g.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		g.Screenshot(st.Label)
	case "click":
		g.InjectClick(st.X, st.Y)
	case "hover":
		g.InjectHover(st.X, st.Y)
	case "drag":
		g.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wheel":
		g.InjectWheel(st.X, st.Y, st.Notches)
	case "keydown":
		g.InjectKeyDown(st.Key)
	case "keyup":
		g.InjectKeyUp(st.Key)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(g.injectQueue) == 0 {
		r.done = true
	}
}
