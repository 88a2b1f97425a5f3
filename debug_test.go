package lattice

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// captureLogs routes lattice logging into a buffer at level for the
// duration of the test.
func captureLogs(t *testing.T, level logrus.Level) *bytes.Buffer {
	t.Helper()
	prev := Logger()
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	SetLogger(l)
	t.Cleanup(func() { SetLogger(prev) })
	return &buf
}

func TestDumpRenderables(t *testing.T) {
	tile := &Tile{Coord: NewCoord(3, 1, 2), Data: "payload"}
	list := []Renderable{{Tile: tile, Rule: RuleAncestor, Scale: 2, UV: fullUV}}

	var buf bytes.Buffer
	DumpRenderables(&buf, list)
	out := buf.String()
	for _, want := range []string{"Renderable", "payload", "Scale: (float64) 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "0xc") {
		t.Errorf("dump should not print pointer addresses:\n%s", out)
	}
}

func TestDebugLogThrottled(t *testing.T) {
	buf := captureLogs(t, logrus.DebugLevel)
	g := NewGame(newTestView(t, nil), nil)
	g.SetDebugMode(true)

	for range debugLogEvery - 1 {
		g.debugLog()
	}
	if strings.Contains(buf.String(), "msg=frame") {
		t.Fatal("frame stats logged before the throttle elapsed")
	}
	g.debugLog()
	if !strings.Contains(buf.String(), "msg=frame") || !strings.Contains(buf.String(), "component=debug") {
		t.Errorf("expected a frame line, got:\n%s", buf.String())
	}
}

func TestDebugLogTraceDumpsRenderables(t *testing.T) {
	buf := captureLogs(t, logrus.TraceLevel)
	view := NewMapView(DefaultConfig(), newMapSource(NewCoord(0, 0, 0)))
	view.Resize(800, 600)
	g := NewGame(view, nil)
	g.stats.frame = debugLogEvery - 1
	g.debugLog()
	if !strings.Contains(buf.String(), "Renderable") {
		t.Errorf("trace level should dump the draw list, got:\n%s", buf.String())
	}
}

func TestSetLoggerNilDiscards(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("SetLogger(nil) left no logger")
	}
	logFor("test").Error("dropped")
}

func TestSetShowStats(t *testing.T) {
	g := NewGame(newTestView(t, nil), nil)
	g.SetShowStats(true)
	g.SetDebugMode(true)
	if !g.showStats || !g.debug {
		t.Error("toggles not applied")
	}
}
