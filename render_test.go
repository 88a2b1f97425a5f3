package lattice

import (
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func quadFor(img *ebiten.Image, offset Vec2, scale float64, uv [4]float64) Renderable {
	var data any
	if img != nil {
		data = img
	}
	return Renderable{Tile: &Tile{Data: data}, Scale: scale, Offset: offset, UV: uv}
}

func assertVertex(t *testing.T, i int, v ebiten.Vertex, dx, dy, sx, sy float32) {
	t.Helper()
	if v.DstX != dx || v.DstY != dy || v.SrcX != sx || v.SrcY != sy {
		t.Errorf("vertex %d = dst(%v, %v) src(%v, %v), want dst(%v, %v) src(%v, %v)",
			i, v.DstX, v.DstY, v.SrcX, v.SrcY, dx, dy, sx, sy)
	}
}

func TestRendererQuadPlacement(t *testing.T) {
	img := ebiten.NewImage(256, 256)
	r := NewRenderer(256, nil)
	r.Build([]Renderable{quadFor(img, Vec2{0, 0}, 1, fullUV)}, 600)

	if len(r.vertices) != 4 {
		t.Fatalf("vertices = %d, want 4", len(r.vertices))
	}
	// The quad sits on the bottom edge of a 600px viewport.
	assertVertex(t, 0, r.vertices[0], 0, 344, 0, 0)
	assertVertex(t, 1, r.vertices[1], 256, 344, 256, 0)
	assertVertex(t, 2, r.vertices[2], 0, 600, 0, 256)
	assertVertex(t, 3, r.vertices[3], 256, 600, 256, 256)
	if r.vertices[0].ColorA != 1 {
		t.Error("vertex colour should be opaque white")
	}
}

func TestRendererScaledSubRegion(t *testing.T) {
	img := ebiten.NewImage(256, 256)
	r := NewRenderer(256, nil)
	r.ScreenX, r.ScreenY = 10, 20
	// Top-right quarter of the texture stretched to twice the tile size.
	r.Build([]Renderable{quadFor(img, Vec2{100, 50}, 2, [4]float64{0.5, 0.5, 0.5, 0.5})}, 600)

	assertVertex(t, 0, r.vertices[0], 110, 20+600-562, 128, 0)
	assertVertex(t, 3, r.vertices[3], 110+512, 20+550, 256, 128)
}

func TestRendererSubImageBounds(t *testing.T) {
	page := ebiten.NewImage(512, 256)
	sub := page.SubImage(image.Rect(256, 0, 512, 256)).(*ebiten.Image)
	r := NewRenderer(256, nil)
	r.Build([]Renderable{quadFor(sub, Vec2{}, 1, fullUV)}, 256)
	assertVertex(t, 0, r.vertices[0], 0, 0, 256, 0)
	assertVertex(t, 3, r.vertices[3], 256, 256, 512, 256)
}

func TestRendererBatching(t *testing.T) {
	a := ebiten.NewImage(8, 8)
	b := ebiten.NewImage(8, 8)
	r := NewRenderer(256, nil)
	r.Build([]Renderable{
		quadFor(a, Vec2{0, 0}, 1, fullUV),
		quadFor(a, Vec2{256, 0}, 1, fullUV),
		quadFor(nil, Vec2{512, 0}, 1, fullUV),
		quadFor(b, Vec2{0, 256}, 1, fullUV),
		quadFor(a, Vec2{256, 256}, 1, fullUV),
	}, 600)

	want := RenderStats{Tiles: 4, Skipped: 1, Batches: 3}
	if got := r.Stats(); got != want {
		t.Errorf("Stats = %+v, want %+v", got, want)
	}
	if r.batches[0].count != 2 || r.batches[1].start != 2 || r.batches[2].image != a {
		t.Errorf("batches = %+v", r.batches)
	}
	if len(r.indices) < 12 {
		t.Errorf("indices = %d, want at least 12", len(r.indices))
	}
}

func TestRendererBuildResets(t *testing.T) {
	img := ebiten.NewImage(8, 8)
	r := NewRenderer(256, nil)
	r.Build([]Renderable{quadFor(img, Vec2{}, 1, fullUV), quadFor(img, Vec2{}, 1, fullUV)}, 600)
	r.Build(nil, 600)
	if len(r.vertices) != 0 || r.Stats() != (RenderStats{}) {
		t.Error("Build should start from an empty frame")
	}
}

func TestRendererCustomImageFunc(t *testing.T) {
	img := ebiten.NewImage(8, 8)
	var seen []*Tile
	r := NewRenderer(256, func(tile *Tile) *ebiten.Image {
		seen = append(seen, tile)
		return img
	})
	q := quadFor(nil, Vec2{}, 1, fullUV)
	r.Build([]Renderable{q}, 600)
	if len(seen) != 1 || seen[0] != q.Tile || r.Stats().Tiles != 1 {
		t.Errorf("custom image func not used")
	}
}

func TestEnsureIndices(t *testing.T) {
	r := NewRenderer(256, nil)
	r.ensureIndices(2)
	want := []uint16{0, 1, 2, 1, 3, 2, 4, 5, 6, 5, 7, 6}
	for i, w := range want {
		if r.indices[i] != w {
			t.Fatalf("indices = %v, want %v", r.indices, want)
		}
	}
	r.ensureIndices(maxTilesPerDraw + 10)
	if len(r.indices) != maxTilesPerDraw*6 {
		t.Errorf("indices = %d, want capped at %d", len(r.indices), maxTilesPerDraw*6)
	}
}

func BenchmarkRendererBuild(b *testing.B) {
	img := ebiten.NewImage(256, 256)
	list := make([]Renderable, 64)
	for i := range list {
		list[i] = quadFor(img, Vec2{float64(i%8) * 256, float64(i/8) * 256}, 1, fullUV)
	}
	r := NewRenderer(256, nil)
	b.ResetTimer()
	for range b.N {
		r.Build(list, 1080)
	}
}
