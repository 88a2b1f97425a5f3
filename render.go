package lattice

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// maxTilesPerDraw is the maximum number of tiles per DrawTriangles call.
// Limited by uint16 index buffer: 65535 / 4 vertices per tile = 16383.
const maxTilesPerDraw = 16383

// ImageFunc resolves the texture of a tile. Returning nil skips the tile.
type ImageFunc func(*Tile) *ebiten.Image

// TileImage is the default ImageFunc: it uses Tile.Data when it holds an
// *ebiten.Image.
func TileImage(t *Tile) *ebiten.Image {
	img, _ := t.Data.(*ebiten.Image)
	return img
}

// drawBatch is a run of consecutive quads sharing one image.
type drawBatch struct {
	image *ebiten.Image
	start int // first quad
	count int
}

// RenderStats summarizes the last Build.
type RenderStats struct {
	Tiles   int
	Skipped int
	Batches int
}

// Renderer turns Renderables into textured quads and submits them with
// DrawTriangles, one call per run of tiles sharing an image.
type Renderer struct {
	TileSize float64
	Image    ImageFunc
	Filter   ebiten.Filter
	// ScreenX and ScreenY place the viewport's top-left corner on the
	// destination image.
	ScreenX, ScreenY float64

	vertices []ebiten.Vertex
	indices  []uint16
	batches  []drawBatch
	stats    RenderStats
}

// NewRenderer returns a renderer for tiles of tileSize pixels. A nil image
// func uses TileImage.
func NewRenderer(tileSize float64, image ImageFunc) *Renderer {
	if image == nil {
		image = TileImage
	}
	return &Renderer{TileSize: tileSize, Image: image, Filter: ebiten.FilterLinear}
}

// Stats returns counters from the last Build.
func (r *Renderer) Stats() RenderStats { return r.stats }

// ensureIndices grows the shared index buffer to cover n quads.
func (r *Renderer) ensureIndices(n int) {
	n = min(n, maxTilesPerDraw)
	if len(r.indices) >= n*6 {
		return
	}
	r.indices = make([]uint16, n*6)
	for i := 0; i < n; i++ {
		base := uint16(i * 4)
		off := i * 6
		r.indices[off+0] = base + 0
		r.indices[off+1] = base + 1
		r.indices[off+2] = base + 2
		r.indices[off+3] = base + 1
		r.indices[off+4] = base + 3
		r.indices[off+5] = base + 2
	}
}

// Build converts list into quads for a viewport of the given pixel height.
func (r *Renderer) Build(list []Renderable, viewportHeight float64) {
	r.vertices = r.vertices[:0]
	r.batches = r.batches[:0]
	r.stats = RenderStats{}
	proj := multiplyAffine([6]float64{1, 0, 0, 1, r.ScreenX, r.ScreenY}, ProjectionMatrix(viewportHeight))

	for _, rd := range list {
		img := r.Image(rd.Tile)
		if img == nil {
			r.stats.Skipped++
			continue
		}
		quad := len(r.vertices) / 4
		r.vertices = append(r.vertices, make([]ebiten.Vertex, 4)...)
		setQuad(r.vertices[quad*4:], rd, r.TileSize, proj, img)
		r.stats.Tiles++

		last := len(r.batches) - 1
		if last >= 0 && r.batches[last].image == img && r.batches[last].count < maxTilesPerDraw {
			r.batches[last].count++
			continue
		}
		r.batches = append(r.batches, drawBatch{image: img, start: quad, count: 1})
	}
	r.stats.Batches = len(r.batches)
	maxCount := 0
	for _, b := range r.batches {
		maxCount = max(maxCount, b.count)
	}
	r.ensureIndices(maxCount)
}

// setQuad writes the four vertices of one Renderable: top-left, top-right,
// bottom-left, bottom-right in screen space.
func setQuad(v []ebiten.Vertex, rd Renderable, tileSize float64, proj [6]float64, img *ebiten.Image) {
	size := rd.Size(tileSize)
	x0, y0 := transformPoint(proj, rd.Offset.X, rd.Offset.Y+size)
	x1, y1 := transformPoint(proj, rd.Offset.X+size, rd.Offset.Y)

	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	// UV v grows upward from the bottom of the texture.
	u0 := float64(b.Min.X) + rd.UV[0]*iw
	u1 := u0 + rd.UV[2]*iw
	vTop := float64(b.Min.Y) + (1-rd.UV[1]-rd.UV[3])*ih
	vBottom := float64(b.Min.Y) + (1-rd.UV[1])*ih

	v[0].DstX, v[0].DstY = float32(x0), float32(y0)
	v[0].SrcX, v[0].SrcY = float32(u0), float32(vTop)
	v[1].DstX, v[1].DstY = float32(x1), float32(y0)
	v[1].SrcX, v[1].SrcY = float32(u1), float32(vTop)
	v[2].DstX, v[2].DstY = float32(x0), float32(y1)
	v[2].SrcX, v[2].SrcY = float32(u0), float32(vBottom)
	v[3].DstX, v[3].DstY = float32(x1), float32(y1)
	v[3].SrcX, v[3].SrcY = float32(u1), float32(vBottom)
	for i := range 4 {
		v[i].ColorR, v[i].ColorG, v[i].ColorB, v[i].ColorA = 1, 1, 1, 1
	}
}

// Draw submits the quads from the last Build to dst.
func (r *Renderer) Draw(dst *ebiten.Image) {
	op := &ebiten.DrawTrianglesOptions{Filter: r.Filter}
	for _, b := range r.batches {
		verts := r.vertices[b.start*4 : (b.start+b.count)*4]
		dst.DrawTriangles(verts, r.indices[:b.count*6], b.image, op)
	}
}

// Render draws the current frame of view.
func (r *Renderer) Render(dst *ebiten.Image, view *MapView) {
	r.Build(view.Renderables(), view.Viewport().Height)
	r.Draw(dst)
}
