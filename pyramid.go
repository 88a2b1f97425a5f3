package lattice

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/sirupsen/logrus"
)

// Tile is one resident unit of tile data. Coord is always normalized.
type Tile struct {
	Coord Coord
	// Data is the payload supplied by the tile loader (image, features, ...).
	Data any
}

// TileSource is the read side of a tile pyramid.
type TileSource interface {
	// Get returns the resident tile at c, if any. c must be normalized.
	Get(c Coord) (*Tile, bool)
	// AvailableLOD returns the tiles that can stand in for c, or nil when
	// nothing usable is resident.
	AvailableLOD(c Coord) []SubstituteSelection
}

// Pyramid holds resident tiles in a cost-bounded cache. Tiles evicted by the
// cache policy, or removed with Remove, are queued until the owner collects
// them with DrainEvicted.
type Pyramid struct {
	cache *ristretto.Cache[string, *Tile]

	maxAncestorDepth   int
	maxDescendantDepth int

	mu      sync.Mutex
	evicted []Coord
}

// NewPyramid returns a pyramid sized from cfg.
func NewPyramid(cfg Config) (*Pyramid, error) {
	p := &Pyramid{
		maxAncestorDepth:   cfg.MaxAncestorDepth,
		maxDescendantDepth: cfg.MaxDescendantDepth,
	}
	capacity := int64(cfg.CacheCapacity)
	if capacity <= 0 {
		capacity = int64(DefaultConfig().CacheCapacity)
	}
	cache, err := ristretto.NewCache[string, *Tile](&ristretto.Config[string, *Tile]{
		NumCounters:        capacity * 10,
		MaxCost:            capacity,
		BufferItems:        64,
		IgnoreInternalCost: true,
		OnEvict: func(item *ristretto.Item[*Tile]) {
			if item.Value != nil {
				p.queueEvicted(item.Value.Coord)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("lattice: create tile cache: %w", err)
	}
	p.cache = cache
	return p, nil
}

// Close stops the cache's background goroutines.
func (p *Pyramid) Close() {
	p.cache.Close()
}

// Add makes tile resident. The tile's coordinate is normalized first.
func (p *Pyramid) Add(tile *Tile) {
	tile.Coord = tile.Coord.Normalize()
	if !p.cache.Set(tile.Coord.Hash(), tile, 1) {
		logFor("pyramid").WithField("coord", tile.Coord).Warn("tile dropped by cache")
		return
	}
	p.cache.Wait()
}

// Get returns the resident tile at c.
func (p *Pyramid) Get(c Coord) (*Tile, bool) {
	return p.cache.Get(c.Normalize().Hash())
}

// Has reports whether a tile is resident at c.
func (p *Pyramid) Has(c Coord) bool {
	_, ok := p.Get(c)
	return ok
}

// Remove drops the tile at c and queues it as evicted.
func (p *Pyramid) Remove(c Coord) {
	c = c.Normalize()
	if !p.Has(c) {
		return
	}
	p.cache.Del(c.Hash())
	p.queueEvicted(c)
}

func (p *Pyramid) queueEvicted(c Coord) {
	p.mu.Lock()
	p.evicted = append(p.evicted, c)
	p.mu.Unlock()
	logFor("pyramid").WithField("coord", c).Debug("tile evicted")
}

// DrainEvicted returns and clears the coordinates evicted since the last call.
func (p *Pyramid) DrainEvicted() []Coord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.evicted
	p.evicted = nil
	return out
}

// ClosestAncestor returns the nearest resident ancestor of c within
// MaxAncestorDepth levels.
func (p *Pyramid) ClosestAncestor(c Coord) (*Tile, bool) {
	c = c.Normalize()
	depth := min(p.maxAncestorDepth, c.Zoom)
	for k := 1; k <= depth; k++ {
		if t, ok := p.Get(c.AncestorAt(k)); ok {
			return t, true
		}
	}
	return nil, false
}

// hasDescendant reports whether any tile within levels below c is resident.
func (p *Pyramid) hasDescendant(c Coord, levels int) bool {
	for k := 1; k <= levels; k++ {
		for _, d := range c.DescendantsAt(k) {
			if p.Has(d) {
				return true
			}
		}
	}
	return false
}

// AvailableLOD returns the tiles that can stand in for c: the exact tile if
// resident; otherwise resident descendants within MaxDescendantDepth, with
// every sub-cell that has none covered by the closest ancestor.
func (p *Pyramid) AvailableLOD(c Coord) []SubstituteSelection {
	c = c.Normalize()
	if t, ok := p.Get(c); ok {
		return []SubstituteSelection{{Kind: SubstituteExact, Target: c, Tile: t}}
	}

	ancestor, hasAncestor := p.ClosestAncestor(c)
	var out []SubstituteSelection
	var cover func(d Coord, depth int)
	cover = func(d Coord, depth int) {
		if depth > 0 {
			if t, ok := p.Get(d); ok {
				out = append(out, SubstituteSelection{Kind: SubstituteDescendant, Target: c, Tile: t})
				return
			}
		}
		if depth < p.maxDescendantDepth && p.hasDescendant(d, p.maxDescendantDepth-depth) {
			for _, child := range d.Children() {
				cover(child, depth+1)
			}
			return
		}
		if hasAncestor {
			rel := d
			out = append(out, SubstituteSelection{
				Kind:     SubstituteAncestor,
				Target:   c,
				Tile:     ancestor,
				Relative: &rel,
			})
		}
	}
	cover(c, 0)

	if logger.IsLevelEnabled(logrus.TraceLevel) {
		logFor("pyramid").WithFields(logrus.Fields{"coord": c, "selections": len(out)}).Trace("available lod")
	}
	return out
}
