/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package ninja

import "math"

// Path is the bounded trailing history of pointer positions that makes up
// the blade.
type Path struct {
	points []Point
	limit  int
}

// NewPath returns a trail that keeps at most limit points.
func NewPath(limit int) *Path {
	if limit < 2 {
		limit = 2
	}
	return &Path{
		points: make([]Point, 0, limit+1),
		limit:  limit,
	}
}

// Record appends p, dropping the oldest point once the trail is full.
func (p *Path) Record(pt Point) {
	p.points = append(p.points, pt)
	if over := len(p.points) - p.limit; over > 0 {
		p.points = append(p.points[:0], p.points[over:]...)
	}
}

// Points returns the trail, oldest first. The slice is only valid until the
// next Record.
func (p *Path) Points() []Point {
	return p.points
}

func (p *Path) Len() int {
	return len(p.points)
}

func (p *Path) Reset() {
	p.points = p.points[:0]
}

// Speed is the distance between the two most recent points, or 0.
func (p *Path) Speed() float64 {
	n := len(p.points)
	if n < 2 {
		return 0
	}
	a, b := p.points[n-1], p.points[n-2]
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// DetectSlices marks every unsliced entity within its radius of the newest
// trail point as sliced, provided the blade is moving faster than minSpeed,
// and returns them in entity order. Hovering never slices.
func DetectSlices(path *Path, entities []*WordEntity, minSpeed float64) []*WordEntity {
	if path == nil || path.Len() < 2 || path.Speed() <= minSpeed {
		return nil
	}
	tip := path.points[len(path.points)-1]

	var hits []*WordEntity
	for _, e := range entities {
		if e.Sliced {
			continue
		}
		if math.Hypot(e.X-tip.X, e.Y-tip.Y) < e.Radius {
			e.Sliced = true
			hits = append(hits, e)
		}
	}
	return hits
}
