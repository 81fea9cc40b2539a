package geo_test

import (
	"testing"

	"github.com/hazardhub/siren/pkg/geo"
	"github.com/m-mizutani/gt"
	"github.com/paulmach/orb"
)

func TestDistance(t *testing.T) {
	vizag := orb.Point{83.2185, 17.6868}

	// A point roughly 0.4 km away
	near := orb.Point{83.22, 17.69}
	d := geo.Distance(vizag, near)
	gt.True(t, d > 100)
	gt.True(t, d < 1000)

	// A point roughly 45 km away
	far := orb.Point{83.5, 18.0}
	d = geo.Distance(vizag, far)
	gt.True(t, d > 40_000)
	gt.True(t, d < 60_000)
}

func TestInCircle(t *testing.T) {
	center := orb.Point{83.2185, 17.6868}

	t.Run("center is always inside for positive radius", func(t *testing.T) {
		gt.True(t, geo.InCircle(center, 1, center))
	})

	t.Run("zero radius matches nothing", func(t *testing.T) {
		gt.False(t, geo.InCircle(center, 0, center))
	})

	t.Run("circle relevance fixture", func(t *testing.T) {
		gt.True(t, geo.InCircle(center, 5000, orb.Point{83.22, 17.69}))
		gt.False(t, geo.InCircle(center, 5000, orb.Point{83.5, 18.0}))
	})

	t.Run("boundary within floating point tolerance", func(t *testing.T) {
		pt := orb.Point{83.25, 17.6868}
		d := geo.Distance(center, pt)
		gt.True(t, geo.InCircle(center, d+1, pt))
		gt.False(t, geo.InCircle(center, d-1, pt))
	})
}

func TestPointInRing(t *testing.T) {
	// Convex quadrilateral around Visakhapatnam harbor
	quad := orb.Ring{
		{83.20, 17.66},
		{83.25, 17.66},
		{83.25, 17.71},
		{83.20, 17.71},
	}

	t.Run("centroid is inside", func(t *testing.T) {
		gt.True(t, geo.PointInRing(quad, orb.Point{83.225, 17.685}))
	})

	t.Run("outside bounding box is never inside", func(t *testing.T) {
		gt.False(t, geo.PointInRing(quad, orb.Point{83.5, 18.0}))
		gt.False(t, geo.PointInRing(quad, orb.Point{83.10, 17.685}))
	})

	t.Run("closed ring behaves the same as open ring", func(t *testing.T) {
		closed := append(orb.Ring{}, quad...)
		closed = append(closed, quad[0])
		gt.True(t, geo.PointInRing(closed, orb.Point{83.225, 17.685}))
		gt.False(t, geo.PointInRing(closed, orb.Point{83.5, 18.0}))
	})

	t.Run("reversed orientation still contains", func(t *testing.T) {
		reversed := make(orb.Ring, len(quad))
		for i, p := range quad {
			reversed[len(quad)-1-i] = p
		}
		gt.True(t, geo.PointInRing(reversed, orb.Point{83.225, 17.685}))
	})

	t.Run("degenerate ring matches nothing", func(t *testing.T) {
		gt.False(t, geo.PointInRing(orb.Ring{{0, 0}, {1, 1}}, orb.Point{0.5, 0.5}))
	})
}
