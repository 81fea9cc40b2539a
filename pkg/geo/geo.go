// Package geo holds the pure geospatial predicates used by the alert
// relevance queries. Everything operates on bare orb types with no storage
// dependency so the containment logic is unit-testable against literal
// coordinate fixtures.
package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

// Distance returns the great-circle distance between two [lng, lat] points
// in meters, computed on a spherical earth (haversine).
func Distance(a, b orb.Point) float64 {
	return geo.DistanceHaversine(a, b)
}

// InCircle reports whether pt lies within radiusMeters of center.
func InCircle(center orb.Point, radiusMeters float64, pt orb.Point) bool {
	if radiusMeters <= 0 {
		return false
	}
	return Distance(center, pt) <= radiusMeters
}

// PointInRing reports whether pt lies inside the ring. Open rings are
// closed automatically. The test is a planar ray cast on the [lng, lat]
// coordinates, which is orientation-independent and adequate for alert
// coverage areas (no antimeridian or polar handling).
func PointInRing(ring orb.Ring, pt orb.Point) bool {
	if len(ring) < 3 {
		return false
	}
	if !ring.Closed() {
		closed := make(orb.Ring, len(ring)+1)
		copy(closed, ring)
		closed[len(ring)] = ring[0]
		ring = closed
	}
	return planar.RingContains(ring, pt)
}
