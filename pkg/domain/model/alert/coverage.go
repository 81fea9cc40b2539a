package alert

import (
	"encoding/json"

	"github.com/hazardhub/siren/pkg/domain/model/errs"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/geo"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmach/orb"
)

const (
	MinCircleRadiusMeters = 100
	MaxCircleRadiusMeters = 100_000
)

// Coverage is the geographic region an alert applies to. It is a tagged
// union: exactly the payload matching Type is set. The per-type payloads
// replace the dynamically-shaped coordinate field of the upstream schema so
// a wrong-shape-for-this-type value cannot be represented.
type Coverage struct {
	Type    types.CoverageType `json:"type"`
	Point   *PointCoverage     `json:"point,omitempty"`
	Circle  *CircleCoverage    `json:"circle,omitempty"`
	Polygon *PolygonCoverage   `json:"polygon,omitempty"`
}

// PointCoverage marks a single [lng, lat] location. It is informational
// only: with no tolerance radius defined it never contains a query point.
// Callers that need point-centered targeting should use CircleCoverage.
type PointCoverage struct {
	Coordinates orb.Point `json:"coordinates"`
}

type CircleCoverage struct {
	Center       orb.Point `json:"center"`
	RadiusMeters float64   `json:"radiusMeters"`
}

// PolygonCoverage holds a single ring of [lng, lat] vertices, closed or
// auto-closed. Ring orientation is not validated; containment works for
// both windings.
type PolygonCoverage struct {
	Ring orb.Ring `json:"coordinates"`
}

func NewPointCoverage(pt orb.Point) Coverage {
	return Coverage{Type: types.CoveragePoint, Point: &PointCoverage{Coordinates: pt}}
}

func NewCircleCoverage(center orb.Point, radiusMeters float64) Coverage {
	return Coverage{Type: types.CoverageCircle, Circle: &CircleCoverage{Center: center, RadiusMeters: radiusMeters}}
}

func NewPolygonCoverage(ring orb.Ring) Coverage {
	return Coverage{Type: types.CoveragePolygon, Polygon: &PolygonCoverage{Ring: ring}}
}

func validCoordinate(pt orb.Point) bool {
	return pt.Lon() >= -180 && pt.Lon() <= 180 && pt.Lat() >= -90 && pt.Lat() <= 90
}

func (x Coverage) Validate() error {
	if err := x.Type.Validate(); err != nil {
		return goerr.Wrap(err, "invalid coverage", goerr.T(errs.TagValidation))
	}

	set := 0
	for _, present := range []bool{x.Point != nil, x.Circle != nil, x.Polygon != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return goerr.New("coverage must carry exactly one geometry payload",
			goerr.T(errs.TagValidation), goerr.V("payloads", set))
	}

	switch x.Type {
	case types.CoveragePoint:
		if x.Point == nil {
			return goerr.New("point coverage without point payload", goerr.T(errs.TagValidation))
		}
		if !validCoordinate(x.Point.Coordinates) {
			return goerr.New("point coordinates out of range",
				goerr.T(errs.TagValidation), goerr.V("coordinates", x.Point.Coordinates))
		}

	case types.CoverageCircle:
		if x.Circle == nil {
			return goerr.New("circle coverage without circle payload", goerr.T(errs.TagValidation))
		}
		if !validCoordinate(x.Circle.Center) {
			return goerr.New("circle center out of range",
				goerr.T(errs.TagValidation), goerr.V("center", x.Circle.Center))
		}
		if x.Circle.RadiusMeters < MinCircleRadiusMeters || x.Circle.RadiusMeters > MaxCircleRadiusMeters {
			return goerr.New("circle radius out of bounds",
				goerr.T(errs.TagValidation),
				goerr.V("radius_meters", x.Circle.RadiusMeters),
				goerr.V("min", MinCircleRadiusMeters),
				goerr.V("max", MaxCircleRadiusMeters))
		}

	case types.CoveragePolygon:
		if x.Polygon == nil {
			return goerr.New("polygon coverage without polygon payload", goerr.T(errs.TagValidation))
		}
		if len(x.Polygon.Ring) < 3 {
			return goerr.New("polygon ring needs at least 3 vertices",
				goerr.T(errs.TagValidation), goerr.V("vertices", len(x.Polygon.Ring)))
		}
		for _, pt := range x.Polygon.Ring {
			if !validCoordinate(pt) {
				return goerr.New("polygon vertex out of range",
					goerr.T(errs.TagValidation), goerr.V("vertex", pt))
			}
		}
	}

	return nil
}

// Contains is the containment predicate: does the query point fall inside
// this coverage. Point coverage never matches (radius-zero semantics).
func (x Coverage) Contains(pt orb.Point) bool {
	switch x.Type {
	case types.CoverageCircle:
		if x.Circle == nil {
			return false
		}
		return geo.InCircle(x.Circle.Center, x.Circle.RadiusMeters, pt)
	case types.CoveragePolygon:
		if x.Polygon == nil {
			return false
		}
		return geo.PointInRing(x.Polygon.Ring, pt)
	default:
		return false
	}
}

// coverageEnvelope is the wire shape: one "type" tag plus the fields of the
// matching payload, flattened.
type coverageEnvelope struct {
	Type         types.CoverageType `json:"type"`
	Coordinates  json.RawMessage    `json:"coordinates,omitempty"`
	Center       *orb.Point         `json:"center,omitempty"`
	RadiusMeters *float64           `json:"radiusMeters,omitempty"`
}

func (x Coverage) MarshalJSON() ([]byte, error) {
	env := coverageEnvelope{Type: x.Type}
	switch x.Type {
	case types.CoveragePoint:
		if x.Point != nil {
			raw, err := json.Marshal(x.Point.Coordinates)
			if err != nil {
				return nil, err
			}
			env.Coordinates = raw
		}
	case types.CoverageCircle:
		if x.Circle != nil {
			env.Center = &x.Circle.Center
			env.RadiusMeters = &x.Circle.RadiusMeters
		}
	case types.CoveragePolygon:
		if x.Polygon != nil {
			raw, err := json.Marshal(x.Polygon.Ring)
			if err != nil {
				return nil, err
			}
			env.Coordinates = raw
		}
	}
	return json.Marshal(env)
}

func (x *Coverage) UnmarshalJSON(data []byte) error {
	var env coverageEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return goerr.Wrap(err, "failed to decode coverage", goerr.T(errs.TagValidation))
	}

	switch env.Type {
	case types.CoveragePoint:
		var pt orb.Point
		if err := json.Unmarshal(env.Coordinates, &pt); err != nil {
			return goerr.Wrap(err, "failed to decode point coordinates", goerr.T(errs.TagValidation))
		}
		*x = NewPointCoverage(pt)

	case types.CoverageCircle:
		if env.Center == nil || env.RadiusMeters == nil {
			return goerr.New("circle coverage requires center and radiusMeters", goerr.T(errs.TagValidation))
		}
		*x = NewCircleCoverage(*env.Center, *env.RadiusMeters)

	case types.CoveragePolygon:
		var ring orb.Ring
		if err := json.Unmarshal(env.Coordinates, &ring); err != nil {
			return goerr.Wrap(err, "failed to decode polygon ring", goerr.T(errs.TagValidation))
		}
		*x = NewPolygonCoverage(ring)

	default:
		return goerr.New("unknown coverage type", goerr.T(errs.TagValidation), goerr.V("type", env.Type))
	}

	return nil
}
