package alert_test

import (
	"encoding/json"
	"testing"

	"github.com/hazardhub/siren/pkg/domain/model/alert"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/m-mizutani/gt"
	"github.com/paulmach/orb"
)

func TestCoverageValidate(t *testing.T) {
	t.Run("valid circle", func(t *testing.T) {
		c := alert.NewCircleCoverage(orb.Point{83.2185, 17.6868}, 5000)
		gt.NoError(t, c.Validate())
	})

	t.Run("radius bounds", func(t *testing.T) {
		gt.Error(t, alert.NewCircleCoverage(orb.Point{83, 17}, 99).Validate())
		gt.NoError(t, alert.NewCircleCoverage(orb.Point{83, 17}, 100).Validate())
		gt.NoError(t, alert.NewCircleCoverage(orb.Point{83, 17}, 100_000).Validate())
		gt.Error(t, alert.NewCircleCoverage(orb.Point{83, 17}, 100_001).Validate())
	})

	t.Run("coordinate range", func(t *testing.T) {
		gt.Error(t, alert.NewPointCoverage(orb.Point{181, 0}).Validate())
		gt.Error(t, alert.NewPointCoverage(orb.Point{0, -91}).Validate())
		gt.NoError(t, alert.NewPointCoverage(orb.Point{-180, 90}).Validate())
	})

	t.Run("polygon needs three vertices", func(t *testing.T) {
		gt.Error(t, alert.NewPolygonCoverage(orb.Ring{{0, 0}, {1, 1}}).Validate())
		gt.NoError(t, alert.NewPolygonCoverage(orb.Ring{{0, 0}, {1, 0}, {1, 1}}).Validate())
	})

	t.Run("mismatched payload", func(t *testing.T) {
		c := alert.Coverage{
			Type:   types.CoverageCircle,
			Point:  &alert.PointCoverage{Coordinates: orb.Point{0, 0}},
		}
		gt.Error(t, c.Validate())
	})
}

func TestCoverageContains(t *testing.T) {
	t.Run("circle", func(t *testing.T) {
		c := alert.NewCircleCoverage(orb.Point{83.2185, 17.6868}, 5000)
		gt.True(t, c.Contains(orb.Point{83.22, 17.69}))
		gt.False(t, c.Contains(orb.Point{83.5, 18.0}))
	})

	t.Run("polygon", func(t *testing.T) {
		c := alert.NewPolygonCoverage(orb.Ring{
			{83.20, 17.66}, {83.25, 17.66}, {83.25, 17.71}, {83.20, 17.71},
		})
		gt.True(t, c.Contains(orb.Point{83.225, 17.685}))
		gt.False(t, c.Contains(orb.Point{83.5, 18.0}))
	})

	t.Run("bare point is informational only", func(t *testing.T) {
		c := alert.NewPointCoverage(orb.Point{83.2185, 17.6868})
		gt.False(t, c.Contains(orb.Point{83.2185, 17.6868}))
	})
}

func TestCoverageJSON(t *testing.T) {
	t.Run("circle round trip", func(t *testing.T) {
		in := alert.NewCircleCoverage(orb.Point{83.2185, 17.6868}, 5000)
		raw, err := json.Marshal(in)
		gt.NoError(t, err).Required()

		var out alert.Coverage
		gt.NoError(t, json.Unmarshal(raw, &out)).Required()
		gt.Equal(t, out.Type, types.CoverageCircle)
		gt.Equal(t, out.Circle.Center, orb.Point{83.2185, 17.6868})
		gt.Equal(t, out.Circle.RadiusMeters, float64(5000))
	})

	t.Run("polygon round trip", func(t *testing.T) {
		in := alert.NewPolygonCoverage(orb.Ring{{83.20, 17.66}, {83.25, 17.66}, {83.25, 17.71}})
		raw, err := json.Marshal(in)
		gt.NoError(t, err).Required()

		var out alert.Coverage
		gt.NoError(t, json.Unmarshal(raw, &out)).Required()
		gt.Equal(t, out.Type, types.CoveragePolygon)
		gt.Array(t, out.Polygon.Ring).Length(3)
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		var out alert.Coverage
		gt.Error(t, json.Unmarshal([]byte(`{"type":"Blob"}`), &out))
	})

	t.Run("circle without radius is rejected", func(t *testing.T) {
		var out alert.Coverage
		gt.Error(t, json.Unmarshal([]byte(`{"type":"Circle","center":[83.2,17.7]}`), &out))
	})
}
