package usecase_test

import (
	"testing"
	"time"

	"github.com/hazardhub/siren/pkg/domain/interfaces"
	"github.com/hazardhub/siren/pkg/domain/model/alert"
	"github.com/hazardhub/siren/pkg/domain/model/errs"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/repository"
	"github.com/hazardhub/siren/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/paulmach/orb"
)

func TestRelevantAlerts(t *testing.T) {
	repo := repository.NewMemory()
	uc := usecase.New(usecase.WithRepository(repo))
	ctx := testCtx(testT0)

	// 5km circle around Visakhapatnam
	circle, err := uc.CreateAlert(ctx, testParams(nil))
	gt.NoError(t, err).Required()
	_, err = uc.ActivateAlert(ctx, circle.ID)
	gt.NoError(t, err).Required()

	// polygon roughly covering the harbor area
	polygon, err := uc.CreateAlert(ctx, testParams(func(p *alert.Params) {
		p.Hazard = types.HazardMarineEmergency
		p.Coverage = alert.NewPolygonCoverage(orb.Ring{
			{83.20, 17.65},
			{83.32, 17.65},
			{83.32, 17.73},
			{83.20, 17.73},
		})
	}))
	gt.NoError(t, err).Required()
	_, err = uc.ActivateAlert(ctx, polygon.ID)
	gt.NoError(t, err).Required()

	// draft alerts never serve, regardless of coverage
	_, err = uc.CreateAlert(ctx, testParams(nil))
	gt.NoError(t, err).Required()

	queryCtx := testCtx(testT0.Add(time.Hour))

	// inside both coverages
	both, err := uc.RelevantAlerts(queryCtx, orb.Point{83.22, 17.69}, interfaces.ActiveQuery{})
	gt.NoError(t, err).Required()
	gt.Array(t, both).Length(2)

	// inside the polygon, outside the circle
	harborEdge, err := uc.RelevantAlerts(queryCtx, orb.Point{83.31, 17.66}, interfaces.ActiveQuery{})
	gt.NoError(t, err).Required()
	gt.Array(t, harborEdge).Length(1)
	gt.Value(t, harborEdge[0].ID).Equal(polygon.ID)

	// far away
	none, err := uc.RelevantAlerts(queryCtx, orb.Point{83.5, 18.0}, interfaces.ActiveQuery{})
	gt.NoError(t, err).Required()
	gt.Array(t, none).Length(0)

	// hazard restriction composes with the geometric predicate
	hazard := types.HazardMarineEmergency
	marine, err := uc.RelevantAlerts(queryCtx, orb.Point{83.22, 17.69}, interfaces.ActiveQuery{Hazard: &hazard})
	gt.NoError(t, err).Required()
	gt.Array(t, marine).Length(1)
	gt.Value(t, marine[0].ID).Equal(polygon.ID)
}

func TestRelevantAlertsRejectsBadCoordinate(t *testing.T) {
	uc := usecase.New()
	ctx := testCtx(testT0)

	_, err := uc.RelevantAlerts(ctx, orb.Point{183.0, 17.69}, interfaces.ActiveQuery{})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagInvalidRequest))

	_, err = uc.RelevantAlerts(ctx, orb.Point{83.22, 91.0}, interfaces.ActiveQuery{})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagInvalidRequest))
}

func TestActiveAlertsOrdering(t *testing.T) {
	repo := repository.NewMemory()
	uc := usecase.New(usecase.WithRepository(repo))
	ctx := testCtx(testT0)

	low, err := uc.CreateAlert(ctx, testParams(func(p *alert.Params) {
		p.Severity = types.SeverityLow
	}))
	gt.NoError(t, err).Required()
	_, err = uc.ActivateAlert(ctx, low.ID)
	gt.NoError(t, err).Required()

	critical, err := uc.CreateAlert(ctx, testParams(func(p *alert.Params) {
		p.Severity = types.SeverityCritical
	}))
	gt.NoError(t, err).Required()
	_, err = uc.ActivateAlert(ctx, critical.ID)
	gt.NoError(t, err).Required()

	serving, err := uc.ActiveAlerts(testCtx(testT0.Add(time.Hour)), interfaces.ActiveQuery{})
	gt.NoError(t, err).Required()
	gt.Array(t, serving).Length(2)
	gt.Value(t, serving[0].ID).Equal(critical.ID)
	gt.Value(t, serving[1].ID).Equal(low.ID)
}
