package usecase_test

import (
	"testing"
	"time"

	"github.com/hazardhub/siren/pkg/domain/interfaces"
	"github.com/hazardhub/siren/pkg/domain/model/alert"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/repository"
	"github.com/hazardhub/siren/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestAutoExpireSweep(t *testing.T) {
	repo := repository.NewMemory()
	uc := usecase.New(usecase.WithRepository(repo))
	ctx := testCtx(testT0)

	due, err := uc.CreateAlert(ctx, testParams(func(p *alert.Params) {
		p.ExpiresAt = testT0.Add(time.Hour)
	}))
	gt.NoError(t, err).Required()
	_, err = uc.ActivateAlert(ctx, due.ID)
	gt.NoError(t, err).Required()

	manual, err := uc.CreateAlert(ctx, testParams(func(p *alert.Params) {
		p.ExpiresAt = testT0.Add(time.Hour)
		p.AutomaticExpiry = false
	}))
	gt.NoError(t, err).Required()
	_, err = uc.ActivateAlert(ctx, manual.ID)
	gt.NoError(t, err).Required()

	fresh, err := uc.CreateAlert(ctx, testParams(nil))
	gt.NoError(t, err).Required()
	_, err = uc.ActivateAlert(ctx, fresh.ID)
	gt.NoError(t, err).Required()

	sweepCtx := testCtx(testT0.Add(2 * time.Hour))
	expired, err := uc.AutoExpireSweep(sweepCtx)
	gt.NoError(t, err).Required()
	gt.Value(t, expired).Equal(1)

	got, err := uc.GetAlert(ctx, due.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Status).Equal(types.AlertStatusExpired)
	gt.False(t, got.IsActive)
	// time-based expiry appends no revision entry
	gt.Array(t, got.RevisionHistory).Length(0)

	// manual-expiry and fresh alerts are untouched
	gotManual, err := uc.GetAlert(ctx, manual.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, gotManual.Status).Equal(types.AlertStatusActive)

	gotFresh, err := uc.GetAlert(ctx, fresh.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, gotFresh.Status).Equal(types.AlertStatusActive)

	// the sweep is idempotent
	again, err := uc.AutoExpireSweep(sweepCtx)
	gt.NoError(t, err).Required()
	gt.Value(t, again).Equal(0)
}

func TestExpiredAlertsLeaveServingSet(t *testing.T) {
	repo := repository.NewMemory()
	uc := usecase.New(usecase.WithRepository(repo))
	ctx := testCtx(testT0)

	due, err := uc.CreateAlert(ctx, testParams(func(p *alert.Params) {
		p.ExpiresAt = testT0.Add(time.Hour)
	}))
	gt.NoError(t, err).Required()
	_, err = uc.ActivateAlert(ctx, due.ID)
	gt.NoError(t, err).Required()

	before, err := uc.ActiveAlerts(testCtx(testT0.Add(30*time.Minute)), interfaces.ActiveQuery{})
	gt.NoError(t, err).Required()
	gt.Array(t, before).Length(1)

	// past expiry the alert is out of the serving set even before the
	// sweep runs
	after, err := uc.ActiveAlerts(testCtx(testT0.Add(2*time.Hour)), interfaces.ActiveQuery{})
	gt.NoError(t, err).Required()
	gt.Array(t, after).Length(0)

	sweepCtx := testCtx(testT0.Add(2 * time.Hour))
	expired, err := uc.AutoExpireSweep(sweepCtx)
	gt.NoError(t, err).Required()
	gt.Value(t, expired).Equal(1)

	// expired then archived
	archived, err := uc.ArchiveAlert(sweepCtx, due.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, archived.Status).Equal(types.AlertStatusArchived)
}
