package repository_test

import (
	"testing"
	"time"

	"github.com/hazardhub/siren/pkg/domain/interfaces"
	"github.com/hazardhub/siren/pkg/domain/model/alert"
	"github.com/hazardhub/siren/pkg/domain/model/errs"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/repository"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/paulmach/orb"
)

func TestCreateAndGetAlert(t *testing.T) {
	testFn := func(t *testing.T, repo interfaces.Repository) {
		ctx := fixedCtx(repoTestT0)
		a := newTestAlert(t, ctx, nil)

		gt.NoError(t, repo.CreateAlert(ctx, a)).Required()

		got, err := repo.GetAlert(ctx, a.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(a.ID)
		gt.Value(t, got.Title).Equal(a.Title)
		gt.Value(t, got.Status).Equal(types.AlertStatusDraft)
		gt.Value(t, got.Rev).Equal(int64(1))
		gt.True(t, got.Coverage.Contains(orb.Point{83.22, 17.69}))

		// creating the same ID again is a conflict
		err = repo.CreateAlert(ctx, a)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagConflict))
	}

	t.Run("Memory", func(t *testing.T) {
		testFn(t, repository.NewMemory())
	})
	t.Run("Firestore", func(t *testing.T) {
		testFn(t, newFirestoreClient(t))
	})
}

func TestGetAlertNotFound(t *testing.T) {
	testFn := func(t *testing.T, repo interfaces.Repository) {
		ctx := fixedCtx(repoTestT0)
		_, err := repo.GetAlert(ctx, types.NewAlertID())
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	}

	t.Run("Memory", func(t *testing.T) {
		testFn(t, repository.NewMemory())
	})
	t.Run("Firestore", func(t *testing.T) {
		testFn(t, newFirestoreClient(t))
	})
}

func TestSaveAlertRevisionCheck(t *testing.T) {
	testFn := func(t *testing.T, repo interfaces.Repository) {
		ctx := fixedCtx(repoTestT0)
		a := newTestAlert(t, ctx, nil)
		gt.NoError(t, repo.CreateAlert(ctx, a)).Required()

		activated, err := a.Activate(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, activated.Rev).Equal(int64(2))
		gt.NoError(t, repo.SaveAlert(ctx, activated))

		// replaying the same revision is a lost-update conflict
		err = repo.SaveAlert(ctx, activated)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagConflict))

		// saving an unknown alert is not found
		other := newActiveTestAlert(t, ctx, nil)
		err = repo.SaveAlert(ctx, other)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	}

	t.Run("Memory", func(t *testing.T) {
		testFn(t, repository.NewMemory())
	})
	t.Run("Firestore", func(t *testing.T) {
		testFn(t, newFirestoreClient(t))
	})
}

func TestListAlerts(t *testing.T) {
	testFn := func(t *testing.T, repo interfaces.Repository) {
		ctx := fixedCtx(repoTestT0)

		draft := newTestAlert(t, ctx, nil)
		gt.NoError(t, repo.CreateAlert(ctx, draft)).Required()

		laterCtx := fixedCtx(repoTestT0.Add(time.Minute))
		flood := newActiveTestAlert(t, laterCtx, func(p *alert.Params) {
			p.Hazard = types.HazardFlood
			p.Severity = types.SeverityMedium
			p.Tags = []string{"riverine"}
		})
		gt.NoError(t, repo.CreateAlert(ctx, flood)).Required()

		all, total, err := repo.ListAlerts(ctx, interfaces.AlertFilter{})
		gt.NoError(t, err).Required()
		gt.Value(t, total).Equal(2)
		gt.Array(t, all).Length(2)
		// newest first
		gt.Value(t, all[0].ID).Equal(flood.ID)

		hazard := types.HazardFlood
		filtered, total, err := repo.ListAlerts(ctx, interfaces.AlertFilter{Hazard: &hazard})
		gt.NoError(t, err).Required()
		gt.Value(t, total).Equal(1)
		gt.Value(t, filtered[0].ID).Equal(flood.ID)

		byStatus, _, err := repo.ListAlerts(ctx, interfaces.AlertFilter{
			Status: []types.AlertStatus{types.AlertStatusDraft},
		})
		gt.NoError(t, err).Required()
		gt.Array(t, byStatus).Length(1)
		gt.Value(t, byStatus[0].ID).Equal(draft.ID)

		paged, total, err := repo.ListAlerts(ctx, interfaces.AlertFilter{Offset: 1, Limit: 10})
		gt.NoError(t, err).Required()
		gt.Value(t, total).Equal(2)
		gt.Array(t, paged).Length(1)

		empty, total, err := repo.ListAlerts(ctx, interfaces.AlertFilter{Offset: 5})
		gt.NoError(t, err).Required()
		gt.Value(t, total).Equal(2)
		gt.Array(t, empty).Length(0)
	}

	t.Run("Memory", func(t *testing.T) {
		testFn(t, repository.NewMemory())
	})
	t.Run("Firestore", func(t *testing.T) {
		testFn(t, newFirestoreClient(t))
	})
}

func TestFindActiveAlerts(t *testing.T) {
	testFn := func(t *testing.T, repo interfaces.Repository) {
		ctx := fixedCtx(repoTestT0)

		active := newActiveTestAlert(t, ctx, nil)
		gt.NoError(t, repo.CreateAlert(ctx, active)).Required()

		draft := newTestAlert(t, ctx, nil)
		gt.NoError(t, repo.CreateAlert(ctx, draft)).Required()

		future := newActiveTestAlert(t, ctx, func(p *alert.Params) {
			p.EffectiveFrom = repoTestT0.Add(6 * time.Hour)
			p.ExpiresAt = repoTestT0.Add(30 * time.Hour)
		})
		gt.NoError(t, repo.CreateAlert(ctx, future)).Required()

		minor := newActiveTestAlert(t, ctx, func(p *alert.Params) {
			p.Hazard = types.HazardFlood
			p.Severity = types.SeverityLow
			p.Tags = []string{"riverine"}
		})
		gt.NoError(t, repo.CreateAlert(ctx, minor)).Required()

		now := repoTestT0.Add(time.Hour)
		serving, err := repo.FindActiveAlerts(ctx, now, interfaces.ActiveQuery{})
		gt.NoError(t, err).Required()
		gt.Array(t, serving).Length(2)
		// severe before minor
		gt.Value(t, serving[0].ID).Equal(active.ID)
		gt.Value(t, serving[1].ID).Equal(minor.ID)

		hazard := types.HazardFlood
		floods, err := repo.FindActiveAlerts(ctx, now, interfaces.ActiveQuery{Hazard: &hazard})
		gt.NoError(t, err).Required()
		gt.Array(t, floods).Length(1)
		gt.Value(t, floods[0].ID).Equal(minor.ID)

		tagged, err := repo.FindActiveAlerts(ctx, now, interfaces.ActiveQuery{Tag: "riverine"})
		gt.NoError(t, err).Required()
		gt.Array(t, tagged).Length(1)

		// the future alert becomes servable once its window opens
		later, err := repo.FindActiveAlerts(ctx, repoTestT0.Add(7*time.Hour), interfaces.ActiveQuery{})
		gt.NoError(t, err).Required()
		gt.Array(t, later).Length(3)
	}

	t.Run("Memory", func(t *testing.T) {
		testFn(t, repository.NewMemory())
	})
	t.Run("Firestore", func(t *testing.T) {
		testFn(t, newFirestoreClient(t))
	})
}

func TestFindExpiryCandidates(t *testing.T) {
	testFn := func(t *testing.T, repo interfaces.Repository) {
		ctx := fixedCtx(repoTestT0)

		due := newActiveTestAlert(t, ctx, func(p *alert.Params) {
			p.ExpiresAt = repoTestT0.Add(time.Hour)
		})
		gt.NoError(t, repo.CreateAlert(ctx, due)).Required()

		manual := newActiveTestAlert(t, ctx, func(p *alert.Params) {
			p.ExpiresAt = repoTestT0.Add(time.Hour)
			p.AutomaticExpiry = false
		})
		gt.NoError(t, repo.CreateAlert(ctx, manual)).Required()

		fresh := newActiveTestAlert(t, ctx, nil)
		gt.NoError(t, repo.CreateAlert(ctx, fresh)).Required()

		candidates, err := repo.FindExpiryCandidates(ctx, repoTestT0.Add(2*time.Hour))
		gt.NoError(t, err).Required()
		gt.Array(t, candidates).Length(1)
		gt.Value(t, candidates[0].ID).Equal(due.ID)

		none, err := repo.FindExpiryCandidates(ctx, repoTestT0.Add(30*time.Minute))
		gt.NoError(t, err).Required()
		gt.Array(t, none).Length(0)
	}

	t.Run("Memory", func(t *testing.T) {
		testFn(t, repository.NewMemory())
	})
	t.Run("Firestore", func(t *testing.T) {
		testFn(t, newFirestoreClient(t))
	})
}

func TestIncrementMetric(t *testing.T) {
	testFn := func(t *testing.T, repo interfaces.Repository) {
		ctx := fixedCtx(repoTestT0)
		a := newActiveTestAlert(t, ctx, nil)
		gt.NoError(t, repo.CreateAlert(ctx, a)).Required()

		gt.NoError(t, repo.IncrementMetric(ctx, a.ID, types.MetricView))
		gt.NoError(t, repo.IncrementMetric(ctx, a.ID, types.MetricView))
		gt.NoError(t, repo.IncrementMetric(ctx, a.ID, types.MetricShare))

		got, err := repo.GetAlert(ctx, a.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Metrics.ViewCount).Equal(int64(2))
		gt.Value(t, got.Metrics.ShareCount).Equal(int64(1))
		gt.Value(t, got.Metrics.AcknowledgmentCount).Equal(int64(0))
		// counters are isolated from revision bookkeeping
		gt.Value(t, got.Rev).Equal(a.Rev)
		gt.Value(t, got.LastUpdated).Equal(a.LastUpdated)

		err = repo.IncrementMetric(ctx, types.NewAlertID(), types.MetricView)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	}

	t.Run("Memory", func(t *testing.T) {
		testFn(t, repository.NewMemory())
	})
	t.Run("Firestore", func(t *testing.T) {
		testFn(t, newFirestoreClient(t))
	})
}

func TestMetricsSurviveSave(t *testing.T) {
	testFn := func(t *testing.T, repo interfaces.Repository) {
		ctx := fixedCtx(repoTestT0)
		a := newActiveTestAlert(t, ctx, nil)
		gt.NoError(t, repo.CreateAlert(ctx, a)).Required()

		gt.NoError(t, repo.IncrementMetric(ctx, a.ID, types.MetricView))

		// a stale in-memory copy without the increment must not clobber it
		cancelled, err := a.Cancel(ctx, testOfficial().ID, "test cancellation")
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.SaveAlert(ctx, cancelled))

		got, err := repo.GetAlert(ctx, a.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.AlertStatusCancelled)
		gt.Value(t, got.Metrics.ViewCount).Equal(int64(1))
	}

	t.Run("Memory", func(t *testing.T) {
		testFn(t, repository.NewMemory())
	})
	t.Run("Firestore", func(t *testing.T) {
		testFn(t, newFirestoreClient(t))
	})
}

func TestBatchGetAndChildAlerts(t *testing.T) {
	testFn := func(t *testing.T, repo interfaces.Repository) {
		ctx := fixedCtx(repoTestT0)

		parent := newActiveTestAlert(t, ctx, nil)
		gt.NoError(t, repo.CreateAlert(ctx, parent)).Required()

		child := newTestAlert(t, fixedCtx(repoTestT0.Add(time.Minute)), func(p *alert.Params) {
			p.ParentAlert = parent.ID
		})
		gt.NoError(t, repo.CreateAlert(ctx, child)).Required()

		batch, err := repo.BatchGetAlerts(ctx, []types.AlertID{parent.ID, types.NewAlertID(), child.ID})
		gt.NoError(t, err).Required()
		gt.Array(t, batch).Length(2)

		children, err := repo.GetChildAlerts(ctx, parent.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, children).Length(1)
		gt.Value(t, children[0].ID).Equal(child.ID)

		none, err := repo.GetChildAlerts(ctx, child.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, none).Length(0)
	}

	t.Run("Memory", func(t *testing.T) {
		testFn(t, repository.NewMemory())
	})
	t.Run("Firestore", func(t *testing.T) {
		testFn(t, newFirestoreClient(t))
	})
}

func TestRevisionHistoryRoundTrip(t *testing.T) {
	testFn := func(t *testing.T, repo interfaces.Repository) {
		ctx := fixedCtx(repoTestT0)
		a := newActiveTestAlert(t, ctx, nil)
		gt.NoError(t, repo.CreateAlert(ctx, a)).Required()

		extended, err := a.Extend(ctx, testOfficial().ID, repoTestT0.Add(48*time.Hour), "storm stalling")
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.SaveAlert(ctx, extended))

		got, err := repo.GetAlert(ctx, a.ID)
		gt.NoError(t, err).Required()
		gt.Array(t, got.RevisionHistory).Length(1)
		rev := got.RevisionHistory[0]
		gt.Value(t, rev.ChangeType).Equal(types.ChangeTimeExtension)
		gt.NotNil(t, rev.Previous.Timing)
		gt.Value(t, rev.Previous.Timing.ExpiresAt).Equal(a.ExpiresAt)
	}

	t.Run("Memory", func(t *testing.T) {
		testFn(t, repository.NewMemory())
	})
	t.Run("Firestore", func(t *testing.T) {
		testFn(t, newFirestoreClient(t))
	})
}
