package usecase

import (
	"context"
	"time"

	"github.com/hazardhub/siren/pkg/domain/interfaces"
	"github.com/hazardhub/siren/pkg/domain/model/alert"
	"github.com/hazardhub/siren/pkg/domain/model/errs"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/utils/authctx"
	"github.com/hazardhub/siren/pkg/utils/clock"
	"github.com/hazardhub/siren/pkg/utils/errutil"
	"github.com/hazardhub/siren/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

func officialFrom(ctx context.Context) (authctx.Official, error) {
	official, ok := authctx.From(ctx)
	if !ok {
		return authctx.Official{}, goerr.New("no authenticated official in context",
			goerr.T(errs.TagUnauthorized))
	}
	return official, nil
}

// CreateAlert builds a draft alert for the authenticated official and
// persists it.
func (u *UseCases) CreateAlert(ctx context.Context, p alert.Params) (*alert.Alert, error) {
	official, err := officialFrom(ctx)
	if err != nil {
		return nil, err
	}

	created, err := alert.New(ctx, official, p)
	if err != nil {
		return nil, err
	}

	if err := u.repository.CreateAlert(ctx, created); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("alert created",
		"alert_id", created.ID,
		"hazard", created.Hazard,
		"severity", created.Severity,
		"official_id", official.ID,
	)
	return &created, nil
}

func (u *UseCases) GetAlert(ctx context.Context, id types.AlertID) (*alert.Alert, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid alert ID", goerr.T(errs.TagInvalidRequest))
	}
	return u.repository.GetAlert(ctx, id)
}

func (u *UseCases) ListAlerts(ctx context.Context, filter interfaces.AlertFilter) (alert.Alerts, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = u.defaultListLimit
	}
	return u.repository.ListAlerts(ctx, filter)
}

func (u *UseCases) GetChildAlerts(ctx context.Context, parentID types.AlertID) (alert.Alerts, error) {
	if err := parentID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid alert ID", goerr.T(errs.TagInvalidRequest))
	}
	return u.repository.GetChildAlerts(ctx, parentID)
}

// mutateAlert runs a read-modify-write cycle on one alert with optimistic
// concurrency: a revision conflict on save means another writer got in
// first, so reload and reapply. Precondition failures are not retried;
// they reflect the actual current state.
func (u *UseCases) mutateAlert(ctx context.Context, id types.AlertID, fn func(alert.Alert) (alert.Alert, error)) (*alert.Alert, error) {
	if err := id.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid alert ID", goerr.T(errs.TagInvalidRequest))
	}

	var lastErr error
	for range maxSaveRetries {
		current, err := u.repository.GetAlert(ctx, id)
		if err != nil {
			return nil, err
		}

		next, err := fn(*current)
		if err != nil {
			return nil, err
		}
		next = next.NormalizeForSave(clock.Now(ctx))

		if err := u.repository.SaveAlert(ctx, next); err != nil {
			if goerr.HasTag(err, errs.TagConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return &next, nil
	}

	return nil, goerr.Wrap(lastErr, "alert mutation kept conflicting",
		goerr.T(errs.TagConflict),
		goerr.TV(errutil.AlertIDKey, id))
}

// ActivateAlert publishes a draft alert.
func (u *UseCases) ActivateAlert(ctx context.Context, id types.AlertID) (*alert.Alert, error) {
	if _, err := officialFrom(ctx); err != nil {
		return nil, err
	}

	activated, err := u.mutateAlert(ctx, id, func(a alert.Alert) (alert.Alert, error) {
		return a.Activate(ctx)
	})
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("alert activated", "alert_id", id)
	return activated, nil
}

// CancelAlert withdraws a live alert with an audit revision.
func (u *UseCases) CancelAlert(ctx context.Context, id types.AlertID, reason string) (*alert.Alert, error) {
	official, err := officialFrom(ctx)
	if err != nil {
		return nil, err
	}

	cancelled, err := u.mutateAlert(ctx, id, func(a alert.Alert) (alert.Alert, error) {
		return a.Cancel(ctx, official.ID, reason)
	})
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("alert cancelled", "alert_id", id, "official_id", official.ID)
	return cancelled, nil
}

// ExtendAlert moves the expiry of a live alert.
func (u *UseCases) ExtendAlert(ctx context.Context, id types.AlertID, newExpiresAt time.Time, reason string) (*alert.Alert, error) {
	official, err := officialFrom(ctx)
	if err != nil {
		return nil, err
	}

	extended, err := u.mutateAlert(ctx, id, func(a alert.Alert) (alert.Alert, error) {
		return a.Extend(ctx, official.ID, newExpiresAt, reason)
	})
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("alert extended",
		"alert_id", id,
		"expires_at", newExpiresAt,
		"official_id", official.ID,
	)
	return extended, nil
}

// UpdateAlertContent revises the citizen-facing content of a live alert.
func (u *UseCases) UpdateAlertContent(ctx context.Context, id types.AlertID, update alert.ContentUpdate, reason string) (*alert.Alert, error) {
	official, err := officialFrom(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := u.mutateAlert(ctx, id, func(a alert.Alert) (alert.Alert, error) {
		return a.UpdateContent(ctx, official.ID, update, reason)
	})
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("alert content updated", "alert_id", id, "official_id", official.ID)
	return updated, nil
}

// ArchiveAlert moves a terminal alert into long-term retention.
func (u *UseCases) ArchiveAlert(ctx context.Context, id types.AlertID) (*alert.Alert, error) {
	if _, err := officialFrom(ctx); err != nil {
		return nil, err
	}

	archived, err := u.mutateAlert(ctx, id, func(a alert.Alert) (alert.Alert, error) {
		return a.Archive(ctx)
	})
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("alert archived", "alert_id", id)
	return archived, nil
}

// RecordMetric bumps one engagement counter. Unauthenticated by design;
// counters never touch the audit trail.
func (u *UseCases) RecordMetric(ctx context.Context, id types.AlertID, metric types.Metric) error {
	if err := id.Validate(); err != nil {
		return goerr.Wrap(err, "invalid alert ID", goerr.T(errs.TagInvalidRequest))
	}
	if err := metric.Validate(); err != nil {
		return goerr.Wrap(err, "invalid metric", goerr.T(errs.TagInvalidRequest))
	}
	return u.repository.IncrementMetric(ctx, id, metric)
}
