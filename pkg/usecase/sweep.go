package usecase

import (
	"context"

	"github.com/hazardhub/siren/pkg/domain/model/errs"
	"github.com/hazardhub/siren/pkg/utils/clock"
	"github.com/hazardhub/siren/pkg/utils/errutil"
	"github.com/hazardhub/siren/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// AutoExpireSweep finds alerts whose automatic expiry is due and applies
// the expired transition to each. The sweep is idempotent: an alert
// another writer already transitioned is skipped, and per-alert failures
// do not abort the pass. Returns the number of alerts expired.
func (u *UseCases) AutoExpireSweep(ctx context.Context) (int, error) {
	now := clock.Now(ctx)
	logger := logging.From(ctx)

	candidates, err := u.repository.FindExpiryCandidates(ctx, now)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to find expiry candidates")
	}

	var expired int
	var failed []error
	for _, a := range candidates {
		next, ok := a.Expire(now)
		if !ok {
			continue
		}

		if err := u.repository.SaveAlert(ctx, next); err != nil {
			// a conflict means another writer transitioned it first
			if goerr.HasTag(err, errs.TagConflict) || goerr.HasTag(err, errs.TagNotFound) {
				continue
			}
			failed = append(failed, goerr.Wrap(err, "failed to expire alert",
				goerr.TV(errutil.AlertIDKey, a.ID)))
			continue
		}

		logger.Info("alert expired", "alert_id", a.ID, "expires_at", a.ExpiresAt)
		expired++
	}

	if len(failed) > 0 {
		for _, err := range failed {
			errutil.Handle(ctx, err)
		}
		return expired, goerr.New("expiry sweep completed with failures",
			goerr.V("failed", len(failed)), goerr.V("expired", expired))
	}

	return expired, nil
}
