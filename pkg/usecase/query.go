package usecase

import (
	"context"

	"github.com/hazardhub/siren/pkg/domain/interfaces"
	"github.com/hazardhub/siren/pkg/domain/model/alert"
	"github.com/hazardhub/siren/pkg/domain/model/errs"
	"github.com/hazardhub/siren/pkg/utils/clock"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmach/orb"
)

// ActiveAlerts returns the current serving set, optionally restricted by
// hazard type or tag, ordered severity descending then issue time
// descending.
func (u *UseCases) ActiveAlerts(ctx context.Context, q interfaces.ActiveQuery) (alert.Alerts, error) {
	return u.repository.FindActiveAlerts(ctx, clock.Now(ctx), q)
}

// RelevantAlerts narrows the serving set to alerts whose coverage contains
// the given location. The repository does the temporal and status
// filtering; the geometric predicate runs here, in-process.
func (u *UseCases) RelevantAlerts(ctx context.Context, pt orb.Point, q interfaces.ActiveQuery) (alert.Alerts, error) {
	if pt[0] < -180 || pt[0] > 180 || pt[1] < -90 || pt[1] > 90 {
		return nil, goerr.New("coordinate out of range",
			goerr.T(errs.TagInvalidRequest),
			goerr.V("lng", pt[0]), goerr.V("lat", pt[1]))
	}

	serving, err := u.repository.FindActiveAlerts(ctx, clock.Now(ctx), q)
	if err != nil {
		return nil, err
	}

	var relevant alert.Alerts
	for _, a := range serving {
		if a.Coverage.Contains(pt) {
			relevant = append(relevant, a)
		}
	}
	return relevant, nil
}
