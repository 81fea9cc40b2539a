package memory

import (
	"context"
	"slices"
	"time"

	"github.com/hazardhub/siren/pkg/domain/interfaces"
	"github.com/hazardhub/siren/pkg/domain/model/alert"
	"github.com/hazardhub/siren/pkg/domain/model/errs"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

func (r *Memory) CreateAlert(ctx context.Context, a alert.Alert) error {
	if err := a.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid alert")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.alerts[a.ID]; ok {
		return r.eb.Wrap(goerr.New("alert already exists"), "create conflict",
			goerr.T(errs.TagConflict),
			goerr.TV(errutil.AlertIDKey, a.ID))
	}

	stored := a.Clone()
	r.alerts[a.ID] = &stored
	return nil
}

func (r *Memory) SaveAlert(ctx context.Context, a alert.Alert) error {
	if err := a.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid alert")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.alerts[a.ID]
	if !ok {
		return r.eb.Wrap(goerr.New("alert not found"), "not found",
			goerr.T(errs.TagNotFound),
			goerr.TV(errutil.AlertIDKey, a.ID))
	}

	if current.Rev != a.Rev-1 {
		return r.eb.Wrap(goerr.New("alert revision mismatch"), "save conflict",
			goerr.T(errs.TagConflict),
			goerr.TV(errutil.AlertIDKey, a.ID),
			goerr.TV(errutil.RevKey, a.Rev),
			goerr.V("stored_rev", current.Rev))
	}

	stored := a.Clone()
	// metric counters are updated out-of-band; keep the stored values
	stored.Metrics = current.Metrics
	r.alerts[a.ID] = &stored
	return nil
}

func (r *Memory) GetAlert(ctx context.Context, id types.AlertID) (*alert.Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.alerts[id]
	if !ok {
		return nil, r.eb.Wrap(goerr.New("alert not found"), "not found",
			goerr.T(errs.TagNotFound),
			goerr.TV(errutil.AlertIDKey, id))
	}

	c := a.Clone()
	return &c, nil
}

func (r *Memory) BatchGetAlerts(ctx context.Context, ids []types.AlertID) (alert.Alerts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result alert.Alerts
	for _, id := range ids {
		if a, ok := r.alerts[id]; ok {
			c := a.Clone()
			result = append(result, &c)
		}
	}
	return result, nil
}

func matchFilter(a *alert.Alert, f interfaces.AlertFilter) bool {
	if len(f.Status) > 0 && !slices.Contains(f.Status, a.Status) {
		return false
	}
	if f.Type != nil && a.Type != *f.Type {
		return false
	}
	if f.Hazard != nil && a.Hazard != *f.Hazard {
		return false
	}
	if f.Severity != nil && a.Severity != *f.Severity {
		return false
	}
	if f.Tag != "" && !slices.Contains(a.Tags, f.Tag) {
		return false
	}
	if f.IsActive != nil && a.IsActive != *f.IsActive {
		return false
	}
	return true
}

func (r *Memory) ListAlerts(ctx context.Context, filter interfaces.AlertFilter) (alert.Alerts, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched alert.Alerts
	for _, a := range r.alerts {
		if matchFilter(a, filter) {
			c := a.Clone()
			matched = append(matched, &c)
		}
	}

	slices.SortStableFunc(matched, func(a, b *alert.Alert) int {
		return b.IssuedAt.Compare(a.IssuedAt)
	})

	total := len(matched)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return alert.Alerts{}, total, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *Memory) FindActiveAlerts(ctx context.Context, now time.Time, q interfaces.ActiveQuery) (alert.Alerts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result alert.Alerts
	for _, a := range r.alerts {
		if !a.Servable(now) {
			continue
		}
		if q.Hazard != nil && a.Hazard != *q.Hazard {
			continue
		}
		if q.Tag != "" && !slices.Contains(a.Tags, q.Tag) {
			continue
		}
		c := a.Clone()
		result = append(result, &c)
	}

	result.SortForServing()
	return result, nil
}

func (r *Memory) FindExpiryCandidates(ctx context.Context, now time.Time) (alert.Alerts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result alert.Alerts
	for _, a := range r.alerts {
		if !a.AutomaticExpiry || !a.Status.Servable() || a.ExpiresAt.After(now) {
			continue
		}
		c := a.Clone()
		result = append(result, &c)
	}
	return result, nil
}

func (r *Memory) IncrementMetric(ctx context.Context, id types.AlertID, metric types.Metric) error {
	if err := metric.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid metric")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.alerts[id]
	if !ok {
		return r.eb.Wrap(goerr.New("alert not found"), "not found",
			goerr.T(errs.TagNotFound),
			goerr.TV(errutil.AlertIDKey, id))
	}

	*a = a.IncrementMetric(metric)
	return nil
}

func (r *Memory) GetChildAlerts(ctx context.Context, parentID types.AlertID) (alert.Alerts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result alert.Alerts
	for _, a := range r.alerts {
		if a.ParentAlert == parentID {
			c := a.Clone()
			result = append(result, &c)
		}
	}

	slices.SortStableFunc(result, func(a, b *alert.Alert) int {
		return a.IssuedAt.Compare(b.IssuedAt)
	})
	return result, nil
}
