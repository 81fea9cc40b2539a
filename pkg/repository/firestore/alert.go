package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/hazardhub/siren/pkg/domain/interfaces"
	"github.com/hazardhub/siren/pkg/domain/model/alert"
	"github.com/hazardhub/siren/pkg/domain/model/errs"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (r *Firestore) CreateAlert(ctx context.Context, a alert.Alert) error {
	if err := a.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid alert")
	}

	doc := r.db.Collection(collectionAlerts).Doc(a.ID.String())
	if _, err := doc.Create(ctx, toDoc(a)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return r.eb.Wrap(err, "alert already exists",
				goerr.T(errs.TagConflict),
				goerr.TV(errutil.AlertIDKey, a.ID))
		}
		return r.eb.Wrap(err, "failed to create alert",
			goerr.T(errs.TagDatabase),
			goerr.TV(errutil.AlertIDKey, a.ID))
	}
	return nil
}

// SaveAlert writes a mutated record inside a transaction that verifies the
// stored revision is exactly one behind. A concurrent writer bumps the
// stored revision first and the loser fails with a conflict to retry.
func (r *Firestore) SaveAlert(ctx context.Context, a alert.Alert) error {
	if err := a.Validate(); err != nil {
		return r.eb.Wrap(err, "invalid alert")
	}

	docRef := r.db.Collection(collectionAlerts).Doc(a.ID.String())

	err := r.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.New("alert not found",
					goerr.T(errs.TagNotFound),
					goerr.TV(errutil.AlertIDKey, a.ID))
			}
			return goerr.Wrap(err, "failed to get alert in transaction",
				goerr.T(errs.TagDatabase),
				goerr.TV(errutil.AlertIDKey, a.ID))
		}

		var stored alertDoc
		if err := snap.DataTo(&stored); err != nil {
			return goerr.Wrap(err, "failed to decode stored alert",
				goerr.T(errs.TagInternal),
				goerr.TV(errutil.AlertIDKey, a.ID))
		}

		if stored.Rev != a.Rev-1 {
			return goerr.New("alert revision mismatch",
				goerr.T(errs.TagConflict),
				goerr.TV(errutil.AlertIDKey, a.ID),
				goerr.TV(errutil.RevKey, a.Rev),
				goerr.V("stored_rev", stored.Rev))
		}

		doc := toDoc(a)
		// metric counters are updated out-of-band; keep the stored values
		doc.Metrics = stored.Metrics
		return tx.Set(docRef, doc)
	})
	if err != nil {
		if goerr.HasTag(err, errs.TagConflict) || goerr.HasTag(err, errs.TagNotFound) {
			return err
		}
		return r.eb.Wrap(err, "failed to save alert",
			goerr.T(errs.TagDatabase),
			goerr.TV(errutil.AlertIDKey, a.ID))
	}
	return nil
}

func (r *Firestore) GetAlert(ctx context.Context, id types.AlertID) (*alert.Alert, error) {
	snap, err := r.db.Collection(collectionAlerts).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.New("alert not found",
				goerr.T(errs.TagNotFound),
				goerr.TV(errutil.AlertIDKey, id))
		}
		return nil, r.eb.Wrap(err, "failed to get alert",
			goerr.T(errs.TagDatabase),
			goerr.TV(errutil.AlertIDKey, id))
	}

	var doc alertDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, r.eb.Wrap(err, "failed to decode alert",
			goerr.T(errs.TagInternal),
			goerr.TV(errutil.AlertIDKey, id))
	}
	a, err := fromDoc(doc)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Firestore) BatchGetAlerts(ctx context.Context, ids []types.AlertID) (alert.Alerts, error) {
	var result alert.Alerts
	for _, id := range ids {
		a, err := r.GetAlert(ctx, id)
		if err != nil {
			if goerr.HasTag(err, errs.TagNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *Firestore) collectAlerts(iter *firestore.DocumentIterator) (alert.Alerts, error) {
	defer iter.Stop()

	var result alert.Alerts
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, r.eb.Wrap(err, "failed to iterate alerts", goerr.T(errs.TagDatabase))
		}

		var doc alertDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, r.eb.Wrap(err, "failed to decode alert", goerr.T(errs.TagInternal))
		}
		a, err := fromDoc(doc)
		if err != nil {
			return nil, err
		}
		result = append(result, &a)
	}
	return result, nil
}

// ListAlerts fetches by issue time and applies the remaining filter fields
// in-process. The admin listing is low-volume; this avoids a composite
// index per filter combination.
func (r *Firestore) ListAlerts(ctx context.Context, filter interfaces.AlertFilter) (alert.Alerts, int, error) {
	iter := r.db.Collection(collectionAlerts).
		OrderBy("IssuedAt", firestore.Desc).
		Documents(ctx)

	all, err := r.collectAlerts(iter)
	if err != nil {
		return nil, 0, err
	}

	var matched alert.Alerts
	for _, a := range all {
		if matchFilter(a, filter) {
			matched = append(matched, a)
		}
	}

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

func matchFilter(a *alert.Alert, f interfaces.AlertFilter) bool {
	if len(f.Status) > 0 {
		found := false
		for _, s := range f.Status {
			if a.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
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
	if f.Tag != "" {
		found := false
		for _, tag := range a.Tags {
			if tag == f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.IsActive != nil && a.IsActive != *f.IsActive {
		return false
	}
	return true
}

// FindActiveAlerts queries on the indexed fields (IsActive, Status,
// ExpiresAt) and applies the effective-from bound, hazard and tag
// restrictions in-process. Severity ordering is applied in-process since
// severity is stored as its enum string.
func (r *Firestore) FindActiveAlerts(ctx context.Context, now time.Time, q interfaces.ActiveQuery) (alert.Alerts, error) {
	iter := r.db.Collection(collectionAlerts).
		Where("IsActive", "==", true).
		Where("Status", "in", []string{
			types.AlertStatusActive.String(),
			types.AlertStatusUpdated.String(),
		}).
		Where("ExpiresAt", ">", now).
		Documents(ctx)

	candidates, err := r.collectAlerts(iter)
	if err != nil {
		return nil, err
	}

	var result alert.Alerts
	for _, a := range candidates {
		if !a.ActiveWindowContains(now) {
			continue
		}
		if q.Hazard != nil && a.Hazard != *q.Hazard {
			continue
		}
		if q.Tag != "" {
			found := false
			for _, tag := range a.Tags {
				if tag == q.Tag {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		result = append(result, a)
	}

	result.SortForServing()
	return result, nil
}

func (r *Firestore) FindExpiryCandidates(ctx context.Context, now time.Time) (alert.Alerts, error) {
	iter := r.db.Collection(collectionAlerts).
		Where("AutomaticExpiry", "==", true).
		Where("Status", "in", []string{
			types.AlertStatusActive.String(),
			types.AlertStatusUpdated.String(),
		}).
		Where("ExpiresAt", "<=", now).
		Documents(ctx)

	return r.collectAlerts(iter)
}

var metricPaths = map[types.Metric]string{
	types.MetricView:           "Metrics.ViewCount",
	types.MetricAcknowledgment: "Metrics.AcknowledgmentCount",
	types.MetricShare:          "Metrics.ShareCount",
}

func (r *Firestore) IncrementMetric(ctx context.Context, id types.AlertID, metric types.Metric) error {
	path, ok := metricPaths[metric]
	if !ok {
		return goerr.New("invalid metric", goerr.T(errs.TagValidation), goerr.V("metric", metric))
	}

	docRef := r.db.Collection(collectionAlerts).Doc(id.String())
	if _, err := docRef.Update(ctx, []firestore.Update{
		{Path: path, Value: firestore.Increment(1)},
	}); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.New("alert not found",
				goerr.T(errs.TagNotFound),
				goerr.TV(errutil.AlertIDKey, id))
		}
		return r.eb.Wrap(err, "failed to increment metric",
			goerr.T(errs.TagDatabase),
			goerr.TV(errutil.AlertIDKey, id),
			goerr.V("metric", metric))
	}
	return nil
}

func (r *Firestore) GetChildAlerts(ctx context.Context, parentID types.AlertID) (alert.Alerts, error) {
	iter := r.db.Collection(collectionAlerts).
		Where("ParentAlert", "==", parentID.String()).
		OrderBy("IssuedAt", firestore.Asc).
		Documents(ctx)

	return r.collectAlerts(iter)
}
