package interfaces

import (
	"context"
	"time"

	"github.com/hazardhub/siren/pkg/domain/model/alert"
	"github.com/hazardhub/siren/pkg/domain/types"
)

// AlertFilter restricts ListAlerts. Zero values mean "no restriction".
type AlertFilter struct {
	Status   []types.AlertStatus
	Type     *types.AlertType
	Hazard   *types.HazardType
	Severity *types.Severity
	Tag      string
	IsActive *bool
	Offset   int
	Limit    int
}

// ActiveQuery restricts the citizen-facing serving-set queries.
type ActiveQuery struct {
	Hazard *types.HazardType
	Tag    string
}

// Repository is the Alert Record Store. Implementations must provide
// atomic single-record writes: SaveAlert rejects a write whose Rev does
// not directly follow the stored revision, which serializes concurrent
// read-modify-write cycles on the same alert.
type Repository interface {
	// CreateAlert persists a new record. Fails with a conflict if the ID
	// already exists.
	CreateAlert(ctx context.Context, a alert.Alert) error

	// SaveAlert persists a mutated record. The stored revision must be
	// exactly a.Rev-1; otherwise the write is a lost-update race and
	// fails with a conflict so the caller can retry.
	SaveAlert(ctx context.Context, a alert.Alert) error

	GetAlert(ctx context.Context, id types.AlertID) (*alert.Alert, error)
	BatchGetAlerts(ctx context.Context, ids []types.AlertID) (alert.Alerts, error)

	// ListAlerts is the administrative listing with filters and
	// pagination, ordered by issue time descending.
	ListAlerts(ctx context.Context, filter AlertFilter) (alert.Alerts, int, error)

	// FindActiveAlerts returns the serving set: status ∈ {active,
	// updated}, isActive, and now inside [effectiveFrom, expiresAt),
	// optionally restricted by hazard type or tag. Results are ordered
	// severity descending, then issue time descending.
	FindActiveAlerts(ctx context.Context, now time.Time, q ActiveQuery) (alert.Alerts, error)

	// FindExpiryCandidates returns alerts due for the automatic-expiry
	// sweep: automaticExpiry set, still servable, expiry at or before now.
	FindExpiryCandidates(ctx context.Context, now time.Time) (alert.Alerts, error)

	// IncrementMetric atomically bumps one engagement counter without
	// changing the record revision.
	IncrementMetric(ctx context.Context, id types.AlertID, metric types.Metric) error

	// GetChildAlerts resolves the update chain below a parent alert.
	GetChildAlerts(ctx context.Context, parentID types.AlertID) (alert.Alerts, error)
}
