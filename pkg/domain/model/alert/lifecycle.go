package alert

import (
	"context"
	"time"

	"github.com/hazardhub/siren/pkg/domain/model/errs"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/utils/clock"
	"github.com/hazardhub/siren/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// The lifecycle state machine:
//
//	draft --Activate--> active
//	active|updated --Cancel--> cancelled
//	active|updated --Extend--> (status unchanged)
//	active|updated --UpdateContent--> updated
//	active|updated --Expire (sweep)--> expired
//	expired|cancelled --Archive--> archived
//
// Each transition is a pure function: it validates its precondition,
// returns a new Alert value with Rev bumped, and never touches the
// receiver. Manual transitions except Activate and Archive append exactly
// one revision entry.

func (x Alert) preconditionErr(op string) error {
	return goerr.New("illegal transition",
		goerr.T(errs.TagPrecondition),
		goerr.TV(errutil.AlertIDKey, x.ID),
		goerr.TV(errutil.StatusKey, x.Status),
		goerr.V("operation", op))
}

func (x Alert) appendRevision(rev Revision) Alert {
	history := make([]Revision, len(x.RevisionHistory), len(x.RevisionHistory)+1)
	copy(history, x.RevisionHistory)
	x.RevisionHistory = append(history, rev)
	return x
}

func (x Alert) touch(now time.Time) Alert {
	x.LastUpdated = now
	x.UpdatedAt = now
	x.Rev++
	return x
}

// Activate publishes a draft alert. The initial publish appends no
// revision entry.
func (x Alert) Activate(ctx context.Context) (Alert, error) {
	if x.Status != types.AlertStatusDraft {
		return Alert{}, x.preconditionErr("activate")
	}

	x.Status = types.AlertStatusActive
	x.IsActive = true
	return x.touch(clock.Now(ctx)), nil
}

// Cancel withdraws an active or updated alert.
func (x Alert) Cancel(ctx context.Context, officialID types.OfficialID, reason string) (Alert, error) {
	if !x.Status.Servable() {
		return Alert{}, x.preconditionErr("cancel")
	}

	now := clock.Now(ctx)
	x = x.appendRevision(Revision{
		RevisedBy:   officialID,
		RevisedAt:   now,
		ChangeType:  types.ChangeCancellation,
		Description: reason,
		Previous: Snapshot{
			Status: &StatusSnapshot{Status: x.Status, IsActive: x.IsActive},
		},
	})
	x.Status = types.AlertStatusCancelled
	x.IsActive = false
	return x.touch(now), nil
}

// Extend moves the expiry of an active or updated alert. The alert stays
// in its current status.
func (x Alert) Extend(ctx context.Context, officialID types.OfficialID, newExpiresAt time.Time, reason string) (Alert, error) {
	if !x.Status.Servable() {
		return Alert{}, x.preconditionErr("extend")
	}
	if !newExpiresAt.After(x.EffectiveFrom) {
		return Alert{}, goerr.New("expiry must be after effective date",
			goerr.T(errs.TagValidation),
			goerr.TV(errutil.AlertIDKey, x.ID),
			goerr.TV(errutil.EffectiveFromKey, x.EffectiveFrom),
			goerr.TV(errutil.ExpiresAtKey, newExpiresAt))
	}

	now := clock.Now(ctx)
	x = x.appendRevision(Revision{
		RevisedBy:   officialID,
		RevisedAt:   now,
		ChangeType:  types.ChangeTimeExtension,
		Description: reason,
		Previous: Snapshot{
			Timing: &TimingSnapshot{ExpiresAt: x.ExpiresAt},
		},
	})
	x.ExpiresAt = newExpiresAt
	return x.touch(now), nil
}

// ContentUpdate carries the fields a content revision may change. Nil
// means unchanged. Status, coverage, identity and timing are never
// updatable through this path.
type ContentUpdate struct {
	Title        *string       `json:"title,omitempty"`
	Message      *string       `json:"message,omitempty"`
	Instructions []Instruction `json:"instructions,omitempty"`
	SafetyTips   []string      `json:"safetyTips,omitempty"`
}

func (u ContentUpdate) Validate() error {
	if u.Title == nil && u.Message == nil && u.Instructions == nil && u.SafetyTips == nil {
		return goerr.New("content update changes nothing", goerr.T(errs.TagValidation))
	}
	if u.Title != nil && (*u.Title == "" || len(*u.Title) > MaxTitleLength) {
		return goerr.New("title must be 1-200 characters", goerr.T(errs.TagValidation))
	}
	if u.Message != nil && (*u.Message == "" || len(*u.Message) > MaxMessageLength) {
		return goerr.New("message must be 1-2000 characters", goerr.T(errs.TagValidation))
	}
	for _, inst := range u.Instructions {
		if err := inst.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UpdateContent revises the citizen-facing content of a live alert and
// moves it to updated status. The snapshot records only the replaced
// fields.
func (x Alert) UpdateContent(ctx context.Context, officialID types.OfficialID, update ContentUpdate, reason string) (Alert, error) {
	if !x.Status.Servable() {
		return Alert{}, x.preconditionErr("update_content")
	}
	if err := update.Validate(); err != nil {
		return Alert{}, err
	}

	prior := ContentSnapshot{}
	if update.Title != nil {
		title := x.Title
		prior.Title = &title
		x.Title = *update.Title
	}
	if update.Message != nil {
		message := x.Message
		prior.Message = &message
		x.Message = *update.Message
	}
	if update.Instructions != nil {
		prior.Instructions = append([]Instruction(nil), x.Instructions...)
		x.Instructions = update.Instructions
	}
	if update.SafetyTips != nil {
		prior.SafetyTips = append([]string(nil), x.SafetyTips...)
		x.SafetyTips = update.SafetyTips
	}

	now := clock.Now(ctx)
	x = x.appendRevision(Revision{
		RevisedBy:   officialID,
		RevisedAt:   now,
		ChangeType:  types.ChangeContentUpdate,
		Description: reason,
		Previous:    Snapshot{Content: &prior},
	})
	x.Status = types.AlertStatusUpdated
	return x.touch(now), nil
}

// Archive moves an expired or cancelled alert into long-term retention.
// Archived is terminal: no further mutation is permitted. Archival is a
// retention action, not a content change, so it leaves the revision
// history untouched.
func (x Alert) Archive(ctx context.Context) (Alert, error) {
	if x.Status != types.AlertStatusExpired && x.Status != types.AlertStatusCancelled {
		return Alert{}, x.preconditionErr("archive")
	}

	x.Status = types.AlertStatusArchived
	x.IsActive = false
	return x.touch(clock.Now(ctx)), nil
}

// Expire applies the automatic-expiry transition if it is due. Returns the
// (possibly unchanged) alert and whether a transition happened. No
// revision entry is appended for time-based expiry.
func (x Alert) Expire(now time.Time) (Alert, bool) {
	if !x.AutomaticExpiry || !x.Status.Servable() || x.ExpiresAt.After(now) {
		return x, false
	}

	x.Status = types.AlertStatusExpired
	x.IsActive = false
	x.LastUpdated = now
	x.UpdatedAt = now
	x.Rev++
	return x, true
}

// NormalizeForSave is the save-time guard: it auto-corrects an alert that
// slipped past its expiry before the write commits, mirroring the
// transition the sweep would apply.
func (x Alert) NormalizeForSave(now time.Time) Alert {
	if x.AutomaticExpiry && x.Status == types.AlertStatusActive && now.After(x.ExpiresAt) {
		x.Status = types.AlertStatusExpired
		x.IsActive = false
	}
	return x
}

// IncrementMetric bumps one engagement counter. Counters are exempt from
// the audit trail: no revision entry, no LastUpdated change, no Rev bump.
// Repositories apply this under their own atomicity.
func (x Alert) IncrementMetric(metric types.Metric) Alert {
	switch metric {
	case types.MetricView:
		x.Metrics.ViewCount++
	case types.MetricAcknowledgment:
		x.Metrics.AcknowledgmentCount++
	case types.MetricShare:
		x.Metrics.ShareCount++
	}
	return x
}
