package alert

import (
	"time"

	"github.com/hazardhub/siren/pkg/domain/types"
)

// Revision is one entry of the append-only audit log. Every manual
// lifecycle mutation appends exactly one entry; the log is never truncated
// or rewritten. Automatic expiry deliberately does not append (routine
// time-based transitions would drown the log).
type Revision struct {
	RevisedBy   types.OfficialID `json:"revisedBy"`
	RevisedAt   time.Time        `json:"revisedAt"`
	ChangeType  types.ChangeType `json:"changeType"`
	Description string           `json:"description"`
	Previous    Snapshot         `json:"previous"`
}

// Snapshot captures the state replaced by a revision, typed per change:
// cancellation carries the prior status pair, time_extension the prior
// expiry, content_update the prior values of the fields that changed.
// Exactly one variant is set.
type Snapshot struct {
	Status  *StatusSnapshot  `json:"status,omitempty"`
	Timing  *TimingSnapshot  `json:"timing,omitempty"`
	Content *ContentSnapshot `json:"content,omitempty"`
}

type StatusSnapshot struct {
	Status   types.AlertStatus `json:"status"`
	IsActive bool              `json:"isActive"`
}

type TimingSnapshot struct {
	ExpiresAt time.Time `json:"expiresAt"`
}

// ContentSnapshot holds only the fields the content update replaced;
// untouched fields stay nil so audit replay can tell "unchanged" from
// "was empty".
type ContentSnapshot struct {
	Title        *string       `json:"title,omitempty"`
	Message      *string       `json:"message,omitempty"`
	Instructions []Instruction `json:"instructions,omitempty"`
	SafetyTips   []string      `json:"safetyTips,omitempty"`
}
