package alert

import (
	"context"
	"sort"
	"time"

	"github.com/hazardhub/siren/pkg/domain/model/errs"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/utils/authctx"
	"github.com/hazardhub/siren/pkg/utils/clock"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmach/orb"
)

const (
	MaxTitleLength   = 200
	MaxMessageLength = 2000
)

// Alert is the canonical record of an official-issued hazard alert. It is
// an immutable value: lifecycle transitions return a new Alert rather than
// mutating in place, and persistence is decoupled behind the repository.
type Alert struct {
	ID       types.AlertID    `json:"id"`
	Title    string           `json:"title"`
	Message  string           `json:"message"`
	Type     types.AlertType  `json:"alertType"`
	Hazard   types.HazardType `json:"hazardType"`
	Severity types.Severity   `json:"severity"`
	Urgency  types.Urgency    `json:"urgency"`

	// IssuedBy is immutable after creation.
	IssuedBy IssuedBy `json:"issuedBy"`

	Coverage          Coverage           `json:"coverage"`
	AffectedLocations []AffectedLocation `json:"affectedLocations,omitempty"`

	EffectiveFrom time.Time `json:"effectiveFrom"`
	ExpiresAt     time.Time `json:"expiresAt"`

	Status          types.AlertStatus `json:"status"`
	IsActive        bool              `json:"isActive"`
	AutomaticExpiry bool              `json:"automaticExpiry"`

	Instructions []Instruction `json:"instructions,omitempty"`
	SafetyTips   []string      `json:"safetyTips,omitempty"`

	TargetAudience       string   `json:"targetAudience,omitempty"`
	DistributionChannels []string `json:"distributionChannels,omitempty"`
	Tags                 []string `json:"tags,omitempty"`

	RevisionHistory []Revision `json:"revisionHistory,omitempty"`
	Metrics         Metrics    `json:"metrics"`

	ParentAlert    types.AlertID    `json:"parentAlert,omitempty"`
	ChildAlerts    []types.AlertID  `json:"childAlerts,omitempty"`
	RelatedReports []types.ReportID `json:"relatedReports,omitempty"`

	IssuedAt    time.Time `json:"issuedAt"`
	LastUpdated time.Time `json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Rev is the persistence revision used for optimistic concurrency.
	// Every persisted mutation bumps it by one; a save whose Rev does not
	// follow the stored value is a lost-update race and is rejected.
	Rev int64 `json:"rev"`
}

type IssuedBy struct {
	ID           types.OfficialID `json:"id"`
	Name         string           `json:"name"`
	Organization string           `json:"organization"`
}

type AffectedLocation struct {
	Name        string     `json:"name"`
	Kind        string     `json:"kind,omitempty"` // city, district, area, landmark
	Coordinates *orb.Point `json:"coordinates,omitempty"`
}

type Instruction struct {
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"` // 1 (highest) to 10
}

func (x Instruction) Validate() error {
	if x.Action == "" {
		return goerr.New("instruction action is required", goerr.T(errs.TagValidation))
	}
	if x.Priority < 1 || x.Priority > 10 {
		return goerr.New("instruction priority out of range",
			goerr.T(errs.TagValidation), goerr.V("priority", x.Priority))
	}
	return nil
}

// Metrics are passive engagement counters. They are monotonically
// non-decreasing and isolated from the audit trail: increments touch
// neither LastUpdated nor RevisionHistory.
type Metrics struct {
	ViewCount           int64 `json:"viewCount"`
	AcknowledgmentCount int64 `json:"acknowledgmentCount"`
	ShareCount          int64 `json:"shareCount"`
	ReachEstimate       int64 `json:"reachEstimate"`
}

// New builds a draft alert issued by the given official. The record starts
// in draft status and becomes visible to citizens only after Activate.
func New(ctx context.Context, official authctx.Official, p Params) (Alert, error) {
	now := clock.Now(ctx)

	a := Alert{
		ID:       types.NewAlertID(),
		Title:    p.Title,
		Message:  p.Message,
		Type:     p.Type,
		Hazard:   p.Hazard,
		Severity: p.Severity,
		Urgency:  p.Urgency,
		IssuedBy: IssuedBy{
			ID:           official.ID,
			Name:         official.Name,
			Organization: official.Organization,
		},
		Coverage:             p.Coverage,
		AffectedLocations:    p.AffectedLocations,
		EffectiveFrom:        p.EffectiveFrom,
		ExpiresAt:            p.ExpiresAt,
		Status:               types.AlertStatusDraft,
		IsActive:             false,
		AutomaticExpiry:      p.AutomaticExpiry,
		Instructions:         p.Instructions,
		SafetyTips:           p.SafetyTips,
		TargetAudience:       p.TargetAudience,
		DistributionChannels: p.DistributionChannels,
		Tags:                 p.Tags,
		ParentAlert:          p.ParentAlert,
		RelatedReports:       p.RelatedReports,
		IssuedAt:             now,
		LastUpdated:          now,
		CreatedAt:            now,
		UpdatedAt:            now,
		Rev:                  1,
	}

	if a.TargetAudience == "" {
		a.TargetAudience = "all"
	}

	if err := a.Validate(); err != nil {
		return Alert{}, err
	}
	return a, nil
}

// Params is the caller-supplied field set for a new alert. Identity,
// status, timestamps and revision bookkeeping are assigned by New.
type Params struct {
	Title                string
	Message              string
	Type                 types.AlertType
	Hazard               types.HazardType
	Severity             types.Severity
	Urgency              types.Urgency
	Coverage             Coverage
	AffectedLocations    []AffectedLocation
	EffectiveFrom        time.Time
	ExpiresAt            time.Time
	AutomaticExpiry      bool
	Instructions         []Instruction
	SafetyTips           []string
	TargetAudience       string
	DistributionChannels []string
	Tags                 []string
	ParentAlert          types.AlertID
	RelatedReports       []types.ReportID
}

func (x Alert) Validate() error {
	if err := x.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid alert ID", goerr.T(errs.TagValidation))
	}
	if x.Title == "" || len(x.Title) > MaxTitleLength {
		return goerr.New("title must be 1-200 characters",
			goerr.T(errs.TagValidation), goerr.V("length", len(x.Title)))
	}
	if x.Message == "" || len(x.Message) > MaxMessageLength {
		return goerr.New("message must be 1-2000 characters",
			goerr.T(errs.TagValidation), goerr.V("length", len(x.Message)))
	}
	if err := x.Type.Validate(); err != nil {
		return goerr.Wrap(err, "invalid alert", goerr.T(errs.TagValidation))
	}
	if err := x.Hazard.Validate(); err != nil {
		return goerr.Wrap(err, "invalid alert", goerr.T(errs.TagValidation))
	}
	if err := x.Severity.Validate(); err != nil {
		return goerr.Wrap(err, "invalid alert", goerr.T(errs.TagValidation))
	}
	if err := x.Urgency.Validate(); err != nil {
		return goerr.Wrap(err, "invalid alert", goerr.T(errs.TagValidation))
	}
	if err := x.Status.Validate(); err != nil {
		return goerr.Wrap(err, "invalid alert", goerr.T(errs.TagValidation))
	}
	if err := x.IssuedBy.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid issuer", goerr.T(errs.TagValidation))
	}
	if err := x.Coverage.Validate(); err != nil {
		return err
	}
	if !x.ExpiresAt.After(x.EffectiveFrom) {
		return goerr.New("expiry must be after effective date",
			goerr.T(errs.TagValidation),
			goerr.V("effective_from", x.EffectiveFrom),
			goerr.V("expires_at", x.ExpiresAt))
	}
	for _, inst := range x.Instructions {
		if err := inst.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ActiveWindowContains reports whether now falls inside
// [EffectiveFrom, ExpiresAt).
func (x Alert) ActiveWindowContains(now time.Time) bool {
	return !now.Before(x.EffectiveFrom) && now.Before(x.ExpiresAt)
}

// Servable reports whether this alert belongs in citizen-facing query
// results at the given moment.
func (x Alert) Servable(now time.Time) bool {
	return x.Status.Servable() && x.IsActive && x.ActiveWindowContains(now)
}

// Clone returns a deep copy. Repositories hand out clones so callers can
// never alias stored state.
func (x Alert) Clone() Alert {
	c := x
	c.AffectedLocations = append([]AffectedLocation(nil), x.AffectedLocations...)
	for i, loc := range c.AffectedLocations {
		if loc.Coordinates != nil {
			pt := *loc.Coordinates
			c.AffectedLocations[i].Coordinates = &pt
		}
	}
	c.Instructions = append([]Instruction(nil), x.Instructions...)
	c.SafetyTips = append([]string(nil), x.SafetyTips...)
	c.DistributionChannels = append([]string(nil), x.DistributionChannels...)
	c.Tags = append([]string(nil), x.Tags...)
	c.RevisionHistory = append([]Revision(nil), x.RevisionHistory...)
	c.ChildAlerts = append([]types.AlertID(nil), x.ChildAlerts...)
	c.RelatedReports = append([]types.ReportID(nil), x.RelatedReports...)
	if x.Coverage.Point != nil {
		p := *x.Coverage.Point
		c.Coverage.Point = &p
	}
	if x.Coverage.Circle != nil {
		p := *x.Coverage.Circle
		c.Coverage.Circle = &p
	}
	if x.Coverage.Polygon != nil {
		p := PolygonCoverage{Ring: append(orb.Ring(nil), x.Coverage.Polygon.Ring...)}
		c.Coverage.Polygon = &p
	}
	return c
}

type Alerts []*Alert

// SortForServing applies the ordering contract for geographic and hazard
// queries: severity descending, tie-broken by issue time descending.
func (x Alerts) SortForServing() {
	sort.SliceStable(x, func(i, j int) bool {
		if ri, rj := x[i].Severity.Rank(), x[j].Severity.Rank(); ri != rj {
			return ri > rj
		}
		return x[i].IssuedAt.After(x[j].IssuedAt)
	})
}
