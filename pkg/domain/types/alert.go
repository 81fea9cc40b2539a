package types

import (
	"github.com/m-mizutani/goerr/v2"
)

type AlertType string

const (
	AlertTypeEmergency AlertType = "emergency"
	AlertTypeWarning   AlertType = "warning"
	AlertTypeAdvisory  AlertType = "advisory"
	AlertTypeAllClear  AlertType = "all_clear"
	AlertTypeUpdate    AlertType = "update"
)

func (x AlertType) String() string {
	return string(x)
}

func (x AlertType) Validate() error {
	switch x {
	case AlertTypeEmergency, AlertTypeWarning, AlertTypeAdvisory, AlertTypeAllClear, AlertTypeUpdate:
		return nil
	}
	return goerr.New("invalid alert type", goerr.V("alert_type", x))
}

type HazardType string

const (
	HazardFlood           HazardType = "flood"
	HazardFire            HazardType = "fire"
	HazardLandslide       HazardType = "landslide"
	HazardStorm           HazardType = "storm"
	HazardTsunami         HazardType = "tsunami"
	HazardCyclone         HazardType = "cyclone"
	HazardEarthquake      HazardType = "earthquake"
	HazardPollution       HazardType = "pollution"
	HazardInfrastructure  HazardType = "infrastructure"
	HazardMarineEmergency HazardType = "marine_emergency"
	HazardWeather         HazardType = "weather"
	HazardTraffic         HazardType = "traffic"
	HazardSecurity        HazardType = "security"
	HazardOther           HazardType = "other"
)

func (x HazardType) String() string {
	return string(x)
}

func (x HazardType) Validate() error {
	switch x {
	case HazardFlood, HazardFire, HazardLandslide, HazardStorm, HazardTsunami,
		HazardCyclone, HazardEarthquake, HazardPollution, HazardInfrastructure,
		HazardMarineEmergency, HazardWeather, HazardTraffic, HazardSecurity, HazardOther:
		return nil
	}
	return goerr.New("invalid hazard type", goerr.V("hazard_type", x))
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRanks = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

var severityLabels = map[Severity]string{
	SeverityLow:      "🟢 Low",
	SeverityMedium:   "🟡 Medium",
	SeverityHigh:     "🔴 High",
	SeverityCritical: "🚨 Critical",
}

func (s Severity) String() string {
	return string(s)
}

func (s Severity) Label() string {
	return severityLabels[s]
}

// Rank orders severities for the serving sort: critical > high > medium > low.
// Unknown values rank below low.
func (s Severity) Rank() int {
	return severityRanks[s]
}

func (s Severity) Validate() error {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return nil
	}
	return goerr.New("invalid severity", goerr.V("severity", s))
}

type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyExpected  Urgency = "expected"
	UrgencyFuture    Urgency = "future"
	UrgencyPast      Urgency = "past"
)

func (x Urgency) String() string {
	return string(x)
}

func (x Urgency) Validate() error {
	switch x {
	case UrgencyImmediate, UrgencyExpected, UrgencyFuture, UrgencyPast:
		return nil
	}
	return goerr.New("invalid urgency", goerr.V("urgency", x))
}

type AlertStatus string

const (
	AlertStatusDraft     AlertStatus = "draft"
	AlertStatusActive    AlertStatus = "active"
	AlertStatusUpdated   AlertStatus = "updated"
	AlertStatusExpired   AlertStatus = "expired"
	AlertStatusCancelled AlertStatus = "cancelled"
	AlertStatusArchived  AlertStatus = "archived"
)

var alertStatusLabels = map[AlertStatus]string{
	AlertStatusDraft:     "📝 Draft",
	AlertStatusActive:    "📣 Active",
	AlertStatusUpdated:   "✏️ Updated",
	AlertStatusExpired:   "⌛ Expired",
	AlertStatusCancelled: "🚫 Cancelled",
	AlertStatusArchived:  "📦 Archived",
}

func (s AlertStatus) String() string {
	return string(s)
}

func (s AlertStatus) Label() string {
	return alertStatusLabels[s]
}

func (s AlertStatus) Validate() error {
	switch s {
	case AlertStatusDraft, AlertStatusActive, AlertStatusUpdated,
		AlertStatusExpired, AlertStatusCancelled, AlertStatusArchived:
		return nil
	}
	return goerr.New("invalid alert status", goerr.V("status", s))
}

// Servable reports whether alerts in this status are part of the
// citizen-facing serving set. A content-updated alert remains effectively
// active until cancelled or expired.
func (s AlertStatus) Servable() bool {
	return s == AlertStatusActive || s == AlertStatusUpdated
}

// Terminal reports whether no further lifecycle transition except archive
// is permitted.
func (s AlertStatus) Terminal() bool {
	return s == AlertStatusExpired || s == AlertStatusCancelled || s == AlertStatusArchived
}

type ChangeType string

const (
	ChangeContentUpdate ChangeType = "content_update"
	ChangeTimeExtension ChangeType = "time_extension"
	ChangeCancellation  ChangeType = "cancellation"
)

func (x ChangeType) String() string {
	return string(x)
}

func (x ChangeType) Validate() error {
	switch x {
	case ChangeContentUpdate, ChangeTimeExtension, ChangeCancellation:
		return nil
	}
	return goerr.New("invalid change type", goerr.V("change_type", x))
}

type CoverageType string

const (
	CoveragePoint   CoverageType = "Point"
	CoverageCircle  CoverageType = "Circle"
	CoveragePolygon CoverageType = "Polygon"
)

func (x CoverageType) String() string {
	return string(x)
}

func (x CoverageType) Validate() error {
	switch x {
	case CoveragePoint, CoverageCircle, CoveragePolygon:
		return nil
	}
	return goerr.New("invalid coverage type", goerr.V("coverage_type", x))
}

// Metric names the passive engagement counters. Incrementing a metric is
// deliberately excluded from the revision history and LastUpdated.
type Metric string

const (
	MetricView           Metric = "view"
	MetricAcknowledgment Metric = "acknowledgment"
	MetricShare          Metric = "share"
)

func (x Metric) String() string {
	return string(x)
}

func (x Metric) Validate() error {
	switch x {
	case MetricView, MetricAcknowledgment, MetricShare:
		return nil
	}
	return goerr.New("invalid metric", goerr.V("metric", x))
}
