package firestore

import (
	"time"

	"github.com/hazardhub/siren/pkg/domain/model/alert"
	"github.com/hazardhub/siren/pkg/domain/model/errs"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmach/orb"
	"google.golang.org/genproto/googleapis/type/latlng"
)

// Firestore documents cannot nest an array directly inside another array,
// which rules out storing polygon rings as [[lng, lat], ...]. The codec
// flattens coverage geometry into LatLng values and keeps the rest of the
// record one-to-one with the domain type.

type alertDoc struct {
	ID       string `firestore:"ID"`
	Title    string `firestore:"Title"`
	Message  string `firestore:"Message"`
	Type     string `firestore:"Type"`
	Hazard   string `firestore:"Hazard"`
	Severity string `firestore:"Severity"`
	Urgency  string `firestore:"Urgency"`

	IssuedByID   string `firestore:"IssuedByID"`
	IssuedByName string `firestore:"IssuedByName"`
	IssuedByOrg  string `firestore:"IssuedByOrg"`

	Coverage          coverageDoc   `firestore:"Coverage"`
	AffectedLocations []locationDoc `firestore:"AffectedLocations,omitempty"`

	EffectiveFrom time.Time `firestore:"EffectiveFrom"`
	ExpiresAt     time.Time `firestore:"ExpiresAt"`

	Status          string `firestore:"Status"`
	IsActive        bool   `firestore:"IsActive"`
	AutomaticExpiry bool   `firestore:"AutomaticExpiry"`

	Instructions []alert.Instruction `firestore:"Instructions,omitempty"`
	SafetyTips   []string            `firestore:"SafetyTips,omitempty"`

	TargetAudience       string   `firestore:"TargetAudience,omitempty"`
	DistributionChannels []string `firestore:"DistributionChannels,omitempty"`
	Tags                 []string `firestore:"Tags,omitempty"`

	RevisionHistory []alert.Revision `firestore:"RevisionHistory,omitempty"`
	Metrics         alert.Metrics    `firestore:"Metrics"`

	ParentAlert    string   `firestore:"ParentAlert,omitempty"`
	ChildAlerts    []string `firestore:"ChildAlerts,omitempty"`
	RelatedReports []string `firestore:"RelatedReports,omitempty"`

	IssuedAt    time.Time `firestore:"IssuedAt"`
	LastUpdated time.Time `firestore:"LastUpdated"`
	CreatedAt   time.Time `firestore:"CreatedAt"`
	UpdatedAt   time.Time `firestore:"UpdatedAt"`

	Rev int64 `firestore:"Rev"`
}

type coverageDoc struct {
	Type         string           `firestore:"Type"`
	Center       *latlng.LatLng   `firestore:"Center,omitempty"`
	RadiusMeters float64          `firestore:"RadiusMeters,omitempty"`
	Ring         []*latlng.LatLng `firestore:"Ring,omitempty"`
}

type locationDoc struct {
	Name        string         `firestore:"Name"`
	Kind        string         `firestore:"Kind,omitempty"`
	Coordinates *latlng.LatLng `firestore:"Coordinates,omitempty"`
}

func toLatLng(pt orb.Point) *latlng.LatLng {
	return &latlng.LatLng{Longitude: pt.Lon(), Latitude: pt.Lat()}
}

func fromLatLng(ll *latlng.LatLng) orb.Point {
	if ll == nil {
		return orb.Point{}
	}
	return orb.Point{ll.Longitude, ll.Latitude}
}

func toDoc(a alert.Alert) alertDoc {
	doc := alertDoc{
		ID:                   a.ID.String(),
		Title:                a.Title,
		Message:              a.Message,
		Type:                 a.Type.String(),
		Hazard:               a.Hazard.String(),
		Severity:             a.Severity.String(),
		Urgency:              a.Urgency.String(),
		IssuedByID:           a.IssuedBy.ID.String(),
		IssuedByName:         a.IssuedBy.Name,
		IssuedByOrg:          a.IssuedBy.Organization,
		EffectiveFrom:        a.EffectiveFrom,
		ExpiresAt:            a.ExpiresAt,
		Status:               a.Status.String(),
		IsActive:             a.IsActive,
		AutomaticExpiry:      a.AutomaticExpiry,
		Instructions:         a.Instructions,
		SafetyTips:           a.SafetyTips,
		TargetAudience:       a.TargetAudience,
		DistributionChannels: a.DistributionChannels,
		Tags:                 a.Tags,
		RevisionHistory:      a.RevisionHistory,
		Metrics:              a.Metrics,
		ParentAlert:          a.ParentAlert.String(),
		IssuedAt:             a.IssuedAt,
		LastUpdated:          a.LastUpdated,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
		Rev:                  a.Rev,
	}

	doc.Coverage = coverageDoc{Type: a.Coverage.Type.String()}
	switch {
	case a.Coverage.Point != nil:
		doc.Coverage.Center = toLatLng(a.Coverage.Point.Coordinates)
	case a.Coverage.Circle != nil:
		doc.Coverage.Center = toLatLng(a.Coverage.Circle.Center)
		doc.Coverage.RadiusMeters = a.Coverage.Circle.RadiusMeters
	case a.Coverage.Polygon != nil:
		for _, pt := range a.Coverage.Polygon.Ring {
			doc.Coverage.Ring = append(doc.Coverage.Ring, toLatLng(pt))
		}
	}

	for _, loc := range a.AffectedLocations {
		ld := locationDoc{Name: loc.Name, Kind: loc.Kind}
		if loc.Coordinates != nil {
			ld.Coordinates = toLatLng(*loc.Coordinates)
		}
		doc.AffectedLocations = append(doc.AffectedLocations, ld)
	}
	for _, id := range a.ChildAlerts {
		doc.ChildAlerts = append(doc.ChildAlerts, id.String())
	}
	for _, id := range a.RelatedReports {
		doc.RelatedReports = append(doc.RelatedReports, id.String())
	}

	return doc
}

func fromDoc(doc alertDoc) (alert.Alert, error) {
	a := alert.Alert{
		ID:       types.AlertID(doc.ID),
		Title:    doc.Title,
		Message:  doc.Message,
		Type:     types.AlertType(doc.Type),
		Hazard:   types.HazardType(doc.Hazard),
		Severity: types.Severity(doc.Severity),
		Urgency:  types.Urgency(doc.Urgency),
		IssuedBy: alert.IssuedBy{
			ID:           types.OfficialID(doc.IssuedByID),
			Name:         doc.IssuedByName,
			Organization: doc.IssuedByOrg,
		},
		EffectiveFrom:        doc.EffectiveFrom,
		ExpiresAt:            doc.ExpiresAt,
		Status:               types.AlertStatus(doc.Status),
		IsActive:             doc.IsActive,
		AutomaticExpiry:      doc.AutomaticExpiry,
		Instructions:         doc.Instructions,
		SafetyTips:           doc.SafetyTips,
		TargetAudience:       doc.TargetAudience,
		DistributionChannels: doc.DistributionChannels,
		Tags:                 doc.Tags,
		RevisionHistory:      doc.RevisionHistory,
		Metrics:              doc.Metrics,
		ParentAlert:          types.AlertID(doc.ParentAlert),
		IssuedAt:             doc.IssuedAt,
		LastUpdated:          doc.LastUpdated,
		CreatedAt:            doc.CreatedAt,
		UpdatedAt:            doc.UpdatedAt,
		Rev:                  doc.Rev,
	}

	switch types.CoverageType(doc.Coverage.Type) {
	case types.CoveragePoint:
		a.Coverage = alert.NewPointCoverage(fromLatLng(doc.Coverage.Center))
	case types.CoverageCircle:
		a.Coverage = alert.NewCircleCoverage(fromLatLng(doc.Coverage.Center), doc.Coverage.RadiusMeters)
	case types.CoveragePolygon:
		ring := make(orb.Ring, 0, len(doc.Coverage.Ring))
		for _, ll := range doc.Coverage.Ring {
			ring = append(ring, fromLatLng(ll))
		}
		a.Coverage = alert.NewPolygonCoverage(ring)
	default:
		return alert.Alert{}, goerr.New("unknown coverage type in stored alert",
			goerr.T(errs.TagInternal),
			goerr.V("coverage_type", doc.Coverage.Type),
			goerr.V("alert_id", doc.ID))
	}

	for _, ld := range doc.AffectedLocations {
		loc := alert.AffectedLocation{Name: ld.Name, Kind: ld.Kind}
		if ld.Coordinates != nil {
			pt := fromLatLng(ld.Coordinates)
			loc.Coordinates = &pt
		}
		a.AffectedLocations = append(a.AffectedLocations, loc)
	}
	for _, id := range doc.ChildAlerts {
		a.ChildAlerts = append(a.ChildAlerts, types.AlertID(id))
	}
	for _, id := range doc.RelatedReports {
		a.RelatedReports = append(a.RelatedReports, types.ReportID(id))
	}

	return a, nil
}
