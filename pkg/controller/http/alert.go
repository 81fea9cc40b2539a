package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hazardhub/siren/pkg/domain/interfaces"
	"github.com/hazardhub/siren/pkg/domain/model/alert"
	"github.com/hazardhub/siren/pkg/domain/model/errs"
	"github.com/hazardhub/siren/pkg/domain/types"
	"github.com/hazardhub/siren/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/paulmach/orb"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(err, "failed to decode request body",
			goerr.T(errs.TagInvalidRequest))
	}
	return nil
}

func alertIDParam(r *http.Request) types.AlertID {
	return types.AlertID(chi.URLParam(r, "alertID"))
}

type createAlertRequest struct {
	Title                string                   `json:"title"`
	Message              string                   `json:"message"`
	Type                 types.AlertType          `json:"type"`
	Hazard               types.HazardType         `json:"hazardType"`
	Severity             types.Severity           `json:"severity"`
	Urgency              types.Urgency            `json:"urgency"`
	Coverage             alert.Coverage           `json:"coverage"`
	AffectedLocations    []alert.AffectedLocation `json:"affectedLocations,omitempty"`
	EffectiveFrom        time.Time                `json:"effectiveFrom"`
	ExpiresAt            time.Time                `json:"expiresAt"`
	AutomaticExpiry      bool                     `json:"automaticExpiry"`
	Instructions         []alert.Instruction      `json:"instructions,omitempty"`
	SafetyTips           []string                 `json:"safetyTips,omitempty"`
	TargetAudience       string                   `json:"targetAudience,omitempty"`
	DistributionChannels []string                 `json:"distributionChannels,omitempty"`
	Tags                 []string                 `json:"tags,omitempty"`
	ParentAlert          types.AlertID            `json:"parentAlert,omitempty"`
	RelatedReports       []types.ReportID         `json:"relatedReports,omitempty"`
}

func createAlertHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAlertRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		created, err := uc.CreateAlert(r.Context(), alert.Params{
			Title:                req.Title,
			Message:              req.Message,
			Type:                 req.Type,
			Hazard:               req.Hazard,
			Severity:             req.Severity,
			Urgency:              req.Urgency,
			Coverage:             req.Coverage,
			AffectedLocations:    req.AffectedLocations,
			EffectiveFrom:        req.EffectiveFrom,
			ExpiresAt:            req.ExpiresAt,
			AutomaticExpiry:      req.AutomaticExpiry,
			Instructions:         req.Instructions,
			SafetyTips:           req.SafetyTips,
			TargetAudience:       req.TargetAudience,
			DistributionChannels: req.DistributionChannels,
			Tags:                 req.Tags,
			ParentAlert:          req.ParentAlert,
			RelatedReports:       req.RelatedReports,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}

		respondJSON(w, http.StatusCreated, created)
	}
}

func getAlertHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		got, err := uc.GetAlert(r.Context(), alertIDParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, got)
	}
}

type listAlertsResponse struct {
	Alerts alert.Alerts `json:"alerts"`
	Total  int          `json:"total"`
}

func listAlertsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseListFilter(r)
		if err != nil {
			handleError(w, r, err)
			return
		}

		alerts, total, err := uc.ListAlerts(r.Context(), filter)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if alerts == nil {
			alerts = alert.Alerts{}
		}
		respondJSON(w, http.StatusOK, listAlertsResponse{Alerts: alerts, Total: total})
	}
}

func parseListFilter(r *http.Request) (interfaces.AlertFilter, error) {
	var filter interfaces.AlertFilter
	q := r.URL.Query()

	for _, s := range q["status"] {
		status := types.AlertStatus(s)
		if err := status.Validate(); err != nil {
			return filter, goerr.Wrap(err, "invalid status", goerr.T(errs.TagInvalidRequest))
		}
		filter.Status = append(filter.Status, status)
	}
	if s := q.Get("type"); s != "" {
		alertType := types.AlertType(s)
		if err := alertType.Validate(); err != nil {
			return filter, goerr.Wrap(err, "invalid type", goerr.T(errs.TagInvalidRequest))
		}
		filter.Type = &alertType
	}
	if s := q.Get("hazardType"); s != "" {
		hazard := types.HazardType(s)
		if err := hazard.Validate(); err != nil {
			return filter, goerr.Wrap(err, "invalid hazard type", goerr.T(errs.TagInvalidRequest))
		}
		filter.Hazard = &hazard
	}
	if s := q.Get("severity"); s != "" {
		severity := types.Severity(s)
		if err := severity.Validate(); err != nil {
			return filter, goerr.Wrap(err, "invalid severity", goerr.T(errs.TagInvalidRequest))
		}
		filter.Severity = &severity
	}
	filter.Tag = q.Get("tag")
	if s := q.Get("isActive"); s != "" {
		isActive, err := strconv.ParseBool(s)
		if err != nil {
			return filter, goerr.Wrap(err, "invalid isActive", goerr.T(errs.TagInvalidRequest))
		}
		filter.IsActive = &isActive
	}
	if s := q.Get("offset"); s != "" {
		offset, err := strconv.Atoi(s)
		if err != nil || offset < 0 {
			return filter, goerr.New("invalid offset", goerr.T(errs.TagInvalidRequest))
		}
		filter.Offset = offset
	}
	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			return filter, goerr.New("invalid limit", goerr.T(errs.TagInvalidRequest))
		}
		filter.Limit = limit
	}

	return filter, nil
}

func parseActiveQuery(r *http.Request) (interfaces.ActiveQuery, error) {
	var query interfaces.ActiveQuery
	q := r.URL.Query()

	if s := q.Get("hazardType"); s != "" {
		hazard := types.HazardType(s)
		if err := hazard.Validate(); err != nil {
			return query, goerr.Wrap(err, "invalid hazard type", goerr.T(errs.TagInvalidRequest))
		}
		query.Hazard = &hazard
	}
	query.Tag = q.Get("tag")
	return query, nil
}

func activeAlertsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseActiveQuery(r)
		if err != nil {
			handleError(w, r, err)
			return
		}

		alerts, err := uc.ActiveAlerts(r.Context(), query)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if alerts == nil {
			alerts = alert.Alerts{}
		}
		respondJSON(w, http.StatusOK, alerts)
	}
}

func relevantAlertsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
		lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
		if latErr != nil || lngErr != nil {
			handleError(w, r, goerr.New("lat and lng are required",
				goerr.T(errs.TagInvalidRequest)))
			return
		}

		query, err := parseActiveQuery(r)
		if err != nil {
			handleError(w, r, err)
			return
		}

		alerts, err := uc.RelevantAlerts(r.Context(), orb.Point{lng, lat}, query)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if alerts == nil {
			alerts = alert.Alerts{}
		}
		respondJSON(w, http.StatusOK, alerts)
	}
}

func childAlertsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		children, err := uc.GetChildAlerts(r.Context(), alertIDParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		if children == nil {
			children = alert.Alerts{}
		}
		respondJSON(w, http.StatusOK, children)
	}
}

func activateAlertHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activated, err := uc.ActivateAlert(r.Context(), alertIDParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, activated)
	}
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

func cancelAlertHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reasonRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		cancelled, err := uc.CancelAlert(r.Context(), alertIDParam(r), req.Reason)
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, cancelled)
	}
}

type extendAlertRequest struct {
	ExpiresAt time.Time `json:"expiresAt"`
	Reason    string    `json:"reason"`
}

func extendAlertHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req extendAlertRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		if req.ExpiresAt.IsZero() {
			handleError(w, r, goerr.New("expiresAt is required",
				goerr.T(errs.TagInvalidRequest)))
			return
		}

		extended, err := uc.ExtendAlert(r.Context(), alertIDParam(r), req.ExpiresAt, req.Reason)
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, extended)
	}
}

type updateContentRequest struct {
	alert.ContentUpdate
	Reason string `json:"reason"`
}

func updateContentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateContentRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(w, r, err)
			return
		}

		updated, err := uc.UpdateAlertContent(r.Context(), alertIDParam(r), req.ContentUpdate, req.Reason)
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, updated)
	}
}

func archiveAlertHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		archived, err := uc.ArchiveAlert(r.Context(), alertIDParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, archived)
	}
}

func metricHandler(uc *usecase.UseCases, metric types.Metric) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.RecordMetric(r.Context(), alertIDParam(r), metric); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
