package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/opsdesk/demandflow/pkg/domain/interfaces"
	"github.com/opsdesk/demandflow/pkg/domain/model"
	"github.com/opsdesk/demandflow/pkg/domain/types"
	"github.com/opsdesk/demandflow/pkg/usecase"
	"github.com/opsdesk/demandflow/pkg/utils/errutil"
)

type demandResponse struct {
	ID                       int64     `json:"id"`
	Title                    string    `json:"title"`
	Description              string    `json:"description,omitempty"`
	Status                   string    `json:"status"`
	Priority                 string    `json:"priority"`
	Classification           string    `json:"classification"`
	CompanyID                string    `json:"company_id"`
	SquadID                  string    `json:"squad_id,omitempty"`
	RequesterID              string    `json:"requester_id"`
	IsRegulatory             bool      `json:"is_regulatory"`
	RiskAssessmentDone       bool      `json:"risk_assessment_done"`
	TechnicalApprovalPresent bool      `json:"technical_approval_present"`
	CommitteeApprovalPercent int       `json:"committee_approval_percent"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

func toDemandResponse(d *model.Demand) demandResponse {
	return demandResponse{
		ID:                       d.ID,
		Title:                    d.Title,
		Description:              d.Description,
		Status:                   d.Status.String(),
		Priority:                 d.Priority.String(),
		Classification:           d.Classification.String(),
		CompanyID:                d.CompanyID.String(),
		SquadID:                  d.SquadID.String(),
		RequesterID:              d.RequesterID.String(),
		IsRegulatory:             d.IsRegulatory,
		RiskAssessmentDone:       d.RiskAssessmentDone,
		TechnicalApprovalPresent: d.TechnicalApprovalPresent,
		CommitteeApprovalPercent: d.CommitteeApprovalPercent,
		CreatedAt:                d.CreatedAt,
		UpdatedAt:                d.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck // header already committed
}

// writeError maps use case sentinels to HTTP status codes
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrDemandNotFound),
		errors.Is(err, usecase.ErrRiskAssessmentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrTransitionDenied),
		errors.Is(err, usecase.ErrApprovalNotOpen),
		errors.Is(err, usecase.ErrRiskAssessmentLocked),
		errors.Is(err, usecase.ErrConfirmationRequired):
		status = http.StatusConflict
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}

func demandIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "demandID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(usecase.ErrInvalidInput, "invalid demand ID", goerr.V("raw", raw))
	}
	return id, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return goerr.Wrap(usecase.ErrInvalidInput, "invalid request body")
	}
	return nil
}

func (s *Server) createDemand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		Priority       string `json:"priority"`
		Classification string `json:"classification"`
		CompanyID      string `json:"company_id"`
		SquadID        string `json:"squad_id"`
		IsRegulatory   bool   `json:"is_regulatory"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	demand, err := s.uc.Demand.Create(r.Context(), usecase.CreateDemandInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       types.Priority(req.Priority),
		Classification: types.Classification(req.Classification),
		CompanyID:      types.CompanyID(req.CompanyID),
		SquadID:        types.SquadID(req.SquadID),
		RequesterID:    actorFrom(r.Context()),
		IsRegulatory:   req.IsRegulatory,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDemandResponse(demand))
}

func (s *Server) listDemands(w http.ResponseWriter, r *http.Request) {
	opts := interfaces.ListDemandsOptions{
		CompanyID: types.CompanyID(r.URL.Query().Get("company_id")),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := types.ParseDemandStatus(raw)
		if err != nil {
			writeError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid status filter", goerr.V("status", raw)))
			return
		}
		opts.Status = status
	}

	demands, err := s.uc.Demand.List(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]demandResponse, 0, len(demands))
	for _, d := range demands {
		resp = append(resp, toDemandResponse(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"demands": resp})
}

func (s *Server) getDemand(w http.ResponseWriter, r *http.Request) {
	id, err := demandIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	demand, err := s.uc.Demand.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDemandResponse(demand))
}

func (s *Server) submitDemand(w http.ResponseWriter, r *http.Request) {
	id, err := demandIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	demand, err := s.uc.Demand.Submit(r.Context(), id, actorFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDemandResponse(demand))
}

func (s *Server) changeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := demandIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req struct {
		Target    string `json:"target"`
		Confirmed bool   `json:"confirmed"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	target, err := types.ParseDemandStatus(req.Target)
	if err != nil {
		writeError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid target status", goerr.V("target", req.Target)))
		return
	}

	demand, err := s.uc.Demand.ChangeStatus(r.Context(), id, target, actorFrom(r.Context()), req.Confirmed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDemandResponse(demand))
}

func (s *Server) recordApproval(w http.ResponseWriter, r *http.Request) {
	id, err := demandIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req struct {
		Level   string `json:"level"`
		Outcome string `json:"outcome"`
		Reason  string `json:"reason"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	level, err := types.ParseApprovalLevel(req.Level)
	if err != nil {
		writeError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid approval level", goerr.V("level", req.Level)))
		return
	}
	outcome, err := types.ParseApprovalOutcome(req.Outcome)
	if err != nil {
		writeError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid approval outcome", goerr.V("outcome", req.Outcome)))
		return
	}

	result, err := s.uc.Approval.Record(r.Context(), id, actorFrom(r.Context()), level, outcome, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"demand":           toDemandResponse(result.Demand),
		"duplicate":        result.Duplicate,
		"advanced":         result.Advanced,
		"approved_percent": result.ApprovedPercent,
	})
}

func (s *Server) requestInput(w http.ResponseWriter, r *http.Request) {
	id, err := demandIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req struct {
		TargetUserID string `json:"target_user_id"`
		Message      string `json:"message"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.uc.Approval.RequestInput(r.Context(), id, actorFrom(r.Context()), types.UserID(req.TargetUserID), req.Message); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) assessRisk(w http.ResponseWriter, r *http.Request) {
	id, err := demandIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req struct {
		Probability     string `json:"probability"`
		Impact          string `json:"impact"`
		ResponsePlan    string `json:"response_plan"`
		MitigationNotes string `json:"mitigation_notes"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	assessment, err := s.uc.Risk.Assess(r.Context(), id, actorFrom(r.Context()), usecase.RiskInput{
		Probability:     types.ProbabilityBand(req.Probability),
		Impact:          types.ImpactLevel(req.Impact),
		ResponsePlan:    types.ResponsePlan(req.ResponsePlan),
		MitigationNotes: req.MitigationNotes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toRiskAssessmentResponse(assessment))
}

type riskAssessmentResponse struct {
	DemandID        int64   `json:"demand_id"`
	Probability     string  `json:"probability"`
	Impact          string  `json:"impact"`
	Classification  string  `json:"classification"`
	RiskIndex       float64 `json:"risk_index"`
	Band            string  `json:"band"`
	ResponsePlan    string  `json:"response_plan,omitempty"`
	MitigationNotes string  `json:"mitigation_notes,omitempty"`
	AssessorID      string  `json:"assessor_id"`
}

func toRiskAssessmentResponse(ra *model.RiskAssessment) riskAssessmentResponse {
	return riskAssessmentResponse{
		DemandID:        ra.DemandID,
		Probability:     ra.ProbabilityBand.String(),
		Impact:          ra.Impact.String(),
		Classification:  ra.Classification.String(),
		RiskIndex:       ra.RiskIndex,
		Band:            ra.Band.String(),
		ResponsePlan:    ra.ResponsePlan.String(),
		MitigationNotes: ra.MitigationNotes,
		AssessorID:      ra.AssessorID.String(),
	}
}

func (s *Server) getRiskAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := demandIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	assessment, err := s.uc.Risk.Get(r.Context(), id)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toRiskAssessmentResponse(assessment))
}

func (s *Server) listActions(w http.ResponseWriter, r *http.Request) {
	id, err := demandIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	actions, err := s.uc.Demand.Actions(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	type actionResponse struct {
		Key     string `json:"key"`
		Enabled bool   `json:"enabled"`
		Reason  string `json:"reason,omitempty"`
	}
	resp := make([]actionResponse, 0, len(actions))
	for _, a := range actions {
		resp = append(resp, actionResponse{Key: a.Key.String(), Enabled: a.Enabled, Reason: a.Reason})
	}
	writeJSON(w, http.StatusOK, map[string]any{"actions": resp})
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	id, err := demandIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := s.uc.Demand.History(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	type historyResponse struct {
		ID          string    `json:"id"`
		ActorID     string    `json:"actor_id"`
		Kind        string    `json:"kind"`
		Before      string    `json:"before,omitempty"`
		After       string    `json:"after,omitempty"`
		Description string    `json:"description,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
	}
	resp := make([]historyResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, historyResponse{
			ID:          e.ID.String(),
			ActorID:     e.ActorID.String(),
			Kind:        e.Kind.String(),
			Before:      e.Before,
			After:       e.After,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": resp})
}
