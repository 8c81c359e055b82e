package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/medirota/roster-backend-go/internal/domain/roster"
	"github.com/medirota/roster-backend-go/internal/handler/http/middleware"
	"github.com/medirota/roster-backend-go/internal/handler/http/response"
	rosterService "github.com/medirota/roster-backend-go/internal/service/roster"
)

type RosterHandler interface {
	CreatePeriod(w http.ResponseWriter, r *http.Request)
	GetPeriod(w http.ResponseWriter, r *http.Request)
	ListPeriods(w http.ResponseWriter, r *http.Request)
	Generate(w http.ResponseWriter, r *http.Request)
	GetAssignments(w http.ResponseWriter, r *http.Request)
	GetIssues(w http.ResponseWriter, r *http.Request)
	GetScores(w http.ResponseWriter, r *http.Request)
}

type RosterHandlerImpl struct {
	service *rosterService.RosterService
}

func NewRosterHandler(service *rosterService.RosterService) RosterHandler {
	return &RosterHandlerImpl{service: service}
}

func (h *RosterHandlerImpl) CreatePeriod(w http.ResponseWriter, r *http.Request) {
	var req roster.CreatePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create period decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ClinicID = middleware.ClinicID(r)

	period, err := h.service.CreatePeriod(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Schedule period created", period)
}

func (h *RosterHandlerImpl) GetPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.service.GetPeriod(r.Context(), middleware.ClinicID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, period)
}

func (h *RosterHandlerImpl) ListPeriods(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	periods, err := h.service.ListPeriods(r.Context(), middleware.ClinicID(r), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, periods)
}

// Generate kicks off a synchronous generation run for the period. Concurrent
// calls on the same period get a conflict response.
func (h *RosterHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "id")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	result, err := h.service.Generate(r.Context(), middleware.ClinicID(r), periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Generation run finished", result)
}

func (h *RosterHandlerImpl) GetAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.service.GetAssignments(r.Context(), middleware.ClinicID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, assignments)
}

func (h *RosterHandlerImpl) GetIssues(w http.ResponseWriter, r *http.Request) {
	issues, err := h.service.GetIssues(r.Context(), middleware.ClinicID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, issues)
}

func (h *RosterHandlerImpl) GetScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.service.GetScores(r.Context(), middleware.ClinicID(r), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, scores)
}
