package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/medirota/roster-backend-go/internal/domain/calendar"
	"github.com/medirota/roster-backend-go/internal/handler/http/middleware"
	"github.com/medirota/roster-backend-go/internal/handler/http/response"
	calendarService "github.com/medirota/roster-backend-go/internal/service/calendar"
)

type CalendarHandler interface {
	AddHoliday(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)

	UpsertRoster(w http.ResponseWriter, r *http.Request)
	ListRosters(w http.ResponseWriter, r *http.Request)

	CreateCombination(w http.ResponseWriter, r *http.Request)
	ListCombinations(w http.ResponseWriter, r *http.Request)
	DeleteCombination(w http.ResponseWriter, r *http.Request)

	ReplaceRatios(w http.ResponseWriter, r *http.Request)
	ListRatios(w http.ResponseWriter, r *http.Request)

	SetDimension(w http.ResponseWriter, r *http.Request)
	ListDimensions(w http.ResponseWriter, r *http.Request)
}

type CalendarHandlerImpl struct {
	service *calendarService.CalendarService
}

func NewCalendarHandler(service *calendarService.CalendarService) CalendarHandler {
	return &CalendarHandlerImpl{service: service}
}

func parseRange(r *http.Request) (time.Time, time.Time, bool) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func (h *CalendarHandlerImpl) AddHoliday(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Add holiday decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	holiday, err := h.service.AddHoliday(r.Context(), middleware.ClinicID(r), req.Date, req.Name)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Holiday added successfully", holiday)
}

func (h *CalendarHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRange(r)
	if !ok {
		response.BadRequest(w, "start and end must be YYYY-MM-DD", nil)
		return
	}

	holidays, err := h.service.ListHolidays(r.Context(), middleware.ClinicID(r), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, holidays)
}

func (h *CalendarHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteHoliday(r.Context(), chi.URLParam(r, "id"), middleware.ClinicID(r)); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Holiday deleted successfully", nil)
}

func (h *CalendarHandlerImpl) UpsertRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date            string   `json:"date"`
		ProviderIDs     []string `json:"provider_ids"`
		HasNightSession bool     `json:"has_night_session"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Upsert roster decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequest(w, "date must be YYYY-MM-DD", nil)
		return
	}

	roster, err := h.service.UpsertRoster(r.Context(), calendar.ProviderRoster{
		ClinicID:        middleware.ClinicID(r),
		Date:            date,
		ProviderIDs:     req.ProviderIDs,
		HasNightSession: req.HasNightSession,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Provider roster saved", roster)
}

func (h *CalendarHandlerImpl) ListRosters(w http.ResponseWriter, r *http.Request) {
	start, end, ok := parseRange(r)
	if !ok {
		response.BadRequest(w, "start and end must be YYYY-MM-DD", nil)
		return
	}

	rosters, err := h.service.ListRosters(r.Context(), middleware.ClinicID(r), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rosters)
}

func (h *CalendarHandlerImpl) CreateCombination(w http.ResponseWriter, r *http.Request) {
	var combo calendar.RequirementCombination
	if err := json.NewDecoder(r.Body).Decode(&combo); err != nil {
		slog.Error("Create combination decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	combo.ClinicID = middleware.ClinicID(r)

	created, err := h.service.CreateCombination(r.Context(), combo)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Requirement combination created", created)
}

func (h *CalendarHandlerImpl) ListCombinations(w http.ResponseWriter, r *http.Request) {
	combos, err := h.service.ListCombinations(r.Context(), middleware.ClinicID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, combos)
}

func (h *CalendarHandlerImpl) DeleteCombination(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCombination(r.Context(), chi.URLParam(r, "id"), middleware.ClinicID(r)); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Requirement combination deleted", nil)
}

func (h *CalendarHandlerImpl) ReplaceRatios(w http.ResponseWriter, r *http.Request) {
	var ratios []calendar.RatioConfig
	if err := json.NewDecoder(r.Body).Decode(&ratios); err != nil {
		slog.Error("Replace ratios decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.service.ReplaceRatios(r.Context(), middleware.ClinicID(r), ratios); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Category ratios replaced", nil)
}

func (h *CalendarHandlerImpl) ListRatios(w http.ResponseWriter, r *http.Request) {
	ratios, err := h.service.ListRatios(r.Context(), middleware.ClinicID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, ratios)
}

func (h *CalendarHandlerImpl) SetDimension(w http.ResponseWriter, r *http.Request) {
	var cfg calendar.DimensionConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		slog.Error("Set dimension decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	cfg.ClinicID = middleware.ClinicID(r)

	if err := h.service.SetDimension(r.Context(), cfg); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Fairness dimension updated", nil)
}

func (h *CalendarHandlerImpl) ListDimensions(w http.ResponseWriter, r *http.Request) {
	configs, err := h.service.ListDimensions(r.Context(), middleware.ClinicID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, configs)
}
