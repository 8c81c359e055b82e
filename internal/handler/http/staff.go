package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/medirota/roster-backend-go/internal/domain/staff"
	"github.com/medirota/roster-backend-go/internal/handler/http/middleware"
	"github.com/medirota/roster-backend-go/internal/handler/http/response"
	staffService "github.com/medirota/roster-backend-go/internal/service/staff"
)

type StaffHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type StaffHandlerImpl struct {
	service *staffService.StaffService
}

func NewStaffHandler(service *staffService.StaffService) StaffHandler {
	return &StaffHandlerImpl{service: service}
}

func (h *StaffHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req staff.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create staff decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ClinicID = middleware.ClinicID(r)

	resp, err := h.service.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Staff member created successfully", resp)
}

func (h *StaffHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Staff ID is required", nil)
		return
	}

	resp, err := h.service.Get(r.Context(), id, middleware.ClinicID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *StaffHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter staff.StaffFilter

	q := r.URL.Query()
	if v := q.Get("department"); v != "" {
		filter.Department = &v
	}
	if v := q.Get("category"); v != "" {
		filter.Category = &v
	}
	if v := q.Get("active"); v != "" {
		active := v == "true"
		filter.Active = &active
	}
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	resp, err := h.service.List(r.Context(), middleware.ClinicID(r), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *StaffHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req staff.UpdateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update staff decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ClinicID = middleware.ClinicID(r)

	resp, err := h.service.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Staff member updated successfully", resp)
}

func (h *StaffHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Staff ID is required", nil)
		return
	}

	if err := h.service.Deactivate(r.Context(), id, middleware.ClinicID(r)); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Staff member deactivated successfully", nil)
}
