package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/medirota/roster-backend-go/internal/domain/leave"
	"github.com/medirota/roster-backend-go/internal/handler/http/middleware"
	"github.com/medirota/roster-backend-go/internal/handler/http/response"
	leaveService "github.com/medirota/roster-backend-go/internal/service/leave"
)

type LeaveHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	CheckGate(w http.ResponseWriter, r *http.Request)
	ListOnHold(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	service *leaveService.LeaveService
}

func NewLeaveHandler(service *leaveService.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{service: service}
}

func (h *LeaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	var req leave.ApplyLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Apply leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ClinicID = middleware.ClinicID(r)

	record, gate, err := h.service.Apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave application recorded", map[string]interface{}{
		"leave": record,
		"gate":  gate,
	})
}

// CheckGate previews the fairness gate for a staff member without creating a
// leave record.
func (h *LeaveHandlerImpl) CheckGate(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffID")
	leaveType := leave.LeaveType(r.URL.Query().Get("type"))
	if leaveType != leave.LeaveAnnual && leaveType != leave.LeaveOff {
		response.BadRequest(w, "type must be 'annual' or 'off'", nil)
		return
	}

	gate, err := h.service.CheckGate(r.Context(), staffID, leaveType)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, gate)
}

func (h *LeaveHandlerImpl) ListOnHold(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListOnHold(r.Context(), middleware.ClinicID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

func (h *LeaveHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	var req leave.ResolveOnHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Resolve leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.LeaveID = chi.URLParam(r, "id")
	req.ClinicID = middleware.ClinicID(r)
	req.DecidedBy = middleware.UserID(r)

	record, err := h.service.ResolveOnHold(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave application resolved", record)
}

func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		response.BadRequest(w, "start must be YYYY-MM-DD", nil)
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		response.BadRequest(w, "end must be YYYY-MM-DD", nil)
		return
	}

	records, err := h.service.ListByRange(r.Context(), middleware.ClinicID(r), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}
