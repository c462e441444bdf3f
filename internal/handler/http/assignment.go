package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/assignment"
	"github.com/cmlabs-hris/shift-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shift-engine-go/internal/handler/http/response"
)

type AssignmentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	GetShiftHistory(w http.ResponseWriter, r *http.Request)
	SyncShiftChange(w http.ResponseWriter, r *http.Request)
}

type assignmentHandlerImpl struct {
	assignmentService assignment.AssignmentService
}

func NewAssignmentHandler(assignmentService assignment.AssignmentService) AssignmentHandler {
	return &assignmentHandlerImpl{assignmentService: assignmentService}
}

func (h *assignmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}

	var req assignment.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, assignment.ErrInvalidRequestData)
		return
	}
	req.CreatedBy = middleware.UserID(r)

	result, err := h.assignmentService.CreateAssignment(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift assignment created successfully", result)
}

func (h *assignmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}
	id := chi.URLParam(r, "id")

	result, err := h.assignmentService.GetAssignment(r.Context(), companyID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *assignmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}

	filter := assignment.AssignmentFilter{}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if templateID := r.URL.Query().Get("shift_template_id"); templateID != "" {
		filter.ShiftTemplateID = &templateID
	}
	filter.ActiveOnly = r.URL.Query().Get("active_only") == "true"

	result, err := h.assignmentService.ListAssignments(r.Context(), companyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *assignmentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}

	var req assignment.UpdateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, assignment.ErrInvalidRequestData)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.CompanyID = companyID
	req.UpdatedBy = middleware.UserID(r)

	result, err := h.assignmentService.UpdateAssignment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift assignment updated successfully", result)
}

func (h *assignmentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}
	id := chi.URLParam(r, "id")
	hard := r.URL.Query().Get("hard") == "true"

	if err := h.assignmentService.DeleteAssignment(r.Context(), companyID, id, hard); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift assignment deleted successfully", nil)
}

func (h *assignmentHandlerImpl) GetShiftHistory(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.assignmentService.GetShiftHistory(r.Context(), companyID, employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

type syncShiftChangeRequest struct {
	EmployeeID      string `json:"employee_id"`
	ShiftTemplateID string `json:"shift_template_id"`
	EffectiveFrom   string `json:"effective_from"` // YYYY-MM-DD
}

func (h *assignmentHandlerImpl) SyncShiftChange(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}

	var req syncShiftChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, assignment.ErrInvalidRequestData)
		return
	}

	effectiveFrom, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		response.HandleError(w, assignment.ErrInvalidDateFormat)
		return
	}

	if err := h.assignmentService.SyncShiftChange(r.Context(), companyID, req.EmployeeID, req.ShiftTemplateID, effectiveFrom); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift history synchronized successfully", nil)
}
