package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shift-engine-go/internal/handler/http/response"
)

type ShiftTemplateHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
}

type shiftTemplateHandlerImpl struct {
	shiftService shift.ShiftTemplateService
}

func NewShiftTemplateHandler(shiftService shift.ShiftTemplateService) ShiftTemplateHandler {
	return &shiftTemplateHandlerImpl{shiftService: shiftService}
}

func (h *shiftTemplateHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}

	var req shift.CreateShiftTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, shift.ErrInvalidRequestData)
		return
	}

	result, err := h.shiftService.CreateShiftTemplate(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift template created successfully", result)
}

func (h *shiftTemplateHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}
	id := chi.URLParam(r, "id")

	result, err := h.shiftService.GetShiftTemplate(r.Context(), companyID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftTemplateHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}

	filter := shift.ShiftTemplateFilter{}
	if name := r.URL.Query().Get("name"); name != "" {
		filter.Name = &name
	}
	filter.ActiveOnly = r.URL.Query().Get("active_only") == "true"
	filter.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.shiftService.ListShiftTemplates(r.Context(), companyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Templates, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

func (h *shiftTemplateHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}

	var req shift.UpdateShiftTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, shift.ErrInvalidRequestData)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.CompanyID = companyID

	result, err := h.shiftService.UpdateShiftTemplate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift template updated successfully", result)
}

func (h *shiftTemplateHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.shiftService.DeleteShiftTemplate(r.Context(), companyID, id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift template deleted successfully", nil)
}

func (h *shiftTemplateHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}

	label := r.URL.Query().Get("label")
	asOf := time.Now()
	if date := r.URL.Query().Get("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			response.BadRequest(w, "date must be a valid date in YYYY-MM-DD format", nil)
			return
		}
		asOf = parsed
	}

	result, err := h.shiftService.ResolveShiftTemplate(r.Context(), companyID, label, asOf)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
