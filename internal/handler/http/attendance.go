package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/shift-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shift-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shift-engine-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Import(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

func (h *attendanceHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}

	var req attendance.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, attendance.ErrInvalidRequestData)
		return
	}

	summary, err := h.attendanceService.ImportAttendance(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance batch processed", summary)
}

func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.CompanyID(r)
	if !ok {
		response.Unauthorized(w, "Missing company scope")
		return
	}

	filter := attendance.AttendanceFilter{}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if from := r.URL.Query().Get("date_from"); from != "" {
		filter.DateFrom = &from
	}
	if to := r.URL.Query().Get("date_to"); to != "" {
		filter.DateTo = &to
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), companyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
