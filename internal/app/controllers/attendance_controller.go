package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lekan/attendease/internal/middleware"
	"github.com/lekan/attendease/internal/pkg/apperrors"

	"github.com/lekan/attendease/internal/app/models/dto"
	"github.com/lekan/attendease/internal/app/services"
)

// AttendanceController handles session lifecycle, marking, history review
// and CSV export.
type AttendanceController struct {
	attendance services.AttendanceService
	sessions   services.SessionService
}

func NewAttendanceController(attendance services.AttendanceService, sessions services.SessionService) *AttendanceController {
	return &AttendanceController{attendance: attendance, sessions: sessions}
}

// StartSession opens an attendance session for a course.
func (ctrl *AttendanceController) StartSession(c *gin.Context) {
	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid session payload"))
		return
	}

	resp, err := ctrl.sessions.StartSession(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// CloseSession closes an attendance session by id.
func (ctrl *AttendanceController) CloseSession(c *gin.Context) {
	var req dto.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid session payload"))
		return
	}

	resp, err := ctrl.sessions.CloseSession(c.Request.Context(), middleware.GetUserID(c), req.SessionID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ValidateEnrollment checks that a student is enrolled in one of the
// lecturer's courses before marking.
func (ctrl *AttendanceController) ValidateEnrollment(c *gin.Context) {
	var req dto.ValidateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid enrollment payload"))
		return
	}

	if err := ctrl.attendance.ValidateEnrollment(c.Request.Context(), middleware.GetUserID(c), &req); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse("Student is enrolled"))
}

// MarkManual records presence by explicit lecturer action.
func (ctrl *AttendanceController) MarkManual(c *gin.Context) {
	var req dto.MarkManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid attendance payload"))
		return
	}

	resp, err := ctrl.attendance.MarkManual(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	middleware.CountAttendanceMark(resp.Method)
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// MarkWithFace records presence after face verification. The probe photo
// arrives as the multipart "verificationImage" field.
func (ctrl *AttendanceController) MarkWithFace(c *gin.Context) {
	var req dto.MarkFaceRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid attendance payload"))
		return
	}
	image, filename, err := readImageFile(c, "verificationImage")
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := ctrl.attendance.MarkWithFace(c.Request.Context(), middleware.GetUserID(c), &req, image, filename)
	if err != nil {
		middleware.CountFaceVerification("failure")
		_ = c.Error(err)
		return
	}
	middleware.CountFaceVerification("success")
	middleware.CountAttendanceMark(resp.Method)
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// History returns a course's attendance records.
func (ctrl *AttendanceController) History(c *gin.Context) {
	courseID, err := strconv.ParseInt(c.Param("courseId"), 10, 64)
	if err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid course id"))
		return
	}

	resp, err := ctrl.attendance.History(c.Request.Context(), middleware.GetUserID(c), courseID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ExportCSV streams a course's attendance history as a CSV attachment.
func (ctrl *AttendanceController) ExportCSV(c *gin.Context) {
	courseID, err := strconv.ParseInt(c.Param("courseId"), 10, 64)
	if err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid course id"))
		return
	}

	data, filename, err := ctrl.attendance.ExportCSV(c.Request.Context(), middleware.GetUserID(c), courseID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
