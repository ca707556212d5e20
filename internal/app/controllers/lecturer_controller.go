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

// LecturerController handles lecturer accounts and course management.
type LecturerController struct {
	lecturers services.LecturerService
	sessions  services.SessionService
}

func NewLecturerController(lecturers services.LecturerService, sessions services.SessionService) *LecturerController {
	return &LecturerController{lecturers: lecturers, sessions: sessions}
}

// Register creates a lecturer account from a multipart form with an
// optional passport photo.
func (ctrl *LecturerController) Register(c *gin.Context) {
	var req dto.LecturerRegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid registration payload"))
		return
	}

	passport, err := c.FormFile("passport")
	if err != nil {
		passport = nil
	}

	resp, err := ctrl.lecturers.Register(c.Request.Context(), &req, passport)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// Login authenticates a lecturer by email and password.
func (ctrl *LecturerController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid login payload"))
		return
	}

	resp, err := ctrl.lecturers.Login(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Profile returns the authenticated lecturer's account.
func (ctrl *LecturerController) Profile(c *gin.Context) {
	resp, err := ctrl.lecturers.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// CreateCourse creates a course owned by the authenticated lecturer.
func (ctrl *LecturerController) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid course payload"))
		return
	}

	resp, err := ctrl.lecturers.CreateCourse(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// ListCourses returns the lecturer's courses.
func (ctrl *LecturerController) ListCourses(c *gin.Context) {
	resp, err := ctrl.lecturers.ListCourses(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// EnrollStudent enrolls a student into one of the lecturer's courses.
func (ctrl *LecturerController) EnrollStudent(c *gin.Context) {
	courseID, err := strconv.ParseInt(c.Param("courseId"), 10, 64)
	if err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid course id"))
		return
	}
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid enrollment payload"))
		return
	}

	if err := ctrl.lecturers.EnrollStudent(c.Request.Context(), middleware.GetUserID(c), courseID, req.StudentID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessageResponse("Student enrolled"))
}

// UploadPassport replaces the passport photo of the lecturer in the path.
func (ctrl *LecturerController) UploadPassport(c *gin.Context) {
	lecturerID, err := strconv.ParseInt(c.Param("lecturerId"), 10, 64)
	if err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid lecturer id"))
		return
	}
	passport, err := c.FormFile("passport")
	if err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Passport photo is required"))
		return
	}

	resp, err := ctrl.lecturers.UploadPassport(c.Request.Context(), lecturerID, passport)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListSessions returns a course's sessions, newest first.
func (ctrl *LecturerController) ListSessions(c *gin.Context) {
	courseID, err := strconv.ParseInt(c.Param("courseId"), 10, 64)
	if err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid course id"))
		return
	}

	resp, err := ctrl.sessions.ListSessions(c.Request.Context(), middleware.GetUserID(c), courseID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
