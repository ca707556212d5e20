package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lekan/attendease/internal/middleware"
	"github.com/lekan/attendease/internal/pkg/apperrors"

	"github.com/lekan/attendease/internal/app/models/dto"
	"github.com/lekan/attendease/internal/app/services"
)

// maxImageSize caps uploaded photo size at 5 MiB.
const maxImageSize = 5 << 20

// StudentController handles student accounts, face registration and QR
// codes.
type StudentController struct {
	students services.StudentService
}

func NewStudentController(students services.StudentService) *StudentController {
	return &StudentController{students: students}
}

// Register creates a student account.
func (ctrl *StudentController) Register(c *gin.Context) {
	var req dto.StudentRegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid registration payload"))
		return
	}

	resp, err := ctrl.students.Register(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.setSessionCookie(c, resp.Token)
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// Login authenticates a student by matric number or email. The token is
// also set as a session cookie.
func (ctrl *StudentController) Login(c *gin.Context) {
	var req dto.StudentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Invalid login payload"))
		return
	}

	resp, err := ctrl.students.Login(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ctrl.setSessionCookie(c, resp.Token)
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Logout clears the session cookie.
func (ctrl *StudentController) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, dto.NewMessageResponse("Logged out"))
}

// Profile returns the authenticated student's account.
func (ctrl *StudentController) Profile(c *gin.Context) {
	resp, err := ctrl.students.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RegisterFace stores a reference photo and its face embedding for the
// student named in the path, which must be the authenticated student.
func (ctrl *StudentController) RegisterFace(c *gin.Context) {
	image, filename, err := readImageFile(c, "image")
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := ctrl.students.RegisterFace(c.Request.Context(), middleware.GetUserID(c), image, filename)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// UploadPassport replaces the passport photo of the student in the path,
// which must be the authenticated student.
func (ctrl *StudentController) UploadPassport(c *gin.Context) {
	passport, err := c.FormFile("passport")
	if err != nil {
		_ = c.Error(apperrors.NewBadRequestError("Passport photo is required"))
		return
	}
	if passport.Size > maxImageSize {
		_ = c.Error(apperrors.NewBadRequestError("Image exceeds the 5MB size limit"))
		return
	}

	resp, err := ctrl.students.UploadPassport(c.Request.Context(), middleware.GetUserID(c), passport)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GenerateQRCode creates or replaces the student's QR code image.
func (ctrl *StudentController) GenerateQRCode(c *gin.Context) {
	resp, err := ctrl.students.GenerateQRCode(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// DownloadQRCode streams the student's QR code image as an attachment.
func (ctrl *StudentController) DownloadQRCode(c *gin.Context) {
	path, downloadName, err := ctrl.students.QRCodeFile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.FileAttachment(path, downloadName)
}

// sessionCookieMaxAge keeps student sessions alive for seven days.
const sessionCookieMaxAge = 7 * 24 * 60 * 60

func (ctrl *StudentController) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie("token", token, sessionCookieMaxAge, "/", "", false, true)
}

// readImageFile reads a multipart image field, enforcing the size cap.
func readImageFile(c *gin.Context, field string) ([]byte, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, "", apperrors.NewBadRequestError("An image file is required")
	}
	if header.Size > maxImageSize {
		return nil, "", apperrors.NewBadRequestError("Image exceeds the 5MB size limit")
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", apperrors.NewBadRequestError("Failed to read uploaded image")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return nil, "", apperrors.NewBadRequestError("Failed to read uploaded image")
	}
	if len(data) > maxImageSize {
		return nil, "", apperrors.NewBadRequestError("Image exceeds the 5MB size limit")
	}
	return data, header.Filename, nil
}
