package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lekan/attendease/internal/middleware"

	"github.com/lekan/attendease/internal/app/controllers"
)

// Controllers bundles everything the router needs.
type Controllers struct {
	Lecturer   *controllers.LecturerController
	Student    *controllers.StudentController
	Attendance *controllers.AttendanceController
}

// Setup wires all routes onto the engine.
func Setup(router *gin.Engine, ctrl Controllers, auth *middleware.AuthMiddleware, rateLimit gin.HandlerFunc, healthcheck gin.HandlerFunc, storagePath string) {
	router.GET("/healthz", healthcheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.Static("/uploads", storagePath)

	api := router.Group("/api")
	api.Use(middleware.HandleAPIError())

	lecturers := api.Group("/lecturers")
	{
		lecturers.POST("/register", ctrl.Lecturer.Register)
		lecturers.POST("/login", ctrl.Lecturer.Login)

		authed := lecturers.Group("")
		authed.Use(auth.LecturerAuth())
		{
			authed.GET("/me", ctrl.Lecturer.Profile)
			authed.POST("/upload-passport/:lecturerId", ctrl.Lecturer.UploadPassport)
			authed.POST("/courses", ctrl.Lecturer.CreateCourse)
			authed.GET("/courses", ctrl.Lecturer.ListCourses)
			authed.POST("/courses/:courseId/students", ctrl.Lecturer.EnrollStudent)
			authed.GET("/courses/:courseId/sessions", ctrl.Lecturer.ListSessions)
		}
	}

	students := api.Group("/students")
	{
		students.POST("/register", ctrl.Student.Register)
		students.POST("/login", ctrl.Student.Login)
		students.POST("/logout", ctrl.Student.Logout)

		authed := students.Group("")
		authed.Use(auth.StudentAuth())
		{
			authed.GET("/me", ctrl.Student.Profile)
			authed.POST("/upload-passport/:studentId", middleware.SelfOnly("studentId"), ctrl.Student.UploadPassport)
			authed.POST("/register-face/:studentId", middleware.SelfOnly("studentId"), ctrl.Student.RegisterFace)
			authed.POST("/generate-qr/:studentId", middleware.SelfOnly("studentId"), ctrl.Student.GenerateQRCode)
			authed.GET("/download-qr/:studentId", middleware.SelfOnly("studentId"), ctrl.Student.DownloadQRCode)
		}
	}

	attendance := api.Group("/attendance")
	attendance.Use(auth.LecturerAuth())
	if rateLimit != nil {
		attendance.Use(rateLimit)
	}
	{
		attendance.POST("/start-session", ctrl.Attendance.StartSession)
		attendance.POST("/close-session", ctrl.Attendance.CloseSession)
		attendance.POST("/validate-enrollment", ctrl.Attendance.ValidateEnrollment)
		attendance.POST("/mark", ctrl.Attendance.MarkManual)
		attendance.POST("/mark-with-face", ctrl.Attendance.MarkWithFace)
		attendance.GET("/history/:courseId", ctrl.Attendance.History)
		attendance.GET("/history/:courseId/download", ctrl.Attendance.ExportCSV)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{
			"code":    "NOT_FOUND",
			"message": "Route not found",
		}})
	})
}
