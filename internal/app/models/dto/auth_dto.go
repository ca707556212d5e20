package dto

import "time"

// LecturerRegisterRequest registers a new lecturer account. The passport
// photo arrives as a multipart file alongside these form fields.
type LecturerRegisterRequest struct {
	FirstName string `form:"firstName" binding:"required"`
	LastName  string `form:"lastName" binding:"required"`
	Email     string `form:"email" binding:"required"`
	Password  string `form:"password" binding:"required"`
}

// StudentRegisterRequest registers a new student account.
type StudentRegisterRequest struct {
	FirstName    string `form:"firstName" binding:"required"`
	LastName     string `form:"lastName" binding:"required"`
	Email        string `form:"email" binding:"required"`
	MatricNumber string `form:"matricNumber" binding:"required"`
	Password     string `form:"password" binding:"required"`
	Level        string `form:"level"`
}

// LoginRequest authenticates either account type.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StudentLoginRequest authenticates a student by matric number or email.
type StudentLoginRequest struct {
	MatricNumber string `json:"matricNumber"`
	Email        string `json:"email"`
	Password     string `json:"password" binding:"required"`
}

// AuthResponse is returned on successful registration or login.
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      interface{} `json:"user"`
}

// LecturerResponse is the public view of a lecturer account.
type LecturerResponse struct {
	ID           int64   `json:"id"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Email        string  `json:"email"`
	PassportPath *string `json:"passportPath,omitempty"`
}

// StudentResponse is the public view of a student account. The embedding
// itself is never exposed, only whether one exists.
type StudentResponse struct {
	ID             int64   `json:"id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	MatricNumber   string  `json:"matricNumber"`
	Level          *string `json:"level,omitempty"`
	PassportPath   *string `json:"passportPath,omitempty"`
	FaceRegistered bool    `json:"faceRegistered"`
	QRCodePath     *string `json:"qrCodePath,omitempty"`
}
