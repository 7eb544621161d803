package handler

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/educonnectt/educonnect-api/internal/models"
	"github.com/educonnectt/educonnect-api/internal/service"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
	"github.com/educonnectt/educonnect-api/pkg/response"
	"github.com/educonnectt/educonnect-api/pkg/storage"
)

// AuthHandler wires HTTP endpoints to the registration and auth services.
type AuthHandler struct {
	auth         *service.AuthService
	registration *service.RegistrationService
	uploads      *storage.LocalStorage
	maxCVBytes   int64
	logger       *zap.Logger
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(auth *service.AuthService, registration *service.RegistrationService, uploads *storage.LocalStorage, maxCVBytes int64, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxCVBytes <= 0 {
		maxCVBytes = 5 * 1024 * 1024
	}
	return &AuthHandler{auth: auth, registration: registration, uploads: uploads, maxCVBytes: maxCVBytes, logger: logger}
}

// RegisterStudent godoc
// @Summary Register student
// @Description Register a student, enroll in matched subjects and issue a token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RegisterStudentRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/students/register [post]
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var req models.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	res, err := h.registration.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// RegisterTeacher godoc
// @Summary Register teacher
// @Description Submit a tutor application with a CV upload; account stays inactive until staff activation
// @Tags Authentication
// @Accept mpfd
// @Produce json
// @Param cv formData file false "CV document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/teachers/register [post]
func (h *AuthHandler) RegisterTeacher(c *gin.Context) {
	req := models.RegisterTeacherRequest{
		FullName:   c.PostForm("full_name"),
		Email:      c.PostForm("email"),
		Phone:      c.PostForm("phone"),
		Password:   c.PostForm("password"),
		Curriculum: c.PostForm("curriculum"),
		Experience: c.PostForm("experience"),
	}

	if file, err := c.FormFile("cv"); err == nil && file != nil {
		if file.Size > h.maxCVBytes {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "cv exceeds maximum file size"))
			return
		}
		src, err := file.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "could not read cv upload"))
			return
		}
		defer src.Close() //nolint:errcheck

		relPath := filepath.Join("cv", storage.UniqueName(file.Filename))
		stored, err := h.uploads.SaveStream(relPath, src)
		if err != nil {
			h.logger.Error("failed to store cv upload", zap.Error(err))
			response.Error(c, appErrors.ErrPersistence)
			return
		}
		req.CVPath = stored
	}

	res, err := h.registration.RegisterTeacher(c.Request.Context(), req)
	if err != nil {
		if req.CVPath != "" {
			if cleanupErr := h.uploads.Delete(req.CVPath); cleanupErr != nil {
				h.logger.Warn("failed to remove orphaned cv upload", zap.String("path", req.CVPath), zap.Error(cleanupErr))
			}
		}
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// LoginStudent godoc
// @Summary Student login
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/students/login [post]
func (h *AuthHandler) LoginStudent(c *gin.Context) {
	h.login(c, h.auth.LoginStudent)
}

// LoginTeacher godoc
// @Summary Teacher login
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/teachers/login [post]
func (h *AuthHandler) LoginTeacher(c *gin.Context) {
	h.login(c, h.auth.LoginTeacher)
}

// LoginStaff godoc
// @Summary Staff login
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/staff/login [post]
func (h *AuthHandler) LoginStaff(c *gin.Context) {
	h.login(c, h.auth.LoginStaff)
}

func (h *AuthHandler) login(c *gin.Context, fn func(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	res, err := fn(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}
