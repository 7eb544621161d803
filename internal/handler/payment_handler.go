package handler

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/educonnectt/educonnect-api/internal/service"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
	"github.com/educonnectt/educonnect-api/pkg/response"
	"github.com/educonnectt/educonnect-api/pkg/storage"
)

// PaymentHandler handles payment submission and review endpoints.
type PaymentHandler struct {
	service  *service.PaymentService
	uploads  *storage.LocalStorage
	maxBytes int64
	logger   *zap.Logger
}

// NewPaymentHandler constructs a payment handler.
func NewPaymentHandler(svc *service.PaymentService, uploads *storage.LocalStorage, maxBytes int64, logger *zap.Logger) *PaymentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &PaymentHandler{service: svc, uploads: uploads, maxBytes: maxBytes, logger: logger}
}

// Submit godoc
// @Summary Submit payment
// @Description Submit a payment with proof screenshot for manual review
// @Tags Payments
// @Accept mpfd
// @Produce json
// @Param screenshot formData file true "Payment proof"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Submit(c *gin.Context) {
	file, err := c.FormFile("screenshot")
	if err != nil || file == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "screenshot is required"))
		return
	}
	if file.Size > h.maxBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "screenshot exceeds maximum file size"))
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "could not read screenshot upload"))
		return
	}
	defer src.Close() //nolint:errcheck

	relPath := filepath.Join("screenshots", storage.UniqueName(file.Filename))
	stored, err := h.uploads.SaveStream(relPath, src)
	if err != nil {
		h.logger.Error("failed to store screenshot upload", zap.Error(err))
		response.Error(c, appErrors.ErrPersistence)
		return
	}

	amount, _ := strconv.ParseFloat(c.PostForm("amount"), 64)
	req := service.SubmitPaymentRequest{
		StudentID:      c.PostForm("student_id"),
		Curriculum:     c.PostForm("curriculum"),
		Package:        c.PostForm("package"),
		Grade:          c.PostForm("grade"),
		Subjects:       splitCSV(c.PostForm("subjects")),
		Amount:         amount,
		ReferenceName:  c.PostForm("reference_name"),
		ScreenshotPath: stored,
	}

	payment, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		if cleanupErr := h.uploads.Delete(stored); cleanupErr != nil {
			h.logger.Warn("failed to remove orphaned screenshot", zap.String("path", stored), zap.Error(cleanupErr))
		}
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// Review godoc
// @Summary Review payment
// @Description Confirm or reject a pending payment; the decision is final
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param payload body service.ReviewPaymentRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /payments/{id}/review [post]
func (h *PaymentHandler) Review(c *gin.Context) {
	var req service.ReviewPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "decision must be confirmed or rejected"))
		return
	}

	payment, err := h.service.Review(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment, nil)
}

// ListPending godoc
// @Summary List pending payments
// @Tags Payments
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /payments/pending [get]
func (h *PaymentHandler) ListPending(c *gin.Context) {
	page, limit := pageParams(c)
	payments, pagination, err := h.service.ListPending(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, pagination)
}

// StudentPayments godoc
// @Summary List payments for a student
// @Tags Payments
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/payments [get]
func (h *PaymentHandler) StudentPayments(c *gin.Context) {
	page, limit := pageParams(c)
	payments, pagination, err := h.service.ListForStudent(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, pagination)
}

// ScreenshotURL godoc
// @Summary Issue signed screenshot download token
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /payments/{id}/screenshot-url [get]
func (h *PaymentHandler) ScreenshotURL(c *gin.Context) {
	token, expiresAt, err := h.service.ScreenshotURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"url":        "/api/v1/files?token=" + token,
		"expires_at": expiresAt,
	}, nil)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
