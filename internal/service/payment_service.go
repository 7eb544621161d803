package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/educonnectt/educonnect-api/internal/models"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
	"github.com/educonnectt/educonnect-api/pkg/storage"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, int, error)
	UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (bool, error)
}

type paymentStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type paymentNotifier interface {
	SendPaymentConfirmed(name, email string, amount float64)
}

// SubmitPaymentRequest carries the multipart payment submission fields; the
// screenshot is stored before the service is called and referenced by path.
type SubmitPaymentRequest struct {
	StudentID      string   `json:"student_id" validate:"required"`
	Curriculum     string   `json:"curriculum" validate:"required"`
	Package        string   `json:"package" validate:"required"`
	Grade          string   `json:"grade"`
	Subjects       []string `json:"subjects" validate:"required,min=1"`
	Amount         float64  `json:"amount" validate:"required,gt=0"`
	ReferenceName  string   `json:"reference_name" validate:"required"`
	ScreenshotPath string   `json:"-" validate:"required"`
}

// ReviewPaymentRequest is the staff decision payload.
type ReviewPaymentRequest struct {
	Decision string `json:"decision" validate:"required,oneof=confirmed rejected"`
}

// PaymentService manages the manual payment review lifecycle:
// pending is the only mutable state, confirmed and rejected are terminal.
type PaymentService struct {
	repo      paymentRepository
	students  paymentStudentRepository
	signer    *storage.SignedURLSigner
	notifier  paymentNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(repo paymentRepository, students paymentStudentRepository, signer *storage.SignedURLSigner, notifier paymentNotifier, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PaymentService{repo: repo, students: students, signer: signer, notifier: notifier, validator: validate, logger: logger}
}

// Submit records a payment submission with its uploaded proof.
func (s *PaymentService) Submit(ctx context.Context, req SubmitPaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	curriculum, ok := models.ParseCurriculum(req.Curriculum)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidCurriculum, "")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.FromError(err)
	}

	payment := &models.Payment{
		StudentID:      req.StudentID,
		Curriculum:     curriculum,
		Package:        req.Package,
		Grade:          req.Grade,
		Subjects:       req.Subjects,
		Amount:         req.Amount,
		ReferenceName:  req.ReferenceName,
		ScreenshotPath: req.ScreenshotPath,
	}

	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("payment submitted",
		zap.String("payment_id", payment.ID),
		zap.String("student_id", payment.StudentID),
		zap.Float64("amount", payment.Amount),
	)
	return payment, nil
}

// Review applies a staff decision. The repository guard allows the update
// only from pending; a reviewed payment yields CONFLICT.
func (s *PaymentService) Review(ctx context.Context, id string, req ReviewPaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "decision must be confirmed or rejected")
	}

	decision := models.PaymentStatus(strings.ToLower(req.Decision))
	if !decision.ValidDecision() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "decision must be confirmed or rejected")
	}

	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.FromError(err)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, decision)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if !updated {
		return nil, appErrors.Clone(appErrors.ErrConflict, "payment has already been reviewed")
	}

	payment.Status = decision
	payment.UpdatedAt = time.Now().UTC()

	if decision == models.PaymentStatusConfirmed && s.notifier != nil {
		if student, err := s.students.FindByID(ctx, payment.StudentID); err == nil {
			s.notifier.SendPaymentConfirmed(student.FullName, student.Email, payment.Amount)
		} else {
			s.logger.Warn("could not load student for confirmation email", zap.String("payment_id", id), zap.Error(err))
		}
	}

	s.logger.Info("payment reviewed",
		zap.String("payment_id", id),
		zap.String("decision", string(decision)),
	)
	return payment, nil
}

// ListForStudent returns a student's payment history, newest first.
func (s *PaymentService) ListForStudent(ctx context.Context, studentID string, page, pageSize int) ([]models.PaymentDetail, *models.Pagination, error) {
	return s.list(ctx, models.PaymentFilter{StudentID: studentID, Page: page, PageSize: pageSize})
}

// ListPending returns the staff review queue, newest first.
func (s *PaymentService) ListPending(ctx context.Context, page, pageSize int) ([]models.PaymentDetail, *models.Pagination, error) {
	return s.list(ctx, models.PaymentFilter{Status: string(models.PaymentStatusPending), Page: page, PageSize: pageSize})
}

// ScreenshotURL issues a short-lived signed token for a payment's proof blob.
func (s *PaymentService) ScreenshotURL(ctx context.Context, id string) (string, time.Time, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return "", time.Time{}, appErrors.FromError(err)
	}
	if payment.ScreenshotPath == "" {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrNotFound, "payment has no screenshot")
	}
	token, expiresAt, err := s.signer.Generate(payment.ID, payment.ScreenshotPath)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to sign download url")
	}
	return token, expiresAt, nil
}

func (s *PaymentService) list(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, *models.Pagination, error) {
	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return payments, paginationFor(filter.Page, filter.PageSize, total), nil
}
