package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/educonnectt/educonnect-api/internal/models"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
)

type studentAccountRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	ListSubjects(ctx context.Context, studentID string) ([]models.Subject, error)
	Delete(ctx context.Context, id string) error
}

type studentPaymentLister interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, int, error)
}

// StudentProfile is the staff view of a student with enrollment and payment
// context.
type StudentProfile struct {
	Student  models.Student         `json:"student"`
	Subjects []models.Subject       `json:"subjects"`
	Payments []models.PaymentDetail `json:"payments"`
}

// StudentService provides staff account administration for learners.
type StudentService struct {
	repo     studentAccountRepository
	payments studentPaymentLister
	logger   *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentAccountRepository, payments studentPaymentLister, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, payments: payments, logger: logger}
}

// List returns students with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return students, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get assembles the full staff view of one student.
func (s *StudentService) Get(ctx context.Context, id string) (*StudentProfile, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.FromError(err)
	}

	subjects, err := s.repo.ListSubjects(ctx, id)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	payments, _, err := s.payments.List(ctx, models.PaymentFilter{StudentID: id})
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	return &StudentProfile{Student: *student, Subjects: subjects, Payments: payments}, nil
}

// Subjects returns the student's enrolled subjects.
func (s *StudentService) Subjects(ctx context.Context, id string) ([]models.Subject, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.FromError(err)
	}
	subjects, err := s.repo.ListSubjects(ctx, id)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return subjects, nil
}

// Delete removes the student account. Payments, subject memberships and
// assignments go with it through schema-level cascades.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.FromError(err)
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}
