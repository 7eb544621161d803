package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/educonnectt/educonnect-api/internal/models"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
	"github.com/educonnectt/educonnect-api/pkg/storage"
)

type teacherAccountRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	Activate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type teacherSubjectLister interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error)
}

// TeacherProfile is the staff view of a tutor, with a signed CV link when a
// CV was uploaded.
type TeacherProfile struct {
	Teacher     models.Teacher         `json:"teacher"`
	Subjects    []models.SubjectDetail `json:"subjects"`
	CVToken     string                 `json:"cv_token,omitempty"`
	CVExpiresAt *time.Time             `json:"cv_expires_at,omitempty"`
}

// TeacherService provides staff account administration for tutors, including
// the interview activation workflow.
type TeacherService struct {
	repo     teacherAccountRepository
	subjects teacherSubjectLister
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherAccountRepository, subjects teacherSubjectLister, signer *storage.SignedURLSigner, logger *zap.Logger) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, subjects: subjects, signer: signer, logger: logger}
}

// List returns teachers with pagination metadata.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return teachers, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get assembles the staff view of one tutor.
func (s *TeacherService) Get(ctx context.Context, id string) (*TeacherProfile, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.FromError(err)
	}

	subjects, _, err := s.subjects.List(ctx, models.SubjectFilter{TeacherID: id})
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	profile := &TeacherProfile{Teacher: *teacher, Subjects: subjects}
	if teacher.CVPath != "" && s.signer != nil {
		token, expiresAt, err := s.signer.Generate(teacher.ID, teacher.CVPath)
		if err != nil {
			s.logger.Warn("failed to sign cv url", zap.String("teacher_id", id), zap.Error(err))
		} else {
			profile.CVToken = token
			profile.CVExpiresAt = &expiresAt
		}
	}
	return profile, nil
}

// Activate marks a tutor active after the interview workflow.
func (s *TeacherService) Activate(ctx context.Context, id string) (*models.Teacher, error) {
	if err := s.repo.Activate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.FromError(err)
	}
	s.logger.Info("teacher activated", zap.String("teacher_id", id))
	return s.repo.FindByID(ctx, id)
}

// Delete removes a tutor account. Catalog subjects keep their rows with the
// teacher reference cleared by the schema.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.FromError(err)
	}
	s.logger.Info("teacher deleted", zap.String("teacher_id", id))
	return nil
}
