package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/educonnectt/educonnect-api/internal/models"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
)

type subjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	FindByID(ctx context.Context, id string) (*models.SubjectDetail, error)
	List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error)
	Members(ctx context.Context, subjectID string) ([]models.SubjectMember, error)
	Update(ctx context.Context, subject *models.Subject) error
	UpdateProgress(ctx context.Context, id, progress string) error
	DeleteCascade(ctx context.Context, id string) error
}

type subjectTeacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// CreateSubjectRequest is the catalog creation payload.
type CreateSubjectRequest struct {
	Name       string `json:"name" validate:"required"`
	Curriculum string `json:"curriculum" validate:"required"`
	TeacherID  string `json:"teacher_id"`
	ClassTime  string `json:"class_time"`
	ExamPrep   bool   `json:"exam_prep"`
}

// UpdateSubjectRequest carries editable subject fields.
type UpdateSubjectRequest struct {
	Name       string `json:"name" validate:"required"`
	Curriculum string `json:"curriculum" validate:"required"`
	TeacherID  string `json:"teacher_id"`
	ClassTime  string `json:"class_time"`
	ExamPrep   bool   `json:"exam_prep"`
}

// SubjectService manages the curriculum catalog.
type SubjectService struct {
	repo      subjectRepository
	teachers  subjectTeacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(repo subjectRepository, teachers subjectTeacherRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubjectService{repo: repo, teachers: teachers, validator: validate, logger: logger}
}

// Create adds a subject to the catalog, verifying the assigned teacher exists.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	curriculum, ok := models.ParseCurriculum(req.Curriculum)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidCurriculum, "")
	}

	subject := &models.Subject{
		Name:       req.Name,
		Curriculum: curriculum,
		ClassTime:  req.ClassTime,
		ExamPrep:   req.ExamPrep,
	}

	if req.TeacherID != "" {
		if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
			}
			return nil, appErrors.FromError(err)
		}
		subject.TeacherID = &req.TeacherID
	}

	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("subject created",
		zap.String("subject_id", subject.ID),
		zap.String("curriculum", string(curriculum)),
		zap.Bool("exam_prep", subject.ExamPrep),
	)
	return subject, nil
}

// Get returns a subject with its teacher and enrollment count.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.SubjectDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.FromError(err)
	}
	return detail, nil
}

// List returns catalog subjects with pagination metadata.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return subjects, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Members returns the enrolled students of a subject.
func (s *SubjectService) Members(ctx context.Context, id string) ([]models.SubjectMember, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	members, err := s.repo.Members(ctx, id)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return members, nil
}

// Update modifies a catalog subject.
func (s *SubjectService) Update(ctx context.Context, id string, req UpdateSubjectRequest) (*models.SubjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	curriculum, ok := models.ParseCurriculum(req.Curriculum)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidCurriculum, "")
	}

	subject := &models.Subject{
		ID:         id,
		Name:       req.Name,
		Curriculum: curriculum,
		ClassTime:  req.ClassTime,
		ExamPrep:   req.ExamPrep,
	}
	if req.TeacherID != "" {
		if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
			}
			return nil, appErrors.FromError(err)
		}
		subject.TeacherID = &req.TeacherID
	}

	if err := s.repo.Update(ctx, subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.FromError(err)
	}
	return s.Get(ctx, id)
}

// UpdateProgress records the teaching progress note. Only the owning teacher
// may write it; staff may write any.
func (s *SubjectService) UpdateProgress(ctx context.Context, id, progress string, actor models.JWTClaims) error {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role == models.RoleTeacher {
		if detail.TeacherID == nil || *detail.TeacherID != actor.AccountID {
			return appErrors.Clone(appErrors.ErrForbidden, "subject is not assigned to you")
		}
	}
	if err := s.repo.UpdateProgress(ctx, id, progress); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.FromError(err)
	}
	return nil
}

// Delete removes a subject and all of its membership rows in one transaction.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.FromError(err)
	}
	s.logger.Info("subject deleted", zap.String("subject_id", id))
	return nil
}
