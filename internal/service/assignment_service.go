package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/educonnectt/educonnect-api/internal/models"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
)

type assignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	Submit(ctx context.Context, id, submission string, submittedAt time.Time) (bool, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error)
}

type assignmentStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// CreateAssignmentRequest is the teacher's issuing payload.
type CreateAssignmentRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	SubjectTags []string  `json:"subject_tags"`
	StudentID   string    `json:"student_id" validate:"required"`
	DueAt       time.Time `json:"due_at" validate:"required"`
}

// SubmitAssignmentRequest is the student's submission payload.
type SubmitAssignmentRequest struct {
	Submission string `json:"submission" validate:"required"`
}

// AssignmentService manages issued work. Overdue is derived lazily at read
// time; the stored status never changes without a submission.
type AssignmentService struct {
	repo      assignmentRepository
	students  assignmentStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(repo assignmentRepository, students assignmentStudentRepository, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AssignmentService{repo: repo, students: students, validator: validate, logger: logger, now: time.Now}
}

// Create issues an assignment from the acting teacher to one student.
func (s *AssignmentService) Create(ctx context.Context, teacher models.JWTClaims, req CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.FromError(err)
	}

	assignment := &models.Assignment{
		Title:       req.Title,
		Description: req.Description,
		SubjectTags: req.SubjectTags,
		TeacherID:   teacher.AccountID,
		StudentID:   req.StudentID,
		DueAt:       req.DueAt.UTC(),
	}

	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("assignment created",
		zap.String("assignment_id", assignment.ID),
		zap.String("teacher_id", assignment.TeacherID),
		zap.String("student_id", assignment.StudentID),
	)
	return assignment, nil
}

// Submit records the student's work. Late submissions are accepted; the
// pending guard only blocks double submission.
func (s *AssignmentService) Submit(ctx context.Context, student models.JWTClaims, id string, req SubmitAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.FromError(err)
	}
	if assignment.StudentID != student.AccountID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another student")
	}

	submittedAt := s.now().UTC()
	updated, err := s.repo.Submit(ctx, id, req.Submission, submittedAt)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if !updated {
		return nil, appErrors.Clone(appErrors.ErrConflict, "assignment has already been submitted")
	}

	assignment.Submission = req.Submission
	assignment.Status = models.AssignmentStatusSubmitted
	assignment.SubmittedAt = &submittedAt
	assignment.UpdatedAt = submittedAt
	return assignment, nil
}

// List returns assignments visible to the actor. Students see their own,
// teachers what they issued, staff everything. Statuses are derived.
func (s *AssignmentService) List(ctx context.Context, actor models.JWTClaims, filter models.AssignmentFilter) ([]models.Assignment, *models.Pagination, error) {
	switch actor.Role {
	case models.RoleStudent:
		filter.TeacherID = ""
		filter.StudentID = actor.AccountID
	case models.RoleTeacher:
		filter.StudentID = ""
		filter.TeacherID = actor.AccountID
	}

	assignments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}

	now := s.now().UTC()
	for i := range assignments {
		assignments[i].Status = assignments[i].EffectiveStatus(now)
	}
	return assignments, paginationFor(filter.Page, filter.PageSize, total), nil
}
