package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/educonnectt/educonnect-api/internal/models"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
)

// Price tables per curriculum, keyed by lowercase subject name. The amount a
// student owes is always computed here; client-supplied amounts are ignored.
var priceTables = map[models.Curriculum]map[string]float64{
	models.CurriculumGES: {
		"english": 150,
		"maths":   250,
		"science": 200,
	},
	models.CurriculumCambridge: {
		"english":   150,
		"core math": 250,
		"science":   200,
	},
}

const minSubjects = 2

type registrationStudentRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CreateWithEnrollments(ctx context.Context, student *models.Student, subjectIDs []string) error
}

type registrationTeacherRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
}

type subjectMatcher interface {
	FindByNames(ctx context.Context, curriculum models.Curriculum, names []string, examPrep bool) ([]models.Subject, error)
}

type tokenIssuer interface {
	IssueToken(account models.AccountInfo) (string, time.Time, error)
	ExpiresIn() int64
}

type registrationNotifier interface {
	SendStudentWelcome(name, email string)
	SendTeacherPending(name, email string)
}

// RegistrationService runs the sign-up workflows: validation, catalog subject
// matching, server-side pricing, the atomic student+membership write, token
// issue and the best-effort welcome email.
type RegistrationService struct {
	students  registrationStudentRepository
	teachers  registrationTeacherRepository
	subjects  subjectMatcher
	tokens    tokenIssuer
	notifier  registrationNotifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// RegistrationServiceParams groups constructor dependencies.
type RegistrationServiceParams struct {
	Students  registrationStudentRepository
	Teachers  registrationTeacherRepository
	Subjects  subjectMatcher
	Tokens    tokenIssuer
	Notifier  registrationNotifier
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(params RegistrationServiceParams) *RegistrationService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &RegistrationService{
		students:  params.Students,
		teachers:  params.Teachers,
		subjects:  params.Subjects,
		tokens:    params.Tokens,
		notifier:  params.Notifier,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
	}
}

// IsExamPrep reports whether a package label selects the exam-prep catalog.
// Exam-prep enrollment is free and matched against a separate subject set.
func IsExamPrep(packageLabel string) bool {
	return strings.Contains(strings.ToLower(packageLabel), "exam")
}

// RegisterStudent validates the payload, resolves the requested subjects
// against the catalog, prices the enrollment and writes the student plus all
// membership rows atomically.
func (s *RegistrationService) RegisterStudent(ctx context.Context, req models.RegisterStudentRequest) (*models.RegisterStudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	curriculum, ok := models.ParseCurriculum(req.Curriculum)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidCurriculum, "")
	}

	examPrep := IsExamPrep(req.Package)
	requested := normalizeNames(req.Subjects)
	if len(requested) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one subject is required")
	}
	if !examPrep && len(requested) < minSubjects {
		return nil, appErrors.Clone(appErrors.ErrInsufficientSubjects, "")
	}

	exists, err := s.students.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEmail, "")
	}

	matched, err := s.subjects.FindByNames(ctx, curriculum, requested, examPrep)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if unmatched := unmatchedNames(requested, matched); len(unmatched) > 0 {
		// Fail closed: a partial match must never silently enroll or charge
		// for a subset of what the student asked for.
		return nil, appErrors.Clone(appErrors.ErrNoMatchingSubjects,
			fmt.Sprintf("subjects not offered for %s: %s", curriculum, strings.Join(unmatched, ", ")))
	}

	amount := 0.0
	if !examPrep {
		prices := priceTables[curriculum]
		for _, subject := range matched {
			amount += prices[strings.ToLower(subject.Name)]
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to hash password")
	}

	student := &models.Student{
		FullName:     req.FullName,
		Email:        strings.TrimSpace(req.Email),
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Curriculum:   curriculum,
		Package:      req.Package,
		Grade:        req.Grade,
		Amount:       amount,
		Active:       true,
	}

	subjectIDs := make([]string, 0, len(matched))
	for _, subject := range matched {
		subjectIDs = append(subjectIDs, subject.ID)
	}

	if err := s.students.CreateWithEnrollments(ctx, student, subjectIDs); err != nil {
		return nil, appErrors.FromError(err)
	}

	accessToken, _, err := s.tokens.IssueToken(models.AccountInfo{
		ID:       student.ID,
		Email:    student.Email,
		FullName: student.FullName,
		Role:     models.RoleStudent,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to create access token")
	}

	if s.notifier != nil {
		s.notifier.SendStudentWelcome(student.FullName, student.Email)
	}
	s.metrics.CountRegistration("student")

	s.logger.Info("student registered",
		zap.String("student_id", student.ID),
		zap.String("curriculum", string(curriculum)),
		zap.Int("subjects", len(matched)),
		zap.Float64("amount", amount),
	)

	return &models.RegisterStudentResponse{
		Student:     *student,
		Subjects:    matched,
		AccessToken: accessToken,
		ExpiresIn:   s.tokens.ExpiresIn(),
	}, nil
}

// RegisterTeacher records a tutor application. The account stays inactive
// until staff complete the interview workflow.
func (s *RegistrationService) RegisterTeacher(ctx context.Context, req models.RegisterTeacherRequest) (*models.RegisterTeacherResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	curriculum, ok := models.ParseCurriculum(req.Curriculum)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidCurriculum, "")
	}

	exists, err := s.teachers.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateEmail, "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to hash password")
	}

	teacher := &models.Teacher{
		FullName:     req.FullName,
		Email:        strings.TrimSpace(req.Email),
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Curriculum:   curriculum,
		Experience:   req.Experience,
		CVPath:       req.CVPath,
		Active:       false,
	}

	if err := s.teachers.Create(ctx, teacher); err != nil {
		return nil, appErrors.FromError(err)
	}

	accessToken, _, err := s.tokens.IssueToken(models.AccountInfo{
		ID:       teacher.ID,
		Email:    teacher.Email,
		FullName: teacher.FullName,
		Role:     models.RoleTeacher,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to create access token")
	}

	if s.notifier != nil {
		s.notifier.SendTeacherPending(teacher.FullName, teacher.Email)
	}
	s.metrics.CountRegistration("teacher")

	s.logger.Info("teacher application received",
		zap.String("teacher_id", teacher.ID),
		zap.String("curriculum", string(curriculum)),
	)

	return &models.RegisterTeacherResponse{
		Teacher:     *teacher,
		AccessToken: accessToken,
		ExpiresIn:   s.tokens.ExpiresIn(),
	}, nil
}

func normalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func unmatchedNames(requested []string, matched []models.Subject) []string {
	found := make(map[string]struct{}, len(matched))
	for _, subject := range matched {
		found[strings.ToLower(subject.Name)] = struct{}{}
	}
	var missing []string
	for _, name := range requested {
		if _, ok := found[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
