package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educonnectt/educonnect-api/internal/models"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
)

type assignmentRepoStub struct {
	assignment *models.Assignment
	created    *models.Assignment
	updated    bool
	listed     []models.Assignment
	filter     models.AssignmentFilter
}

func (s *assignmentRepoStub) Create(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = "assignment-1"
	assignment.Status = models.AssignmentStatusPending
	s.created = assignment
	return nil
}

func (s *assignmentRepoStub) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	if s.assignment == nil {
		return nil, sql.ErrNoRows
	}
	return s.assignment, nil
}

func (s *assignmentRepoStub) Submit(ctx context.Context, id, submission string, submittedAt time.Time) (bool, error) {
	return s.updated, nil
}

func (s *assignmentRepoStub) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	s.filter = filter
	return s.listed, len(s.listed), nil
}

type assignmentStudentStub struct {
	exists bool
}

func (s assignmentStudentStub) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if !s.exists {
		return nil, sql.ErrNoRows
	}
	return &models.Student{ID: id}, nil
}

func TestCreateAssignmentVerifiesStudent(t *testing.T) {
	service := NewAssignmentService(&assignmentRepoStub{}, assignmentStudentStub{exists: false}, nil, nil)

	_, err := service.Create(context.Background(), models.JWTClaims{AccountID: "teacher-1", Role: models.RoleTeacher}, CreateAssignmentRequest{
		Title:     "Essay",
		StudentID: "student-1",
		DueAt:     time.Now().Add(48 * time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCreateAssignmentRecordsIssuer(t *testing.T) {
	repo := &assignmentRepoStub{}
	service := NewAssignmentService(repo, assignmentStudentStub{exists: true}, nil, nil)

	assignment, err := service.Create(context.Background(), models.JWTClaims{AccountID: "teacher-1", Role: models.RoleTeacher}, CreateAssignmentRequest{
		Title:     "Essay",
		StudentID: "student-1",
		DueAt:     time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", assignment.TeacherID)
	assert.Equal(t, models.AssignmentStatusPending, assignment.Status)
}

func TestSubmitAssignmentWrongStudent(t *testing.T) {
	repo := &assignmentRepoStub{assignment: &models.Assignment{
		ID:        "assignment-1",
		StudentID: "student-1",
		Status:    models.AssignmentStatusPending,
	}}
	service := NewAssignmentService(repo, assignmentStudentStub{exists: true}, nil, nil)

	_, err := service.Submit(context.Background(), models.JWTClaims{AccountID: "student-2", Role: models.RoleStudent},
		"assignment-1", SubmitAssignmentRequest{Submission: "my work"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSubmitAssignmentDoubleSubmission(t *testing.T) {
	repo := &assignmentRepoStub{
		assignment: &models.Assignment{ID: "assignment-1", StudentID: "student-1", Status: models.AssignmentStatusSubmitted},
		updated:    false,
	}
	service := NewAssignmentService(repo, assignmentStudentStub{exists: true}, nil, nil)

	_, err := service.Submit(context.Background(), models.JWTClaims{AccountID: "student-1", Role: models.RoleStudent},
		"assignment-1", SubmitAssignmentRequest{Submission: "again"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSubmitAssignmentLateIsAccepted(t *testing.T) {
	repo := &assignmentRepoStub{
		assignment: &models.Assignment{
			ID:        "assignment-1",
			StudentID: "student-1",
			Status:    models.AssignmentStatusPending,
			DueAt:     time.Now().Add(-24 * time.Hour),
		},
		updated: true,
	}
	service := NewAssignmentService(repo, assignmentStudentStub{exists: true}, nil, nil)

	assignment, err := service.Submit(context.Background(), models.JWTClaims{AccountID: "student-1", Role: models.RoleStudent},
		"assignment-1", SubmitAssignmentRequest{Submission: "better late"})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusSubmitted, assignment.Status)
	require.NotNil(t, assignment.SubmittedAt)
}

func TestListAssignmentsDerivesOverdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &assignmentRepoStub{listed: []models.Assignment{
		{ID: "a1", Status: models.AssignmentStatusPending, DueAt: now.Add(-time.Hour)},
		{ID: "a2", Status: models.AssignmentStatusPending, DueAt: now.Add(time.Hour)},
		{ID: "a3", Status: models.AssignmentStatusSubmitted, DueAt: now.Add(-time.Hour)},
	}}
	service := NewAssignmentService(repo, assignmentStudentStub{exists: true}, nil, nil)
	service.now = func() time.Time { return now }

	assignments, _, err := service.List(context.Background(), models.JWTClaims{AccountID: "admin-1", Role: models.RoleAdmin}, models.AssignmentFilter{})
	require.NoError(t, err)

	assert.Equal(t, models.AssignmentStatusOverdue, assignments[0].Status)
	assert.Equal(t, models.AssignmentStatusPending, assignments[1].Status)
	assert.Equal(t, models.AssignmentStatusSubmitted, assignments[2].Status)
}

func TestListAssignmentsScopesToActor(t *testing.T) {
	repo := &assignmentRepoStub{}
	service := NewAssignmentService(repo, assignmentStudentStub{exists: true}, nil, nil)

	_, _, err := service.List(context.Background(), models.JWTClaims{AccountID: "student-1", Role: models.RoleStudent},
		models.AssignmentFilter{TeacherID: "sneaky"})
	require.NoError(t, err)
	assert.Equal(t, "student-1", repo.filter.StudentID)
	assert.Empty(t, repo.filter.TeacherID)

	_, _, err = service.List(context.Background(), models.JWTClaims{AccountID: "teacher-1", Role: models.RoleTeacher},
		models.AssignmentFilter{StudentID: "sneaky"})
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", repo.filter.TeacherID)
	assert.Empty(t, repo.filter.StudentID)
}
