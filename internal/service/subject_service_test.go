package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educonnectt/educonnect-api/internal/models"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
)

type subjectRepoStub struct {
	detail   *models.SubjectDetail
	created  *models.Subject
	progress string
	deleted  string
	members  []models.SubjectMember
}

func (s *subjectRepoStub) Create(ctx context.Context, subject *models.Subject) error {
	subject.ID = "subject-1"
	s.created = subject
	return nil
}

func (s *subjectRepoStub) FindByID(ctx context.Context, id string) (*models.SubjectDetail, error) {
	if s.detail == nil {
		return nil, sql.ErrNoRows
	}
	return s.detail, nil
}

func (s *subjectRepoStub) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error) {
	if s.detail == nil {
		return nil, 0, nil
	}
	return []models.SubjectDetail{*s.detail}, 1, nil
}

func (s *subjectRepoStub) Members(ctx context.Context, subjectID string) ([]models.SubjectMember, error) {
	return s.members, nil
}

func (s *subjectRepoStub) Update(ctx context.Context, subject *models.Subject) error {
	if s.detail == nil {
		return sql.ErrNoRows
	}
	s.detail.Subject = *subject
	return nil
}

func (s *subjectRepoStub) UpdateProgress(ctx context.Context, id, progress string) error {
	s.progress = progress
	return nil
}

func (s *subjectRepoStub) DeleteCascade(ctx context.Context, id string) error {
	if s.detail == nil {
		return sql.ErrNoRows
	}
	s.deleted = id
	return nil
}

type subjectTeacherStub struct {
	teacher *models.Teacher
}

func (s subjectTeacherStub) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if s.teacher == nil {
		return nil, sql.ErrNoRows
	}
	return s.teacher, nil
}

func TestCreateSubjectVerifiesTeacher(t *testing.T) {
	repo := &subjectRepoStub{}
	service := NewSubjectService(repo, subjectTeacherStub{}, nil, nil)

	_, err := service.Create(context.Background(), CreateSubjectRequest{
		Name:       "English",
		Curriculum: "GES",
		TeacherID:  "missing",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestCreateSubjectNormalisesCurriculum(t *testing.T) {
	repo := &subjectRepoStub{}
	service := NewSubjectService(repo, subjectTeacherStub{}, nil, nil)

	subject, err := service.Create(context.Background(), CreateSubjectRequest{
		Name:       "Core Math",
		Curriculum: "cambridge",
		ExamPrep:   false,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CurriculumCambridge, subject.Curriculum)
	assert.Nil(t, subject.TeacherID)
}

func TestCreateSubjectRejectsUnknownCurriculum(t *testing.T) {
	service := NewSubjectService(&subjectRepoStub{}, subjectTeacherStub{}, nil, nil)

	_, err := service.Create(context.Background(), CreateSubjectRequest{Name: "English", Curriculum: "IB"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCurriculum.Code, appErrors.FromError(err).Code)
}

func TestUpdateProgressOwningTeacher(t *testing.T) {
	teacherID := "teacher-1"
	repo := &subjectRepoStub{detail: &models.SubjectDetail{
		Subject: models.Subject{ID: "subject-1", Name: "English", TeacherID: &teacherID},
	}}
	service := NewSubjectService(repo, subjectTeacherStub{}, nil, nil)

	err := service.UpdateProgress(context.Background(), "subject-1", "Unit 3 complete",
		models.JWTClaims{AccountID: "teacher-1", Role: models.RoleTeacher})
	require.NoError(t, err)
	assert.Equal(t, "Unit 3 complete", repo.progress)
}

func TestUpdateProgressForeignTeacherForbidden(t *testing.T) {
	teacherID := "teacher-1"
	repo := &subjectRepoStub{detail: &models.SubjectDetail{
		Subject: models.Subject{ID: "subject-1", TeacherID: &teacherID},
	}}
	service := NewSubjectService(repo, subjectTeacherStub{}, nil, nil)

	err := service.UpdateProgress(context.Background(), "subject-1", "Hijack",
		models.JWTClaims{AccountID: "teacher-2", Role: models.RoleTeacher})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.progress)
}

func TestUpdateProgressStaffMayWriteAny(t *testing.T) {
	teacherID := "teacher-1"
	repo := &subjectRepoStub{detail: &models.SubjectDetail{
		Subject: models.Subject{ID: "subject-1", TeacherID: &teacherID},
	}}
	service := NewSubjectService(repo, subjectTeacherStub{}, nil, nil)

	err := service.UpdateProgress(context.Background(), "subject-1", "Reviewed",
		models.JWTClaims{AccountID: "admin-1", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "Reviewed", repo.progress)
}

func TestDeleteMissingSubject(t *testing.T) {
	service := NewSubjectService(&subjectRepoStub{}, subjectTeacherStub{}, nil, nil)

	err := service.Delete(context.Background(), "gone")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
