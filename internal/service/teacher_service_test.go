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
	"github.com/educonnectt/educonnect-api/pkg/storage"
)

type teacherAccountStub struct {
	teacher   *models.Teacher
	activated bool
	deleted   bool
}

func (s *teacherAccountStub) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if s.teacher == nil {
		return nil, sql.ErrNoRows
	}
	return s.teacher, nil
}

func (s *teacherAccountStub) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	if s.teacher == nil {
		return nil, 0, nil
	}
	return []models.Teacher{*s.teacher}, 1, nil
}

func (s *teacherAccountStub) Activate(ctx context.Context, id string) error {
	if s.teacher == nil {
		return sql.ErrNoRows
	}
	s.teacher.Active = true
	s.activated = true
	return nil
}

func (s *teacherAccountStub) Delete(ctx context.Context, id string) error {
	if s.teacher == nil {
		return sql.ErrNoRows
	}
	s.deleted = true
	return nil
}

type teacherSubjectListerStub struct {
	subjects []models.SubjectDetail
}

func (s teacherSubjectListerStub) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error) {
	return s.subjects, len(s.subjects), nil
}

func TestActivateTeacherFlipsFlag(t *testing.T) {
	repo := &teacherAccountStub{teacher: &models.Teacher{ID: "teacher-1", Active: false}}
	service := NewTeacherService(repo, teacherSubjectListerStub{}, nil, nil)

	teacher, err := service.Activate(context.Background(), "teacher-1")
	require.NoError(t, err)
	assert.True(t, teacher.Active)
	assert.True(t, repo.activated)
}

func TestActivateMissingTeacher(t *testing.T) {
	service := NewTeacherService(&teacherAccountStub{}, teacherSubjectListerStub{}, nil, nil)

	_, err := service.Activate(context.Background(), "gone")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGetTeacherSignsCVWhenPresent(t *testing.T) {
	repo := &teacherAccountStub{teacher: &models.Teacher{ID: "teacher-1", CVPath: "cv/resume.pdf"}}
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	service := NewTeacherService(repo, teacherSubjectListerStub{}, signer, nil)

	profile, err := service.Get(context.Background(), "teacher-1")
	require.NoError(t, err)
	assert.NotEmpty(t, profile.CVToken)
	require.NotNil(t, profile.CVExpiresAt)

	_, relPath, _, err := signer.Parse(profile.CVToken, false)
	require.NoError(t, err)
	assert.Equal(t, "cv/resume.pdf", relPath)
}

func TestGetTeacherWithoutCVHasNoToken(t *testing.T) {
	repo := &teacherAccountStub{teacher: &models.Teacher{ID: "teacher-1"}}
	service := NewTeacherService(repo, teacherSubjectListerStub{}, storage.NewSignedURLSigner("test-secret", time.Minute), nil)

	profile, err := service.Get(context.Background(), "teacher-1")
	require.NoError(t, err)
	assert.Empty(t, profile.CVToken)
	assert.Nil(t, profile.CVExpiresAt)
}
