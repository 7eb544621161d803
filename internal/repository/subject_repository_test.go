package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/educonnectt/educonnect-api/internal/models"
)

func TestSubjectRepositoryFindByNamesLowercasesInput(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "curriculum", "teacher_id", "class_time", "progress", "exam_prep", "created_at", "updated_at"}).
		AddRow("sub-eng", "English", "GES", nil, "Mon 16:00", "", false, time.Now(), time.Now()).
		AddRow("sub-math", "Maths", "GES", nil, "Tue 16:00", "", false, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("LOWER(name) = ANY($3)")).
		WithArgs(models.CurriculumGES, false, sqlmock.AnyArg()).
		WillReturnRows(rows)

	subjects, err := repo.FindByNames(context.Background(), models.CurriculumGES, []string{" English ", "MATHS"}, false)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	require.Equal(t, "English", subjects[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryFindByNamesEmptyCatalog(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(name) = ANY($3)")).
		WithArgs(models.CurriculumCambridge, true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "curriculum", "teacher_id", "class_time", "progress", "exam_prep", "created_at", "updated_at"}))

	subjects, err := repo.FindByNames(context.Background(), models.CurriculumCambridge, []string{"History"}, true)
	require.NoError(t, err)
	require.Empty(t, subjects)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryDeleteCascadeRemovesMemberships(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subject_enrollments WHERE subject_id = $1")).
		WithArgs("sub-eng").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subjects WHERE id = $1")).
		WithArgs("sub-eng").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteCascade(context.Background(), "sub-eng"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubjectRepositoryDeleteCascadeMissingSubject(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSubjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subject_enrollments WHERE subject_id = $1")).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subjects WHERE id = $1")).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteCascade(context.Background(), "gone")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
