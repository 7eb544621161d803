package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/educonnectt/educonnect-api/internal/models"
)

func TestMessageRepositoryInsertManySingleTransaction(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	messages := []models.Message{
		{SenderID: "qao-1", SenderRole: models.RoleQAO, RecipientID: "student-1", RecipientRole: models.RoleStudent, Subject: "Term dates", Body: "Monday"},
		{SenderID: "qao-1", SenderRole: models.RoleQAO, RecipientID: "student-2", RecipientRole: models.RoleStudent, Subject: "Term dates", Body: "Monday"},
	}
	require.NoError(t, repo.InsertMany(context.Background(), messages))
	require.NotEmpty(t, messages[0].ID)
	require.NotEmpty(t, messages[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepositoryInsertManyRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO messages")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	messages := []models.Message{
		{SenderID: "qao-1", RecipientID: "student-1", Subject: "s", Body: "b"},
		{SenderID: "qao-1", RecipientID: "student-2", Subject: "s", Body: "b"},
	}
	err := repo.InsertMany(context.Background(), messages)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepositoryInsertManyEmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)
	require.NoError(t, repo.InsertMany(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepositoryListRecipientIDsTeachersMustBeActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM teachers WHERE active = true")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("teacher-1"))

	recipients, err := repo.ListRecipientIDs(context.Background(), models.GroupTeachers)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	require.Equal(t, models.RoleTeacher, recipients[0].Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepositoryListRecipientIDsUnknownGroup(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewMessageRepository(db)
	_, err := repo.ListRecipientIDs(context.Background(), "parents")
	require.Error(t, err)
}
