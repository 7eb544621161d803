package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/educonnectt/educonnect-api/internal/models"
)

func TestPaymentRepositoryCreateForcesPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewPaymentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	payment := &models.Payment{
		StudentID:      "student-1",
		Curriculum:     models.CurriculumGES,
		Package:        "standard",
		Subjects:       []string{"English", "Maths"},
		Amount:         400,
		ReferenceName:  "Ama Mensah",
		ScreenshotPath: "screenshots/proof.png",
		Status:         models.PaymentStatusConfirmed,
	}
	require.NoError(t, repo.Create(context.Background(), payment))
	require.Equal(t, models.PaymentStatusPending, payment.Status)
	require.NotEmpty(t, payment.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryUpdateStatusGuardsPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewPaymentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payments SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4")).
		WithArgs("payment-1", models.PaymentStatusConfirmed, sqlmock.AnyArg(), models.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.UpdateStatus(context.Background(), "payment-1", models.PaymentStatusConfirmed)
	require.NoError(t, err)
	require.True(t, updated)

	// An already reviewed payment matches zero rows.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payments SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4")).
		WithArgs("payment-1", models.PaymentStatusRejected, sqlmock.AnyArg(), models.PaymentStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err = repo.UpdateStatus(context.Background(), "payment-1", models.PaymentStatusRejected)
	require.NoError(t, err)
	require.False(t, updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryListFiltersByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewPaymentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "curriculum", "package", "grade", "subjects", "amount", "reference_name", "screenshot_path", "status", "created_at", "updated_at", "student_name", "student_email"}).
		AddRow("payment-1", "student-1", "GES", "standard", "JHS 2", "{English,Maths}", 400.0, "Ama Mensah", "screenshots/proof.png", "pending", time.Now(), time.Now(), "Ama Mensah", "ama@example.com")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT p.*, s.full_name AS student_name, s.email AS student_email")).
		WithArgs("pending").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM payments p")).
		WithArgs("pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	payments, total, err := repo.List(context.Background(), models.PaymentFilter{Status: "PENDING"})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, payments, 1)
	require.Equal(t, models.PaymentStatusPending, payments[0].Status)
	require.NotNil(t, payments[0].StudentName)
	require.NoError(t, mock.ExpectationsWereMet())
}
