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

type paymentRepoStub struct {
	payment  *models.Payment
	created  *models.Payment
	updated  bool
	status   models.PaymentStatus
	listErr  error
	payments []models.PaymentDetail
}

func (s *paymentRepoStub) Create(ctx context.Context, payment *models.Payment) error {
	payment.ID = "payment-1"
	payment.Status = models.PaymentStatusPending
	s.created = payment
	return nil
}

func (s *paymentRepoStub) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	if s.payment == nil {
		return nil, sql.ErrNoRows
	}
	return s.payment, nil
}

func (s *paymentRepoStub) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, int, error) {
	if s.listErr != nil {
		return nil, 0, s.listErr
	}
	return s.payments, len(s.payments), nil
}

func (s *paymentRepoStub) UpdateStatus(ctx context.Context, id string, status models.PaymentStatus) (bool, error) {
	s.status = status
	return s.updated, nil
}

type paymentStudentStub struct {
	student *models.Student
}

func (s paymentStudentStub) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s.student == nil {
		return nil, sql.ErrNoRows
	}
	return s.student, nil
}

type paymentNotifierStub struct {
	confirmed []float64
}

func (n *paymentNotifierStub) SendPaymentConfirmed(name, email string, amount float64) {
	n.confirmed = append(n.confirmed, amount)
}

func submitPaymentRequest() SubmitPaymentRequest {
	return SubmitPaymentRequest{
		StudentID:      "student-1",
		Curriculum:     "GES",
		Package:        "standard",
		Grade:          "JHS 2",
		Subjects:       []string{"English", "Maths"},
		Amount:         400,
		ReferenceName:  "Ama Mensah",
		ScreenshotPath: "screenshots/proof.png",
	}
}

func TestSubmitPaymentStartsPending(t *testing.T) {
	repo := &paymentRepoStub{}
	students := paymentStudentStub{student: &models.Student{ID: "student-1"}}
	service := NewPaymentService(repo, students, nil, nil, nil, nil)

	payment, err := service.Submit(context.Background(), submitPaymentRequest())
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPending, payment.Status)
	assert.Equal(t, models.CurriculumGES, payment.Curriculum)
	assert.Equal(t, 400.0, payment.Amount)
}

func TestSubmitPaymentUnknownStudent(t *testing.T) {
	service := NewPaymentService(&paymentRepoStub{}, paymentStudentStub{}, nil, nil, nil, nil)

	_, err := service.Submit(context.Background(), submitPaymentRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubmitPaymentRequiresScreenshot(t *testing.T) {
	service := NewPaymentService(&paymentRepoStub{}, paymentStudentStub{student: &models.Student{ID: "student-1"}}, nil, nil, nil, nil)

	req := submitPaymentRequest()
	req.ScreenshotPath = ""

	_, err := service.Submit(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReviewPaymentConfirmNotifiesStudent(t *testing.T) {
	repo := &paymentRepoStub{
		payment: &models.Payment{ID: "payment-1", StudentID: "student-1", Amount: 400, Status: models.PaymentStatusPending},
		updated: true,
	}
	students := paymentStudentStub{student: &models.Student{ID: "student-1", FullName: "Ama Mensah", Email: "ama@example.com"}}
	notifier := &paymentNotifierStub{}
	service := NewPaymentService(repo, students, nil, notifier, nil, nil)

	payment, err := service.Review(context.Background(), "payment-1", ReviewPaymentRequest{Decision: "confirmed"})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusConfirmed, payment.Status)
	assert.Equal(t, []float64{400}, notifier.confirmed)
}

func TestReviewPaymentRejectSkipsNotification(t *testing.T) {
	repo := &paymentRepoStub{
		payment: &models.Payment{ID: "payment-1", StudentID: "student-1", Status: models.PaymentStatusPending},
		updated: true,
	}
	notifier := &paymentNotifierStub{}
	service := NewPaymentService(repo, paymentStudentStub{}, nil, notifier, nil, nil)

	payment, err := service.Review(context.Background(), "payment-1", ReviewPaymentRequest{Decision: "rejected"})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusRejected, payment.Status)
	assert.Empty(t, notifier.confirmed)
}

func TestReviewPaymentAlreadyReviewed(t *testing.T) {
	repo := &paymentRepoStub{
		payment: &models.Payment{ID: "payment-1", Status: models.PaymentStatusConfirmed},
		updated: false,
	}
	service := NewPaymentService(repo, paymentStudentStub{}, nil, nil, nil, nil)

	_, err := service.Review(context.Background(), "payment-1", ReviewPaymentRequest{Decision: "rejected"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestReviewPaymentInvalidDecision(t *testing.T) {
	service := NewPaymentService(&paymentRepoStub{}, paymentStudentStub{}, nil, nil, nil, nil)

	_, err := service.Review(context.Background(), "payment-1", ReviewPaymentRequest{Decision: "approved"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScreenshotURLSignsStoredPath(t *testing.T) {
	repo := &paymentRepoStub{
		payment: &models.Payment{ID: "payment-1", ScreenshotPath: "screenshots/proof.png"},
	}
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	service := NewPaymentService(repo, paymentStudentStub{}, signer, nil, nil, nil)

	token, expiresAt, err := service.ScreenshotURL(context.Background(), "payment-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	recordID, relPath, _, err := signer.Parse(token, false)
	require.NoError(t, err)
	assert.Equal(t, "payment-1", recordID)
	assert.Equal(t, "screenshots/proof.png", relPath)
}

func TestScreenshotURLMissingBlob(t *testing.T) {
	repo := &paymentRepoStub{payment: &models.Payment{ID: "payment-1"}}
	service := NewPaymentService(repo, paymentStudentStub{}, nil, nil, nil, nil)

	_, _, err := service.ScreenshotURL(context.Background(), "payment-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
