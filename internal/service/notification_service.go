package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/educonnectt/educonnect-api/pkg/jobs"
	"github.com/educonnectt/educonnect-api/pkg/mail"
)

const (
	jobTypeStudentWelcome   = "student_welcome"
	jobTypeTeacherPending   = "teacher_pending"
	jobTypePaymentConfirmed = "payment_confirmed"
)

// NotificationService dispatches transactional emails through the background
// queue. Every method is best-effort: a full queue or failing provider is
// logged and never propagated to the calling workflow.
type NotificationService struct {
	queue  *jobs.Queue
	mailer mail.Mailer
	logger *zap.Logger
}

// NewNotificationService builds the service and its backing queue.
func NewNotificationService(mailer mail.Mailer, cfg jobs.QueueConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{mailer: mailer, logger: logger}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("notifications", s.handle, cfg)
	return s
}

// Start begins queue consumption.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// SendStudentWelcome enqueues the welcome email for a newly registered student.
func (s *NotificationService) SendStudentWelcome(name, email string) {
	s.enqueue(jobTypeStudentWelcome, mail.Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Welcome to EduConnectt!",
		PlainBody: fmt.Sprintf(
			"Hi %s,\n\nWelcome to EduConnectt! Your registration is complete and your subjects are ready in your dashboard.\n\nPlease submit your payment so we can confirm your enrollment.\n\nThe EduConnectt Team",
			name),
	})
}

// SendTeacherPending enqueues the application-received email for a tutor.
func (s *NotificationService) SendTeacherPending(name, email string) {
	s.enqueue(jobTypeTeacherPending, mail.Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Your EduConnectt application",
		PlainBody: fmt.Sprintf(
			"Hi %s,\n\nThanks for applying to teach with EduConnectt. Our team will review your application and reach out to schedule an interview.\n\nThe EduConnectt Team",
			name),
	})
}

// SendPaymentConfirmed enqueues the payment confirmation email.
func (s *NotificationService) SendPaymentConfirmed(name, email string, amount float64) {
	s.enqueue(jobTypePaymentConfirmed, mail.Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Payment confirmed",
		PlainBody: fmt.Sprintf(
			"Hi %s,\n\nYour payment of %.2f has been confirmed. Your classes are now fully active.\n\nThe EduConnectt Team",
			name, amount),
	})
}

func (s *NotificationService) enqueue(jobType string, msg mail.Message) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobType,
		Payload: msg,
	})
	if err != nil {
		s.logger.Warn("failed to enqueue notification",
			zap.String("type", jobType),
			zap.String("to", msg.ToEmail),
			zap.Error(err),
		)
	}
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(mail.Message)
	if !ok {
		s.logger.Error("notification job carries unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	if s.mailer == nil {
		return nil
	}
	return s.mailer.Send(ctx, msg)
}
