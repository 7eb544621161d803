package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/educonnectt/educonnect-api/internal/models"
	appErrors "github.com/educonnectt/educonnect-api/pkg/errors"
)

type messageRepository interface {
	InsertMany(ctx context.Context, messages []models.Message) error
	FindByID(ctx context.Context, id string) (*models.Message, error)
	ListInbox(ctx context.Context, recipientID string, page, pageSize int) ([]models.Message, int, error)
	ListSent(ctx context.Context, senderID string, page, pageSize int) ([]models.Message, int, error)
	ListRecipientIDs(ctx context.Context, group string) ([]models.Recipient, error)
}

// BroadcastRequest addresses a message to explicit recipients or a group tag.
type BroadcastRequest struct {
	Recipients []BroadcastRecipient `json:"recipients"`
	Group      string               `json:"group"`
	Subject    string               `json:"subject" validate:"required"`
	Body       string               `json:"body" validate:"required"`
}

// BroadcastRecipient names one explicit recipient.
type BroadcastRecipient struct {
	ID   string `json:"id" validate:"required"`
	Role string `json:"role" validate:"required"`
}

// DirectMessageRequest sends to a single recipient, optionally as a reply.
type DirectMessageRequest struct {
	RecipientID   string  `json:"recipient_id" validate:"required"`
	RecipientRole string  `json:"recipient_role" validate:"required"`
	Subject       string  `json:"subject" validate:"required"`
	Body          string  `json:"body" validate:"required"`
	ReplyTo       *string `json:"reply_to"`
}

// MessageService handles direct messages and broadcast fan-out. A broadcast
// resolves its audience at send time and writes one row per recipient in a
// single transaction.
type MessageService struct {
	repo      messageRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMessageService constructs a MessageService.
func NewMessageService(repo messageRepository, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MessageService{repo: repo, validator: validate, logger: logger}
}

// Broadcast fans a message out to explicit recipients or a resolved group.
func (s *MessageService) Broadcast(ctx context.Context, sender models.JWTClaims, req BroadcastRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid broadcast payload")
	}

	recipients, err := s.resolveRecipients(ctx, req)
	if err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no recipients")
	}

	messages := make([]models.Message, 0, len(recipients))
	for _, recipient := range recipients {
		if recipient.ID == sender.AccountID {
			continue
		}
		messages = append(messages, models.Message{
			SenderID:      sender.AccountID,
			SenderRole:    sender.Role,
			RecipientID:   recipient.ID,
			RecipientRole: recipient.Role,
			Subject:       req.Subject,
			Body:          req.Body,
		})
	}
	if len(messages) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no recipients")
	}

	if err := s.repo.InsertMany(ctx, messages); err != nil {
		return 0, appErrors.FromError(err)
	}

	s.logger.Info("broadcast delivered",
		zap.String("sender_id", sender.AccountID),
		zap.Int("recipients", len(messages)),
	)
	return len(messages), nil
}

// SendDirect delivers one message, validating any reply back-reference.
func (s *MessageService) SendDirect(ctx context.Context, sender models.JWTClaims, req DirectMessageRequest) (*models.Message, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}

	if req.ReplyTo != nil && *req.ReplyTo != "" {
		original, err := s.repo.FindByID(ctx, *req.ReplyTo)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "replied-to message not found")
			}
			return nil, appErrors.FromError(err)
		}
		if original.RecipientID != sender.AccountID && original.SenderID != sender.AccountID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot reply to a conversation you are not part of")
		}
	}

	message := models.Message{
		SenderID:      sender.AccountID,
		SenderRole:    sender.Role,
		RecipientID:   req.RecipientID,
		RecipientRole: models.Role(req.RecipientRole),
		Subject:       req.Subject,
		Body:          req.Body,
		ReplyTo:       req.ReplyTo,
	}

	messages := []models.Message{message}
	if err := s.repo.InsertMany(ctx, messages); err != nil {
		return nil, appErrors.FromError(err)
	}
	return &messages[0], nil
}

// Inbox lists messages delivered to the account, newest first.
func (s *MessageService) Inbox(ctx context.Context, accountID string, page, pageSize int) ([]models.Message, *models.Pagination, error) {
	messages, total, err := s.repo.ListInbox(ctx, accountID, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return messages, paginationFor(page, pageSize, total), nil
}

// Sent lists messages the account authored, newest first.
func (s *MessageService) Sent(ctx context.Context, accountID string, page, pageSize int) ([]models.Message, *models.Pagination, error) {
	messages, total, err := s.repo.ListSent(ctx, accountID, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.FromError(err)
	}
	return messages, paginationFor(page, pageSize, total), nil
}

func (s *MessageService) resolveRecipients(ctx context.Context, req BroadcastRequest) ([]models.Recipient, error) {
	if len(req.Recipients) > 0 {
		recipients := make([]models.Recipient, 0, len(req.Recipients))
		for _, r := range req.Recipients {
			recipients = append(recipients, models.Recipient{ID: r.ID, Role: models.Role(r.Role)})
		}
		return recipients, nil
	}

	switch req.Group {
	case "":
		return nil, appErrors.Clone(appErrors.ErrValidation, "recipients or group is required")
	case models.GroupAll:
		var all []models.Recipient
		for _, group := range []string{models.GroupStudents, models.GroupTeachers, models.GroupQAOs} {
			batch, err := s.repo.ListRecipientIDs(ctx, group)
			if err != nil {
				return nil, appErrors.FromError(err)
			}
			all = append(all, batch...)
		}
		return all, nil
	case models.GroupStudents, models.GroupTeachers, models.GroupQAOs:
		batch, err := s.repo.ListRecipientIDs(ctx, req.Group)
		if err != nil {
			return nil, appErrors.FromError(err)
		}
		return batch, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown recipient group")
	}
}

func paginationFor(page, pageSize, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
