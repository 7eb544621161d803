package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/educonnectt/educonnect-api/internal/models"
)

// MessageRepository manages persistence for direct messages and broadcast
// fan-out rows.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// InsertMany writes every delivered row of a broadcast in one transaction.
// Either all recipients receive the message or none do.
func (r *MessageRepository) InsertMany(ctx context.Context, messages []models.Message) error {
	if len(messages) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin message tx: %w", err)
	}

	const query = `INSERT INTO messages (id, sender_id, sender_role, recipient_id, recipient_role, subject, body, reply_to, created_at)
        VALUES (:id, :sender_id, :sender_role, :recipient_id, :recipient_role, :subject, :body, :reply_to, :created_at)`
	now := time.Now().UTC()
	for i := range messages {
		if messages[i].ID == "" {
			messages[i].ID = uuid.NewString()
		}
		if messages[i].CreatedAt.IsZero() {
			messages[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, query, messages[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert message for %s: %w", messages[i].RecipientID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit message tx: %w", err)
	}
	return nil
}

// FindByID fetches a message by ID.
func (r *MessageRepository) FindByID(ctx context.Context, id string) (*models.Message, error) {
	const query = `SELECT * FROM messages WHERE id = $1`
	var message models.Message
	if err := r.db.GetContext(ctx, &message, query, id); err != nil {
		return nil, err
	}
	return &message, nil
}

// ListInbox returns messages delivered to the account, newest first.
func (r *MessageRepository) ListInbox(ctx context.Context, recipientID string, page, pageSize int) ([]models.Message, int, error) {
	_, size, offset := normalizePage(page, pageSize)

	query := fmt.Sprintf(`SELECT * FROM messages WHERE recipient_id = $1 ORDER BY created_at DESC LIMIT %d OFFSET %d`, size, offset)
	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, recipientID); err != nil {
		return nil, 0, fmt.Errorf("list inbox: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM messages WHERE recipient_id = $1`, recipientID); err != nil {
		return nil, 0, fmt.Errorf("count inbox: %w", err)
	}
	return messages, total, nil
}

// ListSent returns messages the account authored, newest first.
func (r *MessageRepository) ListSent(ctx context.Context, senderID string, page, pageSize int) ([]models.Message, int, error) {
	_, size, offset := normalizePage(page, pageSize)

	query := fmt.Sprintf(`SELECT * FROM messages WHERE sender_id = $1 ORDER BY created_at DESC LIMIT %d OFFSET %d`, size, offset)
	var messages []models.Message
	if err := r.db.SelectContext(ctx, &messages, query, senderID); err != nil {
		return nil, 0, fmt.Errorf("list sent: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM messages WHERE sender_id = $1`, senderID); err != nil {
		return nil, 0, fmt.Errorf("count sent: %w", err)
	}
	return messages, total, nil
}

// ListRecipientIDs resolves a broadcast group tag to concrete account ids.
func (r *MessageRepository) ListRecipientIDs(ctx context.Context, group string) ([]models.Recipient, error) {
	var query string
	var role models.Role
	switch group {
	case models.GroupStudents:
		query = `SELECT id FROM students ORDER BY created_at ASC`
		role = models.RoleStudent
	case models.GroupTeachers:
		query = `SELECT id FROM teachers WHERE active = true ORDER BY created_at ASC`
		role = models.RoleTeacher
	case models.GroupQAOs:
		query = `SELECT id FROM staff WHERE role = 'QAO' ORDER BY created_at ASC`
		role = models.RoleQAO
	default:
		return nil, fmt.Errorf("unknown recipient group %q", group)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("resolve group %s: %w", group, err)
	}

	recipients := make([]models.Recipient, 0, len(ids))
	for _, id := range ids {
		recipients = append(recipients, models.Recipient{ID: id, Role: role})
	}
	return recipients, nil
}
