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

type messageRepoStub struct {
	inserted []models.Message
	original *models.Message
	groups   map[string][]models.Recipient
}

func (s *messageRepoStub) InsertMany(ctx context.Context, messages []models.Message) error {
	s.inserted = append(s.inserted, messages...)
	return nil
}

func (s *messageRepoStub) FindByID(ctx context.Context, id string) (*models.Message, error) {
	if s.original == nil {
		return nil, sql.ErrNoRows
	}
	return s.original, nil
}

func (s *messageRepoStub) ListInbox(ctx context.Context, recipientID string, page, pageSize int) ([]models.Message, int, error) {
	return s.inserted, len(s.inserted), nil
}

func (s *messageRepoStub) ListSent(ctx context.Context, senderID string, page, pageSize int) ([]models.Message, int, error) {
	return s.inserted, len(s.inserted), nil
}

func (s *messageRepoStub) ListRecipientIDs(ctx context.Context, group string) ([]models.Recipient, error) {
	return s.groups[group], nil
}

func qaoClaims() models.JWTClaims {
	return models.JWTClaims{AccountID: "qao-1", Role: models.RoleQAO}
}

func TestBroadcastToGroupExcludesSender(t *testing.T) {
	repo := &messageRepoStub{groups: map[string][]models.Recipient{
		models.GroupQAOs: {
			{ID: "qao-1", Role: models.RoleQAO},
			{ID: "qao-2", Role: models.RoleQAO},
		},
	}}
	service := NewMessageService(repo, nil, nil)

	delivered, err := service.Broadcast(context.Background(), qaoClaims(), BroadcastRequest{
		Group:   models.GroupQAOs,
		Subject: "Review backlog",
		Body:    "Please clear pending payments today.",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, delivered)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "qao-2", repo.inserted[0].RecipientID)
	assert.Equal(t, "qao-1", repo.inserted[0].SenderID)
}

func TestBroadcastToAllFansOutEveryGroup(t *testing.T) {
	repo := &messageRepoStub{groups: map[string][]models.Recipient{
		models.GroupStudents: {{ID: "student-1", Role: models.RoleStudent}},
		models.GroupTeachers: {{ID: "teacher-1", Role: models.RoleTeacher}},
		models.GroupQAOs:     {{ID: "qao-2", Role: models.RoleQAO}},
	}}
	service := NewMessageService(repo, nil, nil)

	delivered, err := service.Broadcast(context.Background(), qaoClaims(), BroadcastRequest{
		Group:   models.GroupAll,
		Subject: "Term dates",
		Body:    "The new term starts Monday.",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, delivered)
}

func TestBroadcastExplicitRecipientsWinOverGroup(t *testing.T) {
	repo := &messageRepoStub{groups: map[string][]models.Recipient{
		models.GroupStudents: {{ID: "student-1", Role: models.RoleStudent}, {ID: "student-2", Role: models.RoleStudent}},
	}}
	service := NewMessageService(repo, nil, nil)

	delivered, err := service.Broadcast(context.Background(), qaoClaims(), BroadcastRequest{
		Recipients: []BroadcastRecipient{{ID: "teacher-1", Role: "TEACHER"}},
		Group:      models.GroupStudents,
		Subject:    "Interview",
		Body:       "Your interview is scheduled.",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	assert.Equal(t, "teacher-1", repo.inserted[0].RecipientID)
}

func TestBroadcastEmptyAudienceFails(t *testing.T) {
	repo := &messageRepoStub{groups: map[string][]models.Recipient{}}
	service := NewMessageService(repo, nil, nil)

	_, err := service.Broadcast(context.Background(), qaoClaims(), BroadcastRequest{
		Group:   models.GroupTeachers,
		Subject: "Hello",
		Body:    "Anyone there?",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "no recipients", appErr.Message)
	assert.Empty(t, repo.inserted)
}

func TestBroadcastSelfOnlyAudienceFails(t *testing.T) {
	repo := &messageRepoStub{groups: map[string][]models.Recipient{
		models.GroupQAOs: {{ID: "qao-1", Role: models.RoleQAO}},
	}}
	service := NewMessageService(repo, nil, nil)

	_, err := service.Broadcast(context.Background(), qaoClaims(), BroadcastRequest{
		Group:   models.GroupQAOs,
		Subject: "Note to self",
		Body:    "This should not deliver.",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBroadcastUnknownGroup(t *testing.T) {
	service := NewMessageService(&messageRepoStub{}, nil, nil)

	_, err := service.Broadcast(context.Background(), qaoClaims(), BroadcastRequest{
		Group:   "parents",
		Subject: "Hello",
		Body:    "Hi",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSendDirectReplyRequiresParticipation(t *testing.T) {
	replyTo := "message-1"
	repo := &messageRepoStub{original: &models.Message{
		ID:          "message-1",
		SenderID:    "student-1",
		RecipientID: "qao-2",
	}}
	service := NewMessageService(repo, nil, nil)

	_, err := service.SendDirect(context.Background(), qaoClaims(), DirectMessageRequest{
		RecipientID:   "student-1",
		RecipientRole: "STUDENT",
		Subject:       "Re: question",
		Body:          "Answer",
		ReplyTo:       &replyTo,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestSendDirectReplyFromParticipant(t *testing.T) {
	replyTo := "message-1"
	repo := &messageRepoStub{original: &models.Message{
		ID:          "message-1",
		SenderID:    "student-1",
		RecipientID: "qao-1",
	}}
	service := NewMessageService(repo, nil, nil)

	message, err := service.SendDirect(context.Background(), qaoClaims(), DirectMessageRequest{
		RecipientID:   "student-1",
		RecipientRole: "STUDENT",
		Subject:       "Re: question",
		Body:          "Answer",
		ReplyTo:       &replyTo,
	})
	require.NoError(t, err)
	assert.Equal(t, "student-1", message.RecipientID)
	require.NotNil(t, message.ReplyTo)
	assert.Equal(t, "message-1", *message.ReplyTo)
}

func TestSendDirectReplyToMissingMessage(t *testing.T) {
	replyTo := "gone"
	service := NewMessageService(&messageRepoStub{}, nil, nil)

	_, err := service.SendDirect(context.Background(), qaoClaims(), DirectMessageRequest{
		RecipientID:   "student-1",
		RecipientRole: "STUDENT",
		Subject:       "Re: question",
		Body:          "Answer",
		ReplyTo:       &replyTo,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
