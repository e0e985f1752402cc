package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"commhub/internal/models"
	"commhub/internal/repositories/interfaces"
	"commhub/internal/utils"
	"commhub/pkg/database"
	"commhub/pkg/logger"
)

// ErrEmptyMessage rejects whitespace-only chat text before any write.
var ErrEmptyMessage = errors.New("message text is empty")

// ErrMessageTooLong bounds a single chat entry.
var ErrMessageTooLong = errors.New("message text too long")

type SendMessageRequest struct {
	Text string `json:"text"`
}

// MessageService runs the chat pipeline. Messages render oldest first, which
// is the store's natural insertion order.
type MessageService interface {
	Send(ctx context.Context, req *SendMessageRequest) (*models.Message, []*models.Message, error)
	List(ctx context.Context) ([]*models.Message, error)
}

type messageService struct {
	messageRepo interfaces.MessageRepository
	identity    IdentityService
	logger      *logger.Logger
}

func NewMessageService(
	messageRepo interfaces.MessageRepository,
	identity IdentityService,
	log *logger.Logger,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		identity:    identity,
		logger:      log,
	}
}

func (s *messageService) Send(ctx context.Context, req *SendMessageRequest) (*models.Message, []*models.Message, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, nil, ErrEmptyMessage
	}
	if len(text) > utils.MaxMessageLength {
		return nil, nil, ErrMessageTooLong
	}

	username, err := s.identity.Username(ctx)
	if err != nil {
		return nil, nil, err
	}

	message := &models.Message{
		Text:      text,
		Username:  username,
		Timestamp: time.Now(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, nil, fmt.Errorf("failed to persist message: %w", err)
	}

	s.logger.WithContext(ctx).LogRecordEvent(database.CollectionMessages, message.ID, "message_sent", map[string]interface{}{
		"username": message.Username,
	})

	messages, err := s.messageRepo.GetAll(ctx)
	if err != nil {
		return message, nil, fmt.Errorf("failed to reload messages: %w", err)
	}

	return message, messages, nil
}

func (s *messageService) List(ctx context.Context) ([]*models.Message, error) {
	return s.messageRepo.GetAll(ctx)
}
