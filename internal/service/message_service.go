package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mediwallet/internal/domain"
)

// MaxMessageLength is the longest accepted message, in runes.
const MaxMessageLength = 5000

type MessageService struct {
	messages domain.MessageRepository
	logger   *slog.Logger

	Now func() time.Time
}

func NewMessageService(messages domain.MessageRepository, logger *slog.Logger) *MessageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MessageService{messages: messages, logger: logger, Now: time.Now}
}

func (s *MessageService) Send(ctx context.Context, senderID, receiverID, text string) (*domain.ChatMessage, error) {
	senderID = strings.TrimSpace(senderID)
	receiverID = strings.TrimSpace(receiverID)
	text = strings.TrimSpace(text)

	switch {
	case senderID == "" || receiverID == "":
		return nil, fmt.Errorf("%w: sender and receiver are required", domain.ErrValidation)
	case senderID == receiverID:
		return nil, fmt.Errorf("%w: cannot send a message to yourself", domain.ErrValidation)
	case text == "":
		return nil, fmt.Errorf("%w: message cannot be empty", domain.ErrValidation)
	case len([]rune(text)) > MaxMessageLength:
		return nil, fmt.Errorf("%w: message exceeds %d characters", domain.ErrValidation, MaxMessageLength)
	}

	msg := &domain.ChatMessage{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Message:    text,
		CreatedAt:  s.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	s.logger.Debug("message sent", "id", msg.ID, "from", senderID, "to", receiverID)
	return msg, nil
}

// Messages returns the exchange between a and b in either direction,
// oldest first.
func (s *MessageService) Messages(ctx context.Context, a, b string) ([]*domain.ChatMessage, error) {
	msgs, err := s.messages.ListBetween(ctx, strings.TrimSpace(a), strings.TrimSpace(b))
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", err)
	}
	return msgs, nil
}

// MarkAsRead marks every unread message from -> to as read.
func (s *MessageService) MarkAsRead(ctx context.Context, from, to string) error {
	n, err := s.messages.MarkAsRead(ctx, strings.TrimSpace(from), strings.TrimSpace(to))
	if err != nil {
		return fmt.Errorf("mark as read: %w", err)
	}
	if n > 0 {
		s.logger.Debug("messages marked read", "from", from, "to", to, "count", n)
	}
	return nil
}
