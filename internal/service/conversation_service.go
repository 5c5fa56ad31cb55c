package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"mediwallet/internal/domain"
)

type conversationAcc struct {
	conv   *domain.ChatConversation
	lastID int64
}

// Conversations derives one entry per counterpart of userID from the stored
// messages, most recent conversation first.
func (s *MessageService) Conversations(ctx context.Context, userID string) ([]*domain.ChatConversation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user is required", domain.ErrValidation)
	}
	msgs, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return buildConversations(userID, msgs), nil
}

func buildConversations(userID string, msgs []*domain.ChatMessage) []*domain.ChatConversation {
	byPeer := map[string]*conversationAcc{}
	var order []*conversationAcc

	for _, m := range msgs {
		peer := m.Counterpart(userID)
		if peer == userID {
			continue
		}
		acc, ok := byPeer[peer]
		if !ok {
			acc = &conversationAcc{conv: &domain.ChatConversation{UserID: peer, UserName: peer}}
			byPeer[peer] = acc
			order = append(order, acc)
		}
		if isLater(m, acc) {
			acc.conv.LastMessage = m.Message
			acc.conv.LastMessageTime = m.CreatedAt
			acc.lastID = m.ID
		}
		if m.ReceiverID == userID && !m.Read {
			acc.conv.UnreadCount++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if !a.conv.LastMessageTime.Equal(b.conv.LastMessageTime) {
			return a.conv.LastMessageTime.After(b.conv.LastMessageTime)
		}
		return a.lastID > b.lastID
	})

	return lo.Map(order, func(acc *conversationAcc, _ int) *domain.ChatConversation {
		return acc.conv
	})
}

// isLater reports whether m is newer than the current last message of acc.
// Equal timestamps fall back to the message ID.
func isLater(m *domain.ChatMessage, acc *conversationAcc) bool {
	if acc.lastID == 0 {
		return true
	}
	last := acc.conv.LastMessageTime
	if !m.CreatedAt.Equal(last) {
		return m.CreatedAt.After(last)
	}
	return m.ID > acc.lastID
}
