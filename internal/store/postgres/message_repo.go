package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"mediwallet/internal/domain"
	"mediwallet/internal/store"
)

type MessageRepo struct {
	conn *store.Conn
}

func NewMessageRepo(conn *store.Conn) *MessageRepo {
	return &MessageRepo{conn: conn}
}

var _ domain.MessageRepository = (*MessageRepo)(nil)

func (r *MessageRepo) Create(ctx context.Context, m *domain.ChatMessage) error {
	return r.conn.Write(ctx, func(db *sql.DB) error {
		err := db.QueryRowContext(ctx, `
			INSERT INTO chat_messages (sender_id, receiver_id, message, created_at, is_read)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, m.SenderID, m.ReceiverID, m.Message, m.CreatedAt.UTC(), m.Read).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		return nil
	})
}

func (r *MessageRepo) ListBetween(ctx context.Context, userA, userB string) ([]*domain.ChatMessage, error) {
	return r.list(ctx, `
		SELECT id, sender_id, receiver_id, message, created_at, is_read
		FROM chat_messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC, id ASC
	`, userA, userB)
}

func (r *MessageRepo) ListForUser(ctx context.Context, userID string) ([]*domain.ChatMessage, error) {
	return r.list(ctx, `
		SELECT id, sender_id, receiver_id, message, created_at, is_read
		FROM chat_messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at ASC, id ASC
	`, userID)
}

func (r *MessageRepo) MarkAsRead(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	var n int64
	err := r.conn.Write(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `
			UPDATE chat_messages SET is_read = TRUE
			WHERE sender_id = $1 AND receiver_id = $2 AND is_read = FALSE
		`, fromUserID, toUserID)
		if err != nil {
			return fmt.Errorf("mark as read: %w", err)
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

func (r *MessageRepo) list(ctx context.Context, query string, args ...any) ([]*domain.ChatMessage, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var res []*domain.ChatMessage
	for rows.Next() {
		m := &domain.ChatMessage{}
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Message, &m.CreatedAt, &m.Read); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
