package sqlite

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
		res, err := db.ExecContext(ctx, `
			INSERT INTO chat_messages (sender_id, receiver_id, message, created_at, is_read)
			VALUES (?, ?, ?, ?, ?)
		`, m.SenderID, m.ReceiverID, m.Message, domain.FormatTime(m.CreatedAt), m.Read)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		m.ID = id
		return nil
	})
}

// ListBetween returns the messages exchanged by userA and userB in either
// direction, oldest first.
func (r *MessageRepo) ListBetween(ctx context.Context, userA, userB string) ([]*domain.ChatMessage, error) {
	return r.list(ctx, `
		SELECT id, sender_id, receiver_id, message, created_at, is_read
		FROM chat_messages
		WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		ORDER BY created_at ASC, id ASC
	`, userA, userB, userB, userA)
}

// ListForUser returns every message userID sent or received, oldest first.
func (r *MessageRepo) ListForUser(ctx context.Context, userID string) ([]*domain.ChatMessage, error) {
	return r.list(ctx, `
		SELECT id, sender_id, receiver_id, message, created_at, is_read
		FROM chat_messages
		WHERE sender_id = ? OR receiver_id = ?
		ORDER BY created_at ASC, id ASC
	`, userID, userID)
}

func (r *MessageRepo) MarkAsRead(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	var n int64
	err := r.conn.Write(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `
			UPDATE chat_messages SET is_read = 1
			WHERE sender_id = ? AND receiver_id = ? AND is_read = 0
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
		var createdAt string
		if err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.ReceiverID,
			&m.Message,
			&createdAt,
			&m.Read,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if m.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
