package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"mediwallet/internal/domain"
	"mediwallet/internal/store"
)

type ShareRepo struct {
	conn *store.Conn
}

func NewShareRepo(conn *store.Conn) *ShareRepo {
	return &ShareRepo{conn: conn}
}

var _ domain.ShareRepository = (*ShareRepo)(nil)

func (r *ShareRepo) Create(ctx context.Context, s *domain.TestResultShare) error {
	return r.conn.Write(ctx, func(db *sql.DB) error {
		err := db.QueryRowContext(ctx, `
			INSERT INTO test_result_shares (test_result_id, recipient_name, recipient_email, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, s.TestResultID, s.RecipientName, s.RecipientEmail, s.ExpiresAt.UTC(), s.CreatedAt.UTC()).Scan(&s.ID)
		if err != nil {
			return fmt.Errorf("insert share: %w", err)
		}
		return nil
	})
}

func (r *ShareRepo) GetByID(ctx context.Context, id int64) (*domain.TestResultShare, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}
	s, err := scanShare(db.QueryRowContext(ctx, `
		SELECT id, test_result_id, recipient_name, recipient_email, expires_at, created_at
		FROM test_result_shares WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *ShareRepo) ListForTestResult(ctx context.Context, testResultID int64) ([]*domain.TestResultShare, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, test_result_id, recipient_name, recipient_email, expires_at, created_at
		FROM test_result_shares
		WHERE test_result_id = $1
		ORDER BY created_at DESC, id DESC
	`, testResultID)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	var res []*domain.TestResultShare
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func scanShare(rs rowScanner) (*domain.TestResultShare, error) {
	s := &domain.TestResultShare{}
	err := rs.Scan(&s.ID, &s.TestResultID, &s.RecipientName, &s.RecipientEmail, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan share: %w", err)
	}
	return s, nil
}
