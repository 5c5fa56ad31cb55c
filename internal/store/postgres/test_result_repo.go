package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"mediwallet/internal/domain"
	"mediwallet/internal/store"
)

type TestResultRepo struct {
	conn *store.Conn
}

func NewTestResultRepo(conn *store.Conn) *TestResultRepo {
	return &TestResultRepo{conn: conn}
}

var _ domain.TestResultRepository = (*TestResultRepo)(nil)

func (r *TestResultRepo) Create(ctx context.Context, tr *domain.TestResult) error {
	return r.conn.Write(ctx, func(db *sql.DB) error {
		err := db.QueryRowContext(ctx, `
			INSERT INTO test_results (created_at, test_type, image_path, results, notes, analyzed_data)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, tr.CreatedAt.UTC(), tr.TestType, tr.ImagePath, tr.Results, tr.Notes, tr.AnalyzedData).Scan(&tr.ID)
		if err != nil {
			return fmt.Errorf("insert test result: %w", err)
		}
		return nil
	})
}

func (r *TestResultRepo) List(ctx context.Context) ([]*domain.TestResult, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT id, created_at, test_type, image_path, results, notes, analyzed_data
		FROM test_results
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list test results: %w", err)
	}
	defer rows.Close()

	var res []*domain.TestResult
	for rows.Next() {
		tr, err := scanTestResult(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, tr)
	}
	return res, rows.Err()
}

func (r *TestResultRepo) GetByID(ctx context.Context, id int64) (*domain.TestResult, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}
	tr, err := scanTestResult(db.QueryRowContext(ctx, `
		SELECT id, created_at, test_type, image_path, results, notes, analyzed_data
		FROM test_results WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return tr, err
}

func (r *TestResultRepo) Update(ctx context.Context, id int64, u domain.TestResultUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	var (
		fields []string
		args   []any
	)
	set := func(col string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		fields = append(fields, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	set("test_type", u.TestType)
	set("results", u.Results)
	set("notes", u.Notes)
	set("analyzed_data", u.AnalyzedData)
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE test_results SET %s WHERE id = $%d`, strings.Join(fields, ", "), len(args))

	return r.conn.Write(ctx, func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update test result: %w", err)
		}
		return nil
	})
}

func (r *TestResultRepo) Delete(ctx context.Context, id int64) error {
	return r.conn.Write(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx, `DELETE FROM test_results WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete test result: %w", err)
		}
		return nil
	})
}

func (r *TestResultRepo) Count(ctx context.Context) (int, error) {
	db, err := r.conn.DB()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM test_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count test results: %w", err)
	}
	return n, nil
}

func scanTestResult(s rowScanner) (*domain.TestResult, error) {
	tr := &domain.TestResult{}
	err := s.Scan(&tr.ID, &tr.CreatedAt, &tr.TestType, &tr.ImagePath, &tr.Results, &tr.Notes, &tr.AnalyzedData)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan test result: %w", err)
	}
	return tr, nil
}
