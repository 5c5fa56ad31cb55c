package sqlite

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

const testResultColumns = `id, created_at, test_type, image_path, results, notes, analyzed_data`

func (r *TestResultRepo) Create(ctx context.Context, tr *domain.TestResult) error {
	return r.conn.Write(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `
			INSERT INTO test_results (created_at, test_type, image_path, results, notes, analyzed_data)
			VALUES (?, ?, ?, ?, ?, ?)
		`, domain.FormatTime(tr.CreatedAt), tr.TestType, tr.ImagePath, tr.Results, tr.Notes, tr.AnalyzedData)
		if err != nil {
			return fmt.Errorf("insert test result: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		tr.ID = id
		return nil
	})
}

func (r *TestResultRepo) List(ctx context.Context) ([]*domain.TestResult, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `
		SELECT `+testResultColumns+`
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
		SELECT `+testResultColumns+`
		FROM test_results
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tr, nil
}

func (r *TestResultRepo) Update(ctx context.Context, id int64, u domain.TestResultUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	var (
		fields []string
		args   []any
	)
	if u.TestType != nil {
		fields = append(fields, "test_type = ?")
		args = append(args, *u.TestType)
	}
	if u.Results != nil {
		fields = append(fields, "results = ?")
		args = append(args, *u.Results)
	}
	if u.Notes != nil {
		fields = append(fields, "notes = ?")
		args = append(args, *u.Notes)
	}
	if u.AnalyzedData != nil {
		fields = append(fields, "analyzed_data = ?")
		args = append(args, *u.AnalyzedData)
	}
	args = append(args, id)

	return r.conn.Write(ctx, func(db *sql.DB) error {
		query := `UPDATE test_results SET ` + strings.Join(fields, ", ") + ` WHERE id = ?`
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update test result: %w", err)
		}
		return nil
	})
}

func (r *TestResultRepo) Delete(ctx context.Context, id int64) error {
	return r.conn.Write(ctx, func(db *sql.DB) error {
		if _, err := db.ExecContext(ctx, `DELETE FROM test_results WHERE id = ?`, id); err != nil {
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
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM test_results`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count test results: %w", err)
	}
	return count, nil
}

func scanTestResult(s rowScanner) (*domain.TestResult, error) {
	tr := &domain.TestResult{}
	var createdAt string
	err := s.Scan(
		&tr.ID,
		&createdAt,
		&tr.TestType,
		&tr.ImagePath,
		&tr.Results,
		&tr.Notes,
		&tr.AnalyzedData,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan test result: %w", err)
	}
	if tr.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return tr, nil
}
