package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"mediwallet/internal/domain"
	"mediwallet/internal/store"
)

type SettingsRepo struct {
	conn *store.Conn
}

func NewSettingsRepo(conn *store.Conn) *SettingsRepo {
	return &SettingsRepo{conn: conn}
}

var _ domain.SettingsRepository = (*SettingsRepo)(nil)

func (r *SettingsRepo) Get(ctx context.Context) (*domain.UserSettings, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}
	return getSettings(ctx, db, "")
}

// Save locks the singleton row for the duration of the merge.
func (r *SettingsRepo) Save(ctx context.Context, merge domain.SettingsMergeFunc) (*domain.UserSettings, error) {
	var saved *domain.UserSettings
	err := r.conn.Write(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback()

		current, err := getSettings(ctx, tx, " FOR UPDATE")
		if err != nil {
			return err
		}
		next, err := merge(current)
		if err != nil {
			return err
		}
		next.ID = 1

		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_settings (
				id, user_id, user_name, user_phone, user_email, user_address, user_date_of_birth,
				insurance_company, insurance_number, doctor_name, doctor_phone, doctor_email, doctor_address,
				openai_api_key, ai_provider, ai_api_key, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			ON CONFLICT (id) DO UPDATE SET
				user_id = EXCLUDED.user_id,
				user_name = EXCLUDED.user_name,
				user_phone = EXCLUDED.user_phone,
				user_email = EXCLUDED.user_email,
				user_address = EXCLUDED.user_address,
				user_date_of_birth = EXCLUDED.user_date_of_birth,
				insurance_company = EXCLUDED.insurance_company,
				insurance_number = EXCLUDED.insurance_number,
				doctor_name = EXCLUDED.doctor_name,
				doctor_phone = EXCLUDED.doctor_phone,
				doctor_email = EXCLUDED.doctor_email,
				doctor_address = EXCLUDED.doctor_address,
				openai_api_key = EXCLUDED.openai_api_key,
				ai_provider = EXCLUDED.ai_provider,
				ai_api_key = EXCLUDED.ai_api_key,
				updated_at = EXCLUDED.updated_at
		`, next.ID, next.UserID, next.UserName, next.UserPhone, next.UserEmail, next.UserAddress, next.UserDateOfBirth,
			next.InsuranceCompany, next.InsuranceNumber, next.DoctorName, next.DoctorPhone, next.DoctorEmail, next.DoctorAddress,
			next.OpenAIAPIKey, next.AIProvider, next.AIAPIKey, next.CreatedAt.UTC(), next.UpdatedAt.UTC())
		if err != nil {
			return fmt.Errorf("upsert settings: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		saved = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func getSettings(ctx context.Context, q queryRower, suffix string) (*domain.UserSettings, error) {
	s := &domain.UserSettings{}
	err := q.QueryRowContext(ctx, `
		SELECT id, user_id, user_name, user_phone, user_email, user_address, user_date_of_birth,
		       insurance_company, insurance_number, doctor_name, doctor_phone, doctor_email, doctor_address,
		       openai_api_key, ai_provider, ai_api_key, created_at, updated_at
		FROM user_settings WHERE id = 1`+suffix).Scan(
		&s.ID, &s.UserID, &s.UserName, &s.UserPhone, &s.UserEmail, &s.UserAddress, &s.UserDateOfBirth,
		&s.InsuranceCompany, &s.InsuranceNumber, &s.DoctorName, &s.DoctorPhone, &s.DoctorEmail, &s.DoctorAddress,
		&s.OpenAIAPIKey, &s.AIProvider, &s.AIAPIKey, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}
