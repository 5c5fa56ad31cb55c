package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"mediwallet/internal/domain"
	"mediwallet/internal/store"
)

// settingsRowID pins the singleton row; the schema rejects any other id.
const settingsRowID = 1

type SettingsRepo struct {
	conn *store.Conn
}

func NewSettingsRepo(conn *store.Conn) *SettingsRepo {
	return &SettingsRepo{conn: conn}
}

var _ domain.SettingsRepository = (*SettingsRepo)(nil)

const settingsSelect = `
	SELECT id, user_id, user_name, user_phone, user_email, user_address, user_date_of_birth,
	       insurance_company, insurance_number, doctor_name, doctor_phone, doctor_email, doctor_address,
	       openai_api_key, ai_provider, ai_api_key, created_at, updated_at
	FROM user_settings
	WHERE id = ?
`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SettingsRepo) Get(ctx context.Context) (*domain.UserSettings, error) {
	db, err := r.conn.DB()
	if err != nil {
		return nil, err
	}
	return getSettings(ctx, db)
}

func (r *SettingsRepo) Save(ctx context.Context, merge domain.SettingsMergeFunc) (*domain.UserSettings, error) {
	var saved *domain.UserSettings
	err := r.conn.Write(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback()

		current, err := getSettings(ctx, tx)
		if err != nil {
			return err
		}
		next, err := merge(current)
		if err != nil {
			return err
		}
		next.ID = settingsRowID

		if current == nil {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO user_settings (
					id, user_id, user_name, user_phone, user_email, user_address, user_date_of_birth,
					insurance_company, insurance_number, doctor_name, doctor_phone, doctor_email, doctor_address,
					openai_api_key, ai_provider, ai_api_key, created_at, updated_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, next.ID, next.UserID, next.UserName, next.UserPhone, next.UserEmail, next.UserAddress, next.UserDateOfBirth,
				next.InsuranceCompany, next.InsuranceNumber, next.DoctorName, next.DoctorPhone, next.DoctorEmail, next.DoctorAddress,
				next.OpenAIAPIKey, next.AIProvider, next.AIAPIKey, domain.FormatTime(next.CreatedAt), domain.FormatTime(next.UpdatedAt))
			if err != nil {
				return fmt.Errorf("insert settings: %w", err)
			}
		} else {
			_, err = tx.ExecContext(ctx, `
				UPDATE user_settings
				SET user_id = ?, user_name = ?, user_phone = ?, user_email = ?, user_address = ?, user_date_of_birth = ?,
				    insurance_company = ?, insurance_number = ?, doctor_name = ?, doctor_phone = ?, doctor_email = ?,
				    doctor_address = ?, openai_api_key = ?, ai_provider = ?, ai_api_key = ?, updated_at = ?
				WHERE id = ?
			`, next.UserID, next.UserName, next.UserPhone, next.UserEmail, next.UserAddress, next.UserDateOfBirth,
				next.InsuranceCompany, next.InsuranceNumber, next.DoctorName, next.DoctorPhone, next.DoctorEmail,
				next.DoctorAddress, next.OpenAIAPIKey, next.AIProvider, next.AIAPIKey, domain.FormatTime(next.UpdatedAt),
				next.ID)
			if err != nil {
				return fmt.Errorf("update settings: %w", err)
			}
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

func getSettings(ctx context.Context, q queryRower) (*domain.UserSettings, error) {
	s := &domain.UserSettings{}
	var createdAt, updatedAt string
	err := q.QueryRowContext(ctx, settingsSelect, settingsRowID).Scan(
		&s.ID,
		&s.UserID,
		&s.UserName,
		&s.UserPhone,
		&s.UserEmail,
		&s.UserAddress,
		&s.UserDateOfBirth,
		&s.InsuranceCompany,
		&s.InsuranceNumber,
		&s.DoctorName,
		&s.DoctorPhone,
		&s.DoctorEmail,
		&s.DoctorAddress,
		&s.OpenAIAPIKey,
		&s.AIProvider,
		&s.AIAPIKey,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return s, nil
}
