package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/dbx"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Settings, error) {
	query := `
		SELECT theme, notifications, language, units
		FROM settings
		WHERE user_id = $1
	`
	s := &models.Settings{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.Theme, &s.Notifications, &s.Language, &s.Units); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, userID string, s *models.Settings) error {
	query := `
		INSERT INTO settings (user_id, theme, notifications, language, units)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id)
		DO UPDATE SET
			theme = EXCLUDED.theme,
			notifications = EXCLUDED.notifications,
			language = EXCLUDED.language,
			units = EXCLUDED.units
	`
	if _, err := r.db.ExecContext(ctx, query, userID, s.Theme, s.Notifications, s.Language, s.Units); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
