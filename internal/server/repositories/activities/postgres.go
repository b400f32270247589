package activities

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

const columns = `id, baby_id, user_id, type, amount, duration, notes, started_at, ended_at, timestamp, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, a *models.Activity) error {
	query := `
		INSERT INTO activities (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.BabyID, a.UserID, a.Type, a.Amount, a.Duration, a.Notes, a.StartedAt, a.EndedAt, a.Timestamp, a.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Activity, error) {
	query := `SELECT ` + columns + ` FROM activities WHERE id = $1`

	var a models.Activity
	if err := scan(r.db.QueryRowContext(ctx, query, id), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &a, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, f models.ActivityFilter) ([]models.Activity, error) {
	query := `SELECT ` + columns + ` FROM activities WHERE user_id = $1`
	args := []any{userID}
	if f.BabyID != "" {
		query += ` AND baby_id = $2`
		args = append(args, f.BabyID)
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := scan(rows, &a); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, a *models.Activity) error {
	query := `
		UPDATE activities
		SET type = $2, amount = $3, duration = $4, notes = $5, started_at = $6, ended_at = $7, timestamp = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		a.ID, a.Type, a.Amount, a.Duration, a.Notes, a.StartedAt, a.EndedAt, a.Timestamp, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireRow(res)
}

// DeleteByBaby removes every activity of babyID. Zero rows is fine.
func (r *PostgresRepository) DeleteByBaby(ctx context.Context, babyID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE baby_id = $1`, babyID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner, a *models.Activity) error {
	return s.Scan(&a.ID, &a.BabyID, &a.UserID, &a.Type, &a.Amount, &a.Duration, &a.Notes,
		&a.StartedAt, &a.EndedAt, &a.Timestamp, &a.UpdatedAt)
}
