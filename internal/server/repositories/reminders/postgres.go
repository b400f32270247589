package reminders

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

const columns = `id, baby_id, user_id, title, reminder_type, interval_hours, next_due, is_active, created_at`

func (r *PostgresRepository) Create(ctx context.Context, rem *models.Reminder) error {
	query := `
		INSERT INTO reminders (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		rem.ID, rem.BabyID, rem.UserID, rem.Title, rem.ReminderType, rem.IntervalHours, rem.NextDue, rem.IsActive, rem.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Reminder, error) {
	query := `SELECT ` + columns + ` FROM reminders WHERE id = $1`

	var rem models.Reminder
	if err := scan(r.db.QueryRowContext(ctx, query, id), &rem); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &rem, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context, userID, babyID string) ([]models.Reminder, error) {
	query := `SELECT ` + columns + ` FROM reminders WHERE user_id = $1 AND is_active`
	args := []any{userID}
	if babyID != "" {
		query += ` AND baby_id = $2`
		args = append(args, babyID)
	}
	query += ` ORDER BY next_due`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Reminder{}
	for rows.Next() {
		var rem models.Reminder
		if err := scan(rows, &rem); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, rem *models.Reminder) error {
	query := `
		UPDATE reminders
		SET title = $2, reminder_type = $3, interval_hours = $4, next_due = $5, is_active = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		rem.ID, rem.Title, rem.ReminderType, rem.IntervalHours, rem.NextDue, rem.IsActive)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireRow(res)
}

func (r *PostgresRepository) DeleteByBaby(ctx context.Context, babyID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE baby_id = $1`, babyID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner, rem *models.Reminder) error {
	return s.Scan(&rem.ID, &rem.BabyID, &rem.UserID, &rem.Title, &rem.ReminderType,
		&rem.IntervalHours, &rem.NextDue, &rem.IsActive, &rem.CreatedAt)
}
