package babies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/dmitrijs2005/babysteps/internal/dbx"
	"github.com/dmitrijs2005/babysteps/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts baby. A taken id gives common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, baby *models.Baby) error {
	query := `
		INSERT INTO babies (id, user_id, name, birth_date, gender, birth_weight, birth_length, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		baby.ID, baby.UserID, baby.Name, baby.BirthDate, baby.Gender, baby.BirthWeight, baby.BirthLength, baby.CreatedAt, baby.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Baby, error) {
	query := `
		SELECT id, user_id, name, birth_date, gender, birth_weight, birth_length, created_at, updated_at
		FROM babies
		WHERE id = $1
	`
	var b models.Baby
	if err := scan(r.db.QueryRowContext(ctx, query, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &b, nil
}

// ListByUser returns the babies of userID, oldest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Baby, error) {
	query := `
		SELECT id, user_id, name, birth_date, gender, birth_weight, birth_length, created_at, updated_at
		FROM babies
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Baby{}
	for rows.Next() {
		var b models.Baby
		if err := scan(rows, &b); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, baby *models.Baby) error {
	query := `
		UPDATE babies
		SET name = $2, birth_date = $3, gender = $4, birth_weight = $5, birth_length = $6, updated_at = $7
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		baby.ID, baby.Name, baby.BirthDate, baby.Gender, baby.BirthWeight, baby.BirthLength, baby.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM babies
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RequireRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner, b *models.Baby) error {
	return s.Scan(&b.ID, &b.UserID, &b.Name, &b.BirthDate, &b.Gender,
		&b.BirthWeight, &b.BirthLength, &b.CreatedAt, &b.UpdatedAt)
}
