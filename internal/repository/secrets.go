package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/passvault-io/passvault/internal/models"
)

// PostgresSecretRepository implements stored-password persistence against a
// PostgreSQL database. Every query is scoped to the owning user id, so a
// caller can never read or touch another user's rows through this type.
type PostgresSecretRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSecretRepository creates a new PostgresSecretRepository using the
// provided *sql.DB. db must be a valid connection to a PostgreSQL instance.
func NewPostgresSecretRepository(db *sql.DB) *PostgresSecretRepository {
	return &PostgresSecretRepository{DB: db}
}

// GetAllByUser fetches all secrets owned by the given user.
func (r *PostgresSecretRepository) GetAllByUser(ctx context.Context, userID int64) ([]models.Secret, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, login, password, name, url, notes, created_at, updated_at
		  FROM secrets WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("GetAllByUser: %w", err)
	}
	defer rows.Close()

	var secrets []models.Secret
	for rows.Next() {
		var s models.Secret
		if err := rows.Scan(&s.ID, &s.UserID, &s.Login, &s.Password, &s.Name, &s.URL, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		secrets = append(secrets, s)
	}
	return secrets, rows.Err()
}

// GetByID retrieves a single secret by id for the given owner. A secret
// belonging to another user is reported as ErrNotFound.
func (r *PostgresSecretRepository) GetByID(ctx context.Context, userID, id int64) (*models.Secret, error) {
	var s models.Secret
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, login, password, name, url, notes, created_at, updated_at
		  FROM secrets WHERE user_id = $1 AND id = $2
	`, userID, id).Scan(&s.ID, &s.UserID, &s.Login, &s.Password, &s.Name, &s.URL, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID secret: %w", err)
	}
	return &s, nil
}

// Add inserts a new secret, stamping both timestamps and filling in the
// storage-assigned id.
func (r *PostgresSecretRepository) Add(ctx context.Context, s *models.Secret) error {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO secrets (user_id, login, password, name, url, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id
	`, s.UserID, s.Login, s.Password, s.Name, s.URL, s.Notes, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("add secret: %w", err)
	}
	return nil
}

// Update rewrites an existing secret's fields and bumps updated_at. The
// owning user id never changes.
func (r *PostgresSecretRepository) Update(ctx context.Context, s *models.Secret) error {
	s.UpdatedAt = time.Now().UTC()

	res, err := r.DB.ExecContext(ctx, `
		UPDATE secrets SET login = $1, password = $2, name = $3, url = $4, notes = $5, updated_at = $6
		 WHERE user_id = $7 AND id = $8
	`, s.Login, s.Password, s.Name, s.URL, s.Notes, s.UpdatedAt, s.UserID, s.ID)
	if err != nil {
		return fmt.Errorf("update secret: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a secret owned by the given user.
func (r *PostgresSecretRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM secrets WHERE user_id = $1 AND id = $2
	`, userID, id)
	if err != nil {
		return fmt.Errorf("delete secret: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}
