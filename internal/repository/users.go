// Package repository provides PostgreSQL persistence for users and stored
// passwords. Repositories only ever see encrypted field envelopes; all
// encryption happens above this layer.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/passvault-io/passvault/internal/models"
)

// PostgresUserRepository implements user persistence using a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given
// database connection. db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// GetAll returns every user record. Field values are the stored envelopes;
// credential verification iterates over them with a candidate cipher since
// no plaintext login index exists.
func (r *PostgresUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, login, password, name, surname FROM users
	`)
	if err != nil {
		return nil, fmt.Errorf("GetAll users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Login, &u.Password, &u.Name, &u.Surname); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByID retrieves a single user by id.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, login, password, name, surname FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Login, &u.Password, &u.Name, &u.Surname)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByID user: %w", err)
	}
	return &u, nil
}

// Add inserts a new user and fills in the storage-assigned id.
func (r *PostgresUserRepository) Add(ctx context.Context, u *models.User) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (login, password, name, surname)
		VALUES ($1, $2, $3, $4) RETURNING id
	`, u.Login, u.Password, u.Name, u.Surname).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

// Update rewrites the stored field envelopes of an existing user.
func (r *PostgresUserRepository) Update(ctx context.Context, u *models.User) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET login = $1, password = $2, name = $3, surname = $4 WHERE id = $5
	`, u.Login, u.Password, u.Name, u.Surname, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Remove deletes a user; their secrets go with them via ON DELETE CASCADE.
func (r *PostgresUserRepository) Remove(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("remove user: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}
