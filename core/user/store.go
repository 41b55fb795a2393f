package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Store struct {
	db sqlx.ExtContext
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, usr User) error {
	const q = `
	INSERT INTO users
		(user_id, username, email, password_hash, first_name, last_name, phone, role, created_at, updated_at)
	VALUES
		(:user_id, :username, :email, :password_hash, :first_name, :last_name, :phone, :role, :created_at, :updated_at)`

	if _, err := sqlx.NamedExecContext(ctx, s.db, q, usr); err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

func (s *Store) QueryByID(ctx context.Context, userID string) (User, error) {
	const q = `SELECT * FROM users WHERE user_id = $1`

	var usr User
	if err := sqlx.GetContext(ctx, s.db, &usr, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("selecting user[%s]: %w", userID, err)
	}

	return usr, nil
}

func (s *Store) QueryByEmail(ctx context.Context, email string) (User, error) {
	const q = `SELECT * FROM users WHERE email = $1`

	var usr User
	if err := sqlx.GetContext(ctx, s.db, &usr, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("selecting user by email: %w", err)
	}

	return usr, nil
}

func (s *Store) QueryByUsername(ctx context.Context, username string) (User, error) {
	const q = `SELECT * FROM users WHERE username = $1`

	var usr User
	if err := sqlx.GetContext(ctx, s.db, &usr, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("selecting user by username: %w", err)
	}

	return usr, nil
}
