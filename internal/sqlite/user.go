package sqlite

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/powermason/internal/domain/user"
	"github.com/rpggio/powermason/internal/repository"
)

// UserRepository stores users and their API keys.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, username string, role user.Role, phone *string) (*user.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, repository.ErrInvalidInput
	}

	u := &user.User{
		ID:          uuid.NewString(),
		Username:    username,
		Role:        role,
		PhoneNumber: phone,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, role, phone_number, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Role, u.PhoneNumber, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// Delete removes a user. Projects created by the user keep a NULL creator.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CreateAPIKey issues a new bearer token for the user. Only its hash is stored.
func (r *UserRepository) CreateAPIKey(ctx context.Context, userID, description string) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	token := "pm_" + hex.EncodeToString(buf)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, user_id, created_at, description) VALUES (?, ?, ?, ?)`,
		HashToken(token), userID, time.Now().UTC(), description)
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("failed to create api key: %w", err)
	}
	return token, nil
}

// ResolveUser returns the user ID owning token.
func (r *UserRepository) ResolveUser(ctx context.Context, token string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM api_keys WHERE key_hash = ?`, HashToken(token)).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), HashToken(token)); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return userID, nil
}

// HashToken returns the stored form of an API token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
