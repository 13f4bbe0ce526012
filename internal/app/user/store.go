package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no user matches the query.
var ErrNotFound = errors.New("user not found")

const userColumns = "id, full_name, email, password_hash, profile_pic, created_at"

// Store provides access to the users table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.ProfilePic, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// Create inserts a new account and returns the stored record.
func (s *Store) Create(ctx context.Context, fullName, email, passwordHash string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, full_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		uuid.New(), fullName, email, passwordHash,
	)

	return scanUser(row)
}

// GetByEmail fetches the account registered under email.
func (s *Store) GetByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	return scanUser(row)
}

// GetByID fetches the account with the given ID.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	return scanUser(row)
}

// ListExcept returns every account except the one identified by selfID,
// for the contact roster. Ordered by full name for a stable sidebar.
func (s *Store) ListExcept(ctx context.Context, selfID uuid.UUID) ([]User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE id <> $1 ORDER BY full_name`, selfID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// UpdateProfilePic stores the new profile image URL and returns the updated record.
func (s *Store) UpdateProfilePic(ctx context.Context, id uuid.UUID, picURL string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users SET profile_pic = $2 WHERE id = $1
		RETURNING `+userColumns,
		id, picURL,
	)

	return scanUser(row)
}
