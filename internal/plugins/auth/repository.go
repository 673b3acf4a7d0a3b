package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
)

// mysqlDuplicateEntry is the MySQL error number for unique key violations.
const mysqlDuplicateEntry = 1062

// UserRepository defines the data access contract for user records.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateUsername(ctx context.Context, id, username string) error
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdatePhotoURL(ctx context.Context, id, photoURL string) error
	Delete(ctx context.Context, id string) error
}

// userRepository implements UserRepository with hand-written MySQL queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password_hash, photo_url, created_at`

// scanUser scans a single user row.
func scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.PhotoURL,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user row: %w", err)
	}
	return user, nil
}

// translateDuplicate maps a MySQL unique key violation to a Conflict error.
// The pre-checks in the service only improve error messages; under two
// concurrent writes with the same username or email, this constraint is
// what actually holds the uniqueness invariant.
func translateDuplicate(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return apperror.NewConflict("username or email is already taken")
	}
	return err
}

// Create inserts a new user row.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, username, email, password_hash, photo_url, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.PhotoURL,
		user.CreatedAt,
	)
	if err != nil {
		return translateDuplicate(fmt.Errorf("inserting user: %w", err))
	}
	return nil
}

// FindByID retrieves a user by their UUID.
// Returns apperror.NotFound if no user exists with this ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByEmail retrieves a user by email.
// Returns apperror.NotFound if no user exists with this email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// FindByUsername retrieves a user by username.
// Returns apperror.NotFound if no user exists with this username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

// UsernameExists returns true if a user with the given username exists.
func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking username existence: %w", err)
	}
	return exists, nil
}

// EmailExists returns true if a user with the given email exists.
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}
	return exists, nil
}

// UpdateUsername sets a new username for the user.
// Returns apperror.NotFound if the user no longer exists.
func (r *userRepository) UpdateUsername(ctx context.Context, id, username string) error {
	return r.updateField(ctx, `UPDATE users SET username = ? WHERE id = ?`, username, id, "updating username")
}

// UpdateEmail sets a new email for the user.
func (r *userRepository) UpdateEmail(ctx context.Context, id, email string) error {
	return r.updateField(ctx, `UPDATE users SET email = ? WHERE id = ?`, email, id, "updating email")
}

// UpdatePassword sets a new password hash for the user.
func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateField(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id, "updating password")
}

// UpdatePhotoURL sets the profile photo reference for the user.
func (r *userRepository) UpdatePhotoURL(ctx context.Context, id, photoURL string) error {
	return r.updateField(ctx, `UPDATE users SET photo_url = ? WHERE id = ?`, photoURL, id, "updating photo url")
}

// updateField runs a single-column update and translates zero rows affected
// into NotFound -- the account may have been deleted after the caller's
// token was issued.
func (r *userRepository) updateField(ctx context.Context, query string, value any, id string, action string) error {
	result, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return translateDuplicate(fmt.Errorf("%s: %w", action, err))
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		// RowsAffected is also zero when the new value equals the old one;
		// check existence to tell the two cases apart.
		exists, err := r.idExists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperror.NewNotFound("user not found")
		}
	}
	return nil
}

// idExists reports whether a user row with this id exists.
func (r *userRepository) idExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking user existence: %w", err)
	}
	return exists, nil
}

// Delete removes the user row. Owned links are removed by the links table's
// ON DELETE CASCADE foreign key, not orchestrated here.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return apperror.NewNotFound("user not found")
	}
	return nil
}
