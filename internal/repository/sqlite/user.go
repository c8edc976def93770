package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snippet-manager/internal/apperror"
	"github.com/sakif/snippet-manager/internal/model"
	"github.com/sakif/snippet-manager/internal/repository"
)

// Users implements repository.UserRepository on the shared connection pool.
// The user methods live on their own receiver because their names (Create,
// GetByID) collide with the snippet methods on *DB.
type Users struct {
	conn *sql.DB
}

// Users returns the user repository backed by the same database.
func (db *DB) Users() *Users {
	return &Users{conn: db.conn}
}

// Compile-time check that *Users implements repository.UserRepository.
var _ repository.UserRepository = (*Users)(nil)

const userColumns = `id, email, password_hash, github_id, login, avatar_url,
	created_at, updated_at`

// Create inserts a new user, assigning its ID and timestamps.
func (db *Users) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		nullableID(user.GitHubID),
		user.Login,
		user.AvatarURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return wrapDBError("creating user", err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
func (db *Users) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email address.
func (db *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

// UpsertGitHub inserts or updates a user keyed by GitHub ID. An existing
// account keeps its internal ID; the profile fields are refreshed in case
// they changed on GitHub.
func (db *Users) UpsertGitHub(ctx context.Context, user *model.User) error {
	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE github_id = ?`, user.GitHubID,
	).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return wrapDBError(fmt.Sprintf("looking up user by github_id %d", user.GitHubID), err)
	}

	if existingID == "" {
		return db.Create(ctx, user)
	}

	user.ID = existingID
	user.UpdatedAt = time.Now().UTC()
	_, err = db.conn.ExecContext(ctx,
		`UPDATE users SET login = ?, avatar_url = ?, updated_at = ?
		 WHERE id = ?`,
		user.Login,
		user.AvatarURL,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return wrapDBError(fmt.Sprintf("updating user %s", user.ID), err)
	}

	return nil
}

func (db *Users) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var (
		user     model.User
		githubID sql.NullInt64
	)
	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&githubID,
		&user.Login,
		&user.AvatarURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User")
		}
		return nil, wrapDBError("getting user", err)
	}

	user.GitHubID = githubID.Int64
	return &user, nil
}

// nullableID maps the zero GitHub ID to NULL so the partial unique index on
// github_id only applies to linked accounts.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
