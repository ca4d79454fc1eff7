package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/model"
	"github.com/sakif/snipshare/internal/repository"
)

// IdentityStore persists identity records in the identities table.
type IdentityStore struct {
	conn *sql.DB
}

// compile-time check that *IdentityStore implements the interface
var _ repository.IdentityRepository = (*IdentityStore)(nil)

// Create inserts a new identity. The ID and CreatedAt are generated here;
// the caller's struct is updated in place.
//
// A UNIQUE violation on username maps to apperror.ErrDuplicateUsername —
// the constraint is the last line of defence behind the service's
// existence check.
func (s *IdentityStore) Create(ctx context.Context, identity *model.Identity) error {
	identity.ID = xid.New().String()
	identity.CreatedAt = time.Now()

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO identities (id, username, password_hash, github_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		identity.ID,
		identity.Username,
		identity.PasswordHash,
		identity.GitHubID,
		identity.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateUsername(identity.Username)
		}
		return fmt.Errorf("sqlite: creating identity %q: %w", identity.Username, err)
	}

	return nil
}

// GetByID retrieves an identity by its internal ID.
// Returns apperror.ErrUserNotFound if no identity exists with that ID.
func (s *IdentityStore) GetByID(ctx context.Context, id string) (*model.Identity, error) {
	return s.getIdentity(ctx,
		`SELECT id, username, password_hash, github_id, created_at
		 FROM identities WHERE id = ?`, id)
}

// GetByUsername retrieves an identity by its unique username.
// Returns apperror.ErrUserNotFound if no identity exists with that name.
func (s *IdentityStore) GetByUsername(ctx context.Context, username string) (*model.Identity, error) {
	return s.getIdentity(ctx,
		`SELECT id, username, password_hash, github_id, created_at
		 FROM identities WHERE username = ?`, username)
}

func (s *IdentityStore) getIdentity(ctx context.Context, query, arg string) (*model.Identity, error) {
	var u model.Identity

	err := s.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.GitHubID,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.UserNotFound(arg)
		}
		return nil, fmt.Errorf("sqlite: getting identity %q: %w", arg, err)
	}

	return &u, nil
}

// UpsertByGitHubID inserts or updates an identity keyed by its GitHub ID.
//
// First GitHub sign-in → INSERT with a generated internal ID and no
// password hash. Subsequent sign-ins → refresh the username in case it
// changed on GitHub, keeping the existing internal ID so issued tokens
// and role assignments stay valid.
func (s *IdentityStore) UpsertByGitHubID(ctx context.Context, identity *model.Identity) error {
	if identity.GitHubID == 0 {
		return fmt.Errorf("sqlite: upsert requires a GitHub ID")
	}

	var existingID string
	err := s.conn.QueryRowContext(ctx,
		`SELECT id FROM identities WHERE github_id = ?`, identity.GitHubID,
	).Scan(&existingID)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up identity by github_id %d: %w", identity.GitHubID, err)
	}

	if existingID != "" {
		identity.ID = existingID
		_, err = s.conn.ExecContext(ctx,
			`UPDATE identities SET username = ? WHERE id = ?`,
			identity.Username, identity.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating identity %s: %w", identity.ID, err)
		}
		return nil
	}

	identity.ID = xid.New().String()
	identity.CreatedAt = time.Now()

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO identities (id, username, password_hash, github_id, created_at)
		 VALUES (?, ?, '', ?, ?)`,
		identity.ID,
		identity.Username,
		identity.GitHubID,
		identity.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateUsername(identity.Username)
		}
		return fmt.Errorf("sqlite: inserting identity (githubID=%d): %w", identity.GitHubID, err)
	}

	return nil
}
