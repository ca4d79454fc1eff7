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

// SnipStore persists snips and their role assignments in the snips and
// user_roles tables.
type SnipStore struct {
	conn *sql.DB
}

// compile-time check that *SnipStore implements the interface
var _ repository.SnipRepository = (*SnipStore)(nil)

// Create inserts a new snip. ID and timestamps are generated here and
// written back into the caller's struct.
//
// xid IDs are 20 chars, URL-safe, and sortable by creation time — listing
// by id preserves insertion order.
func (st *SnipStore) Create(ctx context.Context, snip *model.Snip) error {
	snip.ID = xid.New().String()

	now := time.Now()
	snip.CreatedAt = now
	snip.UpdatedAt = now

	_, err := st.conn.ExecContext(ctx,
		`INSERT INTO snips (id, name, content, owner_id, public, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snip.ID,
		snip.Name,
		snip.Content,
		snip.OwnerID,
		snip.Public,
		snip.CreatedAt,
		snip.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// UNIQUE(owner_id, name) — the service pre-checks, the
			// constraint closes the race between check and insert.
			return apperror.DuplicateSnipName(snip.Name)
		}
		return fmt.Errorf("sqlite: creating snip %q: %w", snip.Name, err)
	}

	return nil
}

// GetByID retrieves a snip and its role assignments.
// Returns apperror.ErrSnipNotFound if no snip exists with that ID.
//
// The Roles slice is loaded here because every role check needs it — a
// snip without its assignments can't answer HasRole.
func (st *SnipStore) GetByID(ctx context.Context, id string) (*model.Snip, error) {
	var s model.Snip

	err := st.conn.QueryRowContext(ctx,
		`SELECT id, name, content, owner_id, public, created_at, updated_at
		 FROM snips WHERE id = ?`,
		id,
	).Scan(
		&s.ID,
		&s.Name,
		&s.Content,
		&s.OwnerID,
		&s.Public,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.SnipNotFound(id)
		}
		return nil, fmt.Errorf("sqlite: getting snip %s: %w", id, err)
	}

	roles, err := st.rolesForSnip(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Roles = roles

	return &s, nil
}

// List returns snips matching the filter, oldest first, each with its
// role assignments loaded.
func (st *SnipStore) List(ctx context.Context, filter repository.SnipFilter) ([]model.Snip, error) {
	query := `SELECT id, name, content, owner_id, public, created_at, updated_at
	          FROM snips`
	args := []any{}
	if filter.Name != "" {
		query += ` WHERE name = ?`
		args = append(args, filter.Name)
	}
	query += ` ORDER BY id`

	return st.querySnips(ctx, query, args...)
}

// ListByOwner returns the snips owned by ownerID in insertion order.
func (st *SnipStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Snip, error) {
	return st.querySnips(ctx,
		`SELECT id, name, content, owner_id, public, created_at, updated_at
		 FROM snips WHERE owner_id = ? ORDER BY id`,
		ownerID,
	)
}

func (st *SnipStore) querySnips(ctx context.Context, query string, args ...any) ([]model.Snip, error) {
	rows, err := st.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snips: %w", err)
	}
	defer rows.Close()

	snips := []model.Snip{}
	for rows.Next() {
		var s model.Snip
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Content, &s.OwnerID, &s.Public,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snip: %w", err)
		}
		snips = append(snips, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snips: %w", err)
	}

	// Load role assignments per snip. One query per snip is fine at this
	// scale; a JOIN would save round-trips if listing ever gets hot.
	for i := range snips {
		roles, err := st.rolesForSnip(ctx, snips[i].ID)
		if err != nil {
			return nil, err
		}
		snips[i].Roles = roles
	}

	return snips, nil
}

// rolesForSnip loads the role assignments for one snip, in grant order.
func (st *SnipStore) rolesForSnip(ctx context.Context, snipID string) ([]model.RoleAssignment, error) {
	rows, err := st.conn.QueryContext(ctx,
		`SELECT id, snip_id, user_id, role FROM user_roles
		 WHERE snip_id = ? ORDER BY id`,
		snipID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing roles for snip %s: %w", snipID, err)
	}
	defer rows.Close()

	roles := []model.RoleAssignment{}
	for rows.Next() {
		var ra model.RoleAssignment
		if err := rows.Scan(&ra.ID, &ra.SnipID, &ra.UserID, &ra.Role); err != nil {
			return nil, fmt.Errorf("sqlite: scanning role assignment: %w", err)
		}
		roles = append(roles, ra)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating role assignments: %w", err)
	}

	return roles, nil
}

// CountByOwnerAndName reports how many snips ownerID has with this name.
func (st *SnipStore) CountByOwnerAndName(ctx context.Context, ownerID, name string) (int, error) {
	var count int
	err := st.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snips WHERE owner_id = ? AND name = ?`,
		ownerID, name,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting snips for owner %s: %w", ownerID, err)
	}
	return count, nil
}

// UpdateContent overwrites the snip's content. No history is kept — last
// writer wins.
func (st *SnipStore) UpdateContent(ctx context.Context, id, newContent string) error {
	res, err := st.conn.ExecContext(ctx,
		`UPDATE snips SET content = ?, updated_at = ? WHERE id = ?`,
		newContent, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating content of snip %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of snip %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.SnipNotFound(id)
	}

	return nil
}

// UpsertRole creates or updates the role assignment for (snipID, userID).
//
// ATOMICITY:
// The whole read-modify-write happens inside ONE statement — INSERT with
// ON CONFLICT DO UPDATE on the UNIQUE(snip_id, user_id) index. Two
// concurrent grants to different users on the same snip each touch their
// own row and neither can lose the other's write; two concurrent grants to
// the SAME user resolve to whichever statement runs second. There is no
// separate "scan the list, then write" window to race through.
func (st *SnipStore) UpsertRole(ctx context.Context, snipID, userID string, role model.Role) (*model.RoleAssignment, error) {
	ra := &model.RoleAssignment{
		ID:     xid.New().String(),
		SnipID: snipID,
		UserID: userID,
		Role:   role,
	}

	// On conflict the existing row keeps its id; only the role changes.
	err := st.conn.QueryRowContext(ctx,
		`INSERT INTO user_roles (id, snip_id, user_id, role)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(snip_id, user_id) DO UPDATE SET role = excluded.role
		 RETURNING id, role`,
		ra.ID, ra.SnipID, ra.UserID, string(ra.Role),
	).Scan(&ra.ID, &ra.Role)
	if err != nil {
		return nil, fmt.Errorf("sqlite: upserting role for user %s on snip %s: %w", userID, snipID, err)
	}

	return ra, nil
}
