// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage implements them; tests use
// hand-written in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/snipshare/internal/model"
)

// SnipFilter narrows a snip listing. Zero value means "everything".
type SnipFilter struct {
	Name string // exact name match when non-empty
}

// IdentityRepository persists identity records.
type IdentityRepository interface {
	Create(ctx context.Context, identity *model.Identity) error
	GetByID(ctx context.Context, id string) (*model.Identity, error)
	GetByUsername(ctx context.Context, username string) (*model.Identity, error)

	// UpsertByGitHubID creates the identity on first GitHub sign-in and
	// refreshes the username on subsequent ones, keyed by GitHubID.
	UpsertByGitHubID(ctx context.Context, identity *model.Identity) error
}

// SnipRepository persists snips and their role assignments.
//
// These are the ONLY write paths for snip data. GetByID and List return
// snips with their Roles slice populated, since role checks need it.
type SnipRepository interface {
	Create(ctx context.Context, snip *model.Snip) error
	GetByID(ctx context.Context, id string) (*model.Snip, error)
	List(ctx context.Context, filter SnipFilter) ([]model.Snip, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Snip, error)

	// CountByOwnerAndName reports how many snips ownerID already has with
	// the given name. Used to enforce per-owner name uniqueness at creation.
	CountByOwnerAndName(ctx context.Context, ownerID, name string) (int, error)

	// UpdateContent overwrites the snip's content. Last writer wins.
	UpdateContent(ctx context.Context, id, newContent string) error

	// UpsertRole creates or updates the single role assignment for
	// (snip, user) and returns the resulting assignment. Implementations
	// MUST make this atomic per snip — two concurrent grants to different
	// users on the same snip must both survive.
	UpsertRole(ctx context.Context, snipID, userID string, role model.Role) (*model.RoleAssignment, error)
}
