package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/model"
	"github.com/sakif/snipshare/internal/repository"
)

// Validation constants.
const (
	MaxSnipNameLength = 100
	MaxContentLength  = 100000 // ~100KB of text

	// defaultContent seeds every new snip.
	defaultContent = "//Start Snip here"
)

// SnipService handles snip business logic: creation, content updates,
// role grants, and lookups.
//
// Together with the model's RoleOf/HasRole it forms the resource access
// model: all snip writes in the system flow through exactly these methods.
type SnipService struct {
	snips      repository.SnipRepository
	identities repository.IdentityRepository
	logger     *slog.Logger
}

// NewSnipService creates a SnipService.
func NewSnipService(
	snips repository.SnipRepository,
	identities repository.IdentityRepository,
	logger *slog.Logger,
) *SnipService {
	return &SnipService{
		snips:      snips,
		identities: identities,
		logger:     logger,
	}
}

// Create makes a new snip owned by ownerID.
//
// Fails with apperror.ErrDuplicateSnipName if the owner already has a
// snip with this name. Name uniqueness is PER OWNER — two different users
// can each own a snip called "notes". The check happens only at creation;
// renames are not supported.
func (s *SnipService) Create(ctx context.Context, ownerID, name string, public bool) (*model.Snip, error) {
	name = strings.TrimSpace(name)

	if ownerID == "" {
		return nil, fmt.Errorf("service/snip: owner ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("service/snip: snip name is required")
	}
	if len(name) > MaxSnipNameLength {
		return nil, fmt.Errorf("service/snip: snip name must be %d characters or less", MaxSnipNameLength)
	}

	count, err := s.snips.CountByOwnerAndName(ctx, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("service/snip: checking name %q: %w", name, err)
	}
	if count > 0 {
		return nil, apperror.DuplicateSnipName(name)
	}

	snip := &model.Snip{
		Name:    name,
		Content: defaultContent,
		OwnerID: ownerID,
		Public:  public,
		Roles:   []model.RoleAssignment{},
	}
	if err := s.snips.Create(ctx, snip); err != nil {
		return nil, err
	}

	s.logger.Info("snip created",
		slog.String("id", snip.ID),
		slog.String("name", snip.Name),
		slog.String("ownerID", snip.OwnerID),
	)

	return snip, nil
}

// GetByID returns a snip with its role assignments, or
// apperror.ErrSnipNotFound.
//
// No role check happens here — existence is public in this design.
// Visibility of the snip's name, content, owner and sharees is enforced
// field by field in the execution graph.
func (s *SnipService) GetByID(ctx context.Context, id string) (*model.Snip, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("service/snip: snip ID is required")
	}
	return s.snips.GetByID(ctx, id)
}

// List returns snips matching the filter. Listing existence is public;
// gated fields stay gated on each returned snip.
func (s *SnipService) List(ctx context.Context, filter repository.SnipFilter) ([]model.Snip, error) {
	return s.snips.List(ctx, filter)
}

// ListByOwner returns the snips ownerID owns, in creation order.
func (s *SnipService) ListByOwner(ctx context.Context, ownerID string) ([]model.Snip, error) {
	return s.snips.ListByOwner(ctx, ownerID)
}

// GrantRole upserts the role assignment for targetUsername on the snip.
//
// The target is resolved by username first — apperror.ErrUserNotFound if
// absent. The upsert itself is a single atomic storage operation, so
// concurrent grants to different users never lose each other (see
// repository.SnipRepository.UpsertRole).
//
// Authorization (caller must hold OWNER) is the guard layer's job; this
// method assumes it already passed.
func (s *SnipService) GrantRole(ctx context.Context, snipID, targetUsername string, role model.Role) (*model.RoleAssignment, error) {
	// The repository reports a missing user as apperror.ErrUserNotFound,
	// which is exactly the kind this operation must surface.
	target, err := s.identities.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	// Existence check so a grant on a bogus snip ID fails with the right
	// kind instead of inserting an orphan row.
	if _, err := s.snips.GetByID(ctx, snipID); err != nil {
		return nil, err
	}

	ra, err := s.snips.UpsertRole(ctx, snipID, target.ID, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("role granted",
		slog.String("snipID", snipID),
		slog.String("targetID", target.ID),
		slog.String("role", string(role)),
	)

	return ra, nil
}

// SetContent overwrites the snip's content. No history is kept; concurrent
// writers race and the last one wins — documented, not defended against.
//
// Authorization (caller must hold OWNER) is the guard layer's job.
func (s *SnipService) SetContent(ctx context.Context, snipID, newContent string) error {
	if len(newContent) > MaxContentLength {
		return fmt.Errorf("service/snip: content must be %d characters or less", MaxContentLength)
	}

	if err := s.snips.UpdateContent(ctx, snipID, newContent); err != nil {
		return err
	}

	s.logger.Info("snip content updated", slog.String("snipID", snipID))
	return nil
}
