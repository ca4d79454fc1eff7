// Package service contains the business logic layer.
//
// Handlers and GraphQL resolvers parse input and shape output; services
// enforce the rules (uniqueness, credentials, roles); repositories read
// and write storage. Services accept primitives and return domain errors —
// they know nothing about HTTP or GraphQL.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/model"
	"github.com/sakif/snipshare/internal/repository"
)

// Validation constants.
const (
	MaxUsernameLength = 64
	MinPasswordLength = 8
)

// IdentityService is the credential store's operation surface: sign-up,
// credential validation, and lookups.
type IdentityService struct {
	identities repository.IdentityRepository
	tokens     *auth.TokenService
	passwords  *auth.PasswordService
	logger     *slog.Logger
}

// NewIdentityService creates an IdentityService with all dependencies.
func NewIdentityService(
	identities repository.IdentityRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *IdentityService {
	return &IdentityService{
		identities: identities,
		tokens:     tokens,
		passwords:  passwords,
		logger:     logger,
	}
}

// Register creates a new identity and returns a signed token for it.
//
// Fails with apperror.ErrDuplicateUsername if the username is taken.
// The repository's UNIQUE constraint backs the check, so a race between
// two simultaneous registrations of the same name still yields exactly
// one account.
func (s *IdentityService) Register(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return "", fmt.Errorf("service/identity: username is required")
	}
	if len(username) > MaxUsernameLength {
		return "", fmt.Errorf("service/identity: username must be %d characters or less", MaxUsernameLength)
	}
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("service/identity: password must be at least %d characters", MinPasswordLength)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return "", fmt.Errorf("service/identity: %w", err)
	}

	identity := &model.Identity{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		return "", err
	}

	s.logger.Info("identity registered",
		slog.String("identityID", identity.ID),
		slog.String("username", identity.Username),
	)

	token, err := s.tokens.Generate(identity.ID)
	if err != nil {
		return "", fmt.Errorf("service/identity: generating token for %s: %w", identity.ID, err)
	}

	return token, nil
}

// ValidateCredentials checks a username/password pair and returns a signed
// token on success.
//
// Unknown username and wrong password both fail with
// apperror.ErrInvalidCredentials — a single kind, so responses don't
// reveal which usernames exist. GitHub-only accounts (empty hash) can
// never validate by password.
func (s *IdentityService) ValidateCredentials(ctx context.Context, username, password string) (string, error) {
	identity, err := s.identities.GetByUsername(ctx, username)
	if err != nil {
		return "", apperror.InvalidCredentials()
	}

	if identity.PasswordHash == "" {
		return "", apperror.InvalidCredentials()
	}
	if err := s.passwords.Verify(identity.PasswordHash, password); err != nil {
		return "", apperror.InvalidCredentials()
	}

	s.logger.Info("credentials validated", slog.String("identityID", identity.ID))

	token, err := s.tokens.Generate(identity.ID)
	if err != nil {
		return "", fmt.Errorf("service/identity: generating token for %s: %w", identity.ID, err)
	}

	return token, nil
}

// GetByID returns the identity for the given internal ID.
func (s *IdentityService) GetByID(ctx context.Context, id string) (*model.Identity, error) {
	if id == "" {
		return nil, fmt.Errorf("service/identity: id must not be empty")
	}
	return s.identities.GetByID(ctx, id)
}

// GetByUsername returns the identity with the given username, or
// apperror.ErrUserNotFound.
func (s *IdentityService) GetByUsername(ctx context.Context, username string) (*model.Identity, error) {
	if username == "" {
		return nil, fmt.Errorf("service/identity: username must not be empty")
	}
	return s.identities.GetByUsername(ctx, username)
}

// LoginOrRegisterGitHub completes a GitHub OAuth sign-in: upserts the
// identity keyed by the GitHub ID and returns a signed token, the same
// token password sign-in issues.
func (s *IdentityService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (string, error) {
	if ghUser == nil {
		return "", fmt.Errorf("service/identity: GitHub user must not be nil")
	}

	identity := &model.Identity{
		Username: ghUser.Login,
		GitHubID: ghUser.ID,
	}
	if err := s.identities.UpsertByGitHubID(ctx, identity); err != nil {
		return "", fmt.Errorf("service/identity: upserting GitHub identity %d: %w", ghUser.ID, err)
	}

	s.logger.Info("identity authenticated via GitHub",
		slog.String("identityID", identity.ID),
		slog.String("username", identity.Username),
	)

	token, err := s.tokens.Generate(identity.ID)
	if err != nil {
		return "", fmt.Errorf("service/identity: generating token for %s: %w", identity.ID, err)
	}

	return token, nil
}
