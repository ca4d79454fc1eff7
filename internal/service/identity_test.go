package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeIdentityRepo is an in-memory repository.IdentityRepository.
// A hand-written fake (not a mock framework) keeps the tests readable —
// what the fake does is right here.
type fakeIdentityRepo struct {
	mu     sync.Mutex
	byID   map[string]*model.Identity
	nextID int
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{byID: make(map[string]*model.Identity)}
}

func (f *fakeIdentityRepo) Create(_ context.Context, identity *model.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == identity.Username {
			return apperror.DuplicateUsername(identity.Username)
		}
	}
	f.nextID++
	identity.ID = fmt.Sprintf("fake-user-%d", f.nextID)
	stored := *identity
	f.byID[identity.ID] = &stored
	return nil
}

func (f *fakeIdentityRepo) GetByID(_ context.Context, id string) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.UserNotFound(id)
	}
	result := *u
	return &result, nil
}

func (f *fakeIdentityRepo) GetByUsername(_ context.Context, username string) (*model.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.UserNotFound(username)
}

func (f *fakeIdentityRepo) UpsertByGitHubID(_ context.Context, identity *model.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.GitHubID == identity.GitHubID {
			u.Username = identity.Username
			*identity = *u
			return nil
		}
	}
	f.nextID++
	identity.ID = fmt.Sprintf("fake-user-%d", f.nextID)
	stored := *identity
	f.byID[identity.ID] = &stored
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return tokens
}

// newTestIdentityService wires an IdentityService against the fake repo,
// a fixed-secret token service, and a fast bcrypt cost.
func newTestIdentityService(t *testing.T) (*IdentityService, *fakeIdentityRepo, *auth.TokenService) {
	t.Helper()
	repo := newFakeIdentityRepo()
	tokens := testTokens(t)
	svc := NewIdentityService(repo, tokens, auth.NewPasswordServiceForTest(4), testLogger())
	return svc, repo, tokens
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister_IssuesTokenForNewIdentity(t *testing.T) {
	svc, repo, tokens := newTestIdentityService(t)

	token, err := svc.Register(context.Background(), "alice", "password1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// The token must round-trip to the stored identity's ID.
	identityID, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	stored, err := repo.GetByID(context.Background(), identityID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if stored.Username != "alice" {
		t.Errorf("stored username = %q, want alice", stored.Username)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "password1" {
		t.Error("Register() must store a hash, never the plaintext password")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestIdentityService(t)

	ctx := context.Background()
	if _, err := svc.Register(ctx, "alice", "password1"); err != nil {
		t.Fatalf("Register() #1 error = %v", err)
	}

	_, err := svc.Register(ctx, "alice", "different1")
	if !errors.Is(err, apperror.ErrDuplicateUsername) {
		t.Fatalf("Register() #2 error = %v, want ErrDuplicateUsername", err)
	}
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _, _ := newTestIdentityService(t)

	if _, err := svc.Register(context.Background(), "alice", "short"); err == nil {
		t.Fatal("Register() should reject a password under the minimum length")
	}
}

// =========================================================================
// VALIDATE CREDENTIALS TESTS
// =========================================================================

func TestValidateCredentials_Scenario(t *testing.T) {
	svc, _, tokens := newTestIdentityService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "password1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Correct credentials → token for alice
	token, err := svc.ValidateCredentials(ctx, "alice", "password1")
	if err != nil {
		t.Fatalf("ValidateCredentials() error = %v", err)
	}
	if _, err := tokens.Validate(token); err != nil {
		t.Errorf("issued token should validate: %v", err)
	}

	// Wrong password → InvalidCredentials
	_, err = svc.ValidateCredentials(ctx, "alice", "wrong")
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
}

// Unknown usernames fail with the SAME kind as wrong passwords, so the
// API doesn't reveal which usernames exist.
func TestValidateCredentials_UnknownUserSameKind(t *testing.T) {
	svc, _, _ := newTestIdentityService(t)

	_, err := svc.ValidateCredentials(context.Background(), "nobody", "whatever")
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

// GitHub-only accounts have no password hash and can never validate by
// password.
func TestValidateCredentials_GitHubOnlyAccount(t *testing.T) {
	svc, repo, _ := newTestIdentityService(t)
	ctx := context.Background()

	gh := &model.Identity{Username: "octocat", GitHubID: 583231}
	if err := repo.UpsertByGitHubID(ctx, gh); err != nil {
		t.Fatalf("UpsertByGitHubID() error = %v", err)
	}

	_, err := svc.ValidateCredentials(ctx, "octocat", "")
	if !errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

// =========================================================================
// GITHUB SIGN-IN TESTS
// =========================================================================

func TestLoginOrRegisterGitHub(t *testing.T) {
	svc, _, tokens := newTestIdentityService(t)
	ctx := context.Background()

	token, err := svc.LoginOrRegisterGitHub(ctx, &auth.GitHubUser{ID: 583231, Login: "octocat"})
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() error = %v", err)
	}

	identityID, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("issued token should validate: %v", err)
	}

	// Second sign-in reuses the same identity.
	token2, err := svc.LoginOrRegisterGitHub(ctx, &auth.GitHubUser{ID: 583231, Login: "octocat"})
	if err != nil {
		t.Fatalf("LoginOrRegisterGitHub() #2 error = %v", err)
	}
	identityID2, _ := tokens.Validate(token2)
	if identityID2 != identityID {
		t.Errorf("second sign-in resolved to %q, want %q", identityID2, identityID)
	}
}
