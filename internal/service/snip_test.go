package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/model"
	"github.com/sakif/snipshare/internal/repository"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeSnipRepo is an in-memory repository.SnipRepository.
type fakeSnipRepo struct {
	mu     sync.Mutex
	snips  map[string]*model.Snip
	order  []string
	nextID int
}

func newFakeSnipRepo() *fakeSnipRepo {
	return &fakeSnipRepo{snips: make(map[string]*model.Snip)}
}

func copySnip(s *model.Snip) *model.Snip {
	result := *s
	result.Roles = append([]model.RoleAssignment(nil), s.Roles...)
	return &result
}

func (f *fakeSnipRepo) Create(_ context.Context, snip *model.Snip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.snips {
		if s.OwnerID == snip.OwnerID && s.Name == snip.Name {
			return apperror.DuplicateSnipName(snip.Name)
		}
	}
	f.nextID++
	snip.ID = fmt.Sprintf("fake-snip-%d", f.nextID)
	f.snips[snip.ID] = copySnip(snip)
	f.order = append(f.order, snip.ID)
	return nil
}

func (f *fakeSnipRepo) GetByID(_ context.Context, id string) (*model.Snip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.snips[id]
	if !ok {
		return nil, apperror.SnipNotFound(id)
	}
	return copySnip(s), nil
}

func (f *fakeSnipRepo) List(_ context.Context, filter repository.SnipFilter) ([]model.Snip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []model.Snip
	for _, id := range f.order {
		s := f.snips[id]
		if filter.Name != "" && s.Name != filter.Name {
			continue
		}
		result = append(result, *copySnip(s))
	}
	return result, nil
}

func (f *fakeSnipRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Snip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []model.Snip
	for _, id := range f.order {
		if s := f.snips[id]; s.OwnerID == ownerID {
			result = append(result, *copySnip(s))
		}
	}
	return result, nil
}

func (f *fakeSnipRepo) CountByOwnerAndName(_ context.Context, ownerID, name string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, s := range f.snips {
		if s.OwnerID == ownerID && s.Name == name {
			count++
		}
	}
	return count, nil
}

func (f *fakeSnipRepo) UpdateContent(_ context.Context, id, newContent string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.snips[id]
	if !ok {
		return apperror.SnipNotFound(id)
	}
	s.Content = newContent
	return nil
}

func (f *fakeSnipRepo) UpsertRole(_ context.Context, snipID, userID string, role model.Role) (*model.RoleAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.snips[snipID]
	if !ok {
		return nil, apperror.SnipNotFound(snipID)
	}
	for i := range s.Roles {
		if s.Roles[i].UserID == userID {
			s.Roles[i].Role = role
			ra := s.Roles[i]
			return &ra, nil
		}
	}
	f.nextID++
	ra := model.RoleAssignment{
		ID:     fmt.Sprintf("fake-role-%d", f.nextID),
		SnipID: snipID,
		UserID: userID,
		Role:   role,
	}
	s.Roles = append(s.Roles, ra)
	return &ra, nil
}

// newTestSnipService wires a SnipService against fakes, returning both
// repos so tests can seed and inspect state directly.
func newTestSnipService(t *testing.T) (*SnipService, *fakeSnipRepo, *fakeIdentityRepo) {
	t.Helper()
	snips := newFakeSnipRepo()
	identities := newFakeIdentityRepo()
	svc := NewSnipService(snips, identities, testLogger())
	return svc, snips, identities
}

func seedIdentity(t *testing.T, repo *fakeIdentityRepo, username string) *model.Identity {
	t.Helper()
	identity := &model.Identity{Username: username, PasswordHash: "hash"}
	if err := repo.Create(context.Background(), identity); err != nil {
		t.Fatalf("seeding identity %q: %v", username, err)
	}
	return identity
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestSnipCreate_SeedsDefaultContent(t *testing.T) {
	svc, _, identities := newTestSnipService(t)
	alice := seedIdentity(t, identities, "alice")

	snip, err := svc.Create(context.Background(), alice.ID, "notes", false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if snip.Content != "//Start Snip here" {
		t.Errorf("new snip content = %q, want the default seed", snip.Content)
	}
	if snip.OwnerID != alice.ID {
		t.Errorf("owner = %q, want %q", snip.OwnerID, alice.ID)
	}
}

func TestSnipCreate_DuplicateName(t *testing.T) {
	svc, _, identities := newTestSnipService(t)
	alice := seedIdentity(t, identities, "alice")
	ctx := context.Background()

	if _, err := svc.Create(ctx, alice.ID, "notes", false); err != nil {
		t.Fatalf("Create() #1 error = %v", err)
	}

	_, err := svc.Create(ctx, alice.ID, "notes", false)
	if !errors.Is(err, apperror.ErrDuplicateSnipName) {
		t.Fatalf("Create() #2 error = %v, want ErrDuplicateSnipName", err)
	}

	// A different owner is free to reuse the name.
	bob := seedIdentity(t, identities, "bob")
	if _, err := svc.Create(ctx, bob.ID, "notes", false); err != nil {
		t.Fatalf("Create() for bob error = %v", err)
	}
}

func TestSnipCreate_Validation(t *testing.T) {
	svc, _, identities := newTestSnipService(t)
	alice := seedIdentity(t, identities, "alice")
	ctx := context.Background()

	if _, err := svc.Create(ctx, alice.ID, "  ", false); err == nil {
		t.Error("Create() should reject a blank name")
	}
	if _, err := svc.Create(ctx, alice.ID, strings.Repeat("x", MaxSnipNameLength+1), false); err == nil {
		t.Error("Create() should reject an over-long name")
	}
	if _, err := svc.Create(ctx, "", "notes", false); err == nil {
		t.Error("Create() should reject a missing owner")
	}
}

// =========================================================================
// GRANT ROLE TESTS
// =========================================================================

func TestGrantRole(t *testing.T) {
	svc, snips, identities := newTestSnipService(t)
	alice := seedIdentity(t, identities, "alice")
	bob := seedIdentity(t, identities, "bob")
	ctx := context.Background()

	snip, err := svc.Create(ctx, alice.ID, "notes", false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	ra, err := svc.GrantRole(ctx, snip.ID, "bob", model.RoleReader)
	if err != nil {
		t.Fatalf("GrantRole() error = %v", err)
	}
	if ra.UserID != bob.ID || ra.Role != model.RoleReader {
		t.Errorf("assignment = %+v, want bob as READER", ra)
	}

	stored, _ := snips.GetByID(ctx, snip.ID)
	if len(stored.Roles) != 1 {
		t.Fatalf("stored %d assignments, want 1", len(stored.Roles))
	}
}

// Re-granting the same user replaces the role rather than stacking a
// second assignment.
func TestGrantRole_UpsertsExisting(t *testing.T) {
	svc, snips, identities := newTestSnipService(t)
	alice := seedIdentity(t, identities, "alice")
	seedIdentity(t, identities, "bob")
	ctx := context.Background()

	snip, _ := svc.Create(ctx, alice.ID, "notes", false)

	first, err := svc.GrantRole(ctx, snip.ID, "bob", model.RoleReader)
	if err != nil {
		t.Fatalf("GrantRole() #1 error = %v", err)
	}
	second, err := svc.GrantRole(ctx, snip.ID, "bob", model.RoleEditor)
	if err != nil {
		t.Fatalf("GrantRole() #2 error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("re-grant created a new assignment: %q vs %q", second.ID, first.ID)
	}
	if second.Role != model.RoleEditor {
		t.Errorf("role = %s, want EDITOR", second.Role)
	}

	stored, _ := snips.GetByID(ctx, snip.ID)
	if len(stored.Roles) != 1 {
		t.Fatalf("stored %d assignments after re-grant, want 1", len(stored.Roles))
	}
}

func TestGrantRole_UnknownTarget(t *testing.T) {
	svc, _, identities := newTestSnipService(t)
	alice := seedIdentity(t, identities, "alice")
	ctx := context.Background()

	snip, _ := svc.Create(ctx, alice.ID, "notes", false)

	_, err := svc.GrantRole(ctx, snip.ID, "nobody", model.RoleReader)
	if !errors.Is(err, apperror.ErrUserNotFound) {
		t.Fatalf("GrantRole() error = %v, want ErrUserNotFound", err)
	}
}

func TestGrantRole_UnknownSnip(t *testing.T) {
	svc, _, identities := newTestSnipService(t)
	seedIdentity(t, identities, "bob")

	_, err := svc.GrantRole(context.Background(), "no-such-snip", "bob", model.RoleReader)
	if !errors.Is(err, apperror.ErrSnipNotFound) {
		t.Fatalf("GrantRole() error = %v, want ErrSnipNotFound", err)
	}
}

// =========================================================================
// SET CONTENT TESTS
// =========================================================================

func TestSetContent(t *testing.T) {
	svc, snips, identities := newTestSnipService(t)
	alice := seedIdentity(t, identities, "alice")
	ctx := context.Background()

	snip, _ := svc.Create(ctx, alice.ID, "notes", false)

	if err := svc.SetContent(ctx, snip.ID, "updated"); err != nil {
		t.Fatalf("SetContent() error = %v", err)
	}
	stored, _ := snips.GetByID(ctx, snip.ID)
	if stored.Content != "updated" {
		t.Errorf("content = %q, want %q", stored.Content, "updated")
	}
}

func TestSetContent_TooLong(t *testing.T) {
	svc, _, identities := newTestSnipService(t)
	alice := seedIdentity(t, identities, "alice")
	ctx := context.Background()

	snip, _ := svc.Create(ctx, alice.ID, "notes", false)

	err := svc.SetContent(ctx, snip.ID, strings.Repeat("x", MaxContentLength+1))
	if err == nil {
		t.Fatal("SetContent() should reject over-long content")
	}
}

func TestSetContent_UnknownSnip(t *testing.T) {
	svc, _, _ := newTestSnipService(t)

	err := svc.SetContent(context.Background(), "no-such-snip", "x")
	if !errors.Is(err, apperror.ErrSnipNotFound) {
		t.Fatalf("SetContent() error = %v, want ErrSnipNotFound", err)
	}
}
