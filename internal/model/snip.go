package model

import "time"

// Snip represents a named, owned, shareable text document.
//
// Exactly one identity owns a snip (OwnerID). Ownership is data-level:
// the owner implicitly holds OWNER — the maximal role — and that privilege
// is always derived from OwnerID, never written into Roles. Keeping the
// owner out of the assignment list means there is no second copy to drift.
//
// Other identities gain access through Roles, a capability list, not a
// second form of ownership.
type Snip struct {
	ID        string    `json:"id"        db:"id"`
	Name      string    `json:"name"      db:"name"` // unique per owner, checked at creation
	Content   string    `json:"content"   db:"content"`
	OwnerID   string    `json:"ownerId"   db:"owner_id"`
	Public    bool      `json:"public"    db:"public"` // immutable after creation
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Roles holds the snip's role assignments, loaded alongside the snip.
	// At most one entry exists per user (upsert semantics on grant).
	Roles []RoleAssignment `json:"roles"`
}

// RoleAssignment grants one identity one role on one snip.
//
// A stored OWNER value is legal data (an owner may deliberately grant
// someone else OWNER), but the snip's own owner never appears here.
type RoleAssignment struct {
	ID     string `json:"id"     db:"id"`
	SnipID string `json:"snipId" db:"snip_id"`
	UserID string `json:"userId" db:"user_id"`
	Role   Role   `json:"role"   db:"role"`
}

// RoleOf returns the role identityID holds on the snip, if any.
//
// The owner check comes first and returns early — the derived-owner rule
// is authoritative, so a stored assignment is never consulted for the
// owner's own privileges.
func (s *Snip) RoleOf(identityID string) (Role, bool) {
	if identityID == s.OwnerID {
		return RoleOwner, true
	}
	for _, ra := range s.Roles {
		if ra.UserID == identityID {
			return ra.Role, true
		}
	}
	return "", false
}

// HasRole reports whether identityID holds a role on the snip that
// satisfies required.
//
// An anonymous caller (empty identityID) never has a role. That folds the
// authentication check into the role check: resource-scoped fields don't
// need a separate "is signed in" guard.
func (s *Snip) HasRole(identityID string, required Role) bool {
	if identityID == "" {
		return false
	}
	held, ok := s.RoleOf(identityID)
	return ok && held.Satisfies(required)
}
