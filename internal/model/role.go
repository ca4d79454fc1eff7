package model

import (
	"fmt"
)

// Role is a named permission level on a snip.
//
// The three roles form a total order: OWNER > EDITOR > READER.
// A higher role always implies every lower one — there is no role that
// grants write without read.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleEditor Role = "EDITOR"
	RoleReader Role = "READER"
)

// roleRanks is the explicit privilege ranking. The numeric values are
// arbitrary; only their relative order matters. An explicit table (rather
// than position in a slice) means reordering a declaration can never
// silently change the hierarchy.
var roleRanks = map[Role]int{
	RoleReader: 0,
	RoleEditor: 1,
	RoleOwner:  2,
}

// rank returns the privilege rank of r.
//
// An unknown role here is a programming error, not a runtime condition:
// every Role value in the system comes from the constants above or from
// ParseRole, so a miss means corrupted data or a bug. We panic rather
// than invent a rank.
func (r Role) rank() int {
	n, ok := roleRanks[r]
	if !ok {
		panic(fmt.Sprintf("model: unknown role %q", r))
	}
	return n
}

// Satisfies reports whether a caller holding role r meets a requirement
// of role required. OWNER satisfies everything; READER satisfies only
// READER.
func (r Role) Satisfies(required Role) bool {
	return r.rank() >= required.rank()
}

// ParseRole validates a role name coming in over the wire.
// Unlike rank(), bad input here is expected — it's caller data.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleEditor, RoleReader:
		return Role(s), nil
	default:
		return "", fmt.Errorf("model: invalid role %q", s)
	}
}
