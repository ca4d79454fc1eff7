// Package guard provides composable authorization wrappers for GraphQL
// resolve functions.
//
// A guard takes a resolver and returns a resolver that runs a precondition
// first. Guards are stateless, so the same guard value wraps any number of
// fields, and every wrapped field re-runs its check independently. That
// repetition is the point: the execution graph may resolve fields out of
// order, concurrently, or not at all, so a check hoisted to a single entry
// point would miss fields reached some other way.
//
// Two orthogonal guards exist:
//
//   - Authenticated(expected) — identity-scoped operations (sign-up,
//     sign-in, "who am I") that have no resource to check a role against.
//   - Role(required) — resource-scoped fields. The role check subsumes
//     authentication: an anonymous caller holds no role and fails it.
package guard

import (
	"github.com/graphql-go/graphql"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/model"
)

// ResolveFunc is the graphql-go field resolver signature. It's an alias,
// not a new type, so guarded resolvers slot straight into field configs.
type ResolveFunc = graphql.FieldResolveFn

// Authenticated wraps a resolver with an authentication precondition.
//
// expected=true: only signed-in callers pass (fails NotAuthenticated).
// expected=false: only anonymous callers pass (fails AlreadyAuthenticated) —
// used on sign-up and sign-in so a signed-in user can't re-register
// through the same call path.
func Authenticated(expected bool) func(ResolveFunc) ResolveFunc {
	return func(next ResolveFunc) ResolveFunc {
		return func(p graphql.ResolveParams) (interface{}, error) {
			_, ok := auth.IdentityIDFromContext(p.Context)
			if ok != expected {
				if expected {
					return nil, apperror.NotAuthenticated()
				}
				return nil, apperror.AlreadyAuthenticated()
			}
			return next(p)
		}
	}
}

// Role wraps a snip field resolver with a role precondition.
//
// The field's source must be a *model.Snip (every gated field hangs off a
// resolved Snip). The caller passes iff it holds a role satisfying
// required on that snip; the snip's owner always does, and an anonymous
// caller never does.
func Role(required model.Role) func(ResolveFunc) ResolveFunc {
	return func(next ResolveFunc) ResolveFunc {
		return func(p graphql.ResolveParams) (interface{}, error) {
			snip, ok := p.Source.(*model.Snip)
			if !ok {
				// Guard wired onto a non-snip field — a bug in the schema,
				// not caller input.
				return nil, apperror.InsufficientRole(string(required))
			}
			if err := CheckRole(p, snip, required); err != nil {
				return nil, err
			}
			return next(p)
		}
	}
}

// CheckRole verifies that the request's caller holds required on snip.
//
// Exposed separately for mutations that load the snip themselves before
// checking (setUserRole, setSnipContent) — the guard and the wrapped
// resolver share one check, not two implementations of it.
func CheckRole(p graphql.ResolveParams, snip *model.Snip, required model.Role) error {
	identityID, _ := auth.IdentityIDFromContext(p.Context)
	if !snip.HasRole(identityID, required) {
		return apperror.InsufficientRole(string(required))
	}
	return nil
}
