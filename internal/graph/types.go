package graph

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/sakif/snipshare/internal/guard"
	"github.com/sakif/snipshare/internal/model"
)

// buildTypes constructs the object types and wires the User ⇄ Snip cycle.
func (g *Graph) buildTypes() {
	g.roleEnum = graphql.NewEnum(graphql.EnumConfig{
		Name:        "Role",
		Description: "Permission level on a snip. OWNER > EDITOR > READER.",
		Values: graphql.EnumValueConfigMap{
			"OWNER":  &graphql.EnumValueConfig{Value: model.RoleOwner},
			"EDITOR": &graphql.EnumValueConfig{Value: model.RoleEditor},
			"READER": &graphql.EnumValueConfig{Value: model.RoleReader},
		},
	})

	g.userType = graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: g.resolveUserID,
			},
			"username": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: g.resolveUserUsername,
			},
		},
	})

	// Snip's sensitive fields each carry their own READER guard. id and
	// public are ungated: existence is public in this design, and the id
	// is what a caller needs to be granted access in the first place.
	readGuard := guard.Role(model.RoleReader)

	g.snipType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Snip",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.String),
				Resolve: g.resolveSnipID,
			},
			"public": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.Boolean),
				Resolve: g.resolveSnipPublic,
			},
			"name": &graphql.Field{
				Type:    graphql.String,
				Resolve: readGuard(g.resolveSnipName),
			},
			"content": &graphql.Field{
				Type:    graphql.String,
				Resolve: readGuard(g.resolveSnipContent),
			},
			"owner": &graphql.Field{
				Type:    g.userType,
				Resolve: readGuard(g.resolveSnipOwner),
			},
		},
	})

	g.userRoleType = graphql.NewObject(graphql.ObjectConfig{
		Name: "UserRole",
		Fields: graphql.Fields{
			"user": &graphql.Field{
				Type:    graphql.NewNonNull(g.userType),
				Resolve: g.resolveUserRoleUser,
			},
			"role": &graphql.Field{
				Type:    g.roleEnum,
				Resolve: g.resolveUserRoleRole,
			},
		},
	})

	// Cyclic fields, attached once both sides exist.
	g.userType.AddFieldConfig("snips", &graphql.Field{
		Type:    graphql.NewNonNull(graphql.NewList(g.snipType)),
		Resolve: g.resolveUserSnips,
	})
	g.snipType.AddFieldConfig("users", &graphql.Field{
		Type:    graphql.NewList(graphql.NewNonNull(g.userRoleType)),
		Resolve: readGuard(g.resolveSnipUsers),
	})
}

// ----- User field resolvers -----

func userSource(p graphql.ResolveParams) (*model.Identity, error) {
	u, ok := p.Source.(*model.Identity)
	if !ok {
		return nil, fmt.Errorf("graph: User field resolved against %T", p.Source)
	}
	return u, nil
}

func (g *Graph) resolveUserID(p graphql.ResolveParams) (interface{}, error) {
	u, err := userSource(p)
	if err != nil {
		return nil, err
	}
	return u.ID, nil
}

func (g *Graph) resolveUserUsername(p graphql.ResolveParams) (interface{}, error) {
	u, err := userSource(p)
	if err != nil {
		return nil, err
	}
	return u.Username, nil
}

// resolveUserSnips returns the snips the user owns, in creation order.
// The list itself is visible to anyone who can see the user; each snip's
// gated fields still run their own guards.
func (g *Graph) resolveUserSnips(p graphql.ResolveParams) (interface{}, error) {
	u, err := userSource(p)
	if err != nil {
		return nil, err
	}
	snips, err := g.snips.ListByOwner(p.Context, u.ID)
	if err != nil {
		return nil, err
	}
	return snipPtrs(snips), nil
}

// ----- Snip field resolvers -----

func snipSource(p graphql.ResolveParams) (*model.Snip, error) {
	s, ok := p.Source.(*model.Snip)
	if !ok {
		return nil, fmt.Errorf("graph: Snip field resolved against %T", p.Source)
	}
	return s, nil
}

func (g *Graph) resolveSnipID(p graphql.ResolveParams) (interface{}, error) {
	s, err := snipSource(p)
	if err != nil {
		return nil, err
	}
	return s.ID, nil
}

func (g *Graph) resolveSnipPublic(p graphql.ResolveParams) (interface{}, error) {
	s, err := snipSource(p)
	if err != nil {
		return nil, err
	}
	return s.Public, nil
}

func (g *Graph) resolveSnipName(p graphql.ResolveParams) (interface{}, error) {
	s, err := snipSource(p)
	if err != nil {
		return nil, err
	}
	return s.Name, nil
}

func (g *Graph) resolveSnipContent(p graphql.ResolveParams) (interface{}, error) {
	s, err := snipSource(p)
	if err != nil {
		return nil, err
	}
	return s.Content, nil
}

func (g *Graph) resolveSnipOwner(p graphql.ResolveParams) (interface{}, error) {
	s, err := snipSource(p)
	if err != nil {
		return nil, err
	}
	return g.identities.GetByID(p.Context, s.OwnerID)
}

// resolveSnipUsers returns the snip's role assignments (the sharee list).
// The implicit owner is not in it — owner privilege is derived, never
// stored as an assignment.
func (g *Graph) resolveSnipUsers(p graphql.ResolveParams) (interface{}, error) {
	s, err := snipSource(p)
	if err != nil {
		return nil, err
	}
	roles := make([]*model.RoleAssignment, len(s.Roles))
	for i := range s.Roles {
		roles[i] = &s.Roles[i]
	}
	return roles, nil
}

// ----- UserRole field resolvers -----

func roleSource(p graphql.ResolveParams) (*model.RoleAssignment, error) {
	ra, ok := p.Source.(*model.RoleAssignment)
	if !ok {
		return nil, fmt.Errorf("graph: UserRole field resolved against %T", p.Source)
	}
	return ra, nil
}

func (g *Graph) resolveUserRoleUser(p graphql.ResolveParams) (interface{}, error) {
	ra, err := roleSource(p)
	if err != nil {
		return nil, err
	}
	return g.identities.GetByID(p.Context, ra.UserID)
}

func (g *Graph) resolveUserRoleRole(p graphql.ResolveParams) (interface{}, error) {
	ra, err := roleSource(p)
	if err != nil {
		return nil, err
	}
	return ra.Role, nil
}

// snipPtrs converts a value slice from the repository into the pointer
// slice the resolvers hand out (guards type-assert on *model.Snip).
func snipPtrs(snips []model.Snip) []*model.Snip {
	out := make([]*model.Snip, len(snips))
	for i := range snips {
		out[i] = &snips[i]
	}
	return out
}
