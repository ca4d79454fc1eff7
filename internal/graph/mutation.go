package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/guard"
	"github.com/sakif/snipshare/internal/model"
)

// mutationType defines the mutation entry operations and their guards.
//
//	newUser        — Authenticated(false)
//	newSnip        — Authenticated(true); caller becomes owner
//	setUserRole    — Authenticated(true) + OWNER on the target snip
//	setSnipContent — Authenticated(true) + OWNER on the target snip
//
// The two OWNER-gated mutations load the snip themselves and run the role
// check against the loaded instance — the snip is the mutation's input,
// not its source, so the field-level Role guard can't see it.
func (g *Graph) mutationType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"newUser": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: guard.Authenticated(false)(g.resolveNewUser),
			},
			"newSnip": &graphql.Field{
				Type: g.snipType,
				Args: graphql.FieldConfigArgument{
					"name":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"public": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Boolean)},
				},
				Resolve: guard.Authenticated(true)(g.resolveNewSnip),
			},
			"setUserRole": &graphql.Field{
				Type: g.userRoleType,
				Args: graphql.FieldConfigArgument{
					"snipId":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"role":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(g.roleEnum)},
				},
				Resolve: guard.Authenticated(true)(g.resolveSetUserRole),
			},
			"setSnipContent": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"snipId":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"newContent": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: guard.Authenticated(true)(g.resolveSetSnipContent),
			},
		},
	})
}

func (g *Graph) resolveNewUser(p graphql.ResolveParams) (interface{}, error) {
	username, _ := p.Args["username"].(string)
	password, _ := p.Args["password"].(string)
	return g.identities.Register(p.Context, username, password)
}

func (g *Graph) resolveNewSnip(p graphql.ResolveParams) (interface{}, error) {
	identityID, ok := auth.IdentityIDFromContext(p.Context)
	if !ok {
		return nil, apperror.NotAuthenticated()
	}

	name, _ := p.Args["name"].(string)
	public, _ := p.Args["public"].(bool)
	return g.snips.Create(p.Context, identityID, name, public)
}

func (g *Graph) resolveSetUserRole(p graphql.ResolveParams) (interface{}, error) {
	snipID, _ := p.Args["snipId"].(string)
	username, _ := p.Args["username"].(string)
	// The Role enum's values are model.Role, so a validated argument
	// arrives already typed. The string fallback covers variables coerced
	// by name.
	role, ok := p.Args["role"].(model.Role)
	if !ok {
		name, _ := p.Args["role"].(string)
		parsed, err := model.ParseRole(name)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	snip, err := g.snips.GetByID(p.Context, snipID)
	if err != nil {
		return nil, err
	}
	if err := guard.CheckRole(p, snip, model.RoleOwner); err != nil {
		return nil, err
	}

	return g.snips.GrantRole(p.Context, snipID, username, role)
}

func (g *Graph) resolveSetSnipContent(p graphql.ResolveParams) (interface{}, error) {
	snipID, _ := p.Args["snipId"].(string)
	newContent, _ := p.Args["newContent"].(string)

	snip, err := g.snips.GetByID(p.Context, snipID)
	if err != nil {
		return nil, err
	}
	if err := guard.CheckRole(p, snip, model.RoleOwner); err != nil {
		return nil, err
	}

	if err := g.snips.SetContent(p.Context, snipID, newContent); err != nil {
		return nil, err
	}
	return newContent, nil
}
