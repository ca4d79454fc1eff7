package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/guard"
	"github.com/sakif/snipshare/internal/repository"
)

// queryType defines the query entry operations and the guard each one
// carries.
//
//	me        — Authenticated(true): the caller's own identity
//	user      — public lookup by username
//	validate  — Authenticated(false): credentials → token
//	snip      — public existence lookup; sub-fields gate themselves
//	snips     — public listing; sub-fields gate themselves
func (g *Graph) queryType() *graphql.Object {
	snipQueryInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "SnipQuery",
		Fields: graphql.InputObjectConfigFieldMap{
			"name": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:    g.userType,
				Resolve: guard.Authenticated(true)(g.resolveMe),
			},
			"user": &graphql.Field{
				Type: g.userType,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: g.resolveUser,
			},
			"validate": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: guard.Authenticated(false)(g.resolveValidate),
			},
			"snip": &graphql.Field{
				Type: g.snipType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: g.resolveSnip,
			},
			"snips": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(g.snipType))),
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: snipQueryInput},
				},
				Resolve: g.resolveSnips,
			},
		},
	})
}

// resolveMe returns the caller's identity. The Authenticated(true) guard
// already ran, so an absent identity here means the account vanished
// between token issuance and now.
func (g *Graph) resolveMe(p graphql.ResolveParams) (interface{}, error) {
	identityID, ok := auth.IdentityIDFromContext(p.Context)
	if !ok {
		return nil, apperror.NotAuthenticated()
	}
	return g.identities.GetByID(p.Context, identityID)
}

func (g *Graph) resolveUser(p graphql.ResolveParams) (interface{}, error) {
	username, _ := p.Args["username"].(string)
	return g.identities.GetByUsername(p.Context, username)
}

func (g *Graph) resolveValidate(p graphql.ResolveParams) (interface{}, error) {
	username, _ := p.Args["username"].(string)
	password, _ := p.Args["password"].(string)
	return g.identities.ValidateCredentials(p.Context, username, password)
}

func (g *Graph) resolveSnip(p graphql.ResolveParams) (interface{}, error) {
	id, _ := p.Args["id"].(string)
	return g.snips.GetByID(p.Context, id)
}

func (g *Graph) resolveSnips(p graphql.ResolveParams) (interface{}, error) {
	filter := repository.SnipFilter{}
	if q, ok := p.Args["query"].(map[string]interface{}); ok {
		if name, ok := q["name"].(string); ok {
			filter.Name = name
		}
	}

	snips, err := g.snips.List(p.Context, filter)
	if err != nil {
		return nil, err
	}
	return snipPtrs(snips), nil
}
