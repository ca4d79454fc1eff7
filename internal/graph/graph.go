// Package graph builds the GraphQL schema — the execution graph the
// authorization guards protect.
//
// FIELD-LEVEL AUTHORIZATION:
// The entry operations (snip, snips) perform no access check of their own:
// a snip's existence is public. Every sensitive sub-field of Snip — name,
// content, owner, users — carries its own guard.Role(READER) wrapper and
// re-derives the caller's role from the request context and the snip's
// ownership + role list. Fields resolve independently (graphql-go may run
// sibling list items concurrently), so a denied field becomes a per-field
// error and a null value while its siblings still resolve.
package graph

import (
	"log/slog"

	"github.com/graphql-go/graphql"

	"github.com/sakif/snipshare/internal/service"
)

// Graph owns the schema and the services its resolvers call.
type Graph struct {
	identities *service.IdentityService
	snips      *service.SnipService
	logger     *slog.Logger

	// Object types are fields (not locals) because User ⇄ Snip reference
	// each other; cyclic fields are attached after both types exist.
	userType     *graphql.Object
	snipType     *graphql.Object
	userRoleType *graphql.Object
	roleEnum     *graphql.Enum

	schema graphql.Schema
}

// New builds the schema against the given services.
func New(identities *service.IdentityService, snips *service.SnipService, logger *slog.Logger) (*Graph, error) {
	g := &Graph{
		identities: identities,
		snips:      snips,
		logger:     logger,
	}

	g.buildTypes()

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    g.queryType(),
		Mutation: g.mutationType(),
	})
	if err != nil {
		return nil, err
	}
	g.schema = schema

	return g, nil
}

// Schema returns the built schema for execution.
func (g *Graph) Schema() graphql.Schema {
	return g.schema
}
