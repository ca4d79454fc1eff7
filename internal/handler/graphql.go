package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/sakif/snipshare/internal/graph"
)

// GraphQLHandler serves the single POST /graphql endpoint.
//
// The identity context is established by auth.ContextMiddleware before
// this handler runs, exactly once per request. Execution below may then
// resolve any number of fields against that one immutable identity.
type GraphQLHandler struct {
	graph  *graph.Graph
	logger *slog.Logger
}

// NewGraphQLHandler creates a GraphQLHandler.
func NewGraphQLHandler(g *graph.Graph, logger *slog.Logger) *GraphQLHandler {
	return &GraphQLHandler{graph: g, logger: logger}
}

// graphqlRequest is the standard GraphQL-over-HTTP request body.
type graphqlRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// HandleQuery executes a GraphQL request.
//
// PARTIAL RESULTS:
// The response always has the {data, errors} shape. A resolver error —
// including an authorization denial — nulls that one field and appends to
// errors; sibling fields still carry their values. The HTTP status is 200
// for any executed request: per-field failure is not a transport failure.
func (h *GraphQLHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "request body must be JSON with a query field",
		})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "query is required",
		})
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.graph.Schema(),
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	if len(result.Errors) > 0 {
		h.logger.Debug("graphql request completed with field errors",
			slog.Int("errors", len(result.Errors)),
		)
	}

	writeJSON(w, http.StatusOK, result)
}
