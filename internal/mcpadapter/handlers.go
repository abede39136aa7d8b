package mcpadapter

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/pub-search/internal/agent"
	"github.com/povarna/generative-ai-agents/pub-search/internal/search"
)

var ErrAskDisabled = errors.New("question answering is disabled; set RAG_ENABLED=true")

// SearchInput is the MCP tool input schema (matches HTTP API field names).
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to look for in publication titles, links and sections"`
	Exact bool   `json:"exact,omitempty" jsonschema:"only return whole-phrase matches"`
}

// AskInput is the MCP tool input schema for question answering.
type AskInput struct {
	Question string `json:"question" jsonschema:"question about the publications"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of passages used as context (1-20, default: 5)"`
}

// NewSearchHandler returns a tool handler backed by the search service.
// Pass the returned function to mcp.AddTool.
func NewSearchHandler(svc *search.Service) func(context.Context, *mcp.CallToolRequest, SearchInput) (*mcp.CallToolResult, search.SearchResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, search.SearchResponse, error) {
		return SearchPublications(ctx, svc, req, input)
	}
}

// SearchPublications runs a ranked search over the current corpus.
func SearchPublications(
	ctx context.Context,
	svc *search.Service,
	req *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, search.SearchResponse, error) {
	results, err := svc.SearchStore(ctx, input.Query, input.Exact)
	if err != nil {
		return nil, search.SearchResponse{}, err
	}

	return nil, search.SearchResponse{
		Query:  input.Query,
		Exact:  input.Exact,
		Result: results,
		Count:  len(results),
	}, nil
}

// NewAskHandler returns a tool handler backed by the answering service.
// svc may be nil, in which case every call fails with ErrAskDisabled.
func NewAskHandler(svc *agent.Service) func(context.Context, *mcp.CallToolRequest, AskInput) (*mcp.CallToolResult, agent.AskResponse, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, agent.AskResponse, error) {
		return AskPublications(ctx, svc, req, input)
	}
}

// AskPublications answers a question with the same validation as the HTTP API.
func AskPublications(
	ctx context.Context,
	svc *agent.Service,
	req *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, agent.AskResponse, error) {
	if svc == nil {
		return nil, agent.AskResponse{}, ErrAskDisabled
	}

	askRequest := agent.AskRequest{
		Question: input.Question,
		TopK:     input.TopK,
	}
	askRequest.SetDefaults()
	if err := askRequest.Validate(); err != nil {
		return nil, agent.AskResponse{}, err
	}

	resp, err := svc.Ask(ctx, askRequest)
	if err != nil {
		return nil, agent.AskResponse{}, err
	}
	return nil, *resp, nil
}
