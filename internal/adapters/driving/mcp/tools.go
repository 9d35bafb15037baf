package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// SearchInput is the input schema for the search_reviews tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question or phrase to find similar reviews for"`
	K     int    `json:"k,omitempty" jsonschema:"number of reviews to return (default from config)"`
}

// SearchOutput is the output schema for the search_reviews tool.
type SearchOutput struct {
	Results []ReviewOutput `json:"results"`
	Count   int            `json:"count"`
}

// ReviewOutput represents one retrieved review.
type ReviewOutput struct {
	DocumentID string            `json:"document_id"`
	RecordID   int               `json:"record_id"`
	Text       string            `json:"text"`
	Similarity float64           `json:"similarity"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// AskInput is the input schema for the ask_reviews tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from patient reviews"`
}

// AskOutput is the output schema for the ask_reviews tool.
type AskOutput struct {
	Answer  string         `json:"answer"`
	Sources []ReviewOutput `json:"sources"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_reviews",
		Description: "Find the hospital reviews most similar to a query",
	}, s.handleSearch)

	if s.ports.Answer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask_reviews",
			Description: "Answer a question using retrieved hospital reviews as context",
		}, s.handleAsk)
	}
}

// handleSearch handles the search_reviews tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	k := input.K
	if k <= 0 {
		k = s.ports.Retrieval.DefaultK()
	}

	results, err := s.ports.Retrieval.Query(ctx, input.Query, k)
	if err != nil {
		return nil, SearchOutput{}, toolError(err)
	}

	return nil, SearchOutput{
		Results: reviewOutputs(results),
		Count:   len(results),
	}, nil
}

// handleAsk handles the ask_reviews tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answer.Answer(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, toolError(err)
	}

	return nil, AskOutput{
		Answer:  answer.Text,
		Sources: reviewOutputs(answer.Sources),
	}, nil
}

func reviewOutputs(results []domain.ScoredDocument) []ReviewOutput {
	out := make([]ReviewOutput, len(results))
	for i := range results {
		doc := results[i].Document
		out[i] = ReviewOutput{
			DocumentID: doc.ID,
			RecordID:   doc.RecordID,
			Text:       doc.Text,
			Similarity: results[i].Similarity,
			Metadata:   doc.Metadata,
		}
	}
	return out
}

// toolError adds a hint when the index has not been built yet.
func toolError(err error) error {
	if errors.Is(err, domain.ErrIndexUnavailable) {
		return fmt.Errorf("%w (run 'reviewrag build' first)", err)
	}
	return err
}
