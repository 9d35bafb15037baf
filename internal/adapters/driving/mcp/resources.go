package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for reviewrag resources.
	uriScheme = "reviewrag://"

	indexStatusURI = uriScheme + "index/status"
)

// IndexStatus is the JSON body of the index status resource.
type IndexStatus struct {
	State     string `json:"state"`
	Documents int    `json:"documents"`
	Path      string `json:"path"`
	Building  bool   `json:"building"`
	Batches   string `json:"batches,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         indexStatusURI,
		Name:        "index-status",
		Description: "Lifecycle state and document count of the review index",
		MIMEType:    "application/json",
	}, s.handleIndexStatusResource)
}

// handleIndexStatusResource reports the index state.
func (s *Server) handleIndexStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	status := IndexStatus{State: domain.IndexUninitialized.String()}

	if s.ports.Index != nil {
		info := s.ports.Index.Info(ctx)
		build := s.ports.Index.Status()

		status.State = info.State.String()
		status.Documents = info.Documents
		status.Path = info.Path
		status.Building = build.Running
		if build.BatchCount > 0 {
			status.Batches = fmt.Sprintf("%d/%d", build.BatchesDone, build.BatchCount)
		}
	}

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling index status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
