package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesibaram/RAG-Based-Knowledge-Chatbot/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func readStatus(t *testing.T, server *Server) IndexStatus {
	t.Helper()
	result, err := server.handleIndexStatusResource(context.Background(), makeReadResourceRequest(indexStatusURI))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Equal(t, indexStatusURI, result.Contents[0].URI)

	var status IndexStatus
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &status))
	return status
}

func TestServer_handleIndexStatusResource(t *testing.T) {
	t.Run("nil index service reports uninitialized", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		status := readStatus(t, server)

		assert.Equal(t, "uninitialized", status.State)
		assert.Zero(t, status.Documents)
		assert.False(t, status.Building)
	})

	t.Run("reports persisted index", func(t *testing.T) {
		index := &mockIndexService{
			info:   domain.IndexInfo{State: domain.IndexPersisted, Documents: 45, Path: "artifacts/index"},
			status: domain.BuildStatus{BatchesDone: 3, BatchCount: 3},
		}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Index: index})
		require.NoError(t, err)

		status := readStatus(t, server)

		assert.Equal(t, "persisted", status.State)
		assert.Equal(t, 45, status.Documents)
		assert.Equal(t, "artifacts/index", status.Path)
		assert.Equal(t, "3/3", status.Batches)
	})

	t.Run("reports build in progress", func(t *testing.T) {
		index := &mockIndexService{
			info:   domain.IndexInfo{State: domain.IndexBuilding, Documents: 20},
			status: domain.BuildStatus{Running: true, BatchesDone: 1, BatchCount: 3, Waiting: true},
		}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Index: index})
		require.NoError(t, err)

		status := readStatus(t, server)

		assert.Equal(t, "building", status.State)
		assert.True(t, status.Building)
		assert.Equal(t, "1/3", status.Batches)
	})
}
