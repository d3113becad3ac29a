package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
)

type ListRecycleBinInput struct{}

type RecycleBinItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OriginalPath string `json:"originalPath"`
	Type         string `json:"type"`
	Size         int64  `json:"size"`
	DeletedAt    string `json:"deletedAt"`
}

type ListRecycleBinOutput struct {
	Entries []RecycleBinItem `json:"entries"`
}

type RestoreInput struct {
	ID string `json:"id" jsonschema:"Recycle bin entry id"`
}

type RestoreOutput struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (s *Server) registerRecycleBinTools() {
	bin := s.handlers.RecycleBin

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "recycleBinList",
		Description: "List recycle bin entries, most recently deleted first",
	}, LogToolCall("recycleBinList", func(ctx context.Context, req *mcp.CallToolRequest, input ListRecycleBinInput) (*mcp.CallToolResult, ListRecycleBinOutput, error) {
		entries := bin.List()
		items := make([]RecycleBinItem, 0, len(entries))
		for _, e := range entries {
			items = append(items, RecycleBinItem{
				ID:           e.ID,
				Name:         e.Name,
				OriginalPath: e.OriginalPath,
				Type:         string(e.Type),
				Size:         e.Size,
				DeletedAt:    e.DeletedAt.Format(time.RFC3339),
			})
		}
		return nil, ListRecycleBinOutput{Entries: items}, nil
	}))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "recycleBinRestore",
		Description: "Restore a recycle bin entry to its original path",
	}, LogToolCall("recycleBinRestore", func(ctx context.Context, req *mcp.CallToolRequest, input RestoreInput) (*mcp.CallToolResult, RestoreOutput, error) {
		entry, ok := bin.Get(input.ID)
		if !ok {
			return nil, RestoreOutput{}, fmt.Errorf("failed to restore %s: %w", input.ID, filesystem.ErrNotFound)
		}
		if _, err := bin.Restore(input.ID); err != nil {
			return nil, RestoreOutput{}, fmt.Errorf("failed to restore %s: %w", input.ID, err)
		}
		return nil, RestoreOutput{Path: entry.OriginalPath, Message: "Restored successfully"}, nil
	}))
}
