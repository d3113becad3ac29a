package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/lib"
)

// NodeInfo is the tool view of a file or directory.
type NodeInfo struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Type       string `json:"type"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modifiedAt"`
}

func nodeInfos(nodes []*filesystem.FileNode) []NodeInfo {
	out := make([]NodeInfo, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NodeInfo{
			Name:       n.Name,
			Path:       n.Path,
			Type:       string(n.Type),
			Size:       n.Size,
			ModifiedAt: n.ModifiedAt.Format(time.RFC3339),
		})
	}
	return out
}

// Filesystem tool input/output types
type ListDirectoryInput struct {
	Path string `json:"path,omitempty" jsonschema:"Directory path, defaults to C:\\Users\\User"`
}

type ListDirectoryOutput struct {
	Path    string     `json:"path"`
	Entries []NodeInfo `json:"entries"`
}

type ReadFileInput struct {
	Path string `json:"path" jsonschema:"Path to the file"`
}

type ReadFileOutput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

type WriteFileInput struct {
	Path        string `json:"path" jsonschema:"Path to the file or directory"`
	Content     string `json:"content,omitempty" jsonschema:"Content to write to the file"`
	IsDirectory bool   `json:"isDirectory,omitempty" jsonschema:"Whether the path refers to a directory"`
}

type WriteFileOutput struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type DeleteFileInput struct {
	Path      string `json:"path" jsonschema:"Path to the file or directory"`
	Recursive bool   `json:"recursive,omitempty" jsonschema:"Whether to delete directory contents too"`
	Permanent bool   `json:"permanent,omitempty" jsonschema:"Skip the recycle bin"`
}

type DeleteFileOutput struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type SearchInput struct {
	Query string `json:"query" jsonschema:"Fuzzy query matched against file names"`
	Path  string `json:"path,omitempty" jsonschema:"Directory to search under, defaults to C:\\"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results"`
}

type SearchHit struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Type  string `json:"type"`
	Score int    `json:"score"`
}

type SearchOutput struct {
	Results []SearchHit `json:"results"`
}

// registerFileSystemTools registers filesystem-related tools
func (s *Server) registerFileSystemTools() {
	fs := s.handlers.FileSystem

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "fsListDirectory",
		Description: "List the contents of a directory of the virtual C: drive",
	}, LogToolCall("fsListDirectory", func(ctx context.Context, req *mcp.CallToolRequest, input ListDirectoryInput) (*mcp.CallToolResult, ListDirectoryOutput, error) {
		path := filesystem.HomeDirectory
		if input.Path != "" {
			path = lib.Normalize(input.Path)
		}
		if !fs.IsDirectory(path) {
			return nil, ListDirectoryOutput{}, fmt.Errorf("not a directory: %s", path)
		}
		return nil, ListDirectoryOutput{Path: path, Entries: nodeInfos(fs.ListDirectory(path))}, nil
	}))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "fsReadFile",
		Description: "Read contents of a file",
	}, LogToolCall("fsReadFile", func(ctx context.Context, req *mcp.CallToolRequest, input ReadFileInput) (*mcp.CallToolResult, ReadFileOutput, error) {
		node, ok := fs.GetFile(input.Path)
		if !ok {
			return nil, ReadFileOutput{}, fmt.Errorf("failed to read file: %w", filesystem.ErrNotFound)
		}
		if node.IsDir() {
			return nil, ReadFileOutput{}, fmt.Errorf("failed to read file: %w", filesystem.ErrIsDirectory)
		}
		return nil, ReadFileOutput{Path: node.Path, Content: node.Text(), Size: node.Size}, nil
	}))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "fsWriteFile",
		Description: "Create or update a file, or create a directory",
	}, LogToolCall("fsWriteFile", func(ctx context.Context, req *mcp.CallToolRequest, input WriteFileInput) (*mcp.CallToolResult, WriteFileOutput, error) {
		if input.IsDirectory {
			node := fs.MkdirAll(input.Path)
			if !node.IsDir() {
				return nil, WriteFileOutput{}, fmt.Errorf("a file exists at %s", node.Path)
			}
			return nil, WriteFileOutput{Path: node.Path, Message: "Directory created successfully"}, nil
		}
		node, err := fs.WriteFile(input.Path, input.Content)
		if err != nil {
			return nil, WriteFileOutput{}, fmt.Errorf("failed to write file: %w", err)
		}
		return nil, WriteFileOutput{Path: node.Path, Message: "File written successfully"}, nil
	}))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "fsDeleteFileOrDirectory",
		Description: "Move a file or directory to the recycle bin, or delete it permanently",
	}, LogToolCall("fsDeleteFileOrDirectory", func(ctx context.Context, req *mcp.CallToolRequest, input DeleteFileInput) (*mcp.CallToolResult, DeleteFileOutput, error) {
		path := lib.Normalize(input.Path)
		node, ok := fs.GetFile(path)
		if !ok {
			return nil, DeleteFileOutput{}, fmt.Errorf("failed to delete: %w", filesystem.ErrNotFound)
		}

		var err error
		switch {
		case input.Permanent && node.IsDir():
			_, err = fs.DeleteDirectory(path, input.Recursive)
		case input.Permanent:
			fs.DeleteFile(path)
		case node.IsDir():
			_, err = s.handlers.RecycleBin.RecycleDirectory(path, input.Recursive)
		default:
			s.handlers.RecycleBin.Recycle(path)
		}
		if err != nil {
			return nil, DeleteFileOutput{}, fmt.Errorf("failed to delete: %w", err)
		}

		msg := "Moved to the recycle bin"
		if input.Permanent {
			msg = "Deleted permanently"
		}
		return nil, DeleteFileOutput{Path: path, Message: msg}, nil
	}))

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "fsSearch",
		Description: "Fuzzy search file and directory names",
	}, LogToolCall("fsSearch", func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
		root := `C:\`
		if input.Path != "" {
			root = input.Path
		}
		results := fs.Search(input.Query, root, input.Limit)
		hits := make([]SearchHit, 0, len(results))
		for _, r := range results {
			hits = append(hits, SearchHit{Name: r.Node.Name, Path: r.Node.Path, Type: string(r.Node.Type), Score: r.Score})
		}
		return nil, SearchOutput{Results: hits}, nil
	}))
}
