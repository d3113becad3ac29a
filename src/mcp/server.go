package mcp

import (
	"context"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/manojxshrestha/win11web-sub000/src/handler"
	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/metrics"
)

const serverVersion = "1.0.0"

// Server represents the MCP server
type Server struct {
	mcpServer *mcp.Server
	handlers  *Handlers
}

// Handlers contains everything the MCP tools operate on
type Handlers struct {
	FileSystem *filesystem.Filesystem
	RecycleBin *filesystem.RecycleBin
	Terminal   *handler.TerminalHandler
}

// NewServer creates a new MCP server
func NewServer(handlers *Handlers) *Server {
	logrus.Info("Creating MCP server")
	server := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: "win11web", Version: serverVersion}, nil),
		handlers:  handlers,
	}

	server.registerFileSystemTools()
	server.registerRecycleBinTools()
	server.registerTerminalTools()
	logrus.Info("MCP tools registered")

	return server
}

// Handler serves the MCP streamable HTTP transport.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}

// LogToolCall wraps a tool handler function with logging middleware
func LogToolCall[In, Out any](toolName string, h mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input In) (*mcp.CallToolResult, Out, error) {
		startTime := time.Now()
		logrus.WithFields(logrus.Fields{
			"tool": toolName,
			"args": input,
		}).Info("Tool call started")

		result, output, err := h(ctx, req, input)

		duration := time.Since(startTime)
		logEntry := logrus.WithFields(logrus.Fields{
			"tool":        toolName,
			"duration":    duration.String(),
			"duration_ms": duration.Milliseconds(),
		})

		if err != nil {
			logEntry.WithError(err).Error("Tool call failed")
		} else {
			logEntry.Info("Tool call completed successfully")
		}
		metrics.RecordMCPToolCall(toolName, err == nil)

		return result, output, err
	}
}
