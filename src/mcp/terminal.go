package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/manojxshrestha/win11web-sub000/src/handler"
)

type ExecuteCommandInput struct {
	Command          string `json:"command" jsonschema:"Command line to run, e.g. dir or Get-ChildItem"`
	Shell            string `json:"shell,omitempty" jsonschema:"powershell (default) or cmd"`
	CurrentDirectory string `json:"currentDirectory,omitempty" jsonschema:"Directory to run in, defaults to C:\\Users\\User"`
	SessionID        string `json:"sessionId,omitempty" jsonschema:"Terminal session whose directory and history to use"`
}

type ExecuteCommandOutput struct {
	Output           string `json:"output"`
	ExitCode         int    `json:"exitCode"`
	Error            string `json:"error,omitempty"`
	CurrentDirectory string `json:"currentDirectory"`
	Prompt           string `json:"prompt"`
}

func (s *Server) registerTerminalTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "terminalExecute",
		Description: "Run a simulated cmd or PowerShell command against the virtual filesystem",
	}, LogToolCall("terminalExecute", func(ctx context.Context, req *mcp.CallToolRequest, input ExecuteCommandInput) (*mcp.CallToolResult, ExecuteCommandOutput, error) {
		res, err := s.handlers.Terminal.Execute(handler.ExecuteRequest{
			Command:          input.Command,
			Shell:            input.Shell,
			CurrentDirectory: input.CurrentDirectory,
			SessionID:        input.SessionID,
		})
		if err != nil {
			return nil, ExecuteCommandOutput{}, err
		}
		return nil, ExecuteCommandOutput{
			Output:           res.Output,
			ExitCode:         res.ExitCode,
			Error:            res.Error,
			CurrentDirectory: res.CurrentDirectory,
			Prompt:           res.Prompt,
		}, nil
	}))
}
