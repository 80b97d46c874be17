package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/tliron/commonlog"

	"github.com/odvcencio/tabpad/editor"
)

var log = commonlog.GetLogger("tabpad.mcp")

// NewServer builds an MCP server exposing every tool and resource in reg.
func NewServer(reg *Registry, version string) *server.MCPServer {
	s := server.NewMCPServer("tabpad", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	for _, tool := range reg.Tools() {
		s.AddTool(mcp.NewToolWithRawSchema(tool.Name, tool.Description, tool.InputSchema), toolHandler(tool))
	}

	for _, res := range reg.Resources() {
		template := mcp.NewResourceTemplate(res.URI, res.Name,
			mcp.WithTemplateDescription(res.Description),
			mcp.WithTemplateMIMEType(res.MimeType),
		)
		s.AddResourceTemplate(template, resourceHandler(res))
	}
	return s
}

func toolHandler(tool ToolDef) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params, err := json.Marshal(request.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultError("invalid arguments: " + err.Error()), nil
		}
		out, err := tool.Handler(ctx, params)
		if err != nil {
			if !errors.Is(err, editor.ErrCancelled) {
				log.Warningf("tool %s: %v", tool.Name, err)
			}
			return mcp.NewToolResultError(err.Error()), nil
		}
		data, err := json.Marshal(out)
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}

func resourceHandler(res ResourceDef) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := res.Handler(ctx, request.Params.URI)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: res.MimeType,
				Text:     text,
			},
		}, nil
	}
}

// ServeStdio serves s over in and out until ctx is done or in is closed.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	log.Info("serving MCP over stdio")
	err := server.NewStdioServer(s).Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
