// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes zk tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/zk/internal/catalog"
	"github.com/starford/zk/internal/service"
)

// NoteFormatURI identifies the note format resource.
const NoteFormatURI = "zk://note-format"

// Server wraps the MCP server with zk tools.
type Server struct {
	mcp *server.MCPServer
	svc *service.Service
}

// New creates a new MCP server with all zk tools registered.
func New(svc *service.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"zk",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("create_zettel",
		mcp.WithDescription("Create a new zettel: writes a dated Markdown file with uuid "+
			"frontmatter and records it in the index. Read "+NoteFormatURI+" for the layout."),
		mcp.WithString("title", mcp.Description("Note title (defaults to \"my note\")")),
	), s.createZettel)

	s.mcp.AddTool(mcp.NewTool("sync_zettels",
		mcp.WithDescription("Reconcile the index after notes were renamed. "+
			"Returns one \"<old> -> <new>\" line per detected rename."),
	), s.syncZettels)

	s.mcp.AddTool(mcp.NewTool("list_zettels",
		mcp.WithDescription("List indexed zettels with their current path and title."),
		mcp.WithString("sort", mcp.Description("created, modified, path or title"),
			mcp.Enum("created", "modified", "path", "title")),
		mcp.WithString("query", mcp.Description("Case-insensitive filter on title or path")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of rows")),
	), s.listZettels)

	s.mcp.AddTool(mcp.NewTool("get_zettel",
		mcp.WithDescription("Get one zettel by uuid."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Zettel uuid")),
	), s.getZettel)

	s.mcp.AddResource(
		mcp.NewResource(NoteFormatURI, "Note Format",
			mcp.WithResourceDescription("Layout of zettel files and the index."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) createZettel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := ""
	if t, err := req.RequireString("title"); err == nil {
		title = t
	}
	c, err := s.svc.Create(ctx, title)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(c)
}

func (s *Server) syncZettels(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	renames, err := s.svc.Sync(ctx)
	lines := make([]string, 0, len(renames))
	for _, r := range renames {
		lines = append(lines, r.String())
	}
	if err != nil {
		if len(lines) > 0 {
			return mcp.NewToolResultError(fmt.Sprintf("%s\n(saved before failing)\n%s",
				err.Error(), strings.Join(lines, "\n"))), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no renames detected"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) listZettels(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var q catalog.Query
	if v, err := req.RequireString("sort"); err == nil {
		q.Sort = v
	}
	if v, err := req.RequireString("query"); err == nil {
		q.Text = v
	}
	if v, err := req.RequireInt("limit"); err == nil {
		q.Limit = v
	}

	rows, total, err := s.svc.List(ctx, q)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if rows == nil {
		rows = []catalog.Row{}
	}
	return jsonResult(map[string]any{"zettels": rows, "total": total})
}

func (s *Server) getZettel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(d)
}

func (s *Server) readNoteFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      NoteFormatURI,
			MIMEType: "text/markdown",
			Text:     NoteFormat,
		},
	}, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
