package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/zk/internal/service"
	"github.com/starford/zk/internal/testutil"
)

var start = time.Date(2022, 1, 2, 9, 30, 0, 0, time.UTC)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()

	dir, store := testutil.TestVault(t)
	svc := service.New(store,
		service.WithClock(testutil.Clock(start, time.Second)),
		service.WithIDGenerator(testutil.IDs()),
		service.WithCatalog(testutil.TestCatalog(t)),
	)
	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return New(svc, "test"), dir
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no in-process call helper, so dispatch to the handlers.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "create_zettel":
		result, err = srv.createZettel(ctx, req)
	case "sync_zettels":
		result, err = srv.syncZettels(ctx, req)
	case "list_zettels":
		result, err = srv.listZettels(ctx, req)
	case "get_zettel":
		result, err = srv.getZettel(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndGetZettel(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_zettel", map[string]interface{}{"title": "my note"})
	if r.IsError {
		t.Fatalf("create failed: %s", resultText(r))
	}
	var created service.Created
	if err := json.Unmarshal([]byte(resultText(r)), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != "id-1" || created.Path != "2022-01-02-my-note.md" {
		t.Errorf("created = %+v", created)
	}

	r = callTool(t, srv, "get_zettel", map[string]interface{}{"id": "id-1"})
	var d service.ZettelDetail
	if err := json.Unmarshal([]byte(resultText(r)), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Title != "my note" || d.Path != created.Path {
		t.Errorf("detail = %+v", d)
	}
}

func TestCreateDefaultTitle(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_zettel", map[string]interface{}{})
	if !strings.Contains(resultText(r), "2022-01-02-my-note.md") {
		t.Errorf("result = %q", resultText(r))
	}
}

func TestCreateCollision(t *testing.T) {
	srv, _ := testServer(t)
	_ = callTool(t, srv, "create_zettel", map[string]interface{}{"title": "dup"})

	r := callTool(t, srv, "create_zettel", map[string]interface{}{"title": "dup"})
	if !r.IsError {
		t.Error("expected error for colliding file name")
	}
}

func TestGetZettelMissing(t *testing.T) {
	srv, _ := testServer(t)
	if r := callTool(t, srv, "get_zettel", map[string]interface{}{"id": "nope"}); !r.IsError {
		t.Error("expected error for unknown id")
	}
	if r := callTool(t, srv, "get_zettel", map[string]interface{}{}); !r.IsError {
		t.Error("expected error for missing id")
	}
}

func TestSyncZettels(t *testing.T) {
	srv, dir := testServer(t)
	_ = callTool(t, srv, "create_zettel", map[string]interface{}{"title": "a"})

	if got := resultText(callTool(t, srv, "sync_zettels", nil)); got != "no renames detected" {
		t.Errorf("idle sync = %q", got)
	}

	testutil.Rename(t, dir, "2022-01-02-a.md", "b.md")
	r := callTool(t, srv, "sync_zettels", nil)
	if got := resultText(r); got != "2022-01-02-a.md -> b.md" {
		t.Errorf("sync = %q", got)
	}
}

func TestSyncZettelsMalformed(t *testing.T) {
	srv, dir := testServer(t)
	_ = callTool(t, srv, "create_zettel", map[string]interface{}{"title": "a"})
	testutil.Rename(t, dir, "2022-01-02-a.md", "0-a.md")
	if err := os.WriteFile(filepath.Join(dir, "9-bad.md"), []byte("no frontmatter"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "sync_zettels", nil)
	if !r.IsError {
		t.Fatal("expected error for malformed note")
	}
	text := resultText(r)
	if !strings.Contains(text, "9-bad.md") || !strings.Contains(text, "2022-01-02-a.md -> 0-a.md") {
		t.Errorf("error text = %q", text)
	}
}

func TestListZettels(t *testing.T) {
	srv, _ := testServer(t)
	for _, title := range []string{"zebra", "apple"} {
		_ = callTool(t, srv, "create_zettel", map[string]interface{}{"title": title})
	}

	r := callTool(t, srv, "list_zettels", map[string]interface{}{"sort": "title", "limit": 1})
	var out struct {
		Zettels []struct {
			Title string `json:"title"`
		} `json:"zettels"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &out); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	if out.Total != 2 || len(out.Zettels) != 1 || out.Zettels[0].Title != "apple" {
		t.Errorf("list = %+v", out)
	}

	if r := callTool(t, srv, "list_zettels", map[string]interface{}{"sort": "size"}); !r.IsError {
		t.Error("expected error for unknown sort")
	}
}

func TestNoteFormatResource(t *testing.T) {
	srv, _ := testServer(t)
	contents, err := srv.readNoteFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != NoteFormatURI || !strings.Contains(tc.Text, "uuid:") {
		t.Errorf("resource = %+v", contents[0])
	}
}
