package mcpserver

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/mannaz/internal/index"
	"github.com/starford/mannaz/internal/storage"
	"github.com/starford/mannaz/internal/syncer"
)

type stubRunner struct {
	res syncer.Result
	err error
}

func (r *stubRunner) Sync(_ context.Context) (syncer.Result, error) {
	return r.res, r.err
}

func testServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()
	return testServerWithRunner(t, &stubRunner{})
}

func testServerWithRunner(t *testing.T, runner SyncRunner) (*Server, storage.Provider) {
	t.Helper()

	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}

	dbFile, err := os.CreateTemp("", "mannaz-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	srv := New(store, db, runner)
	return srv, store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we test
	// through the tool handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "sync_meetings":
		result, err = srv.syncMeetings(ctx, req)
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "person_notes":
		result, err = srv.personNotes(ctx, req)
	case "list_people":
		result, err = srv.listPeople(ctx, req)
	case "get_backlinks":
		result, err = srv.getBacklinks(ctx, req)
	case "get_note_contract":
		result, err = srv.getNoteContract(ctx, req)
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

func TestSyncMeetings(t *testing.T) {
	runner := &stubRunner{res: syncer.Result{Total: 3, Synced: 2, Skipped: 1}}
	srv, _ := testServerWithRunner(t, runner)

	r := callTool(t, srv, "sync_meetings", map[string]interface{}{})
	text := resultText(r)
	if text != "synced 2 of 3 documents (1 skipped, 0 failed)" {
		t.Errorf("sync result = %q", text)
	}
}

func TestSyncMeetings_Error(t *testing.T) {
	runner := &stubRunner{err: errors.New("token rejected")}
	srv, _ := testServerWithRunner(t, runner)

	r := callTool(t, srv, "sync_meetings", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error result")
	}
}

func TestReadNote(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("m.md", []byte("# Meeting\nNotes"))

	r := callTool(t, srv, "read_note", map[string]interface{}{"path": "m.md"})
	if resultText(r) != "# Meeting\nNotes" {
		t.Errorf("read result = %q", resultText(r))
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"path": "nope.md"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestListNotes(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("a.md", []byte("a"))
	_ = store.Write("b.md", []byte("b"))

	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	text := resultText(r)
	if text == "" {
		t.Error("list returned empty")
	}
}

func TestListNotes_FolderFilter(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("Granola/a.md", []byte("a"))
	_ = store.Write("Other/b.md", []byte("b"))

	r := callTool(t, srv, "list_notes", map[string]interface{}{"folder": "Granola"})
	text := resultText(r)
	if !strings.Contains(text, "Granola/a.md") {
		t.Errorf("list = %q, want Granola/a.md", text)
	}
	if strings.Contains(text, "Other/b.md") {
		t.Errorf("list = %q, should not include Other/b.md", text)
	}
}

func TestPersonNotesAndPeople(t *testing.T) {
	srv, _ := testServer(t)
	_ = srv.db.UpsertNote(index.NoteRow{Path: "m.md", Tags: []string{}}, "body", nil, []string{"Alice A"})

	r := callTool(t, srv, "person_notes", map[string]interface{}{"name": "Alice A"})
	if resultText(r) != "m.md" {
		t.Errorf("person_notes = %q, want m.md", resultText(r))
	}

	r = callTool(t, srv, "list_people", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Alice A (1 notes)") {
		t.Errorf("list_people = %q", resultText(r))
	}
}

func TestPersonNotes_Unknown(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "person_notes", map[string]interface{}{"name": "Nobody"})
	if resultText(r) != "no notes found for Nobody" {
		t.Errorf("person_notes = %q", resultText(r))
	}
}

func TestGetBacklinks(t *testing.T) {
	srv, _ := testServer(t)
	_ = srv.db.UpsertNote(index.NoteRow{Path: "a.md", Tags: []string{}}, "links to [[b]]", []string{"b"}, nil)

	r := callTool(t, srv, "get_backlinks", map[string]interface{}{"path": "b"})
	if resultText(r) != "a.md" {
		t.Errorf("backlinks = %q, want a.md", resultText(r))
	}
}

func TestGetNoteContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_note_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "granola_id") {
		t.Error("contract should describe granola_id")
	}
}
