package index

import (
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "mannaz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("notes table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM links`).Scan(&count); err != nil {
		t.Fatalf("links table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := NoteRow{
		Path:      "2024-01-02 Standup.md",
		Title:     "2024-01-02 Standup",
		GranolaID: "doc-1",
		Checksum:  "abc123",
		Tags:      []string{"meetings"},
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertNote(row, "Discussed things.", []string{"Meetings"}, []string{"Alice A"}); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	cs, err := db.GetChecksum("2024-01-02 Standup.md")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestBacklinks(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "a.md", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "body", []string{"b.md"}, nil)
	_ = db.UpsertNote(NoteRow{Path: "c.md", Checksum: "2", Tags: []string{}, UpdatedAt: time.Now()}, "body", []string{"b.md"}, nil)

	bl, err := db.Backlinks("b.md")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 2 {
		t.Fatalf("expected 2 backlinks, got %d", len(bl))
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "del.md", Checksum: "x", Tags: []string{}, UpdatedAt: time.Now()}, "body", []string{"target.md"}, nil)

	if err := db.DeleteNote("del.md"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	cs, _ := db.GetChecksum("del.md")
	if cs != "" {
		t.Errorf("deleted note still has checksum %q", cs)
	}
	bl, _ := db.Backlinks("target.md")
	if len(bl) != 0 {
		t.Errorf("expected 0 backlinks after delete, got %d", len(bl))
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "up.md", Title: "Old", Checksum: "1", Tags: []string{}, UpdatedAt: now}, "old body", []string{"x.md"}, nil)
	_ = db.UpsertNote(NoteRow{Path: "up.md", Title: "New", Checksum: "2", Tags: []string{"new"}, UpdatedAt: now}, "new body", []string{"y.md"}, nil)

	cs, _ := db.GetChecksum("up.md")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}
	bl, _ := db.Backlinks("x.md")
	if len(bl) != 0 {
		t.Error("old link should be removed on upsert")
	}
	bl, _ = db.Backlinks("y.md")
	if len(bl) != 1 {
		t.Error("new link should exist")
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "s.md", Title: "Search Me", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "uniqueword appears here", nil, nil)

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.md" {
		t.Errorf("search results = %+v, want 1 hit for s.md", results)
	}
}

func TestPeople(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "m1.md", Checksum: "1", Tags: []string{}, UpdatedAt: now}, "body", nil, []string{"Alice A", "Bob B"})
	_ = db.UpsertNote(NoteRow{Path: "m2.md", Checksum: "2", Tags: []string{}, UpdatedAt: now}, "body", nil, []string{"Alice A"})

	people, err := db.People()
	if err != nil {
		t.Fatalf("People: %v", err)
	}
	if len(people) != 2 {
		t.Fatalf("expected 2 people, got %d", len(people))
	}
	if people[0].Target != "Alice A" || people[0].NoteCount != 2 {
		t.Errorf("people[0] = %+v, want Alice A with 2 notes", people[0])
	}
	if people[1].Target != "Bob B" || people[1].NoteCount != 1 {
		t.Errorf("people[1] = %+v, want Bob B with 1 note", people[1])
	}
}

func TestPeopleExcludesInlineLinks(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "m.md", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "body", []string{"Meetings", "Alice A"}, []string{"Alice A"})

	people, err := db.People()
	if err != nil {
		t.Fatalf("People: %v", err)
	}
	if len(people) != 1 || people[0].Target != "Alice A" {
		t.Errorf("people = %+v, want only Alice A", people)
	}

	bl, _ := db.Backlinks("Meetings")
	if len(bl) != 1 {
		t.Errorf("Meetings should still have an inline backlink")
	}
}

func TestListNotes(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "a.md", Title: "Alpha", Checksum: "1", Tags: []string{"meetings"}, UpdatedAt: now.Add(-time.Hour)}, "", nil, nil)
	_ = db.UpsertNote(NoteRow{Path: "b.md", Title: "Beta", Checksum: "2", Tags: []string{"other"}, UpdatedAt: now}, "", nil, nil)

	notes, total, err := db.ListNotes(10, 0, "", "")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 2 || len(notes) != 2 {
		t.Fatalf("total = %d, len = %d, want 2/2", total, len(notes))
	}
	if notes[0].Path != "b.md" {
		t.Errorf("default sort should put most recent first, got %q", notes[0].Path)
	}

	notes, total, err = db.ListNotes(10, 0, "meetings", "")
	if err != nil {
		t.Fatalf("ListNotes(tag): %v", err)
	}
	if total != 1 || len(notes) != 1 || notes[0].Path != "a.md" {
		t.Errorf("tag filter: total=%d notes=%+v", total, notes)
	}

	notes, _, err = db.ListNotes(10, 0, "", "title")
	if err != nil {
		t.Fatalf("ListNotes(sort title): %v", err)
	}
	if notes[0].Title != "Alpha" {
		t.Errorf("title sort: first = %q", notes[0].Title)
	}
}

func TestListNotes_Pagination(t *testing.T) {
	db := testDB(t)
	for _, p := range []string{"1.md", "2.md", "3.md"} {
		_ = db.UpsertNote(NoteRow{Path: p, Checksum: p, Tags: []string{}, UpdatedAt: time.Now()}, "", nil, nil)
	}
	notes, total, err := db.ListNotes(2, 2, "", "path")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(notes) != 1 || notes[0].Path != "3.md" {
		t.Errorf("page = %+v, want [3.md]", notes)
	}
}

func TestGraph(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "m.md", Title: "Meeting", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "", []string{"Meetings"}, []string{"Alice A"})

	nodes, links, err := db.Graph()
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("nodes = %+v, want 3 (note + 2 targets)", nodes)
	}
	if len(links) != 2 {
		t.Fatalf("links = %+v, want 2", links)
	}
	types := map[string]string{}
	for _, l := range links {
		types[l.Target] = l.Type
	}
	if types["Alice A"] != "people" || types["Meetings"] != "inline" {
		t.Errorf("link types = %v", types)
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "a.md", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "", nil, nil)
	_ = db.UpsertNote(NoteRow{Path: "b.md", Checksum: "2", Tags: []string{}, UpdatedAt: time.Now()}, "", nil, nil)

	all, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if len(all) != 2 || all["a.md"] != "1" || all["b.md"] != "2" {
		t.Errorf("checksums = %v", all)
	}
}
