package index

import (
	"encoding/json"
	"fmt"
	"time"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Path      string
	Title     string
	GranolaID string
	Checksum  string
	Tags      []string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	Title   string
	Snippet string
}

// PersonRef is one person wiki-link target with the number of notes
// referencing it.
type PersonRef struct {
	Target    string
	NoteCount int
}

// GraphNode is a node in the meeting/people graph.
type GraphNode struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// GraphLink is a directed edge from a note to a wiki-link target.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// UpsertNote inserts or replaces a note, its FTS entry, and its
// outgoing links (inline wiki-links and people references) within a
// transaction.
func (db *DB) UpsertNote(n NoteRow, body string, links, people []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(n.Tags)

	// Upsert notes table (includes body for fallback search).
	_, err = tx.Exec(`
		INSERT INTO notes (path, title, granola_id, checksum, tags, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title      = excluded.title,
			granola_id = excluded.granola_id,
			checksum   = excluded.checksum,
			tags       = excluded.tags,
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, n.Path, n.Title, n.GranolaID, n.Checksum, string(tagsJSON), body, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, n.Path, n.Title, body, n.Tags); err != nil {
		return err
	}

	// Replace links: delete old then bulk insert.
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, n.Path)
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO links (source, target, type) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare link insert: %w", err)
	}
	defer stmt.Close()
	peopleSet := make(map[string]struct{}, len(people))
	for _, target := range people {
		peopleSet[target] = struct{}{}
		if _, err := stmt.Exec(n.Path, target, "people"); err != nil {
			return fmt.Errorf("index: insert people link: %w", err)
		}
	}
	for _, target := range links {
		if _, ok := peopleSet[target]; ok {
			continue
		}
		if _, err := stmt.Exec(n.Path, target, "inline"); err != nil {
			return fmt.Errorf("index: insert link: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteNote removes a note, its FTS entry, and outgoing links.
func (db *DB) DeleteNote(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM links WHERE source = ?`, path)
	_, _ = tx.Exec(`DELETE FROM notes WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// ListNotes returns a page of notes, optionally filtered by tag,
// sorted by updated_at (default), title, or path.
func (db *DB) ListNotes(limit, offset int, tag, sort string) ([]NoteRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	orderBy := "updated_at DESC"
	switch sort {
	case "title":
		orderBy = "title COLLATE NOCASE"
	case "path":
		orderBy = "path"
	}

	where := ""
	args := []any{}
	if tag != "" {
		// Tags are stored as a JSON string array.
		where = `WHERE tags LIKE ?`
		args = append(args, `%"`+tag+`"%`)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count notes: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT path, title, granola_id, checksum, tags, updated_at
		FROM notes %s ORDER BY %s LIMIT ? OFFSET ?`, where, orderBy)
	rows, err := db.conn.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list notes: %w", err)
	}
	defer rows.Close()

	var out []NoteRow
	for rows.Next() {
		var n NoteRow
		var tagsJSON string
		if err := rows.Scan(&n.Path, &n.Title, &n.GranolaID, &n.Checksum, &tagsJSON, &n.UpdatedAt); err != nil {
			return nil, 0, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &n.Tags)
		out = append(out, n)
	}
	return out, total, rows.Err()
}

// Backlinks returns all note paths that link to the given target.
func (db *DB) Backlinks(target string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT source FROM links WHERE target = ? ORDER BY source`, target)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// People returns every distinct people link target with its note count,
// most-referenced first.
func (db *DB) People() ([]PersonRef, error) {
	rows, err := db.conn.Query(`
		SELECT target, count(*) AS n
		FROM links
		WHERE type = 'people'
		GROUP BY target
		ORDER BY n DESC, target
	`)
	if err != nil {
		return nil, fmt.Errorf("index: people: %w", err)
	}
	defer rows.Close()

	var out []PersonRef
	for rows.Next() {
		var p PersonRef
		if err := rows.Scan(&p.Target, &p.NoteCount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Graph returns all notes as nodes plus every outgoing link edge.
// Link targets that are not notes (people, unsynced pages) appear as
// title-less nodes.
func (db *DB) Graph() ([]GraphNode, []GraphLink, error) {
	var nodes []GraphNode
	seen := make(map[string]struct{})

	noteRows, err := db.conn.Query(`SELECT path, title FROM notes`)
	if err != nil {
		return nil, nil, fmt.Errorf("index: graph notes: %w", err)
	}
	defer noteRows.Close()
	for noteRows.Next() {
		var n GraphNode
		if err := noteRows.Scan(&n.ID, &n.Title); err != nil {
			return nil, nil, err
		}
		seen[n.ID] = struct{}{}
		nodes = append(nodes, n)
	}
	if err := noteRows.Err(); err != nil {
		return nil, nil, err
	}

	linkRows, err := db.conn.Query(`SELECT source, target, type FROM links`)
	if err != nil {
		return nil, nil, fmt.Errorf("index: graph links: %w", err)
	}
	defer linkRows.Close()

	var links []GraphLink
	for linkRows.Next() {
		var l GraphLink
		if err := linkRows.Scan(&l.Source, &l.Target, &l.Type); err != nil {
			return nil, nil, err
		}
		links = append(links, l)
		if _, ok := seen[l.Target]; !ok {
			seen[l.Target] = struct{}{}
			nodes = append(nodes, GraphNode{ID: l.Target})
		}
	}
	return nodes, links, linkRows.Err()
}

// AllChecksums returns path → checksum for every indexed note.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}
