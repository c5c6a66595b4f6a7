// Package models defines the domain types for Mannaz.
package models

import "time"

// Note represents a synced meeting note in the vault.
type Note struct {
	Path        string         `json:"path"`
	Content     []byte         `json:"-"`
	Body        string         `json:"body"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Title       string         `json:"title,omitempty"`
	GranolaID   string         `json:"granola_id,omitempty"`
	People      []string       `json:"people,omitempty"`
	Links       []string       `json:"links,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Checksum    string         `json:"checksum"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Link represents a directed edge from a note to a wiki-link target,
// which may be another note or a person.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"` // "inline" or "people"
}
