package api

import (
	"github.com/starford/mannaz/internal/noteservice"
	"github.com/starford/mannaz/internal/syncer"
)

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = noteservice.NoteDetail

// NoteListItem is a lightweight item in a list response (aliased from the domain layer).
type NoteListItem = noteservice.NoteListItem

// NoteListResponse wraps paginated note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes" validate:"required"`
	Total int            `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult struct {
	Path    string `json:"path" example:"Granola/2024-01-02 Standup.md" validate:"required"`
	Title   string `json:"title" example:"2024-01-02 Standup" validate:"required"`
	Snippet string `json:"snippet" example:"...matched text..." validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// PersonResponse is one meeting participant with a note count.
type PersonResponse struct {
	Name      string `json:"name" example:"Alice A" validate:"required"`
	NoteCount int    `json:"note_count" example:"3" validate:"required"`
}

// PeopleResponse wraps the participant listing.
type PeopleResponse struct {
	People []PersonResponse `json:"people" validate:"required"`
}

// PersonNotesResponse lists the notes that reference one person.
type PersonNotesResponse struct {
	Name  string   `json:"name" example:"Alice A" validate:"required"`
	Notes []string `json:"notes" validate:"required"`
}

// SyncResponse reports the outcome of a sync pass.
type SyncResponse = syncer.Result

// GraphNode is a node in the meeting graph.
type GraphNode struct {
	ID    string `json:"id" example:"Granola/2024-01-02 Standup.md" validate:"required"`
	Title string `json:"title,omitempty" example:"2024-01-02 Standup"`
}

// GraphLink is an edge in the meeting graph.
type GraphLink struct {
	Source string `json:"source" example:"Granola/2024-01-02 Standup.md" validate:"required"`
	Target string `json:"target" example:"Alice A" validate:"required"`
	Type   string `json:"type" example:"people" validate:"required"`
}

// GraphResponse wraps the meeting graph.
type GraphResponse struct {
	Nodes []GraphNode `json:"nodes" validate:"required"`
	Links []GraphLink `json:"links" validate:"required"`
}
