// Package granola talks to the Granola notes API and converts its
// documents into Markdown.
package granola

import "encoding/json"

// NodeAttrs carries the attributes Granola attaches to content nodes.
// Only the heading level is consumed.
type NodeAttrs struct {
	Level int `json:"level,omitempty"`
}

// ContentNode is one node of a Granola rich-text content tree. The tree
// is acyclic and rooted at a node of type "doc". A node's meaning is
// fully determined by Type; unknown types are rendered as the
// concatenation of their children.
type ContentNode struct {
	Type    string        `json:"type,omitempty"`
	Attrs   *NodeAttrs    `json:"attrs,omitempty"`
	Content []ContentNode `json:"content,omitempty"`
	Text    string        `json:"text,omitempty"`
}

// Panel is the container Granola uses for the last viewed note panel.
type Panel struct {
	Content *ContentNode `json:"content,omitempty"`
}

// Document is one document returned by the get-documents endpoint.
// Raw holds the full decoded JSON object so attendee discovery can walk
// fields the typed view does not model.
type Document struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	CreatedAt       string `json:"created_at"`
	LastViewedPanel *Panel `json:"last_viewed_panel"`

	Raw map[string]any `json:"-"`
}

// Contact is a meeting participant extracted from a document.
// Role is "organizer", "self", or empty.
type Contact struct {
	Email string
	Role  string
}

// DecodeDocument decodes a raw document object into both the typed view
// and the generic map used for attendee discovery.
func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	if err := json.Unmarshal(data, &doc.Raw); err != nil {
		return Document{}, err
	}
	return doc, nil
}
