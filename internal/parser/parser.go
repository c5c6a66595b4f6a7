// Package parser reads synced meeting notes back from the vault:
// frontmatter, people wiki-links, tags, and the source document id.
package parser

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	tagRe      = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
)

// Result holds the output of parsing a synced meeting note.
type Result struct {
	Frontmatter map[string]any
	Body        string
	Title       string
	GranolaID   string
	// People are the wiki-link targets of the frontmatter people list.
	People []string
	Tags   []string
	// Links are all outgoing wiki-link targets: body links plus the
	// frontmatter category, org, and people links.
	Links []string
}

// Parse extracts frontmatter and link structure from raw note bytes.
func Parse(data []byte) (*Result, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	people := extractPeople(fm)
	links := extractLinks(body, fm, people)

	return &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, body),
		GranolaID:   stringField(fm, "granola_id"),
		People:      people,
		Tags:        extractTags(body, fm),
		Links:       links,
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) (map[string]any, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter — treat everything as body.
		return nil, string(data), nil
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Invalid YAML — fall back to body only, no error.
		return nil, string(data), nil
	}

	return fm, body, nil
}

// extractPeople returns the wiki-link targets of the frontmatter
// "people" list, in order. Entries that are not wiki-links are kept
// verbatim so hand-edited notes still resolve.
func extractPeople(fm map[string]any) []string {
	if fm == nil {
		return nil
	}
	raw, ok := fm["people"].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if target := wikiTarget(s); target != "" {
			out = append(out, target)
		}
	}
	return out
}

// wikiTarget strips [[...]] wrapping and a |alias suffix from a
// wiki-link string. Plain strings pass through trimmed.
func wikiTarget(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[[")
	s = strings.TrimSuffix(s, "]]")
	if i := strings.Index(s, "|"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// extractLinks returns deduplicated outgoing wiki-link targets: body
// links first, then frontmatter category/org links, then people.
func extractLinks(body string, fm map[string]any, people []string) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(target string) {
		if target == "" {
			return
		}
		if _, ok := seen[target]; ok {
			return
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}

	for _, m := range wikilinkRe.FindAllStringSubmatch(body, -1) {
		add(wikiTarget(m[1]))
	}
	for _, key := range []string{"category", "org"} {
		if s := stringField(fm, key); s != "" && strings.HasPrefix(s, "[[") {
			add(wikiTarget(s))
		}
	}
	for _, p := range people {
		add(p)
	}
	return out
}

// extractTags collects tags from the frontmatter "tags" field (scalar
// or list) and inline #tags from the body.
func extractTags(body string, fm map[string]any) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	if fm != nil {
		switch v := fm["tags"].(type) {
		case string:
			// Synced notes carry a scalar: "tags: meetings".
			for _, t := range strings.Fields(v) {
				add(t)
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					add(s)
				}
			}
		}
	}

	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}

	return out
}

// deriveTitle returns the frontmatter "title" if present, otherwise the
// first H1 heading, otherwise empty string.
func deriveTitle(fm map[string]any, body string) string {
	if t := stringField(fm, "title"); t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

func stringField(fm map[string]any, key string) string {
	if fm == nil {
		return ""
	}
	s, _ := fm[key].(string)
	return s
}
