// Package note assembles the on-disk form of a synced meeting note:
// frontmatter header and safe filename.
package note

import "strings"

// Person is one resolved participant for the people frontmatter field.
type Person struct {
	Email       string
	DisplayName string
}

// Frontmatter renders the metadata header of a meeting note. Key order
// is fixed by the vault's convention and must not change:
// title, category, type, created_at, org, people, topics, tags,
// granola_id. Unset org and empty people are emitted as bare keys.
//
// With pipeAliases, each person links as [[DisplayName|email]];
// otherwise as [[email]].
func Frontmatter(title, createdAt, org string, persons []Person, pipeAliases bool, sourceID string) string {
	var b strings.Builder

	b.WriteString("---\n")
	b.WriteString(`title: "` + strings.ReplaceAll(title, `"`, `\"`) + "\"\n")
	b.WriteString("category: \"[[Meetings]]\"\n")
	b.WriteString("type: \n")
	b.WriteString("created_at: " + createdAt + "\n")

	if org != "" {
		b.WriteString(`org: "[[` + org + "]]\"\n")
	} else {
		b.WriteString("org: \n")
	}

	if len(persons) > 0 {
		entries := make([]string, len(persons))
		for i, p := range persons {
			if pipeAliases {
				entries[i] = `"[[` + p.DisplayName + "|" + p.Email + `]]"`
			} else {
				entries[i] = `"[[` + p.Email + `]]"`
			}
		}
		b.WriteString("people: [" + strings.Join(entries, ", ") + "]\n")
	} else {
		b.WriteString("people: \n")
	}

	b.WriteString("topics: \n")
	b.WriteString("tags: meetings\n")
	b.WriteString("granola_id: " + sourceID + "\n")
	b.WriteString("---\n\n")

	return b.String()
}
