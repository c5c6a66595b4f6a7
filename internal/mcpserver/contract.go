package mcpserver

// NoteFormatContract describes the canonical Markdown format of synced
// meeting notes, for LLM consumers reading or interpreting them.
const NoteFormatContract = `# Mannaz Meeting Note Format Contract

Every synced meeting note in the vault follows this structure.

## Structure

` + "```" + `markdown
---
title: "2024-01-02 Standup"         # meeting title, quoted
category: "[[Meetings]]"            # fixed category link
type:                                # reserved, left blank
created_at: 2024-01-02T10:00:00Z    # meeting start time from Granola
org: "[[Acme]]"                     # company link, blank when unset
people: ["[[Alice A|a@x.com]]"]     # attendee links, blank when none
topics:                              # reserved, left blank
tags: meetings                       # fixed tag
granola_id: abc-123                  # source document id
---

Meeting body in standard Markdown: headings, paragraphs, bullet lists.
` + "```" + `

## Rules

1. **Frontmatter key order is fixed:** title, category, type, created_at,
   org, people, topics, tags, granola_id. Do not reorder or drop keys.
2. **People links** use ` + "`" + `[[Display Name|email]]` + "`" + ` form, or ` + "`" + `[[email]]` + "`" + `
   when pipe aliases are disabled. The part before ` + "`" + `|` + "`" + ` is the link target.
3. **Filenames** are ` + "`" + `YYYY-MM-DD Title.md` + "`" + `, with the characters
   ` + "`" + `<>:"\|?*` + "`" + ` removed and ` + "`" + `/` + "`" + ` replaced by ` + "`" + `-` + "`" + `.
4. **granola_id** identifies the source document; never change it.
5. **Notes are sync-owned.** Hand edits to the body survive (existing
   files are never overwritten by sync), but new notes should be created
   in Granola, not in the vault.
6. **Encoding** is UTF-8.
`
