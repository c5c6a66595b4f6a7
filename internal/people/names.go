// Package people maps attendee email addresses to display names using
// an optional CSV table with a heuristic fallback.
package people

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode"
)

// Rows are "email,name"; names may themselves contain commas.
var rowRe = regexp.MustCompile(`^([^,]+),(.+)$`)

// NameMap is the process-wide email→name table. Loads replace the whole
// table atomically; a failed load leaves the previous table in place.
// Reads and reloads may run concurrently (watcher vs. HTTP-triggered
// sync), hence the RWMutex.
type NameMap struct {
	mu    sync.RWMutex
	path  string
	names map[string]string
}

// NewNameMap creates an empty table backed by the CSV at path.
// An empty path means no table; Resolve falls back to heuristics only.
func NewNameMap(path string) *NameMap {
	return &NameMap{path: path, names: map[string]string{}}
}

// Path returns the backing CSV path.
func (m *NameMap) Path() string { return m.path }

// Len returns the number of loaded mappings.
func (m *NameMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.names)
}

// Load parses the CSV and replaces the table. A header row is skipped
// when the first line contains "email" (case-insensitive); lines that
// do not match the email,name shape are skipped silently.
func (m *NameMap) Load() error {
	if m.path == "" {
		return nil
	}
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("people: read name map: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	start := 0
	if len(lines) > 0 && strings.Contains(strings.ToLower(lines[0]), "email") {
		start = 1
	}

	fresh := make(map[string]string)
	for _, line := range lines[start:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		match := rowRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		email := strings.ToLower(strings.TrimSpace(match[1]))
		name := strings.TrimSpace(match[2])
		fresh[email] = name
	}

	m.mu.Lock()
	m.names = fresh
	m.mu.Unlock()
	return nil
}

// Resolve maps an email to a display name: table lookup first, then
// heuristic derivation from the local part. Malformed input without an
// '@' passes through unchanged. The heuristic is a display convenience,
// not an identity guarantee.
func (m *NameMap) Resolve(email string) string {
	if !strings.Contains(email, "@") {
		return email
	}

	m.mu.RLock()
	name, ok := m.names[strings.ToLower(email)]
	m.mu.RUnlock()
	if ok {
		return name
	}

	return deriveName(email[:strings.Index(email, "@")])
}

// deriveName guesses a display name from an email local part. Exactly
// one rule applies, tried in order: dot, camel case, underscore,
// hyphen, 60% split for longer names, plain capitalization.
func deriveName(local string) string {
	switch {
	case strings.Contains(local, "."):
		return joinCapitalized(strings.Split(local, "."))
	case isMixedCase(local):
		return joinCapitalized(splitCamel(local))
	case strings.Contains(local, "_"):
		return joinCapitalized(strings.Split(local, "_"))
	case strings.Contains(local, "-"):
		return joinCapitalized(strings.Split(local, "-"))
	}

	runes := []rune(local)
	if len(runes) > 5 {
		cut := int(float64(len(runes)) * 0.6)
		return capitalize(string(runes[:cut])) + " " + capitalize(string(runes[cut:]))
	}
	return capitalize(local)
}

// isMixedCase reports whether s has an uppercase letter past the first
// position without being entirely uppercase.
func isMixedCase(s string) bool {
	runes := []rune(s)
	if len(runes) < 2 || s == strings.ToUpper(s) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// splitCamel starts a new segment before every uppercase letter.
func splitCamel(s string) []string {
	var parts []string
	var cur []rune
	for _, r := range s {
		if unicode.IsUpper(r) && len(cur) > 0 {
			parts = append(parts, string(cur))
			cur = cur[:0]
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		parts = append(parts, string(cur))
	}
	return parts
}

func joinCapitalized(parts []string) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = capitalize(p)
	}
	return strings.Join(out, " ")
}

// capitalize uppercases the first rune and leaves the rest unchanged.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
