package granola

import "sort"

// Known locations for the attendee list, tried in order. The first
// present entry wins; sources are never merged.
var attendeePaths = [][]string{
	{"meeting_metadata", "attendees"},
	{"notes", "meeting_metadata", "attendees"},
	{"metadata", "attendees"},
}

// Subtrees that never hold attendees (the rich-text content model).
// Skipped during the recursive fallback search.
var attendeeSkipKeys = map[string]struct{}{
	"content": {},
	"text":    {},
	"type":    {},
	"attrs":   {},
}

// ExtractAttendees locates and normalizes the participant list of a raw
// document object. It never fails; when no attendee array is found
// anywhere, the result is empty.
func ExtractAttendees(doc map[string]any) []Contact {
	if doc == nil {
		return nil
	}

	// Top-level attendees must actually be an array to win.
	if arr, ok := doc["attendees"].([]any); ok {
		return contactsFromArray(arr)
	}

	for _, path := range attendeePaths {
		if v, ok := lookupPath(doc, path); ok && truthy(v) {
			arr, _ := v.([]any)
			return contactsFromArray(arr)
		}
	}

	// Fallback: depth-first search for the first object carrying a
	// non-empty attendees array. Keys are visited in sorted order so
	// the result is deterministic for a given input.
	if arr := findAttendees(doc); arr != nil {
		return contactsFromArray(arr)
	}
	return nil
}

// contactsFromArray filters an attendee array down to human entries
// with a usable email, preserving input order. Resource entries
// (conference rooms and the like) are dropped.
func contactsFromArray(arr []any) []Contact {
	var out []Contact
	for _, entry := range arr {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		email, ok := m["email"].(string)
		if !ok || email == "" {
			continue
		}
		if truthy(m["resource"]) {
			continue
		}
		role := ""
		if truthy(m["organizer"]) {
			role = "organizer"
		} else if truthy(m["self"]) {
			role = "self"
		}
		out = append(out, Contact{Email: email, Role: role})
	}
	return out
}

func findAttendees(v any) []any {
	switch val := v.(type) {
	case map[string]any:
		if arr, ok := val["attendees"].([]any); ok && len(arr) > 0 {
			return arr
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			if _, skip := attendeeSkipKeys[k]; skip {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if arr := findAttendees(val[k]); arr != nil {
				return arr
			}
		}
	case []any:
		for _, item := range val {
			if arr := findAttendees(item); arr != nil {
				return arr
			}
		}
	}
	return nil
}

func lookupPath(m map[string]any, path []string) (any, bool) {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// truthy mirrors the loose upstream schema: nil, false, empty string
// and zero are absent, everything else counts as present.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	default:
		return true
	}
}
