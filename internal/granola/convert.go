package granola

import "strings"

// Render converts a content tree rooted at a "doc" node into Markdown.
// Rendering never fails: unrecognized node types degrade to the
// concatenation of their children, so unexpected structure produces
// possibly-incomplete output rather than an error.
func Render(root *ContentNode) string {
	if root == nil || root.Content == nil {
		return ""
	}
	var b strings.Builder
	for i := range root.Content {
		b.WriteString(renderNode(&root.Content[i]))
	}
	return b.String()
}

func renderNode(n *ContentNode) string {
	switch n.Type {
	case "heading":
		level := 1
		if n.Attrs != nil && n.Attrs.Level > 0 {
			level = n.Attrs.Level
		}
		return strings.Repeat("#", level) + " " + renderChildren(n) + "\n\n"

	case "paragraph":
		return renderChildren(n) + "\n\n"

	case "bulletList":
		var lines []string
		for i := range n.Content {
			item := &n.Content[i]
			if item.Type != "listItem" {
				continue
			}
			lines = append(lines, "- "+strings.TrimSpace(renderChildren(item)))
		}
		return strings.Join(lines, "\n") + "\n\n"

	case "text":
		return n.Text

	default:
		// Pass-through: the node's own identity is ignored.
		return renderChildren(n)
	}
}

func renderChildren(n *ContentNode) string {
	var b strings.Builder
	for i := range n.Content {
		b.WriteString(renderNode(&n.Content[i]))
	}
	return b.String()
}
