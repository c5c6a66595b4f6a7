package note

import "testing"

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`A/B:C"D`, "A-BCD"},
		{"2024-01-02 Standup.md", "2024-01-02 Standup.md"},
		{"what? really*.md", "what really.md"},
		{`pipes|and<brackets>`, "pipesandbrackets"},
		{`back\slash`, "backslash"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
