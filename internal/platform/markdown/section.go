package markdown

import "strings"

// Section is a generated region of a note delimited by two HTML comments.
type Section struct {
	Name string
}

func (s Section) start() string { return "<!-- " + s.Name + ":start -->" }
func (s Section) end() string   { return "<!-- " + s.Name + ":end -->" }

func (s Section) bounds(body string) (int, int, bool) {
	start := strings.Index(body, s.start())
	if start < 0 {
		return 0, 0, false
	}
	end := strings.Index(body[start:], s.end())
	if end < 0 {
		return 0, 0, false
	}
	return start, start + end + len(s.end()), true
}

// Content returns what is currently between the markers.
func (s Section) Content(body string) (string, bool) {
	start, end, ok := s.bounds(body)
	if !ok {
		return "", false
	}
	inner := body[start+len(s.start()) : end-len(s.end())]
	return strings.Trim(inner, "\n"), true
}

// Put replaces the section's content in place, or appends the section after the
// existing text when body has none.
func (s Section) Put(body, content string) string {
	block := s.start() + "\n" + strings.Trim(content, "\n") + "\n" + s.end()
	if start, end, ok := s.bounds(body); ok {
		return body[:start] + block + body[end:]
	}
	text := strings.TrimRight(body, "\n")
	if strings.TrimSpace(text) == "" {
		return block + "\n"
	}
	return text + "\n\n" + block + "\n"
}

// Remove drops the section and its markers, leaving hand-written text alone.
func (s Section) Remove(body string) string {
	start, end, ok := s.bounds(body)
	if !ok {
		return body
	}
	return strings.TrimRight(body[:start], "\n") + "\n" + strings.TrimLeft(body[end:], "\n")
}
