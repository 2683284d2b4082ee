// Package markdown reads and writes the reading-log notes: a YAML header, text written
// by hand, and sections regenerated on every export.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// ParseNote decodes the YAML header into header and returns the body after it. A note
// without a header is all body. CRLF line endings are accepted.
func ParseNote(content string, header any) (string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence+"\n") {
		return content, nil
	}
	rest := content[len(fence)+1:]
	var raw, body string
	switch {
	case strings.HasPrefix(rest, fence+"\n"):
		body = rest[len(fence)+1:]
	case strings.Contains(rest, "\n"+fence+"\n"):
		idx := strings.Index(rest, "\n"+fence+"\n")
		raw, body = rest[:idx], rest[idx+len(fence)+2:]
	case strings.HasSuffix(rest, "\n"+fence):
		raw = strings.TrimSuffix(rest, "\n"+fence)
	default:
		return "", fmt.Errorf("note header is not closed")
	}
	if strings.TrimSpace(raw) != "" {
		if err := yaml.Unmarshal([]byte(raw), header); err != nil {
			return "", fmt.Errorf("decode note header: %w", err)
		}
	}
	return strings.TrimPrefix(body, "\n"), nil
}

// WriteNote renders header as YAML above body, separated by one blank line.
func WriteNote(header any, body string) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(header); err != nil {
		return "", fmt.Errorf("encode note header: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode note header: %w", err)
	}
	buf.WriteString(fence + "\n\n")
	buf.WriteString(strings.TrimLeft(body, "\n"))
	return buf.String(), nil
}
