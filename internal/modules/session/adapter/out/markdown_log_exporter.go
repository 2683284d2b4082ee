package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chapterly/internal/modules/session/domain"
	sessionout "chapterly/internal/modules/session/port/out"
	"chapterly/internal/platform/markdown"
	"chapterly/internal/platform/slug"
)

// SessionsSection holds the generated session table of a reading-log note.
var SessionsSection = markdown.Section{Name: "chapterly:sessions"}

type noteHeader struct {
	SchemaVersion int      `yaml:"schema_version"`
	BookID        string   `yaml:"book_id"`
	Title         string   `yaml:"title"`
	Author        string   `yaml:"author,omitempty"`
	ISBN          string   `yaml:"isbn,omitempty"`
	Sessions      int      `yaml:"sessions"`
	TotalHours    float64  `yaml:"total_hours"`
	Removed       bool     `yaml:"removed,omitempty"`
	Tags          []string `yaml:"tags,omitempty"`
}

// MarkdownLogExporter writes one note per book. Text outside the sessions section and
// tags added to the header by hand survive re-exports.
type MarkdownLogExporter struct{}

func NewMarkdownLogExporter() sessionout.LogExporter {
	return MarkdownLogExporter{}
}

func (MarkdownLogExporter) Export(_ context.Context, dir string, logs []domain.BookLog) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	paths := make([]string, 0, len(logs))
	for _, log := range logs {
		path := filepath.Join(dir, slug.Book(title(log), log.Book.ISBN, log.Book.ID)+".md")
		previous := noteHeader{}
		body := ""
		existing, err := os.ReadFile(path)
		switch {
		case err == nil:
			body, err = markdown.ParseNote(string(existing), &previous)
			if err != nil {
				return paths, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return paths, fmt.Errorf("read %s: %w", path, err)
		}
		if strings.TrimSpace(body) == "" {
			body = fmt.Sprintf("# %s\n", title(log))
		}
		body = SessionsSection.Put(body, sessionTable(log))

		rendered, err := markdown.WriteNote(noteHeader{
			SchemaVersion: domain.SchemaVersion,
			BookID:        log.Book.ID,
			Title:         title(log),
			Author:        log.Book.Author,
			ISBN:          slug.ISBN(log.Book.ISBN),
			Sessions:      len(log.Sessions),
			TotalHours:    roundHours(log.TotalHours()),
			Removed:       log.Missing,
			Tags:          previous.Tags,
		}, body)
		if err != nil {
			return paths, err
		}
		if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
			return paths, fmt.Errorf("write reading log: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func title(log domain.BookLog) string {
	if strings.TrimSpace(log.Book.Title) == "" {
		return "Removed book"
	}
	return log.Book.Title
}

func sessionTable(log domain.BookLog) string {
	table := markdown.NewTable(
		markdown.Column{Title: "Date"},
		markdown.Column{Title: "Minutes", Align: markdown.AlignRight},
	)
	for _, s := range log.Sessions {
		table.Row(s.Date.Format("2006-01-02 15:04"), fmt.Sprintf("%.0f", s.Duration*60))
	}
	return table.String() + fmt.Sprintf("\n\nTotal: %.2f h", log.TotalHours())
}

func roundHours(h float64) float64 {
	return float64(int64(h*100+0.5)) / 100
}
