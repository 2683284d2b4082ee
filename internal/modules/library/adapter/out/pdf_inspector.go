package out

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"rsc.io/pdf"

	"chapterly/internal/modules/library/domain"
	libraryout "chapterly/internal/modules/library/port/out"
	apperrors "chapterly/internal/platform/errors"
)

type PDFInspector struct{}

func NewPDFInspector() libraryout.DocumentInspector {
	return &PDFInspector{}
}

// Inspect reads the document info dictionary. The file name stands in for a missing title.
func (PDFInspector) Inspect(_ context.Context, path string) (domain.DocumentInfo, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return domain.DocumentInfo{}, fmt.Errorf("%w: %s is not a pdf", apperrors.ErrInvalidInput, path)
	}
	doc, err := pdf.Open(path)
	if err != nil {
		return domain.DocumentInfo{}, fmt.Errorf("open pdf: %w", err)
	}
	info := doc.Trailer().Key("Info")
	out := domain.DocumentInfo{
		Title:     strings.TrimSpace(info.Key("Title").Text()),
		Author:    strings.TrimSpace(info.Key("Author").Text()),
		PageCount: doc.NumPage(),
	}
	if out.Title == "" {
		out.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return out, nil
}
