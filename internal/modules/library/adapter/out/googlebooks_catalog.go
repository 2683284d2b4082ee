package out

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"chapterly/internal/modules/library/domain"
	libraryout "chapterly/internal/modules/library/port/out"
	apperrors "chapterly/internal/platform/errors"
)

const (
	defaultLookupLimit = 10
	maxLookupLimit     = 40
	maxCoverBytes      = 2 << 20
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type volumesResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	Authors             []string `json:"authors"`
	PublishedDate       string   `json:"publishedDate"`
	Description         string   `json:"description"`
	PageCount           int      `json:"pageCount"`
	Categories          []string `json:"categories"`
	AverageRating       float64  `json:"averageRating"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
	ImageLinks struct {
		SmallThumbnail string `json:"smallThumbnail"`
		Thumbnail      string `json:"thumbnail"`
	} `json:"imageLinks"`
}

type GoogleBooksCatalog struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewGoogleBooksCatalog(baseURL, apiKey string, timeout time.Duration) libraryout.Catalog {
	return &GoogleBooksCatalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *GoogleBooksCatalog) Search(ctx context.Context, query domain.CatalogQuery) ([]domain.CatalogEntry, error) {
	q := strings.TrimSpace(query.Text)
	if isbn := normalizeISBN(query.ISBN); isbn != "" {
		q = "isbn:" + isbn
	}
	if q == "" {
		return nil, fmt.Errorf("%w: query or isbn is required", apperrors.ErrInvalidInput)
	}
	limit := query.Limit
	if limit <= 0 {
		limit = defaultLookupLimit
	}
	if limit > maxLookupLimit {
		limit = maxLookupLimit
	}
	return c.volumes(ctx, q, limit)
}

// Browse runs a plain, a subject and a title search for the terms and merges the
// volumes, first occurrence winning. It fails only when every search failed.
func (c *GoogleBooksCatalog) Browse(ctx context.Context, terms []string) ([]domain.CatalogEntry, error) {
	joined := strings.TrimSpace(strings.Join(terms, " "))
	if joined == "" {
		return nil, fmt.Errorf("%w: at least one term is required", apperrors.ErrInvalidInput)
	}
	queries := []string{joined, "subject:" + joined, "intitle:" + joined}

	results := make([][]domain.CatalogEntry, len(queries))
	errs := make([]error, len(queries))
	var wg sync.WaitGroup
	for idx, q := range queries {
		idx, q := idx, q
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[idx], errs[idx] = c.volumes(ctx, q, maxLookupLimit)
		}()
	}
	wg.Wait()

	seen := map[string]struct{}{}
	var out []domain.CatalogEntry
	failed := 0
	for idx, entries := range results {
		if errs[idx] != nil {
			failed++
			continue
		}
		for _, entry := range entries {
			if _, dup := seen[entry.ID]; dup && entry.ID != "" {
				continue
			}
			seen[entry.ID] = struct{}{}
			out = append(out, entry)
		}
	}
	if failed == len(queries) {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func (c *GoogleBooksCatalog) volumes(ctx context.Context, q string, limit int) ([]domain.CatalogEntry, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", strconv.Itoa(limit))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/volumes?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request %q: unexpected status %s", q, resp.Status)
	}

	decoded := volumesResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	out := make([]domain.CatalogEntry, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		out = append(out, item.toEntry())
	}
	return out, nil
}

func (c *GoogleBooksCatalog) FetchCover(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build cover request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cover request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cover request: unexpected status %s", resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverBytes))
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	return raw, nil
}

func (item volumeItem) toEntry() domain.CatalogEntry {
	info := item.VolumeInfo
	title := info.Title
	if info.Subtitle != "" {
		title += ": " + info.Subtitle
	}
	entry := domain.CatalogEntry{
		ID:            item.ID,
		Title:         title,
		Authors:       info.Authors,
		Description:   info.Description,
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		PublishedDate: info.PublishedDate,
		AverageRating: info.AverageRating,
		ThumbnailURL:  info.ImageLinks.Thumbnail,
	}
	if entry.ThumbnailURL == "" {
		entry.ThumbnailURL = info.ImageLinks.SmallThumbnail
	}
	for _, ident := range info.IndustryIdentifiers {
		switch ident.Type {
		case "ISBN_13":
			entry.ISBN = ident.Identifier
		case "ISBN_10":
			if entry.ISBN == "" {
				entry.ISBN = ident.Identifier
			}
		}
	}
	return entry
}

func normalizeISBN(raw string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == 'X' || r == 'x' {
			return r
		}
		return -1
	}, raw)
}
