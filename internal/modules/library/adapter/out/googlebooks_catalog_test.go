package out_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libraryadapter "chapterly/internal/modules/library/adapter/out"
	"chapterly/internal/modules/library/domain"
	apperrors "chapterly/internal/platform/errors"
)

const volumesFixture = `{
  "kind": "books#volumes",
  "totalItems": 1,
  "items": [{
    "id": "vol-1",
    "volumeInfo": {
      "title": "The Hobbit",
      "subtitle": "There and Back Again",
      "authors": ["J.R.R. Tolkien"],
      "publishedDate": "1937",
      "description": "A hobbit goes on an adventure.",
      "pageCount": 310,
      "categories": ["Fiction / Fantasy"],
      "industryIdentifiers": [
        {"type": "ISBN_10", "identifier": "0261102214"},
        {"type": "ISBN_13", "identifier": "9780261102217"}
      ],
      "imageLinks": {"smallThumbnail": "http://img/small", "thumbnail": "http://img/thumb"}
    }
  }]
}`

func TestGoogleBooksCatalogSearchByISBN(t *testing.T) {
	var gotQuery, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(volumesFixture))
	}))
	t.Cleanup(server.Close)

	catalog := libraryadapter.NewGoogleBooksCatalog(server.URL+"/", "secret", time.Second)
	entries, err := catalog.Search(context.Background(), domain.CatalogQuery{ISBN: "978-0261102217"})
	require.NoError(t, err)

	assert.Equal(t, "isbn:9780261102217", gotQuery)
	assert.Equal(t, "secret", gotKey)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.CatalogEntry{
		ID:            "vol-1",
		Title:         "The Hobbit: There and Back Again",
		Authors:       []string{"J.R.R. Tolkien"},
		Description:   "A hobbit goes on an adventure.",
		PageCount:     310,
		Categories:    []string{"Fiction / Fantasy"},
		PublishedDate: "1937",
		ISBN:          "9780261102217",
		ThumbnailURL:  "http://img/thumb",
	}, entries[0])
}

func TestGoogleBooksCatalogErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)
	catalog := libraryadapter.NewGoogleBooksCatalog(server.URL, "", time.Second)

	_, err := catalog.Search(context.Background(), domain.CatalogQuery{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = catalog.Search(context.Background(), domain.CatalogQuery{Text: "dune"})
	assert.ErrorContains(t, err, "429")
}

func TestGoogleBooksCatalogFetchCover(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	t.Cleanup(server.Close)
	catalog := libraryadapter.NewGoogleBooksCatalog(server.URL, "", time.Second)

	raw, err := catalog.FetchCover(context.Background(), server.URL+"/cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), raw)

	raw, err = catalog.FetchCover(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func volumeJSON(id, title string, rating float64) string {
	return `{"id": "` + id + `", "volumeInfo": {"title": "` + title + `", "authors": ["A"], "pageCount": 200, "averageRating": ` +
		strconv.FormatFloat(rating, 'f', 1, 64) + `}}`
}

func TestGoogleBooksCatalogBrowseMergesThreeSearches(t *testing.T) {
	var mu sync.Mutex
	queries := map[string]string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		mu.Lock()
		queries[q] = r.URL.Query().Get("maxResults")
		mu.Unlock()
		var items []string
		switch q {
		case "fantasy adventurous":
			items = []string{volumeJSON("v1", "Dune", 4.5), volumeJSON("v2", "Emma", 3.0)}
		case "subject:fantasy adventurous":
			items = []string{volumeJSON("v2", "Emma", 3.0), volumeJSON("v3", "Kindred", 4.0)}
		case "intitle:fantasy adventurous":
			http.Error(w, "backend", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"items": [` + strings.Join(items, ",") + `]}`))
	}))
	t.Cleanup(server.Close)
	catalog := libraryadapter.NewGoogleBooksCatalog(server.URL, "", time.Second)

	entries, err := catalog.Browse(context.Background(), []string{"fantasy", "adventurous"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"fantasy adventurous":         "40",
		"subject:fantasy adventurous": "40",
		"intitle:fantasy adventurous": "40",
	}, queries)
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"v1", "v2", "v3"}, ids)
	assert.InDelta(t, 4.5, entries[0].AverageRating, 1e-9)
}

func TestGoogleBooksCatalogBrowseFailsWhenEverySearchFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)
	catalog := libraryadapter.NewGoogleBooksCatalog(server.URL, "", time.Second)

	_, err := catalog.Browse(context.Background(), []string{"mystery"})
	assert.ErrorContains(t, err, "429")

	_, err = catalog.Browse(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
