package domain

import (
	"sort"
	"strings"
)

const (
	DefaultRecommendations = 20
	minRecommendedPages    = 50
	minRecommendedRating   = 3.0
	genreMatchScore        = 3
	moodMatchScore         = 2
)

// Preferences are the reader's chosen genres and moods, lowercased with underscores as spaces.
type Preferences struct {
	Genres []string
	Moods  []string
}

func NewPreferences(genres, moods []string) Preferences {
	return Preferences{Genres: normalizeTerms(genres), Moods: normalizeTerms(moods)}
}

func (p Preferences) Empty() bool {
	return len(p.Genres) == 0 && len(p.Moods) == 0
}

// Terms lists genres then moods, as sent to the catalog.
func (p Preferences) Terms() []string {
	return append(append([]string{}, p.Genres...), p.Moods...)
}

type Recommendation struct {
	Entry CatalogEntry
	Score int
}

// Score adds 3 for every category naming a chosen genre and 2 for every mood the
// description mentions.
func (p Preferences) Score(entry CatalogEntry) int {
	score := 0
	for _, category := range entry.Categories {
		category = strings.ToLower(category)
		for _, genre := range p.Genres {
			if strings.Contains(category, genre) {
				score += genreMatchScore
				break
			}
		}
	}
	description := strings.ToLower(entry.Description)
	for _, mood := range p.Moods {
		if strings.Contains(description, mood) {
			score += moodMatchScore
		}
	}
	return score
}

// Recommend drops volumes without a title or authors, with 50 pages or fewer, or rated
// below 3, then orders by score and rating. Duplicated volume ids are kept once.
func Recommend(entries []CatalogEntry, prefs Preferences, limit int) []Recommendation {
	if limit <= 0 {
		limit = DefaultRecommendations
	}
	seen := map[string]struct{}{}
	out := make([]Recommendation, 0, len(entries))
	for _, entry := range entries {
		if !recommendable(entry) {
			continue
		}
		if entry.ID != "" {
			if _, dup := seen[entry.ID]; dup {
				continue
			}
			seen[entry.ID] = struct{}{}
		}
		out = append(out, Recommendation{Entry: entry, Score: prefs.Score(entry)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Entry.AverageRating > out[j].Entry.AverageRating
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func recommendable(entry CatalogEntry) bool {
	return strings.TrimSpace(entry.Title) != "" &&
		len(entry.Authors) > 0 &&
		entry.PageCount > minRecommendedPages &&
		entry.AverageRating >= minRecommendedRating
}

func normalizeTerms(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, term := range raw {
		term = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(term, "_", " ")))
		if term != "" {
			out = append(out, term)
		}
	}
	return out
}
