package catalog

import (
	"slices"
	"strings"
)

// SuggestLimit caps the type-ahead suggestions.
const SuggestLimit = 6

// FilterCategory keeps movies filed under name, compared exactly as stored.
func FilterCategory(movies []Movie, name string) []Movie {
	return filter(movies, func(m *Movie) bool {
		return slices.Contains(m.Category, name)
	})
}

// FilterGenre keeps movies having a genre equal to name, ignoring case.
func FilterGenre(movies []Movie, name string) []Movie {
	return filter(movies, func(m *Movie) bool {
		for _, g := range m.Genres {
			if strings.EqualFold(g, name) {
				return true
			}
		}
		return false
	})
}

// FilterTag keeps movies whose SEO tag string contains tag, ignoring case.
// The match is on the whole string, so "zuva" matches a "cinezuva" tag.
func FilterTag(movies []Movie, tag string) []Movie {
	lower := strings.ToLower(tag)
	return filter(movies, func(m *Movie) bool {
		return m.SEOTags != "" && strings.Contains(strings.ToLower(m.SEOTags), lower)
	})
}

// Search is the search page query: a case-insensitive substring of the
// title, any category or the quality tag.
func Search(movies []Movie, q string) []Movie {
	lower := strings.ToLower(q)
	return filter(movies, func(m *Movie) bool {
		if strings.Contains(strings.ToLower(m.Title), lower) {
			return true
		}
		for _, c := range m.Category {
			if strings.Contains(strings.ToLower(c), lower) {
				return true
			}
		}
		return strings.Contains(strings.ToLower(m.QualityTag), lower)
	})
}

// Suggest is the type-ahead query. It matches the title or the SEO tags and
// stops scanning once SuggestLimit hits are found.
func Suggest(movies []Movie, q string) []Movie {
	if strings.TrimSpace(q) == "" {
		return nil
	}
	lower := strings.ToLower(q)
	var hits []Movie
	for i := range movies {
		if len(hits) >= SuggestLimit {
			break
		}
		m := &movies[i]
		if strings.Contains(strings.ToLower(m.Title), lower) ||
			(m.SEOTags != "" && strings.Contains(strings.ToLower(m.SEOTags), lower)) {
			hits = append(hits, *m)
		}
	}
	return hits
}

// FilterTitle is the admin list search.
func FilterTitle(movies []Movie, q string) []Movie {
	if q == "" {
		return movies
	}
	lower := strings.ToLower(q)
	return filter(movies, func(m *Movie) bool {
		return strings.Contains(strings.ToLower(m.Title), lower)
	})
}

func filter(movies []Movie, keep func(*Movie) bool) []Movie {
	out := []Movie{}
	for i := range movies {
		if keep(&movies[i]) {
			out = append(out, movies[i])
		}
	}
	return out
}
