// Package seo builds the search-engine metadata of movie detail pages.
package seo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/cinezuva/cinezuva/internal/catalog"
)

const (
	descriptionExcerpt = 120
	ratingValue        = "4.8"
	ratingBase         = 100
)

// Meta is everything a detail page puts in <head>.
type Meta struct {
	Title       string
	Description string
	Keywords    string
	Canonical   string
	Image       string
	OGType      string
	JSONLD      template.JS
}

// ForMovie builds the page metadata. pageURL is the absolute URL of the
// detail page and becomes the canonical link.
func ForMovie(site string, m *catalog.Movie, pageURL string) (Meta, error) {
	title := fmt.Sprintf("Download %s (%s) %s - %s", m.Title, m.Year, m.QualityTag, site)
	desc := fmt.Sprintf("Download %s (%s) full movie in %s %s. %s... Fast Google Drive Download Links on %s.",
		m.Title, m.Year, m.QualityTag, m.Language, excerpt(m.Description, descriptionExcerpt), site)
	keywords := fmt.Sprintf("%[1]s download, %[1]s movie, %[1]s %[2]s, %[3]s movie download, 4k movies, %[4]s, %[5]s",
		m.Title, m.Year, m.Language, strings.ToLower(site), m.SEOTags)

	ld, err := jsonLD(m, pageURL)
	if err != nil {
		return Meta{}, err
	}
	return Meta{
		Title:       title,
		Description: desc,
		Keywords:    keywords,
		Canonical:   pageURL,
		Image:       m.Poster,
		OGType:      "video.movie",
		JSONLD:      ld,
	}, nil
}

type aggregateRating struct {
	Type        string `json:"@type"`
	RatingValue string `json:"ratingValue"`
	RatingCount int64  `json:"ratingCount"`
}

type movieSchema struct {
	Context         string          `json:"@context"`
	Type            string          `json:"@type"`
	Name            string          `json:"name"`
	Image           string          `json:"image"`
	DatePublished   string          `json:"datePublished"`
	Description     string          `json:"description"`
	Genre           []string        `json:"genre"`
	InLanguage      string          `json:"inLanguage"`
	URL             string          `json:"url"`
	AggregateRating aggregateRating `json:"aggregateRating"`
}

func jsonLD(m *catalog.Movie, pageURL string) (template.JS, error) {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	b, err := json.Marshal(movieSchema{
		Context:       "https://schema.org",
		Type:          "Movie",
		Name:          m.Title,
		Image:         m.Poster,
		DatePublished: m.Year,
		Description:   m.Description,
		Genre:         genres,
		InLanguage:    m.Language,
		URL:           pageURL,
		AggregateRating: aggregateRating{
			Type:        "AggregateRating",
			RatingValue: ratingValue,
			RatingCount: m.DownloadCount + ratingBase,
		},
	})
	if err != nil {
		return "", fmt.Errorf("movie json-ld: %w", err)
	}
	//nolint:gosec // json.Marshal escapes <, > and & so the script cannot be closed early.
	return template.JS(b), nil
}

// excerpt cuts s to at most n runes.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
