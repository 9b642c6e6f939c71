// Package catalog holds the movie catalog: its records, the repository
// boundary over the backing store, and the filtering, paging and resolution
// rules that define the site's URLs.
package catalog

import (
	"strings"

	"github.com/cinezuva/cinezuva/internal/slug"
)

// CategoryList is the fixed set of categories a movie can be filed under.
var CategoryList = []string{
	"Bollywood",
	"Hollywood",
	"South",
	"Web Series",
	"Dual Audio",
	"18+",
	"Tv Show",
	"K-Drama",
	"Anime",
}

// CommonGenres are linked from the home page.
var CommonGenres = []string{"Action", "Thriller", "Romance", "Comedy", "Drama", "Horror", "Sci-Fi"}

// GenreList is offered by the admin editor.
var GenreList = []string{
	"Action", "Adventure", "Animation", "Biography", "Comedy", "Crime",
	"Documentary", "Drama", "Family", "Fantasy", "Film-Noir", "History",
	"Horror", "Music", "Musical", "Mystery", "Romance", "Sci-Fi",
	"Short", "Sport", "Thriller", "War", "Western", "18+", "Erotic",
	"Psychological", "Supernatural", "Superhero", "Zombie", "Survival",
}

// LanguageList is offered by the admin editor.
var LanguageList = []string{
	"Hindi", "Tamil", "English", "Telugu", "Kannada", "Malayalam", "Bengali", "Marathi", "Punjabi", "Gujarati", "Urdu", "Bhojpuri",
	"Korean", "Japanese", "Chinese", "Spanish", "French", "Russian", "German", "Thai", "Indonesian",
}

// DownloadLink is one download button. Quality is the button text.
type DownloadLink struct {
	Quality string `json:"quality"`
	Size    string `json:"size"`
	URL     string `json:"url"`
}

type Movie struct {
	ID             string         `json:"id"`
	Slug           string         `json:"slug,omitempty"`
	Title          string         `json:"title"`
	Poster         string         `json:"poster"`
	Screenshots    []string       `json:"screenshots"`
	Category       []string       `json:"category"`
	Genres         []string       `json:"genres"`
	Year           string         `json:"year"`
	Language       string         `json:"language"`
	Description    string         `json:"description"`
	TrailerURL     string         `json:"trailerUrl"`
	QualityTag     string         `json:"qualityTag"`
	DownloadLinks  []DownloadLink `json:"downloadLinks"`
	AddedAt        int64          `json:"addedAt"`
	IsTrending     bool           `json:"isTrending"`
	TrendingPoster string         `json:"trendingPoster,omitempty"`
	SEOTags        string         `json:"seoTags,omitempty"`
	DownloadCount  int64          `json:"downloadCount"`
}

// Path is the site URL of the movie. Legacy records without a slug are
// linked by id, which the resolver still understands.
func (m *Movie) Path() string {
	if m.Slug != "" {
		return "/" + m.Slug
	}
	return "/" + m.ID
}

// Tags splits the comma separated SEO tags into trimmed, non-empty tags.
func (m *Movie) Tags() []string {
	if strings.TrimSpace(m.SEOTags) == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(m.SEOTags, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Languages splits the comma joined language field.
func (m *Movie) Languages() []string {
	var out []string
	for _, l := range strings.Split(m.Language, ",") {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// HeroImage is the wide poster used by the trending carousel.
func (m *Movie) HeroImage() string {
	if m.TrendingPoster != "" {
		return m.TrendingPoster
	}
	return m.Poster
}

// PrimaryCategory is used for breadcrumbs.
func (m *Movie) PrimaryCategory() string {
	if len(m.Category) == 0 {
		return ""
	}
	return m.Category[0]
}

// prepare fills in the slug and drops blank list entries before a write.
func (m *Movie) prepare() {
	if m.Slug == "" {
		m.Slug = slug.Create(m.Title)
	}

	screenshots := make([]string, 0, len(m.Screenshots))
	for _, s := range m.Screenshots {
		if strings.TrimSpace(s) != "" {
			screenshots = append(screenshots, s)
		}
	}
	m.Screenshots = screenshots

	links := make([]DownloadLink, 0, len(m.DownloadLinks))
	for _, l := range m.DownloadLinks {
		if strings.TrimSpace(l.URL) != "" {
			links = append(links, l)
		}
	}
	m.DownloadLinks = links

	if m.Category == nil {
		m.Category = []string{}
	}
	if m.Genres == nil {
		m.Genres = []string{}
	}
	if !m.IsTrending {
		m.TrendingPoster = ""
	}
}

// MovieRequest is a visitor's request for a title that is not in the catalog.
type MovieRequest struct {
	ID        string `json:"id"`
	MovieName string `json:"movieName"`
	Timestamp int64  `json:"timestamp"`
}

// SiteConfig holds the links shown on every page. At most one row exists.
type SiteConfig struct {
	HowToDownloadURL string `json:"howToDownloadUrl"`
	TelegramURL      string `json:"telegramUrl"`
}
