// Package metadata fills in movie details from a title using a chat
// completion model, with artwork from TMDB when it is configured.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cinezuva/cinezuva/internal/catalog"
	"github.com/cinezuva/cinezuva/internal/logger"
	"github.com/cinezuva/cinezuva/internal/slug"
	"github.com/cinezuva/cinezuva/internal/tmdb"
)

// ErrUnavailable means no model API key is configured.
var ErrUnavailable = errors.New("metadata generation unavailable")

// Metadata is a generated record. Poster fields are only set when TMDB
// found the movie.
type Metadata struct {
	Year           string   `json:"year"`
	Category       string   `json:"category"`
	Genres         []string `json:"genres"`
	Language       string   `json:"language"`
	Description    string   `json:"description"`
	QualityTag     string   `json:"qualityTag"`
	SEOTags        string   `json:"seoTags"`
	Poster         string   `json:"poster,omitempty"`
	TrendingPoster string   `json:"trendingPoster,omitempty"`
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	// Site is woven into the generated SEO tags.
	Site string
}

type Generator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	site    string
	tmdb    *tmdb.Client
	log     *slog.Logger
}

// New returns a generator. Without an API key every call fails with
// ErrUnavailable. posters may be nil.
func New(cfg Config, posters *tmdb.Client, log *slog.Logger) *Generator {
	if log == nil {
		log = slog.Default()
	}
	g := &Generator{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		site:    cfg.Site,
		tmdb:    posters,
		log:     log,
	}
	if g.model == "" {
		g.model = openai.GPT4oMini
	}
	if g.site == "" {
		g.site = "Cinezuva"
	}
	if strings.TrimSpace(cfg.APIKey) != "" {
		oc := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		g.client = openai.NewClientWithConfig(oc)
	}
	return g
}

// Available reports whether Generate can succeed at all.
func (g *Generator) Available() bool { return g != nil && g.client != nil }

func (g *Generator) prompt(title string) string {
	site := strings.ToLower(g.site)
	return fmt.Sprintf(`Generate detailed metadata for the movie titled %q.

Return a JSON object with:
- year: Release year (e.g., "2024")
- category: One of [%s] (pick the best fit)
- genres: An array of strings representing genres (e.g., ["Action", "Thriller", "Romance"])
- language: Main language (e.g., "Hindi")
- description: A catchy, short plot summary (max 3 sentences).
- qualityTag: "1080p" or "4K"
- seoTags: A comma-separated string of 50 highly searchable SEO tags.
  Example format: "%[1]s full movie, %[1]s download, watch %[1]s online, %[1]s hdrip..."
  Include variations like "download link", "hindi dubbed", "720p", "1080p", "fast download", "%[3]s", "%[3]s movies".`,
		title, quoteList(catalog.CategoryList), site)
}

func quoteList(items []string) string {
	q := make([]string, len(items))
	for i, s := range items {
		q[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(q, ", ")
}

// Generate asks the model for metadata about title.
func (g *Generator) Generate(ctx context.Context, title string) (*Metadata, error) {
	if !g.Available() {
		return nil, ErrUnavailable
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: g.prompt(title),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion: no choices")
	}

	md, err := parse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	if g.tmdb != nil {
		match, err := g.tmdb.FindMovie(ctx, title, md.Year)
		switch {
		case err == nil:
			md.Poster = match.Poster
			md.TrendingPoster = match.Backdrop
		case errors.Is(err, tmdb.ErrNotFound):
		default:
			g.log.Warn("tmdb lookup failed", slog.String("title", title), logger.Error(err))
		}
	}
	return md, nil
}

func parse(content string) (*Metadata, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var md Metadata
	if err := json.Unmarshal([]byte(content), &md); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	md.Year = strings.TrimSpace(md.Year)
	md.Description = strings.TrimSpace(md.Description)
	if !slices.Contains(catalog.CategoryList, md.Category) {
		md.Category = ""
	}
	return &md, nil
}

// Apply copies generated fields onto an editor draft. Genres and languages
// replace the draft's selection; a missing slug is derived from the title.
func Apply(m *catalog.Movie, md *Metadata) {
	m.Year = md.Year
	m.Description = md.Description
	m.QualityTag = md.QualityTag
	m.SEOTags = md.SEOTags
	if len(md.Genres) > 0 {
		m.Genres = md.Genres
	}
	if md.Language != "" {
		var langs []string
		for _, l := range strings.Split(md.Language, ",") {
			if l = strings.TrimSpace(l); l != "" {
				langs = append(langs, l)
			}
		}
		m.Language = strings.Join(langs, ", ")
	}
	if md.Category != "" && !slices.Contains(m.Category, md.Category) {
		m.Category = append(m.Category, md.Category)
	}
	if m.Poster == "" {
		m.Poster = md.Poster
	}
	if m.TrendingPoster == "" {
		m.TrendingPoster = md.TrendingPoster
	}
	if m.Slug == "" {
		m.Slug = slug.Create(m.Title)
	}
}
