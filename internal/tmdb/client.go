// Package tmdb looks up movie artwork on TMDB for the admin editor.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://api.themoviedb.org/3"
	DefaultImageBase = "https://image.tmdb.org/t/p/w500"
	backdropBase     = "https://image.tmdb.org/t/p/w1280"
)

var ErrNotFound = errors.New("tmdb: no matching movie")

type Client struct {
	apiKey    string
	readToken string
	baseURL   string
	imageBase string
	http      *http.Client
}

// Match is the best TMDB hit for a title.
type Match struct {
	ID       int64
	Title    string
	Year     string
	Overview string
	Poster   string
	Backdrop string
}

type searchResponse struct {
	Results []struct {
		ID           int64  `json:"id"`
		Title        string `json:"title"`
		ReleaseDate  string `json:"release_date"`
		PosterPath   string `json:"poster_path"`
		BackdropPath string `json:"backdrop_path"`
		Overview     string `json:"overview"`
	} `json:"results"`
}

// New returns a client, or nil when neither credential is set.
func New(apiKey, readToken, imageBase string) *Client {
	if strings.TrimSpace(readToken) == "" && looksLikeJWT(apiKey) {
		readToken = apiKey
		apiKey = ""
	}
	if apiKey == "" && readToken == "" {
		return nil
	}
	if imageBase == "" {
		imageBase = DefaultImageBase
	}
	return &Client{
		apiKey:    apiKey,
		readToken: readToken,
		baseURL:   DefaultBaseURL,
		imageBase: strings.TrimSuffix(imageBase, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithBaseURL points the client at another API root.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimSuffix(base, "/")
	return c
}

// FindMovie searches by title, narrowed by year when given, and returns the
// first result that has a poster.
func (c *Client) FindMovie(ctx context.Context, title, year string) (*Match, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrNotFound
	}
	values := url.Values{}
	if c.apiKey != "" {
		values.Set("api_key", c.apiKey)
	}
	values.Set("query", title)
	values.Set("include_adult", "false")
	if year = strings.TrimSpace(year); year != "" {
		values.Set("year", year)
	}
	endpoint := c.baseURL + "/search/movie?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, err
	}
	c.applyAuth(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		statusErr := fmt.Errorf("tmdb search failed: %s", resp.Status)
		if cerr := resp.Body.Close(); cerr != nil {
			return nil, errors.Join(statusErr, cerr)
		}
		return nil, statusErr
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			return nil, errors.Join(err, cerr)
		}
		return nil, err
	}
	if err := resp.Body.Close(); err != nil {
		return nil, err
	}

	for _, r := range payload.Results {
		if r.PosterPath == "" {
			continue
		}
		m := &Match{
			ID:       r.ID,
			Title:    r.Title,
			Year:     yearFromDate(r.ReleaseDate),
			Overview: r.Overview,
			Poster:   c.imageBase + r.PosterPath,
		}
		if r.BackdropPath != "" {
			m.Backdrop = backdropBase + r.BackdropPath
		}
		return m, nil
	}
	return nil, ErrNotFound
}

func yearFromDate(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

func (c *Client) applyAuth(req *http.Request) {
	if strings.TrimSpace(c.readToken) == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.readToken))
}

func looksLikeJWT(token string) bool {
	parts := strings.Split(strings.TrimSpace(token), ".")
	return len(parts) == 3 && len(token) > 80
}
