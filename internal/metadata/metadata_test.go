package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cinezuva/cinezuva/internal/catalog"
)

func TestGenerateWithoutKey(t *testing.T) {
	g := New(Config{}, nil, nil)
	if g.Available() {
		t.Error("generator without key should be unavailable")
	}
	if _, err := g.Generate(context.Background(), "Dune"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestGenerate(t *testing.T) {
	content := "```json\n" + `{"year":"2021","category":"Hollywood","genres":["Sci-Fi","Adventure"],` +
		`"language":"English, Hindi","description":"Spice.","qualityTag":"4K","seoTags":"dune download"}` + "\n```"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Model          string `json:"model"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ResponseFormat.Type != "json_object" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "x",
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	defer srv.Close()

	g := New(Config{APIKey: "test", BaseURL: srv.URL + "/v1"}, nil, nil)
	md, err := g.Generate(context.Background(), "Dune")
	if err != nil {
		t.Fatal(err)
	}
	if md.Year != "2021" || md.Category != "Hollywood" || len(md.Genres) != 2 || md.QualityTag != "4K" {
		t.Errorf("metadata = %+v", md)
	}

	m := catalog.Movie{Title: "Dune: Part One", Category: []string{"Dual Audio"}, Genres: []string{"Drama"}}
	Apply(&m, md)
	if m.Slug != "dune-part-one" || m.Language != "English, Hindi" || m.Genres[0] != "Sci-Fi" {
		t.Errorf("applied = %+v", m)
	}
	if len(m.Category) != 2 || m.Category[1] != "Hollywood" {
		t.Errorf("category = %v", m.Category)
	}
}

func TestParseDropsUnknownCategory(t *testing.T) {
	md, err := parse(`{"year":" 1999 ","category":"Martian"}`)
	if err != nil {
		t.Fatal(err)
	}
	if md.Category != "" || md.Year != "1999" {
		t.Errorf("parsed = %+v", md)
	}
	if _, err := parse("not json"); err == nil {
		t.Error("invalid json accepted")
	}
}
