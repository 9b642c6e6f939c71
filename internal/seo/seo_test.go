package seo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cinezuva/cinezuva/internal/catalog"
)

func TestForMovie(t *testing.T) {
	m := &catalog.Movie{
		Title:         "Dune",
		Year:          "2021",
		QualityTag:    "4K",
		Language:      "English, Hindi",
		Description:   strings.Repeat("a", 200) + "</script>",
		Genres:        []string{"Sci-Fi"},
		Poster:        "https://img/dune.jpg",
		SEOTags:       "dune download",
		DownloadCount: 23,
	}
	meta, err := ForMovie("Cinezuva", m, "https://cinezuva.test/dune")
	if err != nil {
		t.Fatal(err)
	}

	if meta.Title != "Download Dune (2021) 4K - Cinezuva" {
		t.Errorf("title = %q", meta.Title)
	}
	if !strings.Contains(meta.Description, strings.Repeat("a", 120)+"...") ||
		strings.Contains(meta.Description, strings.Repeat("a", 121)) {
		t.Errorf("description excerpt wrong: %q", meta.Description)
	}
	if !strings.HasSuffix(meta.Keywords, "cinezuva, dune download") {
		t.Errorf("keywords = %q", meta.Keywords)
	}
	if strings.Contains(string(meta.JSONLD), "</script>") {
		t.Error("json-ld not escaped")
	}

	var ld struct {
		Type            string `json:"@type"`
		AggregateRating struct {
			RatingCount int64 `json:"ratingCount"`
		} `json:"aggregateRating"`
	}
	if err := json.Unmarshal([]byte(meta.JSONLD), &ld); err != nil {
		t.Fatal(err)
	}
	if ld.Type != "Movie" || ld.AggregateRating.RatingCount != 123 {
		t.Errorf("json-ld = %+v", ld)
	}
}
