package catalog

import "time"

const (
	// TrendingLimit is the number of slides in the home carousel.
	TrendingLimit = 5
	// RotationInterval is how long each carousel slide stays up.
	RotationInterval = 6 * time.Second
)

// Trending returns the first TrendingLimit trending movies in list order.
func Trending(movies []Movie) []Movie {
	var out []Movie
	for i := range movies {
		if len(out) == TrendingLimit {
			break
		}
		if movies[i].IsTrending {
			out = append(out, movies[i])
		}
	}
	return out
}
