package catalog

import "context"

// Resolve finds the movie for a URL path segment. Current links carry the
// slug; links from before slugs existed carry the raw id, so a slug miss is
// retried as an id.
func (r *Repository) Resolve(ctx context.Context, segment string) (Movie, bool) {
	if m, ok := r.GetBySlug(ctx, segment); ok {
		return m, true
	}
	return r.GetByID(ctx, segment)
}
