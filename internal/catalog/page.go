package catalog

const (
	// PageSize is the main catalog page size.
	PageSize = 36
	// AdminPageSize is the admin management list page size.
	AdminPageSize = 20
)

// Page is one 1-indexed slice of a list.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	Total      int
	TotalPages int
}

// Paginate slices items to [(page-1)*size, page*size). Pages past the end
// are empty, not an error.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = PageSize
	}
	if page < 1 {
		page = 1
	}
	p := Page[T]{
		Items:      []T{},
		Number:     page,
		Size:       size,
		Total:      len(items),
		TotalPages: (len(items) + size - 1) / size,
	}
	// Compared in pages so a huge page number cannot overflow the offset.
	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * size
	end := min(start+size, len(items))
	p.Items = items[start:end]
	return p
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }
func (p Page[T]) Prev() int     { return p.Number - 1 }
func (p Page[T]) Next() int     { return p.Number + 1 }
