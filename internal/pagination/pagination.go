package pagination

const (
	// DefaultLimit is the page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows a single page can request.
	MaxLimit = 100
)

// Params holds page/limit inputs from list endpoints.
type Params struct {
	Page  int `query:"page" json:"page"`
	Limit int `query:"limit" json:"limit"`
}

// Normalize floors the page at 1 and clamps the limit to [1, MaxLimit].
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	return p
}

// Offset is the number of rows to skip: (page-1) * limit.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Slice returns the window of items selected by p.
func Slice[T any](items []T, p Params) []T {
	n := p.Normalize()
	start := n.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + n.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Page is the envelope returned by list endpoints.
type Page[T any] struct {
	Data  []T   `json:"data"`
	Count int   `json:"count"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// NewPage builds the envelope for one window of a result set of size total.
func NewPage[T any](data []T, total int64, p Params) Page[T] {
	n := p.Normalize()
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:  data,
		Count: len(data),
		Total: total,
		Page:  n.Page,
		Limit: n.Limit,
	}
}
