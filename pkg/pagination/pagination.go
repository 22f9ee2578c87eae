package pagination

const (
	// DefaultPerPage is the standard page size when a limit is not provided.
	DefaultPerPage = 12
	// MaxPerPage caps how many rows any catalog query can request.
	MaxPerPage = 100
)

// Params holds page-number pagination inputs from controllers or services.
// The commerce API paginates by page number, so the catalog does too.
type Params struct {
	Page    int
	PerPage int
}

// Normalize enforces the configured defaults and maximums.
func (p Params) Normalize() Params {
	out := p
	if out.Page <= 0 {
		out.Page = 1
	}
	if out.PerPage <= 0 {
		out.PerPage = DefaultPerPage
	}
	if out.PerPage > MaxPerPage {
		out.PerPage = MaxPerPage
	}
	return out
}

// Offset converts the normalized page into a row offset.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// Meta describes the page returned alongside list results.
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta derives page metadata from the normalized params and a total count.
func NewMeta(p Params, total int64) Meta {
	n := p.Normalize()
	pages := int(total) / n.PerPage
	if int(total)%n.PerPage != 0 {
		pages++
	}
	return Meta{
		Page:       n.Page,
		PerPage:    n.PerPage,
		Total:      total,
		TotalPages: pages,
	}
}
