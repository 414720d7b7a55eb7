// Package pagination holds the page/pageSize conventions shared by every
// listing endpoint of the ledger.
package pagination

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a clamped page request. Page numbers are 1-based.
type Page struct {
	Number int
	Size   int
}

// Clamp normalizes raw page parameters: non-positive page numbers become 1,
// non-positive sizes take the default, and oversized requests are capped.
func Clamp(page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Page{Number: page, Size: pageSize}
}

// Offset returns the SQL offset for the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit returns the SQL limit for the page.
func (p Page) Limit() int {
	return p.Size
}
