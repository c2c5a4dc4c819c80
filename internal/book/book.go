package book

import (
	"errors"
	"fmt"
	"strings"

	"bookshelf/internal/image"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrInvalid is returned when input fails validation.
var ErrInvalid = errors.New("invalid book data")

// Book represents a catalog record with an optional cover image.
type Book struct {
	ID     int64        `json:"id"`
	Title  string       `json:"title"`
	Author string       `json:"author"`
	Pages  int          `json:"pages"`
	Price  float64      `json:"price"`
	Image  *image.Image `json:"image"`
}

// Summary is a listing row, flattened to the fields clients render.
type Summary struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Pages    int     `json:"pages"`
	Price    float64 `json:"price"`
	ImageURL *string `json:"image_url"`
}

// Query defines paging, sorting and filtering for listing books.
type Query struct {
	Page   int
	Size   int
	SortBy string
	Desc   bool
	Search string
}

// sortColumns whitelists sortable fields against their columns.
var sortColumns = map[string]string{
	"id":     "b.id",
	"title":  "b.title",
	"author": "b.author",
	"pages":  "b.pages",
	"price":  "b.price",
}

// Validate checks paging bounds and the sort field.
func (q Query) Validate() error {
	if q.Page < 0 {
		return fmt.Errorf("%w: page must be non-negative", ErrInvalid)
	}
	if q.Size < 0 {
		return fmt.Errorf("%w: size must be non-negative", ErrInvalid)
	}
	if _, ok := sortColumns[q.SortBy]; !ok {
		return fmt.Errorf("%w: unknown sort field %q", ErrInvalid, q.SortBy)
	}
	return nil
}

// ParseDirection resolves a sort direction string to descending order.
func ParseDirection(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "asc":
		return false, nil
	case "desc":
		return true, nil
	default:
		return false, fmt.Errorf("%w: invalid sort direction %q", ErrInvalid, s)
	}
}
