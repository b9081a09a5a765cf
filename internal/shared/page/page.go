package page

import "strconv"

// Size is the fixed number of posts shown per page.
const Size = 10

// Meta describes one window over an ordered collection.
type Meta struct {
	Number     int  `json:"number"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// Parse reads a 1-indexed page number from a query parameter.
// Missing or invalid input means page 1.
func Parse(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Clamp bounds a requested page number to the collection and fills in
// the window metadata. An empty collection still has one page.
func Clamp(requested, totalItems int) Meta {
	totalPages := (totalItems + Size - 1) / Size
	if totalPages < 1 {
		totalPages = 1
	}
	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}
	return Meta{
		Number:     number,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasPrev:    number > 1,
		HasNext:    number < totalPages,
	}
}

// Offset is the index of the first item on the page.
func (m Meta) Offset() int {
	return (m.Number - 1) * Size
}
