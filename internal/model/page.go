// ABOUTME: Paginated list envelope shared by every list endpoint

package model

// Page is one page of a list response.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// Pages reports how many pages Total spans at the current size.
func (p Page[T]) Pages() int {
	if p.Size <= 0 {
		return 1
	}
	n := (p.Total + p.Size - 1) / p.Size
	if n == 0 {
		return 1
	}
	return n
}
