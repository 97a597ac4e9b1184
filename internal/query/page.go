package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"shopadmin/internal/domain"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a validated 1-based page number and page size.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest rejects page < 1, size < 1 and size > maxSize. Values are never clamped.
func NewPageRequest(page, size, maxSize int) (PageRequest, error) {
	if maxSize < 1 {
		maxSize = MaxPageSize
	}
	if page < 1 {
		return PageRequest{}, domain.ValidationError{Field: "page", Msg: "must be at least 1"}
	}
	if size < 1 {
		return PageRequest{}, domain.ValidationError{Field: "size", Msg: "must be at least 1"}
	}
	if size > maxSize {
		return PageRequest{}, domain.ValidationError{Field: "size", Msg: fmt.Sprintf("must be at most %d", maxSize)}
	}
	if page-1 > math.MaxInt/size {
		return PageRequest{}, domain.ValidationError{Field: "page", Msg: "is too large"}
	}
	return PageRequest{Page: page, Size: size}, nil
}

// ParsePageRequest reads raw query values. Absent values fall back to page 1
// and defaultSize; present values must be valid integers within bounds.
func ParsePageRequest(pageRaw, sizeRaw string, defaultSize, maxSize int) (PageRequest, error) {
	if defaultSize < 1 {
		defaultSize = DefaultPageSize
	}
	page, err := parsePositive("page", pageRaw, 1)
	if err != nil {
		return PageRequest{}, err
	}
	size, err := parsePositive("size", sizeRaw, defaultSize)
	if err != nil {
		return PageRequest{}, err
	}
	return NewPageRequest(page, size, maxSize)
}

func parsePositive(field, raw string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationError{Field: field, Msg: "must be an integer", Err: err}
	}
	return n, nil
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.Size }

// PastEnd reports whether the page starts at or after the last of total records.
// It never computes the offset, so it holds for any page number.
func (p PageRequest) PastEnd(total int64) bool {
	if total <= 0 || p.Page < 1 || p.Size < 1 {
		return true
	}
	pages := (total + int64(p.Size) - 1) / int64(p.Size)
	return int64(p.Page-1) >= pages
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Items      []T
	TotalCount int64
	PageNumber int
	PageSize   int
}

func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, TotalCount: total, PageNumber: req.Page, PageSize: req.Size}
}

func (p Page[T]) TotalPages() int {
	if p.PageSize < 1 || p.TotalCount <= 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// HasPrevious is false for an empty result set whatever page was asked for.
func (p Page[T]) HasPrevious() bool {
	return p.PageNumber > 1 && p.TotalPages() > 0
}

func (p Page[T]) HasNext() bool {
	return p.PageNumber < p.TotalPages()
}

// Paginate counts items and returns the requested slice. Pages past the end are empty.
func Paginate[T any](items []T, req PageRequest) Page[T] {
	total := len(items)
	if req.PastEnd(int64(total)) {
		return NewPage([]T{}, int64(total), req)
	}
	start := req.Offset()
	end := start + req.Size
	if end > total {
		end = total
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return NewPage(out, int64(total), req)
}

// MapPage converts page items, keeping the paging metadata.
func MapPage[T, U any](p Page[T], f func(T) U) Page[U] {
	out := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, f(it))
	}
	return Page[U]{Items: out, TotalCount: p.TotalCount, PageNumber: p.PageNumber, PageSize: p.PageSize}
}

// Envelope is the JSON shape of a page.
type Envelope[T any] struct {
	Data        []T   `json:"data"`
	TotalItems  int64 `json:"totalItems"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
}

func (p Page[T]) Envelope() Envelope[T] {
	return Envelope[T]{
		Data:        p.Items,
		TotalItems:  p.TotalCount,
		CurrentPage: p.PageNumber,
		PageSize:    p.PageSize,
		TotalPages:  p.TotalPages(),
		HasPrevious: p.HasPrevious(),
		HasNext:     p.HasNext(),
	}
}
