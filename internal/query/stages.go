// Package query builds the read pipelines behind list and profile endpoints.
// Each pipeline is a chain of GORM scopes: match, join, project, sort and
// paginate, executed as a single pass against the store.
package query

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a normalized 1-based page request.
type Page struct {
	Number int
	Limit  int
}

func NewPage(number, limit int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// Keep (number-1)*limit within int.
	if number > math.MaxInt/limit {
		number = math.MaxInt / limit
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Sort orders by creation time ascending unless told otherwise.
type Sort struct {
	Field string
	Desc  bool
}

// NewSort accepts only fields present in allowed (API name to column).
// Unknown fields fall back to createdAt.
func NewSort(field, direction string, allowed map[string]string) Sort {
	if _, ok := allowed[field]; !ok {
		field = "createdAt"
	}
	return Sort{Field: field, Desc: strings.EqualFold(direction, "desc")}
}

func (s Sort) column(allowed map[string]string) string {
	if col, ok := allowed[s.Field]; ok {
		return col
	}
	return allowed["createdAt"]
}

// Paginate skips (page-1)*limit rows and takes limit.
func Paginate(p Page) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// OrderBy sorts on the whitelisted column with the row id as tie breaker
// so pages never overlap.
func OrderBy(s Sort, allowed map[string]string, idColumn string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		return db.Order(s.column(allowed) + dir).Order(idColumn + dir)
	}
}

// Match adds a WHERE condition.
func Match(query string, args ...interface{}) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

// ContainsFold matches column against a case-insensitive substring.
func ContainsFold(column, needle string) (string, string) {
	return "LOWER(" + column + `) LIKE ? ESCAPE '\'`, "%" + escapeLike(strings.ToLower(needle)) + "%"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List is one page of a paginated result.
type List[T any] struct {
	Docs        []T   `json:"docs"`
	TotalDocs   int64 `json:"totalDocs"`
	Limit       int   `json:"limit"`
	Page        int   `json:"page"`
	TotalPages  int   `json:"totalPages"`
	HasPrevPage bool  `json:"hasPrevPage"`
	HasNextPage bool  `json:"hasNextPage"`
}

func newList[T any](docs []T, total int64, p Page) List[T] {
	if docs == nil {
		docs = []T{}
	}
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return List[T]{
		Docs:        docs,
		TotalDocs:   total,
		Limit:       p.Limit,
		Page:        p.Number,
		TotalPages:  pages,
		HasPrevPage: p.Number > 1,
		HasNextPage: p.Number < pages,
	}
}

// firstOrZero returns the first aggregation row, or the zero value when the
// aggregation produced no groups.
func firstOrZero[T any](rows []T) T {
	var zero T
	if len(rows) == 0 {
		return zero
	}
	return rows[0]
}
