package pagination

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"memberhub/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// DefaultLimit is the default number of items per page
const DefaultLimit = 10

// MaxLimit is the maximum number of items per page
const MaxLimit = 100

// Params represents pagination and sort parameters
type Params struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

// Offset returns the number of rows to skip
func (p *Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Validate rejects a page below 1 or a limit outside 1..MaxLimit
func (p *Params) Validate() error {
	if p.Page < 1 {
		return domain.NewValidationError("page must be at least 1")
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return domain.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
	}
	return nil
}

// Normalize lowercases sort order, defaulting to desc
func (p *Params) Normalize() {
	p.SortOrder = strings.ToLower(p.SortOrder)
	if p.SortOrder != "asc" {
		p.SortOrder = "desc"
	}
}

// OrderClause returns a SQL ORDER BY expression. sortBy must be a key of
// allowed, which maps public field names to column names; anything else
// falls back to fallback.
func (p *Params) OrderClause(allowed map[string]string, fallback string) string {
	column, ok := allowed[p.SortBy]
	if !ok {
		column = fallback
	}
	return column + " " + strings.ToUpper(p.SortOrder)
}

// GetParams extracts pagination parameters from request. Missing values
// fall back to page 1 and DefaultLimit; malformed or out-of-range values are
// a validation error.
func GetParams(c *fiber.Ctx) (*Params, error) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		return nil, domain.NewValidationError("page must be a number")
	}
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultLimit)))
	if err != nil {
		return nil, domain.NewValidationError("limit must be a number")
	}

	params := &Params{
		Page:      page,
		Limit:     limit,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder", "desc"),
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	params.Normalize()
	return params, nil
}

// Meta represents pagination metadata. Entity names the total field, so a
// member listing carries both totalCount and totalMembers.
type Meta struct {
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	TotalCount  int64  `json:"totalCount"`
	Limit       int    `json:"limit"`
	HasNext     bool   `json:"hasNext"`
	HasPrev     bool   `json:"hasPrev"`
	Entity      string `json:"-"`
}

// MarshalJSON adds the total<Entity> key next to the fixed fields
func (m Meta) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"currentPage": m.CurrentPage,
		"totalPages":  m.TotalPages,
		"totalCount":  m.TotalCount,
		"limit":       m.Limit,
		"hasNext":     m.HasNext,
		"hasPrev":     m.HasPrev,
	}
	if m.Entity != "" {
		out["total"+m.Entity] = m.TotalCount
	}
	return json.Marshal(out)
}

// GetMeta calculates pagination metadata
func GetMeta(params *Params, total int64, entity string) *Meta {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}

	return &Meta{
		CurrentPage: params.Page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       params.Limit,
		HasNext:     params.Page < totalPages,
		HasPrev:     params.Page > 1,
		Entity:      entity,
	}
}

// Page is a page of results with its metadata
type Page[T any] struct {
	Items []T   `json:"items"`
	Meta  *Meta `json:"meta"`
}

// NewPage builds a Page from rows, params and the unpaged total
func NewPage[T any](items []T, params *Params, total int64, entity string) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items: items,
		Meta:  GetMeta(params, total, entity),
	}
}
