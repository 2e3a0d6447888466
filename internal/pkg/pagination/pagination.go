// Package pagination parses page/limit query parameters and builds the
// metadata block attached to list responses.
package pagination

import "github.com/gofiber/fiber/v2"

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Params holds the sanitized paging inputs for a list query
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta describes where a page sits within the full result set
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetParams reads page and limit from the query string, clamping both
// into valid ranges
func GetParams(c *fiber.Ctx) *Params {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit
	}

	return &Params{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// Response pairs a page of data with its paging metadata
type Response struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta"`
}

// NewResponse wraps one page of results for the client
func NewResponse(data interface{}, params *Params, total int64) *Response {
	pages := int((total + int64(params.Limit) - 1) / int64(params.Limit))

	return &Response{
		Data: data,
		Meta: &Meta{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: pages,
			HasNext:    params.Page < pages,
			HasPrev:    params.Page > 1,
		},
	}
}
