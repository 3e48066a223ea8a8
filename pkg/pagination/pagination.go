package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// MaxLimit caps an explicit page size. A zero Limit means "everything".
const MaxLimit = 500

// Params holds pagination parameters extracted from a request.
type Params struct {
	Limit  int
	Offset int
}

// Unbounded returns params that select every row.
func Unbounded() Params {
	return Params{}
}

// FromContext reads the optional limit and offset query parameters. Without a
// limit the whole list is returned.
func FromContext(c echo.Context) Params {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 0 {
		limit = 0
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// IsBounded reports whether a page size was requested.
func (p Params) IsBounded() bool {
	return p.Limit > 0
}

// LimitArg is the value bound to a SQL "LIMIT $n" placeholder; nil means
// LIMIT NULL, which PostgreSQL treats as no limit.
func (p Params) LimitArg() interface{} {
	if !p.IsBounded() {
		return nil
	}
	return p.Limit
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.IsBounded() && p.Offset+p.Limit < total
}

// Response wraps a list API response.
type Response struct {
	Data    interface{} `json:"data"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit,omitempty"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
}

func NewResponse(data interface{}, total int, p Params) *Response {
	return &Response{
		Data:    data,
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.HasNext(total),
	}
}
