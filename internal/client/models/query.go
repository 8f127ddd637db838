package models

import (
	"net/url"
	"strconv"
)

// List query defaults, matching the server's own fallbacks.
const (
	DefaultPageSize  = 20
	DefaultSortKey   = "uploadedAt"
	DefaultSortOrder = "desc"
	TypeFilterAll    = "all"
)

// ListQuery selects one page view of a file collection.
type ListQuery struct {
	Type  string // "all", "image", or "video"
	Page  int    // 1-based
	Size  int
	Sort  string
	Order string // "asc" or "desc"
}

// WithDefaults returns a copy of q with zero fields replaced by defaults.
func (q ListQuery) WithDefaults() ListQuery {
	if q.Type == "" {
		q.Type = TypeFilterAll
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = DefaultPageSize
	}
	if q.Sort == "" {
		q.Sort = DefaultSortKey
	}
	if q.Order == "" {
		q.Order = DefaultSortOrder
	}
	return q
}

// Values encodes the query as the server's list-endpoint parameters.
func (q ListQuery) Values() url.Values {
	q = q.WithDefaults()
	v := url.Values{}
	v.Set("type", q.Type)
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	v.Set("sort", q.Sort)
	v.Set("order", q.Order)
	return v
}

// Pagination is the server-reported paging metadata accompanying a listing.
type Pagination struct {
	Page          int `json:"page"`
	Size          int `json:"size"`
	TotalPages    int `json:"totalPages"`
	TotalElements int `json:"totalElements"`
}
