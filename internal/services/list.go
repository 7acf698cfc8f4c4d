package services

import (
	"storerate/internal/models"
	"storerate/internal/repositories"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// ListQuery is the paging and search input shared by the user and store
// listings.
type ListQuery struct {
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Search string `query:"search" validate:"omitempty,max=100"`
	Role   string `query:"role" validate:"omitempty,oneof=admin user store_owner"`
	SortBy string `query:"sortBy" validate:"omitempty,oneof=name email createdAt"`
	Order  string `query:"order" validate:"omitempty,oneof=asc desc"`
}

// normalize fills defaults and clamps out-of-range values.
func (q ListQuery) normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	if q.SortBy == "" {
		q.SortBy = "createdAt"
	}
	if q.Order == "" {
		q.Order = "desc"
	}
	return q
}

func (q ListQuery) filter() repositories.ListFilter {
	return repositories.ListFilter{
		Offset: (q.Page - 1) * q.Limit,
		Limit:  q.Limit,
		Search: q.Search,
		Role:   models.Role(q.Role),
		SortBy: q.SortBy,
		Desc:   q.Order == "desc",
	}
}
