package models

import (
	"math"
	"time"
)

// UserView is the outward representation of a User. It carries no password
// or reset-token material.
type UserView struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	Role          Role      `json:"role"`
	StoreID       *string   `json:"storeId,omitempty"`
	AverageRating *string   `json:"averageRating,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewUserView strips credentials from u.
func NewUserView(u *User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserSummary is the subset of a user shown next to a rating.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// StoreSummary is the subset of a store shown next to a rating.
type StoreSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// RatingSummary aggregates a set of ratings.
type RatingSummary struct {
	AverageRating      string      `json:"averageRating"`
	TotalRatings       int         `json:"totalRatings"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

// StoreView is a store with its rating aggregate and, for an authenticated
// caller, the caller's own rating. Ratings is only filled on detail reads.
type StoreView struct {
	Store
	AverageRating string       `json:"averageRating"`
	TotalRatings  int          `json:"totalRatings"`
	UserRating    *int         `json:"userRating"`
	UserRatingID  *string      `json:"userRatingId"`
	Ratings       []RatingView `json:"ratings,omitempty"`
}

// RatingView is a rating with optional rater and store details.
type RatingView struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	StoreID   string        `json:"storeId"`
	Rating    int           `json:"rating"`
	User      *UserSummary  `json:"user,omitempty"`
	Store     *StoreSummary `json:"store,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewRatingView copies r and whichever associations were preloaded.
func NewRatingView(r *Rating) RatingView {
	v := RatingView{
		ID:        r.ID,
		UserID:    r.UserID,
		StoreID:   r.StoreID,
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User != nil {
		v.User = &UserSummary{ID: r.User.ID, Name: r.User.Name, Email: r.User.Email}
	}
	if r.Store != nil {
		v.Store = &StoreSummary{ID: r.Store.ID, Name: r.Store.Name, Address: r.Store.Address}
	}
	return v
}

// Pagination describes one page of a listing.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes the page count for total rows split by limit.
func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
