package models

import "time"

// Rating is one user's score for one store. The (UserID, StoreID) pair is
// unique at the storage layer.
type Rating struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null;uniqueIndex:idx_user_store_rating"`
	StoreID   string    `json:"storeId" gorm:"type:varchar(36);not null;uniqueIndex:idx_user_store_rating;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
	Store     *Store    `json:"-" gorm:"foreignKey:StoreID"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MinScore and MaxScore bound Rating.Rating.
const (
	MinScore = 1
	MaxScore = 5
)
