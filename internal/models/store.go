package models

import "time"

// Store is a rateable business. OwnerID is the only link between a store and
// its owner.
type Store struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(60);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Address   string    `json:"address" gorm:"type:varchar(400);not null"`
	OwnerID   *string   `json:"ownerId" gorm:"type:varchar(36);uniqueIndex"`
	Owner     *User     `json:"-" gorm:"foreignKey:OwnerID"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}
