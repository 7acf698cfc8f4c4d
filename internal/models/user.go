package models

import "time"

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleStoreOwner Role = "store_owner"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdmin, RoleUser, RoleStoreOwner}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User represents an account on the platform.
// The owned store is not stored here; see Store.OwnerID.
type User struct {
	ID               string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name             string     `json:"name" gorm:"type:varchar(60);not null"`
	Email            string     `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password         string     `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Address          string     `json:"address" gorm:"type:varchar(400);not null"`
	Role             Role       `json:"role" gorm:"type:varchar(20);not null;default:user;index"`
	ResetToken       *string    `json:"-" gorm:"type:varchar(255);index"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}
