package handlers

import "strings"

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=60,alphaspace"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=16,strongpassword"`
	Address  string `json:"address" validate:"required,min=1,max=400"`
}

func (r *signupRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	r.Address = strings.TrimSpace(r.Address)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *loginRequest) normalize() { r.Email = normalizeEmail(r.Email) }

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=16,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *forgotPasswordRequest) normalize() { r.Email = normalizeEmail(r.Email) }

type resetPasswordRequest struct {
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=16,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=60"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=16,strongpassword"`
	Address  string `json:"address" validate:"required,min=1,max=400"`
	Role     string `json:"role" validate:"required,oneof=admin user store_owner"`
}

func (r *createUserRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	r.Address = strings.TrimSpace(r.Address)
}

type updateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=3,max=60"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=8,max=16,strongpassword"`
	Address  *string `json:"address" validate:"omitempty,min=1,max=400"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin user store_owner"`
}

func (r *updateUserRequest) normalize() {
	trimPtr(r.Name, strings.TrimSpace)
	trimPtr(r.Email, normalizeEmail)
	trimPtr(r.Address, strings.TrimSpace)
}

type createStoreRequest struct {
	Name    string  `json:"name" validate:"required,min=3,max=60"`
	Email   string  `json:"email" validate:"required,email,max=255"`
	Address string  `json:"address" validate:"required,min=1,max=400"`
	OwnerID *string `json:"ownerId" validate:"omitempty,uuid|len=0"`
}

func (r *createStoreRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	r.Address = strings.TrimSpace(r.Address)
	trimPtr(r.OwnerID, strings.TrimSpace)
}

// updateStoreRequest accepts an empty ownerId to detach the owner.
type updateStoreRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=3,max=60"`
	Email   *string `json:"email" validate:"omitempty,email,max=255"`
	Address *string `json:"address" validate:"omitempty,min=1,max=400"`
	OwnerID *string `json:"ownerId" validate:"omitempty,uuid|len=0"`
}

func (r *updateStoreRequest) normalize() {
	trimPtr(r.Name, strings.TrimSpace)
	trimPtr(r.Email, normalizeEmail)
	trimPtr(r.Address, strings.TrimSpace)
	trimPtr(r.OwnerID, strings.TrimSpace)
}

type submitRatingRequest struct {
	StoreID string `json:"storeId" validate:"required,uuid"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

type updateRatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}
