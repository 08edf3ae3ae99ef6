package iam_entities

import (
	common "github.com/padel-api/padel-api/pkg/domain"
)

// User is a platform account or a guest. Guests have no email, cannot
// authenticate, and exist only to take part in tournaments. Accounts are
// provisioned by the external identity layer; this core never handles
// credentials.
type User struct {
	common.BaseEntity
	Email       *string `json:"email,omitempty" bson:"email,omitempty"`
	FullName    string  `json:"full_name" bson:"full_name"`
	Picture     string  `json:"picture,omitempty" bson:"picture,omitempty"`
	IsActive    bool    `json:"is_active" bson:"is_active"`
	IsSuperuser bool    `json:"is_superuser" bson:"is_superuser"`
}

// NewUser creates an active account with a contact handle.
func NewUser(email, fullName string) *User {
	return &User{
		BaseEntity: common.NewBaseEntity(),
		Email:      &email,
		FullName:   fullName,
		IsActive:   true,
	}
}

// NewGuest creates a guest participant without a contact handle.
func NewGuest(fullName string) *User {
	return &User{
		BaseEntity: common.NewBaseEntity(),
		FullName:   fullName,
		IsActive:   true,
	}
}

// IsGuest reports whether the user lacks a contact handle.
func (u *User) IsGuest() bool {
	return u.Email == nil
}
