package models

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User mirrors the auth account; _id is the auth provider's uid.
type User struct {
	UID         string    `bson:"_id" json:"uid"`
	Email       string    `bson:"email" json:"email" validate:"required,email"`
	DisplayName string    `bson:"displayName" json:"displayName" validate:"max=80"`
	PhotoURL    string    `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role        Role      `bson:"role" json:"role"`
	IsBlocked   bool      `bson:"isBlocked" json:"isBlocked"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
