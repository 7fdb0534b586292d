package entity

import (
	"time"
)

// User is the aggregate root for carts, addresses, orders and wishlists.
// Password holds a bcrypt hash, never the plain text.
type User struct {
	ID         string
	Email      string
	Phone      string
	Password   string
	Name       string
	AvatarURL  string
	Role       Role
	IsActive   bool
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Address is a shipping address owned by exactly one user.
type Address struct {
	ID        string
	UserID    string
	Label     string
	Street    string
	City      string
	State     string
	Landmark  string
	IsDefault bool
	CreatedAt time.Time
}
