package entity

import "time"

// Session backs a token pair. RefreshID is the jti of the only refresh token
// currently allowed to rotate the session.
type Session struct {
	ID        string
	UserID    string
	Role      Role
	RefreshID string
	CreatedAt time.Time
}
