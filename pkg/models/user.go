package models

import "time"

// Role names assigned to users. Comparison is exact and case-sensitive.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// User represents a registered account. The password hash and the reset
// token fields are never serialized to clients.
type User struct {
	ID                string     `bson:"_id,omitempty" json:"id"`
	Name              string     `bson:"name" json:"name"`
	Email             string     `bson:"email" json:"email"`
	PasswordHash      string     `bson:"password" json:"-"` // bcrypt hash
	Role              string     `bson:"role" json:"role"`
	PhotoURL          string     `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	ResetToken        string     `bson:"resetToken,omitempty" json:"-"`
	ResetTokenExpires *time.Time `bson:"resetTokenExpires,omitempty" json:"-"`
	CreatedAt         time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Summary returns the client-facing view of the user, without credential
// or reset-token state.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		PhotoURL: u.PhotoURL,
	}
}

// UserSummary is the public projection of a User.
type UserSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	PhotoURL string `json:"photoUrl,omitempty"`
}
