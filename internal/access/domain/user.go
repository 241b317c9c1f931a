package domain

import "time"

// User is the single principal record of the platform. Artist accounts are
// regular users with IsArtist set; there is no specialized subtype.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Surname      string
	Phone        string
	Role         string
	Verified     bool
	IsArtist     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
