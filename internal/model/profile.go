package model

import (
	"time"
)

// Profile represents one PIN-authenticated user of the application.
type Profile struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	PIN       string    `json:"pin" gorm:"column:pin;size:16;not null"`
	Avatar    string    `json:"avatar" gorm:"size:16"`
	Color     string    `json:"color" gorm:"size:16"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the collection name used by the hosted backends.
func (Profile) TableName() string { return "profiles" }

// PublicProfile is the roster entry exposed to clients, without the PIN.
type PublicProfile struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Color  string `json:"color"`
}

// Public returns the profile without its shared secret.
func (p Profile) Public() PublicProfile {
	return PublicProfile{
		ID:     p.ID,
		Name:   p.Name,
		Avatar: p.Avatar,
		Color:  p.Color,
	}
}

// DefaultProfile is the seed profile materialized when neither the remote
// backend nor the cache holds a roster.
func DefaultProfile() Profile {
	return Profile{
		ID:     1,
		Name:   "Hlavní uživatel",
		PIN:    "123456",
		Avatar: "HU",
		Color:  "#4F46E5",
	}
}

// Session is the at-most-one active profile reference. It is held in memory,
// mirrored to the cache and cleared on logout.
type Session struct {
	ProfileID int64     `json:"profileId"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Color     string    `json:"color"`
	LoginTime time.Time `json:"loginTime"`
}
