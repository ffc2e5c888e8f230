package models

import "time"

// Vote model - one row per (user, post), value is always +1 or -1.
// A cast vote is never retracted, only flipped; rows disappear only when
// their post is deleted.
type Vote struct {
	UserID int `gorm:"primaryKey" json:"user_id"`
	PostID int `gorm:"primaryKey" json:"post_id"`
	Value  int `gorm:"not null" json:"value"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
