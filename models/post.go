package models

import (
	"time"
)

const (
	// DefaultAuthor is stored when a post is created without an author.
	DefaultAuthor = "Anonymous"
	// BotAuthor is the author of every generated post.
	BotAuthor = "BotBlog AI"
)

// Post represents a single blog entry kept by the post store
type Post struct {
	ID        int64      `json:"id" db:"id" gorm:"primaryKey;autoIncrement:false"`
	Title     string     `json:"title" db:"title" gorm:"type:text;not null"`
	Content   string     `json:"content" db:"content" gorm:"type:text;not null"`
	Author    string     `json:"author" db:"author" gorm:"type:text;not null"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at" gorm:"autoUpdateTime:false"`
	Bot       bool       `json:"bot" db:"bot" gorm:"not null"`
}

// TableName pins the table used by the sqlite store.
func (Post) TableName() string {
	return "posts"
}

// Stamp truncates t the way every stored timestamp is kept: UTC, millisecond precision.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
