package models

import (
	"time"
)

// Comment belongs to exactly one post; ID is scoped to that post.
type Comment struct {
	ID      int       `json:"id" yaml:"id"`
	Author  string    `json:"author" yaml:"author"`
	Content string    `json:"content" yaml:"content"`
	Date    time.Time `json:"date" yaml:"date"`
}

type CommentDraft struct {
	Author  string `json:"author" validate:"required"`
	Content string `json:"content" validate:"required"`
}
