package models

import (
	"encoding/json"
	"time"
)

// Author 文章作者信息，OwnerID 对应身份提供方的 Subject.ID
type Author struct {
	Name     string `json:"name" yaml:"name"`
	Avatar   string `json:"avatar" yaml:"avatar"`
	Initials string `json:"initials" yaml:"initials"`
	OwnerID  string `json:"owner_id" yaml:"owner_id"`
}

type Post struct {
	ID       int       `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Excerpt  string    `json:"excerpt" yaml:"excerpt"`
	Content  string    `json:"content" yaml:"content"`
	Category Category  `json:"category" yaml:"category"`
	Author   Author    `json:"author" yaml:"author"`
	Date     time.Time `json:"date" yaml:"date"`
	Comments []Comment `json:"comments" yaml:"comments"`
}

// CommentCount 评论数量始终由 Comments 推导，不单独存储
func (p Post) CommentCount() int {
	return len(p.Comments)
}

// MarshalJSON 在输出中附带推导出的 comment_count
func (p Post) MarshalJSON() ([]byte, error) {
	type alias Post
	out := struct {
		alias
		CommentCount int `json:"comment_count"`
	}{alias: alias(p), CommentCount: len(p.Comments)}
	if out.Comments == nil {
		out.Comments = []Comment{}
	}
	return json.Marshal(out)
}

// MarshalYAML 与 MarshalJSON 相同，附带 comment_count
func (p Post) MarshalYAML() (any, error) {
	type alias Post
	out := struct {
		alias        `yaml:",inline"`
		CommentCount int `yaml:"comment_count"`
	}{alias: alias(p), CommentCount: len(p.Comments)}
	if out.Comments == nil {
		out.Comments = []Comment{}
	}
	return out, nil
}

// Draft is what a caller supplies to create a post. The store attaches
// ID, Date and Comments.
type Draft struct {
	Title    string   `json:"title" validate:"required"`
	Excerpt  string   `json:"excerpt" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Category Category `json:"category" validate:"required"`
	Author   Author   `json:"author"`
}
