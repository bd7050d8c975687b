package models

// DefaultPageSize 每页文章数
const DefaultPageSize = 4

// Query describes a filtered, paginated view over a snapshot of posts.
type Query struct {
	Text     string   `form:"q"`
	Category Category `form:"category"`
	Page     int      `form:"page"`
	PageSize int      `form:"page_size"`
}

type Page struct {
	Items      []Post `json:"items" yaml:"items"`
	TotalPages int    `json:"total_pages" yaml:"total_pages"`
	TotalCount int    `json:"total_count" yaml:"total_count"`
	Page       int    `json:"page" yaml:"page"`
	PageSize   int    `json:"page_size" yaml:"page_size"`
}
