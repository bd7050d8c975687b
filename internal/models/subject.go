package models

// Subject 身份提供方返回的已登录用户
type Subject struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar"`
}
