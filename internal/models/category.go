package models

import "strings"

type Category string

// CategoryAll 仅用于查询，表示不过滤分类
const CategoryAll Category = "All"

const (
	CategoryWebDevelopment Category = "Web Development"
	CategoryTechnology     Category = "Technology"
	CategoryDesign         Category = "Design"
	CategoryReact          Category = "React"
	CategoryBackend        Category = "Backend"
	CategoryCSS            Category = "CSS"
)

// Categories 是文章可用的全部分类，顺序即展示顺序
var Categories = []Category{
	CategoryWebDevelopment,
	CategoryTechnology,
	CategoryDesign,
	CategoryReact,
	CategoryBackend,
	CategoryCSS,
}

// Valid reports whether c is one of the enumerated post categories.
// CategoryAll is not a valid post category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory 不区分大小写地匹配分类名，返回规范写法
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(CategoryAll)) {
		return CategoryAll, true
	}
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}
