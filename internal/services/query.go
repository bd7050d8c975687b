package services

import (
	"slices"
	"strings"

	"inkwell/internal/models"
)

// Query filters posts by free text and category and returns the requested
// page. It never modifies posts and keeps their order. A page outside
// [1, TotalPages] yields no items.
func Query(posts []models.Post, q models.Query) models.Page {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}

	filtered := Filter(posts, q.Text, q.Category)
	total := len(filtered)

	page := models.Page{
		Items:      []models.Post{},
		TotalPages: totalPages(total, pageSize),
		TotalCount: total,
		Page:       q.Page,
		PageSize:   pageSize,
	}
	// 先判断页码范围，再计算偏移，避免大页码溢出
	if q.Page < 1 || q.Page > page.TotalPages {
		return page
	}

	start := (q.Page - 1) * pageSize
	end := start + min(pageSize, total-start)
	page.Items = slices.Clone(filtered[start:end])
	return page
}

func totalPages(total, pageSize int) int {
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	return pages
}

// Filter 标题或摘要包含关键字（不区分大小写），且分类匹配
func Filter(posts []models.Post, text string, category models.Category) []models.Post {
	needle := strings.ToLower(text)
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if category != "" && category != models.CategoryAll && p.Category != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Excerpt), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Recent returns up to n posts, newest first. Posts with equal dates keep
// their snapshot order.
func Recent(posts []models.Post, n int) []models.Post {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b models.Post) int {
		return b.Date.Compare(a.Date)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Related 同分类的其他文章，最多 n 篇
func Related(posts []models.Post, post models.Post, n int) []models.Post {
	out := make([]models.Post, 0, n)
	for _, p := range posts {
		if len(out) == n {
			break
		}
		if p.ID != post.ID && p.Category == post.Category {
			out = append(out, p)
		}
	}
	return out
}

// OwnedBy keeps the posts created by ownerID ("my posts").
func OwnedBy(posts []models.Post, ownerID string) []models.Post {
	out := make([]models.Post, 0)
	for _, p := range posts {
		if p.Author.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out
}
