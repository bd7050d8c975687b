package handlers

import (
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	recentDefault = 3
	recentMax     = 20
	relatedLimit  = 3
)

type PostHandler struct {
	Store    *services.ContentStore
	Renderer *utils.Renderer
	Logger   *zap.SugaredLogger
}

// List GET /api/posts
func (h *PostHandler) List(c *gin.Context) {
	q, err := bindQuery(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, services.Query(h.Store.List(), q))
}

// Recent 最新文章，默认 3 篇
func (h *PostHandler) Recent(c *gin.Context) {
	limit := utils.StringToInt(c.Query("limit"), recentDefault)
	if limit <= 0 {
		limit = recentDefault
	}
	limit = min(limit, recentMax)
	c.JSON(http.StatusOK, gin.H{"items": services.Recent(h.Store.List(), limit)})
}

func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	// 同一个快照里取文章和相关文章
	posts := h.Store.List()
	var post models.Post
	found := false
	for _, p := range posts {
		if p.ID == id {
			post, found = p, true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	var html string
	if h.Renderer != nil {
		html = string(h.Renderer.Render(utils.RenderKey{ID: post.ID, Version: post.Date}, post.Content))
	} else {
		html = string(utils.RenderMarkdown(post.Content))
	}

	c.JSON(http.StatusOK, gin.H{
		"post":         post,
		"content_html": html,
		"related":      services.Related(posts, post, relatedLimit),
	})
}

func (h *PostHandler) Create(c *gin.Context) {
	var draft models.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	// 与列表查询一致，分类名不区分大小写；All 不是可发布的分类，交给校验拒绝
	if cat, ok := models.ParseCategory(string(draft.Category)); ok && cat != models.CategoryAll {
		draft.Category = cat
	}

	post, err := h.Store.Create(c.Request.Context(), middleware.CurrentSubject(c), draft)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Logger.Infow("post created", "id", post.ID, "owner", post.Author.OwnerID)
	c.JSON(http.StatusCreated, post)
}

// Delete 只有作者本人可以删除；文章不存在时同样返回 204
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	err := middleware.Gate(c).RequireAuthenticated(func(sub models.Subject) error {
		post, exists := h.Store.Get(id)
		if !exists {
			c.Status(http.StatusNoContent)
			return nil
		}
		if post.Author.OwnerID != sub.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "only the author can delete this post"})
			return nil
		}
		if err := h.Store.Delete(c.Request.Context(), id); err != nil {
			return err
		}
		h.Logger.Infow("post deleted", "id", id, "owner", sub.ID)
		c.Status(http.StatusNoContent)
		return nil
	})
	if err != nil {
		respondError(c, h.Logger, err)
	}
}

// Mine GET /api/my/posts
func (h *PostHandler) Mine(c *gin.Context) {
	q, err := bindQuery(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	err = middleware.Gate(c).RequireAuthenticated(func(sub models.Subject) error {
		own := services.OwnedBy(h.Store.List(), sub.ID)
		c.JSON(http.StatusOK, services.Query(own, q))
		return nil
	})
	if err != nil {
		respondError(c, h.Logger, err)
	}
}
