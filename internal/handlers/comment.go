package handlers

import (
	"net/http"

	"inkwell/internal/models"
	"inkwell/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	Store  *services.ContentStore
	Logger *zap.SugaredLogger
}

// Create POST /api/posts/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var draft models.CommentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	comment, err := h.Store.AddComment(c.Request.Context(), id, draft)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
