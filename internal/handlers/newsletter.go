package handlers

import (
	"net/http"

	"inkwell/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NewsletterHandler struct {
	Newsletter *services.Newsletter
	Logger     *zap.SugaredLogger
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	created, err := h.Newsletter.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if created {
		h.Logger.Infow("newsletter subscription", "email", req.Email)
		c.JSON(http.StatusCreated, gin.H{"subscribed": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribed": true})
}
