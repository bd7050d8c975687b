package handlers

import (
	"net/http"

	"inkwell/internal/services"

	"github.com/gin-gonic/gin"
)

func Health(store *services.ContentStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "posts": len(store.List())})
	}
}
