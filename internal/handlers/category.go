package handlers

import (
	"net/http"

	"inkwell/internal/models"

	"github.com/gin-gonic/gin"
)

// ListCategories 返回 All 以及全部文章分类
func ListCategories(c *gin.Context) {
	out := make([]models.Category, 0, len(models.Categories)+1)
	out = append(out, models.CategoryAll)
	out = append(out, models.Categories...)
	c.JSON(http.StatusOK, gin.H{"categories": out})
}
