package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"inkwell/internal/identity"
	"inkwell/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError 统一把领域错误翻译为 HTTP 响应
func respondError(c *gin.Context, logger *zap.SugaredLogger, err error) {
	var verr *models.ValidationError
	var denied *identity.AccessDenied

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	case errors.As(err, &denied):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in required", "redirect": denied.RedirectTo})
	case errors.Is(err, models.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in required", "redirect": identity.LoginPath})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		logger.Errorw("request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// postID 解析路径参数 :id，失败时已写入 400
func postID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "invalid post id")
		return 0, false
	}
	return id, true
}

// MaxPageSize 单页最多返回的文章数
const MaxPageSize = 100

// bindQuery reads q, category, page and page_size. A missing page means 1;
// an unknown category or a page_size above MaxPageSize is reported as a
// validation error.
func bindQuery(c *gin.Context) (models.Query, error) {
	q := models.Query{Page: 1}
	if err := c.ShouldBindQuery(&q); err != nil {
		verr := &models.ValidationError{}
		verr.Add("query", err.Error())
		return q, verr
	}
	if q.PageSize > MaxPageSize {
		verr := &models.ValidationError{}
		verr.Add("page_size", "must be at most "+strconv.Itoa(MaxPageSize))
		return q, verr
	}
	if q.Category == "" {
		return q, nil
	}
	cat, ok := models.ParseCategory(string(q.Category))
	if !ok {
		verr := &models.ValidationError{}
		verr.Add("category", "must be one of the listed categories")
		return q, verr
	}
	q.Category = cat
	return q, nil
}
