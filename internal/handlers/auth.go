package handlers

import (
	"context"
	"net/http"
	"strings"

	"inkwell/internal/identity"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Google *identity.GoogleAuthenticator
	Logger *zap.SugaredLogger
}

// signIn 用给定的 Authenticator 完成登录并写入 session
func (h *AuthHandler) signIn(c *gin.Context, authn identity.Authenticator) (models.Subject, error) {
	gate := identity.NewGate(identity.NewSessionProvider(sessions.Default(c), authn))
	defer gate.Close()
	return gate.SignIn(c.Request.Context())
}

type devLoginRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// DevLogin signs in an arbitrary subject without an external provider.
// Only routed when DEV_LOGIN is enabled.
func (h *AuthHandler) DevLogin(c *gin.Context) {
	var req devLoginRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid JSON body")
			return
		}
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = utils.AnonymousName
	}
	subject := models.Subject{ID: "dev:" + id, Name: name, Email: req.Email, Avatar: req.Avatar}

	sub, err := h.signIn(c, identity.AuthenticatorFunc(func(context.Context) (models.Subject, error) {
		return subject, nil
	}))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	h.Logger.Infow("dev login", "subject", sub.ID)
	c.JSON(http.StatusOK, sub)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	gate := middleware.Gate(c)
	if err := identity.NewSessionProvider(sessions.Default(c), nil).SignOut(c.Request.Context()); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	if sub, ok := gate.CurrentUser(); ok {
		h.Logger.Infow("logout", "subject", sub.ID)
	}
	c.Status(http.StatusNoContent)
}

// Me GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	err := middleware.Gate(c).RequireAuthenticated(func(sub models.Subject) error {
		c.JSON(http.StatusOK, sub)
		return nil
	})
	if err != nil {
		respondError(c, h.Logger, err)
	}
}
