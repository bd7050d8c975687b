package handlers

import (
	"errors"
	"net/http"

	"inkwell/internal/identity"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const sessionOAuthState = "oauth_state"

// GoogleLogin 发起 Google OAuth 登录
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.Google == nil || !h.Google.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	state, err := identity.GenerateStateToken()
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}

	// 将 state 存储到 session 中，用于验证回调
	session := sessions.Default(c)
	session.Set(sessionOAuthState, state)
	if err := session.Save(); err != nil {
		respondError(c, h.Logger, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.Google.AuthCodeURL(state))
}

// GoogleCallback 处理 Google OAuth 回调
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.Google == nil || !h.Google.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	session := sessions.Default(c)
	savedState, _ := session.Get(sessionOAuthState).(string)
	if savedState == "" || c.Query("state") != savedState {
		badRequest(c, "invalid state parameter")
		return
	}
	session.Delete(sessionOAuthState)

	code := c.Query("code")
	if code == "" {
		_ = session.Save()
		badRequest(c, "missing authorization code")
		return
	}

	sub, err := h.signIn(c, h.Google.ForCode(code))
	switch {
	case errors.Is(err, identity.ErrEmailNotVerified):
		_ = session.Save()
		c.JSON(http.StatusForbidden, gin.H{"error": "Google email is not verified"})
		return
	case err != nil:
		_ = session.Save()
		h.Logger.Warnw("google sign-in failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Google sign-in failed"})
		return
	}

	h.Logger.Infow("google login", "subject", sub.ID)
	c.Redirect(http.StatusFound, "/")
}
