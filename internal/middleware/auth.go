package middleware

import (
	"errors"
	"net/http"

	"inkwell/internal/identity"
	"inkwell/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	GateKey    = "identity_gate"
	SubjectKey = "subject"
)

// LoadSubject builds a gate over the request session and stores it in the
// context. Requests without a signed-in subject pass through.
func LoadSubject() gin.HandlerFunc {
	return func(c *gin.Context) {
		gate := identity.NewGate(identity.NewSessionProvider(sessions.Default(c), nil))
		defer gate.Close()

		c.Set(GateKey, gate)
		if sub, ok := gate.CurrentUser(); ok {
			c.Set(SubjectKey, sub)
		}
		c.Next()
	}
}

// Gate 返回 LoadSubject 设置的 gate；未安装中间件时返回一个永远未登录的 gate
func Gate(c *gin.Context) *identity.Gate {
	if v, ok := c.Get(GateKey); ok {
		if g, ok := v.(*identity.Gate); ok {
			return g
		}
	}
	return identity.NewGate(identity.NewMemoryProvider(nil))
}

// CurrentSubject returns the signed-in subject, or nil.
func CurrentSubject(c *gin.Context) *models.Subject {
	return Gate(c).Subject()
}

// AuthRequired rejects anonymous requests with 401 and the login path the
// client should navigate to.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := Gate(c).RequireAuthenticated(func(sub models.Subject) error {
			c.Set(SubjectKey, sub)
			c.Next()
			return nil
		})

		var denied *identity.AccessDenied
		if errors.As(err, &denied) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "sign-in required",
				"redirect": denied.RedirectTo,
			})
		}
	}
}
