package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/bw-lms-api/internal/models"
	"github.com/noah-isme/bw-lms-api/internal/service"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
	"github.com/noah-isme/bw-lms-api/pkg/logger"
	"github.com/noah-isme/bw-lms-api/pkg/response"
)

// ContextPrincipalKey is the gin context key storing the authenticated *service.Principal.
const ContextPrincipalKey = "principal"

// SessionTokenHeader carries a rotated token back to bearer clients.
const SessionTokenHeader = "X-Session-Token"

// SessionCookie describes how session tokens travel as cookies.
type SessionCookie struct {
	Name       string
	LegacyName string
	Secure     bool
	MaxAge     time.Duration
}

type authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Principal, error)
}

// Session requires a valid session token from the Authorization header or a session cookie.
// Rotated tokens are returned through both the cookie and the X-Session-Token header.
func Session(auth authenticator, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c, cookie)
		if token == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		principal, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if principal.Rotated != nil {
			SetSessionCookie(c, cookie, principal.Rotated.Token, RemainingLifetime(cookie, principal.Rotated, time.Now()))
			c.Header(SessionTokenHeader, principal.Rotated.Token)
		}

		c.Set(ContextPrincipalKey, principal)
		c.Set(logger.UserIDKey, principal.User.ID)
		c.Next()
	}
}

// TokenFromRequest prefers a bearer token, then the session cookie, then the legacy cookie.
func TokenFromRequest(c *gin.Context, cookie SessionCookie) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	for _, name := range []string{cookie.Name, cookie.LegacyName} {
		if name == "" {
			continue
		}
		if value, err := c.Cookie(name); err == nil && value != "" {
			return value
		}
	}
	return ""
}

// SetSessionCookie issues an HTTP-only SameSite=Lax session cookie expiring after maxAge.
func SetSessionCookie(c *gin.Context, cookie SessionCookie, token string, maxAge time.Duration) {
	seconds := int(maxAge / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, token, seconds, "/", "", cookie.Secure, true)
}

// RemainingLifetime is how long session stays valid server-side. Rotation keeps
// CreatedAt, so a rotated cookie must not outlive the original session.
func RemainingLifetime(cookie SessionCookie, session *models.Session, now time.Time) time.Duration {
	if session.CreatedAt.IsZero() {
		return cookie.MaxAge
	}
	remaining := session.CreatedAt.Add(cookie.MaxAge).Sub(now)
	if remaining > cookie.MaxAge {
		return cookie.MaxAge
	}
	return remaining
}

// ClearSessionCookie expires the session cookie and its legacy alias.
func ClearSessionCookie(c *gin.Context, cookie SessionCookie) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, "", -1, "/", "", cookie.Secure, true)
	if cookie.LegacyName != "" && cookie.LegacyName != cookie.Name {
		c.SetCookie(cookie.LegacyName, "", -1, "/", "", cookie.Secure, true)
	}
}

// PrincipalFrom returns the principal stored by Session, or nil.
func PrincipalFrom(c *gin.Context) *service.Principal {
	value, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*service.Principal)
	if !ok {
		return nil
	}
	return principal
}

// RequirePasswordCurrent blocks callers that still have to replace a temporary password.
func RequirePasswordCurrent() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := PrincipalFrom(c)
		if principal == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if principal.User.MustResetPassword {
			response.Error(c, appErrors.ErrPasswordResetRequired)
			c.Abort()
			return
		}
		c.Next()
	}
}
