package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutoring_back_end_go/config"
	"tutoring_back_end_go/models"
)

const (
	CookieName   = "authUser"
	principalKey = "principal"
)

// Sessions stores the principal in a signed cookie.
type Sessions struct {
	issuer *TokenIssuer
	cfg    config.SessionConfig
}

func NewSessions(cfg config.SessionConfig) *Sessions {
	return &Sessions{
		issuer: NewTokenIssuer(cfg.Secret, cfg.TTL),
		cfg:    cfg,
	}
}

func (s *Sessions) Issue(c *gin.Context, p models.Principal) error {
	token, err := s.issuer.GenerateToken(p)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, token, int(s.cfg.TTL.Seconds()), "/", "", s.cfg.Secure, s.cfg.HTTPOnly)
	return nil
}

func (s *Sessions) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, "", -1, "/", "", s.cfg.Secure, s.cfg.HTTPOnly)
}

// Middleware attaches the session principal, if any, to the request.
// It never rejects; RequireRole does.
func (s *Sessions) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(CookieName); err == nil && raw != "" {
			if p, err := s.issuer.ParseToken(raw); err == nil {
				c.Set(principalKey, p)
			}
		}
		c.Next()
	}
}

// PrincipalFrom returns the session principal, or the zero value.
func PrincipalFrom(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}

// RequireRole rejects requests without a session (401) or whose session
// is of another kind (403).
func RequireRole(kinds ...models.UserKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
			return
		}

		for _, k := range kinds {
			if p.Kind == k {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}
