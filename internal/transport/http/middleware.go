package http

import (
	"github.com/gin-gonic/gin"

	"quiz-portal-service/internal/auth"
	"quiz-portal-service/internal/domain"
)

const sessionKey = "session"

// Authenticate resolves the caller's session once and stores it on the context.
func Authenticate(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := resolver.Resolve(c.Request)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireRole rejects sessions holding none of roles. Must run after Authenticate.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFrom(c)
		if !ok {
			writeError(c, domain.ErrMissingToken)
			return
		}
		if !session.HasRole(roles...) {
			writeError(c, domain.ErrForbidden)
			return
		}
		c.Next()
	}
}

func sessionFrom(c *gin.Context) (auth.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return auth.Session{}, false
	}
	session, ok := v.(auth.Session)
	return session, ok
}

func mustSession(c *gin.Context) auth.Session {
	session, _ := sessionFrom(c)
	return session
}
