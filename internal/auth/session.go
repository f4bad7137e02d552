package auth

import (
	"net/http"
	"strings"

	"quiz-portal-service/internal/domain"
)

// TokenSource extracts a raw token from a request, "" when absent.
type TokenSource func(r *http.Request) string

// BearerHeader reads "Authorization: Bearer <token>".
func BearerHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// QueryParam reads a token from the named query parameter (browsers cannot set headers on websockets).
func QueryParam(name string) TokenSource {
	return func(r *http.Request) string {
		return r.URL.Query().Get(name)
	}
}

// Cookie reads a token from the named cookie.
func Cookie(name string) TokenSource {
	return func(r *http.Request) string {
		c, err := r.Cookie(name)
		if err != nil {
			return ""
		}
		return c.Value
	}
}

// Resolver turns a request into a Session using the first source that yields a token.
type Resolver struct {
	tokens  *Tokens
	sources []TokenSource
}

// NewResolver tries sources in order; with none given it uses the default chain.
func NewResolver(tokens *Tokens, sources ...TokenSource) *Resolver {
	if len(sources) == 0 {
		sources = []TokenSource{BearerHeader, QueryParam("access_token"), Cookie("token")}
	}
	return &Resolver{tokens: tokens, sources: sources}
}

// Resolve returns the caller's session or a KindUnauthorized error.
func (r *Resolver) Resolve(req *http.Request) (Session, error) {
	for _, src := range r.sources {
		if raw := src(req); raw != "" {
			return r.tokens.Parse(raw)
		}
	}
	return Session{}, domain.ErrMissingToken
}
