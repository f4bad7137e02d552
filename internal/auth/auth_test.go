package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-portal-service/internal/domain"
)

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	raw, err := tokens.Issue(domain.User{ID: "u1", Username: "alice", Email: "alice@example.com", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	session, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if session.UserID != "u1" || session.Role != domain.RoleAdmin || !session.IsAdmin() {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewTokensWithClock("secret", time.Hour, func() time.Time { return issuedAt })
	raw, err := issuer.Issue(domain.User{ID: "u1", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	later := NewTokensWithClock("secret", time.Hour, func() time.Time { return issuedAt.Add(2 * time.Hour) })
	if _, err := later.Parse(raw); err != domain.ErrInvalidToken {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}

	other := NewTokensWithClock("other-secret", time.Hour, func() time.Time { return issuedAt })
	if _, err := other.Parse(raw); err != domain.ErrInvalidToken {
		t.Fatalf("expected foreign token to be rejected, got %v", err)
	}
}

func TestResolverUsesFirstSourceWithToken(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	userToken, _ := tokens.Issue(domain.User{ID: "u1", Role: domain.RoleUser})
	adminToken, _ := tokens.Issue(domain.User{ID: "a1", Role: domain.RoleAdmin})
	resolver := NewResolver(tokens)

	req := httptest.NewRequest(http.MethodGet, "/x?access_token="+userToken, nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	session, err := resolver.Resolve(req)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if session.UserID != "a1" {
		t.Fatalf("expected header token to win, got %+v", session)
	}

	req = httptest.NewRequest(http.MethodGet, "/x?access_token="+userToken, nil)
	session, err = resolver.Resolve(req)
	if err != nil || session.UserID != "u1" {
		t.Fatalf("expected query token fallback, got %+v err=%v", session, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: userToken})
	if session, err = resolver.Resolve(req); err != nil || session.UserID != "u1" {
		t.Fatalf("expected cookie fallback, got %+v err=%v", session, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	if _, err := resolver.Resolve(req); err != domain.ErrMissingToken {
		t.Fatalf("expected missing token, got %v", err)
	}
}

func TestSessionPermissions(t *testing.T) {
	user := Session{UserID: "u1", Role: domain.RoleUser}
	if !user.CanActFor("u1") || user.CanActFor("u2") {
		t.Fatalf("user should act only for self")
	}
	if !user.HasRole() || !user.HasRole(domain.RoleUser, domain.RoleAdmin) || user.HasRole(domain.RoleAdmin) {
		t.Fatalf("unexpected role checks for %+v", user)
	}
	admin := Session{UserID: "a1", Role: domain.RoleAdmin}
	if !admin.CanActFor("u2") {
		t.Fatalf("admin should act for anyone")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "secret123") || CheckPassword(hash, "wrong") {
		t.Fatalf("password check mismatch")
	}
}
