package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"quiz-portal-service/internal/auth"
	"quiz-portal-service/internal/domain"
)

// Signup is the registration input.
type Signup struct {
	Username string
	Email    string
	Password string
	Gender   string
	Avatar   string
}

// ProfileUpdate carries optional profile changes; empty fields are left unchanged.
type ProfileUpdate struct {
	Username string
	Password string
	Gender   string
}

// UserService handles accounts and authentication.
type UserService struct {
	users  UserRepository
	tokens *auth.Tokens
}

func NewUserService(users UserRepository, tokens *auth.Tokens) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Signup registers a user with role user.
func (s *UserService) Signup(ctx context.Context, in Signup) (domain.User, error) {
	return s.create(ctx, in, domain.RoleUser)
}

// EnsureAdmin creates an admin account, or promotes the existing account with that email.
func (s *UserService) EnsureAdmin(ctx context.Context, in Signup) (domain.User, error) {
	existing, err := s.users.GetUserByEmail(ctx, normalizeEmail(in.Email))
	if err == nil {
		existing.Role = domain.RoleAdmin
		if in.Password != "" {
			hash, err := auth.HashPassword(in.Password)
			if err != nil {
				return domain.User{}, err
			}
			existing.PasswordHash = hash
		}
		if err := s.users.UpdateUser(ctx, existing); err != nil {
			return domain.User{}, err
		}
		return existing, nil
	}
	if domain.KindOf(err) != domain.KindNotFound {
		return domain.User{}, err
	}
	if in.Password == "" {
		return domain.User{}, domain.Validationf("password is required for a new account")
	}
	return s.create(ctx, in, domain.RoleAdmin)
}

func (s *UserService) create(ctx context.Context, in Signup, role domain.Role) (domain.User, error) {
	email := normalizeEmail(in.Email)
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrUserExists
	} else if domain.KindOf(err) != domain.KindNotFound {
		return domain.User{}, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        email,
		PasswordHash: hash,
		Avatar:       in.Avatar,
		Role:         role,
		Gender:       in.Gender,
		QuizzesTaken: []string{},
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return "", domain.User{}, domain.ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, user, nil
}

// UpdateProfile applies non-empty fields of in to the user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (domain.User, error) {
	if in.Username == "" && in.Password == "" && in.Gender == "" {
		return domain.User{}, domain.ErrNothingToUpdate
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Gender != "" {
		user.Gender = in.Gender
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return domain.User{}, err
		}
		user.PasswordHash = hash
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// GetUser returns the account for id.
func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.users.GetUser(ctx, id)
}

// ListUsers returns every account.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx, "")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
