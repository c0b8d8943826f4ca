package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/models"
	"github.com/vastuconnect/booking_backend/repositories"
	"github.com/vastuconnect/booking_backend/security"
	"github.com/vastuconnect/booking_backend/utils"
)

// TokenIssuer signs and verifies auth tokens
type TokenIssuer interface {
	Issue(userID, email, role string) (token, refreshToken string, err error)
	IssueAccess(userID, email, role string) (string, error)
	ParseRefresh(refreshToken string) (userID string, err error)
}

const invalidCredentials = "Invalid email/username or password. Please check and try again."

type AuthService struct {
	users    UserStore
	profiles BAProfileStore
	tokens   TokenIssuer
	now      func() time.Time
}

func NewAuthService(stores Stores, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:    stores.Users,
		profiles: stores.Profiles,
		tokens:   tokens,
		now:      time.Now,
	}
}

// RegisterBA creates a BA account. The BA profile is submitted separately.
func (s *AuthService) RegisterBA(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return nil, ValidationErrorf("Please enter a valid email address.")
	}
	if len(req.Password) < 8 {
		return nil, ValidationErrorf("Password must be at least 8 characters.")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ConflictErrorf("This email is already registered. Please use a different email address or login if you already have an account.")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, InternalError("Failed to create user account. Please try again.", err)
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, InternalError("Failed to create user account. Please try again.", err)
	}

	now := s.now()
	user := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  hashed,
		Role:      models.RoleBA,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ConflictErrorf("This email is already registered.")
		}
		config.LogError(config.GetLogger(), "AuthService", "RegisterBA", "inserting user", email, err)
		return nil, InternalError("Failed to create user account. Please try again.", err)
	}
	return s.issue(user)
}

// Login accepts an email or a BA username. BAs without a profile or with
// a rejected KYC cannot sign in.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	user, err := s.lookup(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := security.CheckPassword(user.Password, req.Password); err != nil {
		return nil, UnauthorizedErrorf(invalidCredentials)
	}

	if user.Role == models.RoleBA {
		profile, err := s.profiles.FindByUserID(ctx, user.ID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ForbiddenErrorf("Your BA profile is not yet created. Please complete your registration.")
		}
		if err != nil {
			return nil, InternalError("Login failed", err)
		}
		if profile.KYCStatus == models.KYCRejected {
			return nil, ForbiddenErrorf("Your application has been rejected. Please contact support for more information.")
		}
	}
	return s.issue(user)
}

func (s *AuthService) lookup(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case req.Email != "":
		user, err = s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	case req.Username != "":
		var profile *models.BAProfile
		profile, err = s.profiles.FindByUsername(ctx, strings.TrimSpace(req.Username))
		if err == nil {
			user, err = s.users.FindByID(ctx, profile.UserID)
		}
	default:
		return nil, ValidationErrorf("Email or username is required")
	}

	if errors.Is(err, repositories.ErrNotFound) {
		return nil, UnauthorizedErrorf(invalidCredentials)
	}
	if err != nil {
		return nil, InternalError("Login failed", err)
	}
	return user, nil
}

// Refresh exchanges a refresh token for a new access token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResult, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, UnauthorizedErrorf("Invalid or expired refresh token")
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, UnauthorizedErrorf("User not found")
	}
	if err != nil {
		return nil, InternalError("Failed to refresh token", err)
	}
	token, err := s.tokens.IssueAccess(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, InternalError("Failed to refresh token", err)
	}
	return &models.AuthResult{Token: token}, nil
}

// Me returns the caller's account
func (s *AuthService) Me(ctx context.Context, userID string) (*models.UserSummary, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFoundErrorf("User not found")
	}
	if err != nil {
		return nil, InternalError("Failed to fetch user", err)
	}
	return user.Summary(), nil
}

// EnsureAdmin creates the admin account if no user has the email yet.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email, err := utils.SanitizeEmail(email)
	if err != nil {
		return false, ValidationErrorf("invalid admin email")
	}
	if password == "" {
		return false, ValidationErrorf("admin password is required")
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return false, err
	}

	hashed, err := security.HashPassword(password)
	if err != nil {
		return false, err
	}
	now := s.now()
	admin := &models.User{
		ID:        uuid.New().String(),
		Email:     email,
		Password:  hashed,
		Role:      models.RoleAdmin,
		FirstName: "Admin",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Insert(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *AuthService) issue(user *models.User) (*models.AuthResult, error) {
	token, refresh, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, InternalError("Failed to generate token", err)
	}
	return &models.AuthResult{Token: token, RefreshToken: refresh, User: user.Summary()}, nil
}
