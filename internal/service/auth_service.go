package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hcp-visit-tracker/internal/models"
	"hcp-visit-tracker/internal/repository"
	"hcp-visit-tracker/pkg/utils"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or revoked refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

type AuthService struct {
	userRepo  *repository.UserRepository
	auditRepo *repository.AuditRepository
	tokens    *utils.TokenIssuer
}

func NewAuthService(userRepo *repository.UserRepository, auditRepo *repository.AuditRepository, tokens *utils.TokenIssuer) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		tokens:    tokens,
	}
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"-"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// Login authenticates a user by email and password and issues both tokens.
// Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !utils.ComparePassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Role, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := s.tokens.GenerateRefreshToken()
	refreshTokenModel := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashRefreshToken(refreshToken),
		ExpiresAt: s.tokens.RefreshExpiresAt(),
	}
	if err := s.userRepo.CreateRefreshToken(ctx, refreshTokenModel); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	_ = s.auditRepo.CreateAuditLog(ctx, &user.ID, repository.AuditUserLogin, fmt.Sprintf("User %s logged in", user.Email))

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         toUserResponse(user),
	}, nil
}

// RefreshAccessToken generates a new access token from a refresh token
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	token, err := s.userRepo.FindRefreshTokenByHash(ctx, utils.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("failed to find refresh token: %w", err)
	}

	if time.Now().After(token.ExpiresAt) {
		return "", ErrRefreshTokenExpired
	}

	accessToken, err := s.tokens.GenerateAccessToken(token.User.ID, token.User.Role, token.User.Email)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.userRepo.RevokeRefreshTokenByHash(ctx, utils.HashRefreshToken(refreshToken)); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// CreateUser hashes the password and stores a new account. Used by seeding and tests.
func (s *AuthService) CreateUser(ctx context.Context, name, email, password, role string) (*models.User, error) {
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// EnsureUser creates the account unless a user with the email already exists
func (s *AuthService) EnsureUser(ctx context.Context, name, email, password, role string) (*models.User, bool, error) {
	existing, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to find user: %w", err)
	}

	user, err := s.CreateUser(ctx, name, email, password, role)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
