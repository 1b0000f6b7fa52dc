package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/auth"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/domain"
	"github.com/Neogulmanpassingby/2025fall-41class-team3/internal/repository"
	apperrors "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// TokenPair carries the access/refresh tokens returned by auth operations.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserService implements the business logic for member and auth operations.
type UserService struct {
	users      repository.UserRepository
	tokens     repository.RefreshTokenRepository
	jwtManager *auth.JWTManager
	logger     *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	jwtManager *auth.JWTManager,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:      users,
		tokens:     tokens,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// RegisterInput holds the parameters for registering a new member.
type RegisterInput struct {
	Email     string
	Password  string
	Nickname  string
	BirthDate string
	Region    string
	Profile   domain.Profile
}

// LoginInput holds the parameters for member login.
type LoginInput struct {
	Email    string
	Password string
}

// Register creates a new member account, hashes the password, and returns tokens.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, *TokenPair, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if err := validateEmail(email); err != nil {
		return nil, nil, err
	}
	if err := domain.ValidateNickname(input.Nickname); err != nil {
		return nil, nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:               uuid.New(),
		Email:            email,
		Nickname:         strings.TrimSpace(input.Nickname),
		PasswordHash:     string(hashedPassword),
		BirthDate:        input.BirthDate,
		Region:           input.Region,
		IncomeBand:       input.Profile.IncomeBand,
		Education:        input.Profile.Education,
		MaritalStatus:    input.Profile.MaritalStatus,
		Major:            input.Profile.Major,
		EmploymentStatus: input.Profile.EmploymentStatus,
		SpecialGroup:     input.Profile.SpecialGroup,
		Interests:        input.Profile.Interests,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("email", user.Email),
	)

	return user, tokens, nil
}

// Login authenticates a member with email and password, returning tokens.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*domain.User, *TokenPair, error) {
	if input.Email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(input.Email)))
	if err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID.String()),
	)

	return user, tokens, nil
}

// Refresh rotates a refresh token: the presented token is consumed and a new
// pair is issued. A consumed, expired, or unknown token yields 401.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.InvalidInput("refresh token is required")
	}

	userID, err := s.tokens.Consume(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired refresh token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for token refresh: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "tokens refreshed",
		slog.String("user_id", user.ID.String()),
	)

	return tokens, nil
}

// Logout revokes every refresh token the member holds.
func (s *UserService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.DeleteForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged out",
		slog.String("user_id", userID.String()),
	)

	return nil
}

// CheckEmail reports whether the email is valid and not yet registered.
func (s *UserService) CheckEmail(ctx context.Context, email string) (bool, error) {
	normalized := strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(normalized); err != nil {
		return false, err
	}

	exists, err := s.users.EmailExists(ctx, normalized)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}

	return !exists, nil
}

// CheckNickname reports whether the nickname is allowed and not yet taken.
func (s *UserService) CheckNickname(ctx context.Context, nickname string) (bool, error) {
	trimmed := strings.TrimSpace(nickname)
	if err := domain.ValidateNickname(trimmed); err != nil {
		return false, err
	}

	exists, err := s.users.NicknameExists(ctx, trimmed)
	if err != nil {
		return false, fmt.Errorf("check nickname: %w", err)
	}

	return !exists, nil
}

// GetProfile retrieves a member by their ID.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return user, nil
}

// UpdateProfile replaces a member's editable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, profile domain.Profile) (*domain.User, error) {
	if err := s.users.UpdateProfile(ctx, userID, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user after update: %w", err)
	}

	s.logger.InfoContext(ctx, "user profile updated",
		slog.String("user_id", userID.String()),
	)

	return user, nil
}

// generateTokenPair creates an access token and a stored, rotatable refresh token.
func (s *UserService) generateTokenPair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID.String(), user.Email, user.Nickname)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokens.Store(ctx, refreshToken.Hash, user.ID, refreshToken.ExpiresAt); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Raw,
	}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return apperrors.InvalidInput("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperrors.InvalidInput("email is not a valid address")
	}
	return nil
}

// validatePassword checks that the password meets minimum complexity requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasLetter, hasDigit bool
	for _, ch := range password {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
			hasLetter = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one letter and one digit")
	}

	return nil
}
