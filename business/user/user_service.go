package user

import (
	"context"
	"errors"
	"fmt"
	"marketingCRM/domain"
	"marketingCRM/pkg/logger"
	"marketingCRM/pkg/utils"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
}

// SessionRepository keeps server-side sessions until they expire.
type SessionRepository interface {
	Store(ctx context.Context, session domain.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (domain.Session, error)
	Delete(ctx context.Context, id string) error
}

var validRoles = map[string]bool{
	domain.RoleAdmin:    true,
	domain.RoleMarketer: true,
	domain.RoleAnalyst:  true,
}

type userService struct {
	userRepo    UserRepository
	sessionRepo SessionRepository
	secret      []byte
	sessionTTL  time.Duration
}

func NewUserService(userRepo UserRepository, sessionRepo SessionRepository, secret string, sessionTTL time.Duration) *userService {
	return &userService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		secret:      []byte(secret),
		sessionTTL:  sessionTTL,
	}
}

func (s *userService) CreateUser(ctx context.Context, username, password string, email *string, role string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create user")
		return domain.User{}, fmt.Errorf("context error: %w", err)
	}

	if strings.TrimSpace(username) == "" {
		return domain.User{}, domain.Invalid("username is required")
	}
	if len(password) < 6 {
		return domain.User{}, domain.Invalid("password must be at least 6 characters")
	}
	if role == "" {
		role = domain.RoleMarketer
	}
	if !validRoles[role] {
		return domain.User{}, domain.Invalid("invalid role")
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.User{}, errors.New("failed to hash password")
	}

	user := domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		Email:        email,
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, &user); err != nil {
		logger.Error("Failed to create new user", err)
		return domain.User{}, err
	}

	return user, nil
}

// Login checks the credentials, opens a session and returns the signed
// cookie value that refers to it.
func (s *userService) Login(ctx context.Context, username, password, ipAddress, userAgent string) (string, domain.User, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when login")
		return "", domain.User{}, fmt.Errorf("context error: %w", err)
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			logger.Warn("Login for unknown user", "username", username)
			return "", domain.User{}, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err)
		return "", domain.User{}, err
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		logger.Warn("User password incorrect", "username", username)
		return "", domain.User{}, ErrInvalidCredentials
	}

	now := time.Now()
	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}

	userIdStr := strconv.FormatUint(uint64(user.ID), 10)
	token, err := utils.GenerateJWT(s.secret, userIdStr, user.Role, session.ID, s.sessionTTL)
	if err != nil {
		logger.Error("Failed to generated token", err)
		return "", domain.User{}, errors.New("failed to generate token")
	}

	if err := s.sessionRepo.Store(ctx, session, s.sessionTTL); err != nil {
		logger.Error("Failed to store session", err)
		return "", domain.User{}, fmt.Errorf("failed to store session: %w", err)
	}

	logger.Info("user logged in", "user_id", user.ID)

	return token, user, nil
}

// ValidateSession resolves a cookie value to its live session.
func (s *userService) ValidateSession(ctx context.Context, token string) (domain.Session, error) {
	claims, err := utils.ParseJWT(s.secret, token)
	if err != nil {
		return domain.Session{}, fmt.Errorf("invalid session token: %w", err)
	}

	session, err := s.sessionRepo.Get(ctx, claims.ID)
	if err != nil {
		return domain.Session{}, err
	}

	if strconv.FormatUint(uint64(session.UserID), 10) != claims.UserID {
		logger.Warn("Session does not belong to token subject", "session_id", claims.ID)
		return domain.Session{}, domain.ErrSessionNotFound
	}

	return session, nil
}

// Logout ends the session behind token. Unreadable or expired tokens have
// nothing left to end.
func (s *userService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := utils.ParseJWT(s.secret, token)
	if err != nil {
		logger.Debug("Logout with unreadable session token", err)
		return nil
	}

	if err := s.sessionRepo.Delete(ctx, claims.ID); err != nil {
		logger.Error("Failed to delete session", err)
		return err
	}

	return nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, fmt.Errorf("context error: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get user by ID", err)
		return domain.User{}, err
	}

	return user, nil
}

func (s *userService) UserExists(ctx context.Context, username string) (bool, error) {
	_, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		logger.Error("Failed to find user", err)
		return false, err
	}
	return true, nil
}
