package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/u1krsh/EduPay/internal/auth"
	"github.com/u1krsh/EduPay/internal/domain"
	"github.com/u1krsh/EduPay/internal/dto"
	"github.com/u1krsh/EduPay/internal/repository"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user is inactive")
	ErrTokenNotFound      = errors.New("refresh token not found")
)

// AccountLockedError reports a login rejected by the attempt guard. It
// carries how long the caller must wait, for the 423 response body and
// Retry-After header.
type AccountLockedError struct {
	RetryAfter int
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, retry in %d seconds", e.RetryAfter)
}

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	BcryptCost int
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	// Register registers a new user
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	// Login authenticates a user, subject to the attempt guard
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Refresh mints a new access token against a persisted refresh token
	Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	// Logout revokes a single refresh token
	Logout(ctx context.Context, refreshToken string) error
	// LogoutAll revokes every refresh token a user holds
	LogoutAll(ctx context.Context, userID string) error
	// ChangePassword changes the password and revokes all refresh tokens
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	// GetUser retrieves user by ID
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// ListProfessors retrieves all active professors
	ListProfessors(ctx context.Context) ([]*domain.User, error)
	// EnsureAdmin seeds an admin account if the email is not taken yet
	EnsureAdmin(ctx context.Context, email, password, name string) error
}

// authService implements AuthService
type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
	tokens    *auth.TokenService
	guard     *auth.LoginGuard
	activity  ActivityRecorder
	config    *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	tokens *auth.TokenService,
	guard *auth.LoginGuard,
	activity ActivityRecorder,
	config *AuthServiceConfig,
) AuthService {
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		guard:     guard,
		activity:  activity,
		config:    config,
	}
}

// Register registers a new user
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	// Self-registration never grants any role other than professor. Admin
	// accounts exist only through EnsureAdmin at startup.
	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Role:         domain.RoleProfessor,
		HourlyRate:   req.HourlyRate,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, user.ID, "user.registered", "user", user.ID, user.Email)

	return s.issueTokenPair(ctx, user)
}

// Login authenticates a user. The guard runs before any credential work: a
// locked identity is rejected without touching the password, and every
// verification outcome is recorded so the counter stays honest.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	lock, err := s.guard.IsLocked(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if lock.Locked {
		return nil, &AccountLockedError{RetryAfter: lock.RetryAfter}
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	ok := user != nil && user.IsActive &&
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) == nil

	status, err := s.guard.RecordAttempt(ctx, req.Email, ok)
	if err != nil {
		return nil, err
	}
	if !ok {
		if status.Locked {
			return nil, &AccountLockedError{RetryAfter: status.RetryAfter}
		}
		if user != nil && !user.IsActive {
			return nil, ErrUserInactive
		}
		return nil, ErrInvalidCredentials
	}

	s.activity.Record(ctx, user.ID, "user.login", "user", user.ID, "")

	return s.issueTokenPair(ctx, user)
}

// Refresh verifies the presented refresh token and requires its persisted
// row to still exist. The refresh token itself is not rotated: the client
// keeps using it until expiry or revocation.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	stored, err := s.tokenRepo.GetValid(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.UserID != userID {
		return nil, ErrTokenNotFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// Logout revokes a single refresh token. Revoking an unknown token is not
// an error; the end state is the same.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.Delete(ctx, refreshToken)
}

// LogoutAll revokes every refresh token a user holds
func (s *authService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.tokenRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	s.activity.Record(ctx, userID, "user.logout_all", "user", userID, "")
	return nil
}

// ChangePassword changes the password and revokes all refresh tokens, so
// stolen sessions die with the old password.
func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.config.BcryptCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := s.tokenRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}

	s.activity.Record(ctx, userID, "user.password_changed", "user", userID, "")
	return nil
}

// GetUser retrieves user by ID
func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListProfessors retrieves all active professors, for admin screens that
// batch sessions into payments.
func (s *authService) ListProfessors(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.ListProfessors(ctx)
}

// EnsureAdmin creates an active admin account unless a user with the email
// already exists. It is the only path that produces an admin role; public
// registration always yields professors.
func (s *authService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Name:         name,
		Role:         domain.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}

	s.activity.Record(ctx, admin.ID, "user.admin_seeded", "user", admin.ID, admin.Email)
	return nil
}

// issueTokenPair signs both tokens and persists the refresh token so it can
// be revoked later.
func (s *authService) issueTokenPair(ctx context.Context, user *domain.User) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, expiresAt, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Create(ctx, &domain.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTokenTTL().Seconds()),
		User:         dto.NewUserResponse(user),
	}, nil
}
