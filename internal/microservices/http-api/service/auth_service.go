package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yamdb/internal/mail"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/middleware/auth"

	"gorm.io/gorm"
)

// reservedUsername collides with the /users/me/ route.
const reservedUsername = "me"

func isReservedUsername(username string) bool {
	return strings.EqualFold(strings.TrimSpace(username), reservedUsername)
}

// SignupLimiter decides whether a confirmation code may be mailed to an address now.
// Release lifts the hold again when no code went out.
type SignupLimiter interface {
	Acquire(ctx context.Context, email string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, email string) error
}

type AuthService interface {
	// Signup registers a user, or rotates the code of an existing one, and mails a confirmation code.
	Signup(ctx context.Context, req dto.SignupRequest) (*models.User, error)
	// ObtainToken exchanges a username and confirmation code for an access token.
	ObtainToken(ctx context.Context, req dto.TokenRequest) (string, error)
}

type authService struct {
	userRepo    repository.UserRepository
	tokens      auth.TokenManager
	mailer      mail.Mailer
	limiter     SignupLimiter
	cooldownTTL time.Duration
	logger      *slog.Logger
	newCode     func() (string, error)
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens auth.TokenManager,
	mailer mail.Mailer,
	limiter SignupLimiter,
	cooldownTTL time.Duration,
	logger *slog.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		mailer:      mailer,
		limiter:     limiter,
		cooldownTTL: cooldownTTL,
		logger:      logger,
		newCode:     auth.GenerateConfirmationCode,
	}
}

func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (_ *models.User, err error) {
	if isReservedUsername(req.Username) {
		return nil, invalid("username", ErrRestrictedUsername)
	}

	byName, err := s.lookup(ctx, s.userRepo.FindByUsername, req.Username)
	if err != nil {
		return nil, err
	}
	byEmail, err := s.lookup(ctx, s.userRepo.FindByEmail, req.Email)
	if err != nil {
		return nil, err
	}

	var user *models.User
	switch {
	case byName != nil && byEmail != nil && byName.ID == byEmail.ID:
		user = byName
	case byName != nil:
		return nil, invalid("username", ErrNameInUse)
	case byEmail != nil:
		return nil, invalid("email", ErrEmailInUse)
	}

	held, err := s.acquireCooldown(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if held {
		// a failed delivery must not lock the address out
		defer func() {
			if err != nil {
				s.releaseCooldown(ctx, req.Email)
			}
		}()
	}

	code, err := s.newCode()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}
	hash, err := auth.HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}

	if user == nil {
		user = &models.User{
			Username:         req.Username,
			Email:            req.Email,
			Role:             models.RoleUser,
			ConfirmationCode: &hash,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, duplicateUserError(err)
			}
			return nil, fmt.Errorf("create user: %w", err)
		}
		s.logger.InfoContext(ctx, "user_registered", "user_id", user.ID, "username", user.Username)
	} else {
		if err := s.userRepo.SetConfirmationCode(ctx, user.ID, &hash); err != nil {
			return nil, fmt.Errorf("rotate confirmation code: %w", err)
		}
		user.ConfirmationCode = &hash
		s.logger.InfoContext(ctx, "confirmation_code_rotated", "user_id", user.ID)
	}

	if err := s.mailer.Send(ctx, mail.ConfirmationMessage(user.Email, code)); err != nil {
		return nil, fmt.Errorf("send confirmation code: %w", err)
	}
	return user, nil
}

func (s *authService) ObtainToken(ctx context.Context, req dto.TokenRequest) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return "", notFound(err, ErrUserNotFound)
	}

	if user.ConfirmationCode == nil || auth.VerifyCode(*user.ConfirmationCode, req.ConfirmationCode) != nil {
		return "", invalid("confirmation_code", ErrInvalidConfirmationCode)
	}

	token, _, err := s.tokens.Generate(user)
	if err != nil {
		return "", err
	}

	// codes are single use
	if err := s.userRepo.SetConfirmationCode(ctx, user.ID, nil); err != nil {
		return "", fmt.Errorf("clear confirmation code: %w", err)
	}

	s.logger.InfoContext(ctx, "token_issued", "user_id", user.ID)
	return token, nil
}

func (s *authService) lookup(
	ctx context.Context,
	find func(context.Context, string) (*models.User, error),
	key string,
) (*models.User, error) {
	user, err := find(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// acquireCooldown fails open: an unreachable Redis never blocks signups.
// held reports whether a hold was placed that a failed signup must release.
func (s *authService) acquireCooldown(ctx context.Context, email string) (held bool, err error) {
	if s.limiter == nil {
		return false, nil
	}
	ok, err := s.limiter.Acquire(ctx, email, s.cooldownTTL)
	if err != nil {
		s.logger.WarnContext(ctx, "signup_cooldown_unavailable", "error", err)
		return false, nil
	}
	if !ok {
		return false, ErrSignupThrottled
	}
	return true, nil
}

func (s *authService) releaseCooldown(ctx context.Context, email string) {
	if err := s.limiter.Release(context.WithoutCancel(ctx), email); err != nil {
		s.logger.WarnContext(ctx, "signup_cooldown_release_failed", "error", err)
	}
}

func duplicateUserError(err error) error {
	var dup *repository.DuplicateError
	if errors.As(err, &dup) && strings.Contains(dup.Constraint, "email") {
		return invalid("email", ErrEmailInUse)
	}
	return invalid("username", ErrNameInUse)
}
