package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/api/idtoken"

	"github.com/velmoney/velmo_app/internal/apperrors"
	"github.com/velmoney/velmo_app/internal/core/domain"
	portsrepo "github.com/velmoney/velmo_app/internal/core/ports/repositories"
	portssvc "github.com/velmoney/velmo_app/internal/core/ports/services"
	"github.com/velmoney/velmo_app/internal/dto"
	"github.com/velmoney/velmo_app/internal/middleware"
	"github.com/velmoney/velmo_app/internal/utils"
)

// welcomeGrant is the balance a newly registered user's primary account
// starts with.
var welcomeGrant = decimal.NewFromInt(1000)

type userService struct {
	userRepo    portsrepo.UserRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewUserService creates the user service. The account repository dependency
// lets registration open the user's primary account.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, accountRepo: accountRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// CreateUser registers a new user and opens their primary account with the
// welcome grant.
func (s *userService) CreateUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.userRepo.FindUserByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("%w: username %s is taken", apperrors.ErrDuplicate, req.Username)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: passwordHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "registration",
			LastUpdatedAt: now,
			LastUpdatedBy: "registration",
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		logger.Error("Failed to save user", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.openPrimaryAccount(ctx, user.UserID, now); err != nil {
		logger.Error("Failed to open primary account for new user", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		return nil, err
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

// openPrimaryAccount creates the user's first account with the welcome grant.
func (s *userService) openPrimaryAccount(ctx context.Context, userID string, now time.Time) error {
	account := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    userID,
		Balance:   welcomeGrant,
		IsPrimary: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	_, err := s.accountRepo.SaveAccount(ctx, account)
	return err
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.FindUserByUsername(ctx, username)
}

func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.userRepo.FindUsers(ctx, limit, offset)
}

// UpdateUser updates a user's own profile.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	if userID != requestingUserID {
		return nil, fmt.Errorf("%w: users may only update themselves", apperrors.ErrForbidden)
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
}

func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.ClearRefreshToken(ctx, userID)
}

// DeleteUser soft deletes the user's own record.
func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	if userID != requestingUserID {
		return fmt.Errorf("%w: users may only delete themselves", apperrors.ErrForbidden)
	}
	return s.userRepo.MarkUserDeleted(ctx, userID, time.Now().UTC(), requestingUserID)
}

// AuthenticateUser authenticates a user with username and password. Both a
// missing user and a wrong password surface as ErrUnauthorized.
func (s *userService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// GetOrCreateUserFromGoogle finds the user linked to the verified Google ID
// token payload, creating one (with a primary account) on first sign-in.
func (s *userService) GetOrCreateUserFromGoogle(ctx context.Context, payload *idtoken.Payload) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	googleID := payload.Subject
	if googleID == "" {
		return nil, fmt.Errorf("%w: google token has no subject", apperrors.ErrUnauthorized)
	}

	user, err := s.userRepo.FindUserByGoogleID(ctx, googleID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if name == "" {
		name = email
	}

	now := time.Now().UTC()
	newUser := domain.User{
		UserID:   uuid.NewString(),
		Username: usernameFromEmail(email, googleID),
		Name:     name,
		GoogleID: googleID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "google-signin",
			LastUpdatedAt: now,
			LastUpdatedBy: "google-signin",
		},
	}

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		logger.Error("Failed to save google user", slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.openPrimaryAccount(ctx, newUser.UserID, now); err != nil {
		logger.Error("Failed to open primary account for google user", slog.String("error", err.Error()), slog.String("user_id", newUser.UserID))
		return nil, err
	}

	logger.Info("User created from google sign-in", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}

// usernameFromEmail derives a username from the email local part, falling
// back to the Google subject when no email claim is present.
func usernameFromEmail(email, googleID string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "g-" + googleID
}
