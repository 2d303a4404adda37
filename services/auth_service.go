package services

import (
	"context"
	"time"

	"flowershop_backend/internal/apperr"
	"flowershop_backend/models"
	"flowershop_backend/repositories"
	"flowershop_backend/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type AuthService struct {
	users    *repositories.UserRepository
	resets   *repositories.ResetPasswordRepository
	userSvc  *UserService
	tokens   *utils.TokenMaker
	notifier Notifier
	resetTTL time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	users *repositories.UserRepository,
	resets *repositories.ResetPasswordRepository,
	userSvc *UserService,
	tokens *utils.TokenMaker,
	notifier Notifier,
	resetTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		resets:   resets,
		userSvc:  userSvc,
		tokens:   tokens,
		notifier: notifier,
		resetTTL: resetTTL,
		log:      log,
		now:      time.Now,
	}
}

// ValidateUser returns nil without an error when the credentials do not match.
func (s *AuthService) ValidateUser(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, nil
	}
	return user, nil
}

func (s *AuthService) Login(user *models.User) (string, error) {
	return s.tokens.Generate(user.ID, user.Username, string(user.Role))
}

// Register creates a regular user account.
func (s *AuthService) Register(ctx context.Context, in UserInput) (*models.User, error) {
	in.Role = models.RoleUser
	in.IsActive = true
	return s.userSvc.Create(ctx, in)
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userSvc.FindOne(ctx, userID)
}

// ForgotPassword never reveals whether the address belongs to an account.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if n, err := s.resets.DeleteExpired(ctx, s.now()); err != nil {
		s.log.Warn().Err(err).Msg("failed to purge expired reset tokens")
	} else if n > 0 {
		s.log.Debug().Int64("count", n).Msg("purged expired reset tokens")
	}

	reset := &models.ResetPassword{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return err
	}

	if err := s.notifier.SendResetPasswordEmail(ctx, user.Email, reset.Token); err != nil {
		s.log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to queue reset password email")
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword, confirmNewPassword string) error {
	if newPassword != confirmNewPassword {
		return apperr.BadRequest("Confirmed password doesn't match")
	}

	reset, err := s.resets.FindByToken(ctx, token)
	if err != nil {
		return missing(err, apperr.BadRequest("Wrong or expired token"))
	}
	if reset.Expired(s.now()) {
		return apperr.BadRequest("Wrong or expired token")
	}

	user, err := s.users.FindByID(ctx, reset.UserID)
	if err != nil {
		return missing(err, apperr.BadRequest("Nonexistent user"))
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	return s.resets.Delete(ctx, reset.ID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, newPassword, confirmNewPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return missing(err, apperr.NotFound("Nonexistent user"))
	}
	if !utils.CheckPasswordHash(current, user.Password) {
		return apperr.BadRequest("Wrong Password")
	}
	if newPassword != confirmNewPassword {
		return apperr.BadRequest("Confirmed password doesn't match")
	}
	if current == newPassword {
		return apperr.BadRequest("Your new password can't be your old password")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}
