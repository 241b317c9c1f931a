package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/PepeePB/proyecto-asee/config"
	"github.com/PepeePB/proyecto-asee/internal/access/domain"
	"github.com/PepeePB/proyecto-asee/internal/access/dto"
	"github.com/PepeePB/proyecto-asee/internal/access/store"
	autherror "github.com/PepeePB/proyecto-asee/internal/errors"
	"github.com/PepeePB/proyecto-asee/pkg/constant"
)

const (
	confirmMailSubject = "Please verify your account"
	confirmMailTmpl    = "account-confirm"
	resetMailSubject   = "Password Reset Request"
	resetMailTmpl      = "password-reset"
)

// AccountService handles the account lifecycle periphery of the session
// subsystem: registration, email confirmation and password resets. The
// one-time codes it hands out live in the same store as the session
// records, under their own categories.
type AccountService struct {
	repo   domain.UserRepository
	store  store.SessionStore
	mailer MailSender
	cfg    *config.Config
	log    zerolog.Logger
}

func NewAccountService(repo domain.UserRepository, sessions store.SessionStore, mailer MailSender,
	cfg *config.Config, log zerolog.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		store:  sessions,
		mailer: mailer,
		cfg:    cfg,
		log:    log,
	}
}

// Register creates an unverified user and mails a confirmation link keyed
// by a one-time id stored in both directions (id -> username and
// username -> id) so the link can be regenerated later.
func (s *AccountService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existing, err := s.repo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		existing, err = s.repo.GetByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
	}

	if existing != nil {
		return nil, autherror.ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashed),
		Name:         input.Name,
		Surname:      input.Surname,
		Phone:        input.Phone,
		Role:         constant.RoleUser,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.issueVerification(ctx, user); err != nil {
		s.log.Warn().Err(err).Str("username", user.Username).Msg("failed to send verification mail")
	}

	return user, nil
}

// ConfirmAccount resolves the one-time id back to its user, marks the user
// verified and burns both directions of the code.
func (s *AccountService) ConfirmAccount(ctx context.Context, id string) error {
	username, ok, err := s.store.Get(ctx, store.ConfirmAccount, id)
	if err != nil {
		return err
	}

	if !ok {
		return autherror.ErrInvalidVerifyID
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if user == nil {
		return autherror.ErrUserNotFound
	}

	if err := s.repo.MarkVerified(ctx, username); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, store.ConfirmAccount, id, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to burn verification id")
	}

	return nil
}

// NewVerificationID issues a fresh confirmation code for a user that has
// none active. An outstanding code must expire before another is handed out.
func (s *AccountService) NewVerificationID(ctx context.Context, username string) error {
	exists, err := s.store.Exists(ctx, store.ConfirmAccount, username)
	if err != nil {
		return err
	}

	if exists {
		return autherror.ErrVerificationExists
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if user == nil {
		return autherror.ErrUserNotFound
	}

	return s.issueVerification(ctx, user)
}

// ResendVerification re-mails the currently active confirmation link.
func (s *AccountService) ResendVerification(ctx context.Context, username string) error {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if user == nil {
		return autherror.ErrUserNotFound
	}

	id, ok, err := s.store.Get(ctx, store.ConfirmAccount, username)
	if err != nil {
		return err
	}

	if !ok {
		return autherror.ErrVerificationExpired
	}

	return s.sendConfirmMail(ctx, user, id)
}

// RequestPasswordReset mails a six digit code to the user behind the
// identifier (username or email), stored in both directions for the
// verification step.
func (s *AccountService) RequestPasswordReset(ctx context.Context, input dto.PasswordResetRequestInput) error {
	var (
		user *domain.User
		err  error
	)

	if strings.Contains(input.Identifier, "@") {
		user, err = s.repo.GetByEmail(ctx, input.Identifier)
	} else {
		user, err = s.repo.GetByUsername(ctx, input.Identifier)
	}

	if err != nil {
		return err
	}

	if user == nil {
		return autherror.ErrUserNotFound
	}

	code, err := sixDigitCode()
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, store.ResetPassword, user.Username, code, s.cfg.VerificationTTL); err != nil {
		return err
	}

	if err := s.store.Put(ctx, store.ResetPassword, code, user.Username, s.cfg.VerificationTTL); err != nil {
		return err
	}

	model := map[string]string{
		"code":              code,
		"resetPasswordLink": s.cfg.Domain + "/core/views/code-verified",
	}

	return s.mailer.SendTemplate(ctx, user.Email, resetMailSubject, resetMailTmpl, model)
}

// ResetPassword verifies the code against both stored directions before
// replacing the password hash and burning the code.
func (s *AccountService) ResetPassword(ctx context.Context, input dto.PasswordResetInput) error {
	stored, ok, err := s.store.Get(ctx, store.ResetPassword, input.Code)
	if err != nil {
		return err
	}

	if !ok || stored != input.Username {
		return autherror.ErrInvalidResetCode
	}

	exists, err := s.store.Exists(ctx, store.ResetPassword, input.Username)
	if err != nil {
		return err
	}

	if !exists {
		return autherror.ErrInvalidResetCode
	}

	if err := s.updatePassword(ctx, input.Username, input.Password); err != nil {
		return err
	}

	return s.store.Delete(ctx, store.ResetPassword, input.Username, input.Code)
}

// ConfirmResetPassword is the link-based variant: the id resolves directly
// to the username.
func (s *AccountService) ConfirmResetPassword(ctx context.Context, input dto.ConfirmResetInput) error {
	username, ok, err := s.store.Get(ctx, store.ResetPassword, input.ID)
	if err != nil {
		return err
	}

	if !ok {
		return autherror.ErrInvalidResetCode
	}

	if err := s.updatePassword(ctx, username, input.Password); err != nil {
		return err
	}

	return s.store.Delete(ctx, store.ResetPassword, input.ID, username)
}

func (s *AccountService) updatePassword(ctx context.Context, username, password string) error {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if user == nil {
		return autherror.ErrUserNotFound
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, username, string(hashed))
}

func (s *AccountService) issueVerification(ctx context.Context, user *domain.User) error {
	id := uuid.NewString()

	if err := s.store.Put(ctx, store.ConfirmAccount, user.Username, id, s.cfg.VerificationTTL); err != nil {
		return err
	}

	if err := s.store.Put(ctx, store.ConfirmAccount, id, user.Username, s.cfg.VerificationTTL); err != nil {
		return err
	}

	return s.sendConfirmMail(ctx, user, id)
}

func (s *AccountService) sendConfirmMail(ctx context.Context, user *domain.User, id string) error {
	model := map[string]string{
		"name":             user.Name,
		"confirmationLink": s.cfg.Domain + "/access/confirmAccount?id=" + id,
	}

	return s.mailer.SendTemplate(ctx, user.Email, confirmMailSubject, confirmMailTmpl, model)
}

func sixDigitCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
