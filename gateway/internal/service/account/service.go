package account

import (
	"context"
	"regexp"
	"strings"

	"github.com/Astemirdum/bandcoord/gateway/internal/backend"
	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/Astemirdum/bandcoord/gateway/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

type Backend interface {
	CreateUser(ctx context.Context, in model.Registration) error
	RequestPasswordReset(ctx context.Context, email string) error
	VerifyResetToken(ctx context.Context, token string) (string, error)
	ResetPassword(ctx context.Context, token, password, confirm string) error
}

var _ Backend = (*backend.Client)(nil)

type Service struct {
	log      *zap.Logger
	api      Backend
	rec      service.Recorder
	validate *validator.Validate
}

func NewService(log *zap.Logger, api Backend, rec service.Recorder) *Service {
	if rec == nil {
		rec = service.NopRecorder{}
	}
	return &Service{
		log:      log.Named("account"),
		api:      api,
		rec:      rec,
		validate: validator.New(),
	}
}

// PhoneDigits strips everything but digits.
func PhoneDigits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}

// checkRegistration stops at the first failing rule, in the order the form
// reports them.
func checkRegistration(in model.Registration) error {
	if !emailRe.MatchString(strings.TrimSpace(in.Email)) {
		return errs.Validation("email", "pattern", "validation.email")
	}
	if n := len(PhoneDigits(in.Phone)); n < minPhoneDigits || n > maxPhoneDigits {
		return errs.Validation("telefono", "digits", "validation.phone")
	}
	return checkNewPassword(in.Password, in.Confirm)
}

func checkNewPassword(pw, confirm string) error {
	if pw != confirm {
		return errs.Validation("password_confirmation", "mismatch", "validation.passwordMismatch")
	}
	if !CheckPassword(pw).Valid() {
		return errs.Validation("password", "weak", "validation.passwordWeak")
	}
	return nil
}

// Register creates a pending member account. Nothing is sent unless every
// rule passes.
func (s *Service) Register(ctx context.Context, in model.Registration) error {
	if err := s.validate.Struct(in); err != nil {
		return errs.Validation("registration", err.Error(), "validation.required")
	}
	if err := checkRegistration(in); err != nil {
		return err
	}
	in.Email = strings.TrimSpace(in.Email)
	in.Status = model.UserPending
	in.Role = model.RoleMember
	if err := s.api.CreateUser(ctx, in); err != nil {
		return errors.Wrap(err, "register")
	}
	s.log.Info("registration sent", zap.String("email", in.Email))
	s.rec.Record(ctx, service.Mutation{Resource: "user", Action: "register", Key: in.Email})
	return nil
}

func (s *Service) RequestReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !emailRe.MatchString(email) {
		return errs.Validation("email", "pattern", "validation.email")
	}
	return errors.Wrap(s.api.RequestPasswordReset(ctx, email), "request reset")
}

// VerifyToken returns the email the reset token belongs to.
func (s *Service) VerifyToken(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", errs.Validation("token", "required", "password.invalidToken")
	}
	return s.api.VerifyResetToken(ctx, token)
}

func (s *Service) ResetPassword(ctx context.Context, token, pw, confirm string) error {
	if strings.TrimSpace(token) == "" {
		return errs.Validation("token", "required", "password.invalidToken")
	}
	if err := checkNewPassword(pw, confirm); err != nil {
		return err
	}
	if err := s.api.ResetPassword(ctx, token, pw, confirm); err != nil {
		return errors.Wrap(err, "reset password")
	}
	s.rec.Record(ctx, service.Mutation{Resource: "user", Action: "reset-password"})
	return nil
}
