package account

import (
	"context"
	"errors"
	"testing"

	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
	"github.com/Astemirdum/bandcoord/gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAccounts struct {
	created []model.Registration
	resets  []string
	tokens  map[string]string
}

func (f *fakeAccounts) CreateUser(_ context.Context, in model.Registration) error {
	f.created = append(f.created, in)
	return nil
}

func (f *fakeAccounts) RequestPasswordReset(_ context.Context, email string) error {
	f.resets = append(f.resets, email)
	return nil
}

func (f *fakeAccounts) VerifyResetToken(_ context.Context, token string) (string, error) {
	email, ok := f.tokens[token]
	if !ok {
		return "", errs.Validation("token", "invalid or expired", "password.invalidToken")
	}
	return email, nil
}

func (f *fakeAccounts) ResetPassword(_ context.Context, token, _, _ string) error {
	if _, ok := f.tokens[token]; !ok {
		return errors.New("unknown token")
	}
	return nil
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		pw   string
		want Checklist
	}{
		{pw: "Abcdef1!", want: Checklist{Length: true, Lower: true, Upper: true, Digit: true, Special: true}},
		{pw: "abcdefgh", want: Checklist{Length: true, Lower: true}},
		{pw: "A1!", want: Checklist{Upper: true, Digit: true, Special: true}},
		{pw: `ABCdef12\`, want: Checklist{Length: true, Lower: true, Upper: true, Digit: true, Special: true}},
		{pw: "Abcdef12~", want: Checklist{Length: true, Lower: true, Upper: true, Digit: true}},
		{pw: "", want: Checklist{}},
	}
	for _, tt := range tests {
		t.Run(tt.pw, func(t *testing.T) {
			got := CheckPassword(tt.pw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == Checklist{Length: true, Lower: true, Upper: true, Digit: true, Special: true}, got.Valid())
		})
	}
	assert.Equal(t, []string{
		"password.rules.upper",
		"password.rules.digit",
		"password.rules.special",
	}, CheckPassword("abcdefgh").Failed())
}

func TestService_Register(t *testing.T) {
	valid := model.Registration{
		Name:     "Ana",
		Surname1: "Ruiz",
		Email:    "ana@banda.es",
		Phone:    "+34 600-111-222",
		Password: "Abcdef1!",
		Confirm:  "Abcdef1!",
	}
	tests := []struct {
		name    string
		mutate  func(*model.Registration)
		wantKey string
	}{
		{name: "ok"},
		{name: "bad email wins over bad phone", mutate: func(r *model.Registration) {
			r.Email = "ana@banda"
			r.Phone = "12"
		}, wantKey: "validation.email"},
		{name: "short phone", mutate: func(r *model.Registration) { r.Phone = "600 11" }, wantKey: "validation.phone"},
		{name: "long phone", mutate: func(r *model.Registration) { r.Phone = "1234567890123456" }, wantKey: "validation.phone"},
		{name: "mismatch wins over weak", mutate: func(r *model.Registration) {
			r.Password = "abc"
			r.Confirm = "abd"
		}, wantKey: "validation.passwordMismatch"},
		{name: "weak", mutate: func(r *model.Registration) {
			r.Password = "abcdefgh"
			r.Confirm = "abcdefgh"
		}, wantKey: "validation.passwordWeak"},
		{name: "missing name", mutate: func(r *model.Registration) { r.Name = "" }, wantKey: "validation.required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeAccounts{}
			s := NewService(zap.NewNop(), f, nil)
			in := valid
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			err := s.Register(context.Background(), in)
			if tt.wantKey == "" {
				require.NoError(t, err)
				require.Len(t, f.created, 1)
				require.Equal(t, model.UserPending, f.created[0].Status)
				require.Equal(t, model.RoleMember, f.created[0].Role)
				return
			}
			var ve *errs.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tt.wantKey, ve.Key)
			require.Empty(t, f.created)
		})
	}
}

func TestService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	f := &fakeAccounts{tokens: map[string]string{"tok": "ana@banda.es"}}
	s := NewService(zap.NewNop(), f, nil)

	require.True(t, errs.IsValidation(s.RequestReset(ctx, "nope")))
	require.NoError(t, s.RequestReset(ctx, " ana@banda.es "))
	require.Equal(t, []string{"ana@banda.es"}, f.resets)

	email, err := s.VerifyToken(ctx, "tok")
	require.NoError(t, err)
	require.Equal(t, "ana@banda.es", email)

	_, err = s.VerifyToken(ctx, "other")
	require.True(t, errs.IsValidation(err))

	require.True(t, errs.IsValidation(s.ResetPassword(ctx, "tok", "Abcdef1!", "Abcdef1?")))
	require.True(t, errs.IsValidation(s.ResetPassword(ctx, "tok", "abcdefgh", "abcdefgh")))
	require.NoError(t, s.ResetPassword(ctx, "tok", "Abcdef1!", "Abcdef1!"))
	require.Error(t, s.ResetPassword(ctx, "bad", "Abcdef1!", "Abcdef1!"))
}
