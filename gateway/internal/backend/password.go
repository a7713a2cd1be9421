package backend

import (
	"context"
	"net/http"

	"github.com/Astemirdum/bandcoord/gateway/internal/errs"
)

func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.send(ctx, http.MethodPost, "/password/reset-request", body, nil)
}

// VerifyResetToken returns the email the token was issued for, when the
// backend reports it.
func (c *Client) VerifyResetToken(ctx context.Context, token string) (string, error) {
	body := struct {
		Token string `json:"token"`
	}{Token: token}
	var out struct {
		Valid *bool  `json:"valid"`
		Email string `json:"email"`
	}
	if err := c.send(ctx, http.MethodPost, "/password/verify-token", body, &out); err != nil {
		return "", err
	}
	if out.Valid != nil && !*out.Valid {
		return "", errs.Validation("token", "invalid or expired", "password.invalidToken")
	}
	return out.Email, nil
}

func (c *Client) ResetPassword(ctx context.Context, token, password, confirm string) error {
	body := struct {
		Token    string `json:"token"`
		Password string `json:"password"`
		Confirm  string `json:"password_confirmation"`
	}{Token: token, Password: password, Confirm: confirm}
	return c.send(ctx, http.MethodPost, "/password/reset", body, nil)
}
