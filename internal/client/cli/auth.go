package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aydevelopers/adminconsole/internal/client/client"
	"github.com/aydevelopers/adminconsole/internal/client/models"
	"github.com/aydevelopers/adminconsole/internal/client/session"
	"github.com/aydevelopers/adminconsole/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// userMessage picks the text shown for a failed backend call: the backend's
// own message when it sent one, fallback otherwise.
func userMessage(err error, fallback string) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, client.ErrUnavailable):
		return client.Message(err)
	default:
		return fallback
	}
}

// SignIn prompts for email and password, authenticates against the backend
// and starts a new session. The password is wiped before returning.
func (a *App) SignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	p, err := a.auth.SignIn(ctx, email, password)
	if err != nil {
		a.logger.Warn(ctx, "sign-in failed", "email", email, "error", err)
		a.notifier.Error("Sign In Failed", userMessage(err, "Invalid email or password"))
		return err
	}

	if err := a.monitor.Start(ctx); err != nil {
		a.logger.Error(ctx, "session start failed", "error", err)
		return err
	}
	a.setUserName(p.Email)
	printlnFn("Signed in as", p.FullName(), fmt.Sprintf("(%s)", roleLabel(p.Role)))
	return nil
}

// SignUp collects the registration form and creates an account. The user
// still has to sign in afterwards.
func (a *App) SignUp(ctx context.Context) error {
	var req models.SignUpRequest
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter first name", &req.FirstName},
		{"Enter last name", &req.LastName},
		{"Enter email", &req.Email},
		{"Enter phone number", &req.Phone},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	req.Phone = strings.Join(strings.Fields(req.Phone), "")

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.SignUp(ctx, req, password); err != nil {
		a.logger.Warn(ctx, "sign-up failed", "email", req.Email, "error", err)
		a.notifier.Error("Signup Failed", userMessage(err, "An error occurred during signup"))
		return err
	}

	a.notifier.Success("Success!", "Account created successfully. Please check your email for verification.")
	return nil
}

// Logout removes the cached credential and tokens, then ends the session.
// When cleanup fails the session is left as it was and the error returned.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		a.logger.Error(ctx, "logout cleanup failed", "error", err)
		a.notifier.Error("Logout Failed", "Failed to logout properly. Please try again.")
		return err
	}
	if a.monitor.State() == session.StateActive {
		a.monitor.Expire(session.ReasonLogout)
	}
	a.toSignIn()
	printlnFn("Signed out.")
	return nil
}

// ChangePassword asks for the current and the new password.
func (a *App) ChangePassword(ctx context.Context) error {
	return a.guard.Run(ctx, "passwd", func(ctx context.Context, _ models.Profile) error {
		current, err := getPassword("Current password", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(current)

		next, err := getPassword("New password", a.out)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(next)

		if err := a.auth.ChangePassword(ctx, current, next); err != nil {
			a.logger.Warn(ctx, "password change failed", "error", err)
			a.notifier.Error("Error", userMessage(err, "Failed to change password"))
			return err
		}
		a.notifier.Success("Success!", "Password changed successfully")
		return nil
	})
}
