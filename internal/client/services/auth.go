// Package services contains the console's application services.
// This file defines the authentication service: sign-in/up against the
// backend, logout, and the locally cached profile.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aydevelopers/adminconsole/internal/client/client"
	"github.com/aydevelopers/adminconsole/internal/client/models"
	"github.com/aydevelopers/adminconsole/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidResponse = errors.New("backend returned a user without id")
	ErrNoToken         = errors.New("no access token stored")
)

// Credentials is the credential cache as used by the services.
type Credentials interface {
	Store(ctx context.Context, p models.Profile) error
	Load(ctx context.Context) (models.Profile, error)
	SaveTokens(ctx context.Context, access, refresh string) error
	Tokens(ctx context.Context) (access, refresh string, err error)
	Clear(ctx context.Context) error
}

// AuthService defines authentication operations for the console.
//
// Contract:
//   - SignIn: authenticate against the backend and cache the profile and tokens.
//   - SignUp: create an account; the user still has to sign in.
//   - Logout: remove the cached credential and tokens.
//   - Profile: the cached profile; fails when the cache is missing or corrupted.
//   - RefreshProfile / UpdateProfile: sync the cached profile with the backend.
//   - ChangePassword: change the signed-in user's password.
//   - TokenInfo: unverified claims of the stored access token.
//   - Ping: check backend liveness.
//
// All methods honor context cancellation/timeouts.
type AuthService interface {
	SignIn(ctx context.Context, email string, password []byte) (models.Profile, error)
	SignUp(ctx context.Context, req models.SignUpRequest, password []byte) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (models.Profile, error)
	RefreshProfile(ctx context.Context) (models.Profile, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.Profile, error)
	ChangePassword(ctx context.Context, current, next []byte) error
	TokenInfo(ctx context.Context) (TokenInfo, error)
	Ping(ctx context.Context) error
}

// TokenInfo is what the console shows about the backend's access token. It
// never drives local expiry.
type TokenInfo struct {
	Subject   string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

type authService struct {
	client client.Client
	creds  Credentials
}

func NewAuthService(client client.Client, creds Credentials) AuthService {
	return &authService{client: client, creds: creds}
}

// SignIn replaces whatever was cached before: stale tokens from a previous
// session must not survive a sign-in that returns none.
func (a *authService) SignIn(ctx context.Context, email string, password []byte) (models.Profile, error) {
	defer common.WipeByteArray(password)

	resp, err := a.client.SignIn(ctx, models.SignInRequest{Email: email, Password: string(password)})
	if err != nil {
		return models.Profile{}, fmt.Errorf("sign in error: %w", err)
	}

	p := resp.User.Profile()
	if p.ID == "" {
		return models.Profile{}, ErrInvalidResponse
	}

	if err := a.creds.Clear(ctx); err != nil {
		return models.Profile{}, err
	}
	if err := a.creds.Store(ctx, p); err != nil {
		return models.Profile{}, fmt.Errorf("credential saving error: %w", err)
	}
	if err := a.creds.SaveTokens(ctx, resp.Token, resp.RefreshToken); err != nil {
		return models.Profile{}, fmt.Errorf("token saving error: %w", err)
	}
	return p, nil
}

func (a *authService) SignUp(ctx context.Context, req models.SignUpRequest, password []byte) error {
	defer common.WipeByteArray(password)
	req.Password = string(password)
	return a.client.SignUp(ctx, req)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.creds.Clear(ctx)
}

func (a *authService) Profile(ctx context.Context) (models.Profile, error) {
	return a.creds.Load(ctx)
}

// RefreshProfile fetches the signed-in user from the backend and re-caches
// it. The cached id wins if the backend omits it.
func (a *authService) RefreshProfile(ctx context.Context) (models.Profile, error) {
	cur, err := a.creds.Load(ctx)
	if err != nil {
		return models.Profile{}, err
	}

	u, err := a.client.GetUser(ctx, cur.ID)
	if err != nil {
		return models.Profile{}, fmt.Errorf("fetch profile error: %w", err)
	}

	p := u.Profile()
	if p.ID == "" {
		p.ID = cur.ID
	}
	if err := a.creds.Store(ctx, p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

func (a *authService) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (models.Profile, error) {
	cur, err := a.creds.Load(ctx)
	if err != nil {
		return models.Profile{}, err
	}

	u, err := a.client.UpdateProfile(ctx, cur.ID, upd)
	if err != nil {
		return models.Profile{}, fmt.Errorf("update profile error: %w", err)
	}

	p := u.Profile()
	if p.ID == "" {
		p = upd.Apply(cur)
	}
	if err := a.creds.Store(ctx, p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

func (a *authService) ChangePassword(ctx context.Context, current, next []byte) error {
	defer common.WipeByteArray(current)
	defer common.WipeByteArray(next)

	cur, err := a.creds.Load(ctx)
	if err != nil {
		return err
	}
	change := models.PasswordChange{CurrentPassword: string(current), NewPassword: string(next)}
	if err := a.client.SetPassword(ctx, cur.ID, change); err != nil {
		return fmt.Errorf("change password error: %w", err)
	}
	return nil
}

func (a *authService) TokenInfo(ctx context.Context) (TokenInfo, error) {
	access, _, err := a.creds.Tokens(ctx)
	if err != nil {
		return TokenInfo{}, err
	}
	if access == "" {
		return TokenInfo{}, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	var info TokenInfo
	info.Subject, _ = claims.GetSubject()
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		info.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
