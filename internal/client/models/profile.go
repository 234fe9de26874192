// Package models defines the records the console exchanges with the backend
// and keeps in its credential cache.
package models

import "strings"

// Role of a platform user.
type Role string

const (
	RoleManager    Role = "manager"
	RoleAmbassador Role = "ambassador"
	RoleUser       Role = "user"
)

// ParseRole accepts the backend role names plus the console aliases
// "managers", "ambassadors" and "customers".
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manager", "managers":
		return RoleManager, true
	case "ambassador", "ambassadors":
		return RoleAmbassador, true
	case "user", "users", "customer", "customers":
		return RoleUser, true
	}
	return "", false
}

// Profile is the signed-in user's record as cached locally. Its JSON form is
// the plaintext sealed under the userData storage key.
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      Role   `json:"role,omitempty"`
	Photo     string `json:"photo,omitempty"`
	Country   string `json:"country,omitempty"`
	State     string `json:"state,omitempty"`
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// ProfileUpdate carries the editable profile fields. Empty fields are left
// unchanged by the backend.
type ProfileUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Photo     string `json:"photo,omitempty"`
	Country   string `json:"country,omitempty"`
	State     string `json:"state,omitempty"`
}

// Apply returns p with the non-empty fields of u copied over.
func (u ProfileUpdate) Apply(p Profile) Profile {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.FirstName, u.FirstName)
	set(&p.LastName, u.LastName)
	set(&p.Email, u.Email)
	set(&p.Phone, u.Phone)
	set(&p.Photo, u.Photo)
	set(&p.Country, u.Country)
	set(&p.State, u.State)
	return p
}

type SignUpRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse is the backend's answer to a successful sign-in. The tokens
// are optional; older backends return only the user.
type SignInResponse struct {
	User         User   `json:"user"`
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
