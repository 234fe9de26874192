package models

import "time"

type UserStatus string

const (
	StatusActive    UserStatus = "Active"
	StatusSuspended UserStatus = "Suspended"
	StatusInactive  UserStatus = "Inactive"
)

type Performance struct {
	TotalSales      float64 `json:"totalSales"`
	TotalCommission float64 `json:"totalCommission"`
	ActiveClients   int     `json:"activeClients"`
}

// User is a platform user as listed by the backend. The backend is
// inconsistent about the identifier field: some routes send "id", others
// Mongo's "_id".
type User struct {
	ID          string       `json:"id,omitempty"`
	MongoID     string       `json:"_id,omitempty"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	Photo       string       `json:"photo,omitempty"`
	Role        Role         `json:"role,omitempty"`
	Status      UserStatus   `json:"status,omitempty"`
	Suspended   bool         `json:"suspended,omitempty"`
	Country     string       `json:"country,omitempty"`
	State       string       `json:"state,omitempty"`
	CreatedAt   *time.Time   `json:"createdAt,omitempty"`
	Performance *Performance `json:"performance,omitempty"`
}

// Identifier returns ID, falling back to MongoID.
func (u User) Identifier() string {
	if u.ID != "" {
		return u.ID
	}
	return u.MongoID
}

// Profile projects the user onto the cached profile record.
func (u User) Profile() Profile {
	return Profile{
		ID:        u.Identifier(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Photo:     u.Photo,
		Country:   u.Country,
		State:     u.State,
	}
}

// FilterByRole returns the users with the given role, preserving order.
func FilterByRole(users []User, role Role) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}
