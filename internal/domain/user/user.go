// Package user holds shopper identity records exchanged with the remote
// service.
package user

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	// ErrInvalidCredentials is returned when a username/password pair does not
	// match any account.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound is returned when a profile update targets an unknown user.
	ErrNotFound = errors.New("user not found")
)

// Role is the account role label.
type Role struct {
	ID          int
	Description string
}

// User is a shopper account. Avatar is an embedded image payload.
type User struct {
	ID       int
	Name     string
	Lastname string
	DNI      string
	Address  string
	Email    string
	Username string
	Password string
	Role     *Role
	Avatar   string
}

// DisplayName returns the name to greet the user with.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Account is a stored user. The User's Password is never kept; only its
// peppered hash is.
type Account struct {
	User         User
	PasswordHash string
}

// Public returns the user as served to clients, without the password.
func (a Account) Public() User {
	u := a.User
	u.Password = ""
	if u.Role != nil {
		r := *u.Role
		u.Role = &r
	}
	return u
}

// Credentials is the authentication request body.
type Credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// ProfileUpdate is the profile update request body. Role is sent only when
// the current session user has one.
type ProfileUpdate struct {
	ID       int
	Name     string `validate:"required"`
	Lastname string `validate:"required"`
	DNI      string `validate:"required"`
	Address  string
	Email    string `validate:"required,email"`
	Username string `validate:"required"`
	Password string `validate:"required"`
	Avatar   string
	Role     *Role
}

// Apply returns u with the fields submitted in p.
func (p ProfileUpdate) Apply(u User) User {
	u.ID = p.ID
	u.Name = p.Name
	u.Lastname = p.Lastname
	u.DNI = p.DNI
	u.Address = p.Address
	u.Email = p.Email
	u.Username = p.Username
	u.Password = p.Password
	u.Avatar = p.Avatar
	if p.Role != nil {
		r := *p.Role
		u.Role = &r
	}
	return u
}

// NewProfileUpdate prefills an update from the current user, carrying over
// the role when one is set.
func NewProfileUpdate(u User) ProfileUpdate {
	p := ProfileUpdate{
		ID:       u.ID,
		Name:     u.Name,
		Lastname: u.Lastname,
		DNI:      u.DNI,
		Address:  u.Address,
		Email:    u.Email,
		Username: u.Username,
		Password: u.Password,
		Avatar:   u.Avatar,
	}
	if u.Role != nil {
		r := *u.Role
		p.Role = &r
	}
	return p
}

// Repository defines the account operations served by the stub backend.
type Repository interface {
	Authenticate(ctx context.Context, c Credentials) (*User, error)
	Update(ctx context.Context, p ProfileUpdate) (*User, error)
}
