package app

import (
	"github.com/xenking/shopcart/internal/domain/cart"
	"github.com/xenking/shopcart/internal/domain/user"
)

// Session is the running shopper's state: who is signed in and the cart
// they are filling. It lives as long as the process.
type Session struct {
	User user.User
	Cart *cart.Cart

	signedIn bool
}

// NewSession returns an anonymous session with an empty cart.
func NewSession() *Session {
	return &Session{Cart: cart.New()}
}

// SignedIn reports whether SignIn has succeeded.
func (s *Session) SignedIn() bool {
	return s.signedIn
}

// SignIn records the authenticated user. The service never returns the
// password, so the one that was accepted is kept for later profile updates.
func (s *Session) SignIn(u user.User, password string) {
	u.Password = password
	s.User = u
	s.signedIn = true
}

// ProfileUpdate prefills an update from the signed-in user.
func (s *Session) ProfileUpdate() user.ProfileUpdate {
	return user.NewProfileUpdate(s.User)
}

// ApplyProfile replaces the session user with the values that were
// submitted and accepted.
func (s *Session) ApplyProfile(p user.ProfileUpdate) {
	s.User = p.Apply(s.User)
}

// SignOut forgets the user and empties the cart.
func (s *Session) SignOut() {
	s.User = user.User{}
	s.signedIn = false
	s.Cart.Clear()
}
