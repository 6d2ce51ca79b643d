package app

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shopcart/internal/domain/cart"
	"github.com/xenking/shopcart/internal/domain/pricing"
	"github.com/xenking/shopcart/internal/domain/user"
)

func TestSession(t *testing.T) {
	s := NewSession()
	require.NotNil(t, s.Cart)
	assert.False(t, s.SignedIn())

	s.SignIn(user.User{ID: 7, Name: "Lucia", Role: &user.Role{ID: 2, Description: "CLIENTE"}}, "secret")
	assert.True(t, s.SignedIn())
	assert.Equal(t, "secret", s.User.Password)

	p := s.ProfileUpdate()
	assert.Equal(t, 7, p.ID)
	assert.Equal(t, "secret", p.Password)
	require.NotNil(t, p.Role)

	p.Address = "Av. Sol 1"
	s.ApplyProfile(p)
	assert.Equal(t, "Av. Sol 1", s.User.Address)
	assert.Equal(t, "Lucia", s.User.Name)

	e, err := cart.NewEntry(
		cart.Item{GameID: 1, Title: "Game A", BasePrice: decimal.NewFromInt(10)},
		pricing.Quote{Base: decimal.NewFromInt(10), Fraction: decimal.Zero},
	)
	require.NoError(t, err)
	s.Cart.Add(e)
	require.Equal(t, 1, s.Cart.Count())

	s.SignOut()
	assert.False(t, s.SignedIn())
	assert.Zero(t, s.User.ID)
	assert.Zero(t, s.Cart.Count())
	assert.True(t, s.Cart.Total().IsZero())
}
