package fixture

import (
	"context"
	"slices"
	"sync"

	"github.com/xenking/shopcart/internal/domain/game"
	"github.com/xenking/shopcart/internal/domain/user"
)

var (
	_ game.Repository = (*Store)(nil)
	_ user.Repository = (*Store)(nil)
)

// Store serves fixture data from memory. Profile updates change the
// in-memory accounts only.
type Store struct {
	pepper []byte

	mu       sync.RWMutex
	games    []game.Detail
	accounts []user.Account
}

// NewStore returns a Store over data, ordering games by id.
func NewStore(data *Data, pepper []byte) *Store {
	games := slices.Clone(data.Games)
	slices.SortStableFunc(games, func(a, b game.Detail) int { return a.ID - b.ID })

	return &Store{
		pepper:   pepper,
		games:    games,
		accounts: slices.Clone(data.Accounts),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// List returns the catalog ordered by id.
func (s *Store) List(context.Context) ([]game.Videogame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]game.Videogame, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g.Summary())
	}
	return out, nil
}

// GetByID returns game.ErrNotFound for unknown ids.
func (s *Store) GetByID(_ context.Context, id int) (*game.Detail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.games {
		if g.ID == id {
			g.Promotions = slices.Clone(g.Promotions)
			g.Categories = slices.Clone(g.Categories)
			return &g, nil
		}
	}
	return nil, game.ErrNotFound
}

// Authenticate returns user.ErrInvalidCredentials for an unknown username or
// a wrong password.
func (s *Store) Authenticate(_ context.Context, c user.Credentials) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.User.Username != c.Username {
			continue
		}
		if !user.VerifyPassword(s.pepper, c.Password, a.PasswordHash) {
			break
		}
		u := a.Public()
		return &u, nil
	}
	return nil, user.ErrInvalidCredentials
}

// Update replaces the stored profile of p.ID. It returns user.ErrNotFound for
// unknown ids.
func (s *Store) Update(_ context.Context, p user.ProfileUpdate) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.accounts {
		if a.User.ID != p.ID {
			continue
		}
		a.User = p.Apply(a.User)
		a.PasswordHash = user.HashPassword(s.pepper, p.Password)
		a.User.Password = ""
		s.accounts[i] = a

		u := a.Public()
		return &u, nil
	}
	return nil, user.ErrNotFound
}
