// Package session persists the admin-authenticated flag between runs of the
// shop client.
package session

import (
	"github.com/sokophones/storefront/internal/localstate"
)

const storageKey = "admin-storage"

type adminState struct {
	Authenticated bool `json:"authenticated"`
}

type Session struct {
	state   adminState
	persist *localstate.Store
}

func New(state *localstate.Store) (*Session, error) {
	s := &Session{persist: state}

	if state != nil {
		if err := state.Load(storageKey, &s.state); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Session) IsAdmin() bool {
	return s.state.Authenticated
}

func (s *Session) SetAdmin(authenticated bool) error {
	s.state.Authenticated = authenticated
	if s.persist == nil {
		return nil
	}
	return s.persist.Save(storageKey, s.state)
}
