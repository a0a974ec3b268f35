// Package screens holds the dependency bundle shared by every screen
// package. Screens receive it at construction; nothing reaches for globals.
package screens

import (
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/rsharan/lernix/internal/api"
	"github.com/rsharan/lernix/internal/auth"
	"github.com/rsharan/lernix/internal/store"
)

// Deps carries the services a screen may need.
type Deps struct {
	API  *api.Client
	Auth *auth.Manager
	Log  *store.Store
}

// Expired returns a command that ends the session when err means the tokens
// are gone for good. Screens call it first in their fetch error paths so an
// expired session lands on the login screen instead of an error banner.
func Expired(err error) tea.Cmd {
	if errors.Is(err, api.ErrSessionExpired) {
		return func() tea.Msg { return auth.SessionEndedMsg{} }
	}
	return nil
}
