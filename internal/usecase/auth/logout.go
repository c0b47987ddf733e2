package auth

import (
	"context"

	"github.com/BruksfildServices01/homefix/internal/audit"
	"github.com/BruksfildServices01/homefix/internal/domain/session"
)

type Logout struct {
	sessions session.Store
	audit    *audit.Dispatcher
}

func NewLogout(sessions session.Store, audit *audit.Dispatcher) *Logout {
	return &Logout{sessions: sessions, audit: audit}
}

// Execute clears the session. Logging out without a session is not an
// error.
func (uc *Logout) Execute(ctx context.Context, sid string, user *session.User) error {
	if err := uc.sessions.Clear(ctx, sid); err != nil {
		return err
	}

	if user != nil {
		uc.audit.Dispatch(audit.Event{
			ActorEmail: user.Email,
			ActorRole:  user.Role.String(),
			Action:     "logout",
			Entity:     "session",
		})
	}
	return nil
}

// Current resolves the session user, or session.ErrNoSession.
type Current struct {
	sessions session.Store
	tokens   *Tokens
}

func NewCurrent(sessions session.Store, tokens *Tokens) *Current {
	return &Current{sessions: sessions, tokens: tokens}
}

// Execute returns the session id together with the user so callers can
// later clear it.
func (uc *Current) Execute(ctx context.Context, token string) (string, *session.User, error) {
	if token == "" {
		return "", nil, session.ErrNoSession
	}

	sid, err := uc.tokens.Parse(token)
	if err != nil {
		return "", nil, session.ErrNoSession
	}

	u, err := uc.sessions.Get(ctx, sid)
	if err != nil {
		return sid, nil, err
	}
	return sid, u, nil
}
