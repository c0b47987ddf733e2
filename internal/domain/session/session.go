package session

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/homefix/internal/domain/role"
)

var ErrNoSession = errors.New("session: not found")

// User is the record identifying who is logged in. It is created at
// login and destroyed at logout; its role never changes in between.
type User struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	Role  role.Role `json:"role"`
	Name  string    `json:"name"`
}

func (u User) Valid() bool {
	return u.ID != "" && u.Email != "" && u.Role.Valid()
}

// Store persists the session user under a session id. Consumers only
// see this interface; the backend (memory, redis) is chosen at boot.
type Store interface {
	Get(ctx context.Context, sid string) (*User, error)
	Set(ctx context.Context, sid string, u User) error
	Clear(ctx context.Context, sid string) error
}
