package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/homefix/internal/audit"
	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/domain/account"
	"github.com/BruksfildServices01/homefix/internal/domain/role"
	"github.com/BruksfildServices01/homefix/internal/domain/session"
	"github.com/BruksfildServices01/homefix/internal/gateway"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/validators"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"notblank"`
	Role     string `json:"role" form:"role" validate:"required,oneof=customer technician admin"`

	// PreviousSID is the session the browser already holds, if any.
	PreviousSID string `json:"-" form:"-"`
}

type LoginResult struct {
	User  session.User
	SID   string
	Token string
}

// ======================================================
// USE CASE
// ======================================================

type Login struct {
	sessions session.Store
	accounts account.Repository
	catalog  *catalog.Catalog
	gateway  gateway.Caller
	tokens   *Tokens
	validate *validators.Validator
	audit    *audit.Dispatcher
}

func NewLogin(
	sessions session.Store,
	accounts account.Repository,
	cat *catalog.Catalog,
	gw gateway.Caller,
	tokens *Tokens,
	validate *validators.Validator,
	audit *audit.Dispatcher,
) *Login {
	return &Login{
		sessions: sessions,
		accounts: accounts,
		catalog:  cat,
		gateway:  gw,
		tokens:   tokens,
		validate: validate,
		audit:    audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Login) Execute(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = validators.NormalizeEmail(in.Email)
	in.Role = strings.ToLower(strings.TrimSpace(in.Role))

	if fe := uc.validate.Struct(in); fe != nil {
		return nil, fe
	}
	r, _ := role.Parse(in.Role)

	// --------------------------------------------------
	// Simulated round trip
	// --------------------------------------------------
	if err := uc.gateway.Call(ctx, "login"); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Registered accounts verify password and role
	// --------------------------------------------------
	user, err := uc.resolveUser(ctx, in, r)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// One session per browser
	// --------------------------------------------------
	if in.PreviousSID != "" {
		if err := uc.sessions.Clear(ctx, in.PreviousSID); err != nil {
			return nil, fmt.Errorf("clear previous session: %w", err)
		}
	}

	sid := uuid.NewString()
	if err := uc.sessions.Set(ctx, sid, user); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	token, err := uc.tokens.Issue(sid)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ActorEmail: user.Email,
		ActorRole:  user.Role.String(),
		Action:     "login",
		Entity:     "session",
	})

	return &LoginResult{User: user, SID: sid, Token: token}, nil
}

func (uc *Login) resolveUser(ctx context.Context, in LoginInput, r role.Role) (session.User, error) {
	acct, err := uc.accounts.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(in.Password)) != nil ||
			acct.Role != r.String() {
			return session.User{}, httperr.ErrBusiness("invalid_credentials")
		}
		return session.User{
			ID:    fmt.Sprintf("acct-%d", acct.ID),
			Email: acct.Email,
			Role:  r,
			Name:  acct.Name,
		}, nil

	case errors.Is(err, account.ErrNotFound):
		return uc.demoUser(in.Email, r), nil

	default:
		return session.User{}, err
	}
}

// demoUser synthesizes the session user for an unregistered email. A
// technician email known to the catalog keeps that technician's id so
// their job list lines up.
func (uc *Login) demoUser(email string, r role.Role) session.User {
	if r == role.Technician {
		if t, ok := uc.catalog.TechnicianByEmail(email); ok {
			return session.User{ID: t.ID, Email: email, Role: r, Name: t.Name}
		}
	}

	return session.User{
		ID:    uuid.NewString(),
		Email: email,
		Role:  r,
		Name:  nameFromEmail(email),
	}
}

// nameFromEmail turns "jane.doe@example.com" into "Jane Doe".
func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	for i, p := range parts {
		r, size := utf8.DecodeRuneInString(p)
		parts[i] = string(unicode.ToUpper(r)) + p[size:]
	}
	if len(parts) == 0 {
		return email
	}
	return strings.Join(parts, " ")
}
