package auth

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/homefix/internal/audit"
	"github.com/BruksfildServices01/homefix/internal/catalog"
	"github.com/BruksfildServices01/homefix/internal/domain/role"
	"github.com/BruksfildServices01/homefix/internal/domain/session"
	"github.com/BruksfildServices01/homefix/internal/gateway"
	"github.com/BruksfildServices01/homefix/internal/httperr"
	"github.com/BruksfildServices01/homefix/internal/infra/kv"
	"github.com/BruksfildServices01/homefix/internal/infra/store"
	"github.com/BruksfildServices01/homefix/internal/logger"
	"github.com/BruksfildServices01/homefix/internal/models"
	"github.com/BruksfildServices01/homefix/internal/testutil"
	"github.com/BruksfildServices01/homefix/internal/validators"
)

type fixture struct {
	sessions *store.SessionStore
	accounts *testutil.MockAccountRepository
	gateway  *gateway.Gateway
	tokens   *Tokens
	sink     *testutil.MemorySink
	audit    *audit.Dispatcher
	login    *Login
	current  *Current
	logout   *Logout
	register *Register
}

func newFixture(t *testing.T, mode gateway.Mode) *fixture {
	t.Helper()

	f := &fixture{
		sessions: store.NewSessionStore(kv.NewMemoryStore(), time.Hour),
		accounts: testutil.NewMockAccountRepository(),
		gateway:  gateway.New(gateway.Config{Mode: mode}),
		tokens:   NewTokens("test-secret", time.Hour),
		sink:     &testutil.MemorySink{},
	}
	f.audit = audit.NewDispatcher(f.sink, logger.Nop())
	t.Cleanup(f.audit.Close)

	v := validators.New()
	f.login = NewLogin(f.sessions, f.accounts, catalog.Default(), f.gateway, f.tokens, v, f.audit)
	f.current = NewCurrent(f.sessions, f.tokens)
	f.logout = NewLogout(f.sessions, f.audit)
	f.register = NewRegister(f.accounts, f.login, v, f.audit)
	return f
}

func TestLogin_TechnicianDemoAccount(t *testing.T) {
	f := newFixture(t, gateway.ModeSucceed)
	ctx := context.Background()

	res, err := f.login.Execute(ctx, LoginInput{
		Email:    " Tech@Example.com ",
		Password: "anything",
		Role:     "technician",
	})
	require.NoError(t, err)

	assert.Equal(t, role.Technician, res.User.Role)
	assert.Equal(t, "tech@example.com", res.User.Email)
	assert.Equal(t, "tech-1", res.User.ID)
	assert.Equal(t, "/technician/dashboard", res.User.Role.Dashboard())

	sid, u, err := f.current.Execute(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.SID, sid)
	assert.Equal(t, role.Technician, u.Role)
	assert.Equal(t, int64(1), f.gateway.Calls())
}

func TestLogin_ValidationFailsBeforeNetwork(t *testing.T) {
	f := newFixture(t, gateway.ModeSucceed)

	_, err := f.login.Execute(context.Background(), LoginInput{
		Email:    "not-an-email",
		Password: " ",
		Role:     "owner",
	})

	fe, ok := validators.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "email")
	assert.Contains(t, fe, "password")
	assert.Contains(t, fe, "role")
	assert.Equal(t, int64(0), f.gateway.Calls())
}

func TestLogin_NetworkFailureCreatesNoSession(t *testing.T) {
	f := newFixture(t, gateway.ModeFail)

	_, err := f.login.Execute(context.Background(), LoginInput{
		Email: "a@example.com", Password: "x", Role: "customer",
	})
	assert.ErrorIs(t, err, gateway.ErrUnavailable)
}

func TestLogin_ReplacesPreviousSession(t *testing.T) {
	f := newFixture(t, gateway.ModeSucceed)
	ctx := context.Background()

	first, err := f.login.Execute(ctx, LoginInput{Email: "a@example.com", Password: "x", Role: "customer"})
	require.NoError(t, err)

	second, err := f.login.Execute(ctx, LoginInput{
		Email: "a@example.com", Password: "x", Role: "admin", PreviousSID: first.SID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.SID, second.SID)

	_, err = f.sessions.Get(ctx, first.SID)
	assert.ErrorIs(t, err, session.ErrNoSession)

	u, err := f.sessions.Get(ctx, second.SID)
	require.NoError(t, err)
	assert.Equal(t, role.Admin, u.Role)
}

func TestLogin_RegisteredAccount(t *testing.T) {
	f := newFixture(t, gateway.ModeSucceed)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, f.accounts.Create(ctx, &models.Account{
		Name: "Jane Roe", Email: "jane@example.com", PasswordHash: string(hash), Role: "customer",
	}))

	tests := []struct {
		name     string
		password string
		role     string
		wantErr  bool
	}{
		{"ok", "secret1", "customer", false},
		{"wrong password", "nope", "customer", true},
		{"wrong role", "secret1", "admin", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.login.Execute(ctx, LoginInput{Email: "jane@example.com", Password: tt.password, Role: tt.role})
			if tt.wantErr {
				assert.True(t, httperr.IsBusiness(err, "invalid_credentials"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Jane Roe", res.User.Name)
			assert.Equal(t, "acct-1", res.User.ID)
		})
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	f := newFixture(t, gateway.ModeSucceed)
	ctx := context.Background()

	res, err := f.login.Execute(ctx, LoginInput{Email: "a@example.com", Password: "x", Role: "customer"})
	require.NoError(t, err)

	require.NoError(t, f.logout.Execute(ctx, res.SID, &res.User))

	_, _, err = f.current.Execute(ctx, res.Token)
	assert.ErrorIs(t, err, session.ErrNoSession)

	f.audit.Close()
	assert.Equal(t, []string{"login", "logout"}, f.sink.Actions())
}

func TestCurrent_RejectsBadTokens(t *testing.T) {
	f := newFixture(t, gateway.ModeSucceed)
	ctx := context.Background()

	_, _, err := f.current.Execute(ctx, "")
	assert.ErrorIs(t, err, session.ErrNoSession)

	_, _, err = f.current.Execute(ctx, "garbage")
	assert.ErrorIs(t, err, session.ErrNoSession)

	other := NewTokens("other-secret", time.Hour)
	forged, err := other.Issue("sid")
	require.NoError(t, err)
	_, _, err = f.current.Execute(ctx, forged)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestTokens_Expire(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tokens := NewTokens("s", time.Minute)
	tokens.now = func() time.Time { return now }

	raw, err := tokens.Issue("sid-1")
	require.NoError(t, err)

	sid, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", sid)

	now = now.Add(2 * time.Minute)
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRegister(t *testing.T) {
	f := newFixture(t, gateway.ModeSucceed)
	ctx := context.Background()

	in := RegisterInput{Name: "Sam Lee", Email: "sam@example.com", Password: "secret1", Role: "customer"}

	res, err := f.register.Execute(ctx, in, "")
	require.NoError(t, err)
	assert.Equal(t, "Sam Lee", res.User.Name)
	assert.Equal(t, role.Customer, res.User.Role)

	_, err = f.register.Execute(ctx, in, "")
	assert.True(t, httperr.IsBusiness(err, "email_already_registered"))

	in.Email = "admin2@example.com"
	in.Role = "admin"
	_, err = f.register.Execute(ctx, in, "")
	fe, ok := validators.AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "role")
}

func TestRegister_DomainCheck(t *testing.T) {
	f := newFixture(t, gateway.ModeSucceed)
	f.register.WithDomainCheck(func(string) bool { return false })

	_, err := f.register.Execute(context.Background(), RegisterInput{
		Name: "Sam", Email: "sam@nowhere.invalid", Password: "secret1", Role: "customer",
	}, "")

	var fe validators.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "email")
}

func TestNameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane.doe@example.com", "Jane Doe"},
		{"bob@example.com", "Bob"},
		{"élodie.ñuñez@example.com", "Élodie Ñuñez"},
		{"zoë_ångström@example.com", "Zoë Ångström"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := nameFromEmail(tt.email)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
