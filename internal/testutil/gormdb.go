package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLRecorder is a gorm logger that keeps every statement it sees, with
// the bind variables inlined the way postgres would receive them.
type SQLRecorder struct {
	mu    sync.Mutex
	stmts []string
}

func (r *SQLRecorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *SQLRecorder) Info(context.Context, string, ...any)  {}
func (r *SQLRecorder) Warn(context.Context, string, ...any)  {}
func (r *SQLRecorder) Error(context.Context, string, ...any) {}

func (r *SQLRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stmts = append(r.stmts, sql)
}

// Statements returns everything recorded so far, oldest first.
func (r *SQLRecorder) Statements() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.stmts...)
}

// Last returns the most recent statement, or "" when nothing ran.
func (r *SQLRecorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stmts) == 0 {
		return ""
	}
	return r.stmts[len(r.stmts)-1]
}

// DryRunDB opens gorm with the postgres dialector in dry-run mode. Queries
// are built exactly as in production but never sent, so no server is
// needed. Reads come back empty.
func DryRunDB(t *testing.T) (*gorm.DB, *SQLRecorder) {
	t.Helper()

	rec := &SQLRecorder{}
	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN: "host=localhost user=homefix dbname=homefix sslmode=disable",
		}),
		&gorm.Config{
			DryRun:                 true,
			DisableAutomaticPing:   true,
			SkipDefaultTransaction: true,
			Logger:                 rec,
		},
	)
	require.NoError(t, err)

	return db, rec
}
