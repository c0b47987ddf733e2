package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// ErrUnavailable is the simulated network failure. Callers turn it
// into the generic user-facing message.
var ErrUnavailable = errors.New("gateway: simulated network failure")

type Mode string

const (
	ModeSucceed    Mode = "succeed"
	ModeFail       Mode = "fail"
	ModeFailEveryN Mode = "fail_every_n"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeSucceed, ModeFail, ModeFailEveryN:
		return m, nil
	default:
		return "", fmt.Errorf("gateway: unknown mode %q", s)
	}
}

type Config struct {
	Mode      Mode
	Latency   time.Duration
	FailEvery int
}

// Caller is what use cases depend on.
type Caller interface {
	Call(ctx context.Context, op string) error
}

// Gateway stands in for the backend that does not exist. Outcomes are
// deterministic so tests can pin them.
type Gateway struct {
	mode      Mode
	latency   time.Duration
	failEvery int64
	calls     atomic.Int64
}

func New(cfg Config) *Gateway {
	mode := cfg.Mode
	if mode == "" {
		mode = ModeSucceed
	}
	return &Gateway{
		mode:      mode,
		latency:   cfg.Latency,
		failEvery: int64(cfg.FailEvery),
	}
}

func (g *Gateway) Call(ctx context.Context, op string) error {
	n := g.calls.Add(1)

	if g.latency > 0 {
		timer := time.NewTimer(g.latency)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	switch g.mode {
	case ModeFail:
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	case ModeFailEveryN:
		if g.failEvery > 0 && n%g.failEvery == 0 {
			return fmt.Errorf("%s: %w", op, ErrUnavailable)
		}
	}
	return nil
}

// Calls reports how many calls were attempted.
func (g *Gateway) Calls() int64 {
	return g.calls.Load()
}

var _ Caller = (*Gateway)(nil)
