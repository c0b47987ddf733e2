package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Fail_Every_N ")
	require.NoError(t, err)
	assert.Equal(t, ModeFailEveryN, m)

	_, err = ParseMode("random")
	assert.Error(t, err)
}

func TestGateway_Modes(t *testing.T) {
	ctx := context.Background()

	ok := New(Config{Mode: ModeSucceed})
	assert.NoError(t, ok.Call(ctx, "login"))

	bad := New(Config{Mode: ModeFail})
	assert.ErrorIs(t, bad.Call(ctx, "login"), ErrUnavailable)

	third := New(Config{Mode: ModeFailEveryN, FailEvery: 3})
	var outcomes []bool
	for i := 0; i < 6; i++ {
		outcomes = append(outcomes, third.Call(ctx, "contact") == nil)
	}
	assert.Equal(t, []bool{true, true, false, true, true, false}, outcomes)
	assert.Equal(t, int64(6), third.Calls())
}

func TestGateway_HonorsCancellation(t *testing.T) {
	g := New(Config{Mode: ModeSucceed, Latency: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Call(ctx, "login")
	assert.True(t, errors.Is(err, context.Canceled))
}
