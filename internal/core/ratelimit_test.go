package core

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestObserveQuotaHeaders(t *testing.T) {
	state := NewRateLimitState()
	require.Equal(t, LimitUnknown, state.Status)
	require.Equal(t, 1, state.Remaining)

	headers := http.Header{}
	headers.Set(HeaderRequestsRemaining, "5")
	headers.Set(HeaderRequestsLimit, "10")
	headers.Set(HeaderRequestsReset, "7.5")

	state.Observe(headers)
	require.Equal(t, Limited, state.Status)
	require.Equal(t, 5, state.Remaining)
	require.Equal(t, 10, state.Limit)
	require.Equal(t, 7500*time.Millisecond, state.Reset)
	require.Zero(t, state.Cooldown)
}

func TestObserveNoSignalMarksUnlimited(t *testing.T) {
	state := NewRateLimitState()
	state.Observe(http.Header{})
	require.Equal(t, Unlimited, state.Status)

	delay, consume := state.Delay()
	require.Zero(t, delay)
	require.False(t, consume)
}

func TestObserveCooldownOverridesQuota(t *testing.T) {
	state := NewRateLimitState()

	headers := http.Header{}
	headers.Set(HeaderRequestsRemaining, "5")
	headers.Set(HeaderRequestsLimit, "10")
	headers.Set(HeaderRequestsReset, "2")
	headers.Set(HeaderCooldownReset, "30")

	state.Observe(headers)
	require.Equal(t, Limited, state.Status)
	require.Zero(t, state.Remaining)
	require.Equal(t, 30*time.Second, state.Cooldown)

	// Cooldown wins over remaining/reset until consumed.
	delay, consume := state.Delay()
	require.Equal(t, 30*time.Second, delay)
	require.True(t, consume)

	state.ClearCooldown()
	delay, consume = state.Delay()
	require.Equal(t, state.Reset, delay)
	require.False(t, consume)
}

func TestDelayWithRemainingQuota(t *testing.T) {
	state := &RateLimitState{Status: Limited, Remaining: 3, Reset: 10 * time.Second}

	delay, consume := state.Delay()
	require.Zero(t, delay)
	require.False(t, consume)
}

func TestDelayExhaustedWindow(t *testing.T) {
	state := &RateLimitState{Status: Limited, Remaining: 0, Reset: 4 * time.Second}

	delay, consume := state.Delay()
	require.Equal(t, 4*time.Second, delay)
	require.False(t, consume)
}

func TestSnapshotRoundTrip(t *testing.T) {
	state := &RateLimitState{
		Status:    Limited,
		Remaining: 2,
		Limit:     8,
		Reset:     1500 * time.Millisecond,
		Cooldown:  12 * time.Second,
	}

	restored := NewRateLimitState()
	restored.Restore(state.Snapshot())

	require.Equal(t, Limited, restored.Status)
	require.Equal(t, state.Remaining, restored.Remaining)
	require.Equal(t, state.Limit, restored.Limit)
	require.Equal(t, state.Reset, restored.Reset)
	require.Equal(t, state.Cooldown, restored.Cooldown)
}
