package engine

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pixlens/pixlens/internal/core"
)

type memorySnapshotStore struct {
	snapshots map[string]core.RateLimitSnapshot
	saves     int
}

func (m *memorySnapshotStore) Load(context.Context) (map[string]core.RateLimitSnapshot, error) {
	return m.snapshots, nil
}

func (m *memorySnapshotStore) Save(_ context.Context, snapshots map[string]core.RateLimitSnapshot) error {
	m.snapshots = snapshots
	m.saves++
	return nil
}

// fakeSleep records requested delays instead of sleeping.
type fakeSleep struct {
	slept []time.Duration
}

func (f *fakeSleep) sleep(_ context.Context, d time.Duration) error {
	f.slept = append(f.slept, d)
	return nil
}

func quotaHeaders(remaining, limit int, reset string) http.Header {
	h := http.Header{}
	h.Set(core.HeaderRequestsRemaining, strconv.Itoa(remaining))
	h.Set(core.HeaderRequestsLimit, strconv.Itoa(limit))
	h.Set(core.HeaderRequestsReset, reset)
	return h
}

func TestWaitReturnsImmediatelyWithQuota(t *testing.T) {
	sleeper := &fakeSleep{}
	limiter := NewRateLimiter(WithSleep(sleeper.sleep))

	limiter.Update(context.Background(), "get_pixel", quotaHeaders(3, 10, "5"))

	require.NoError(t, limiter.Wait(context.Background(), "get_pixel"))
	require.Empty(t, sleeper.slept)
}

func TestWaitSleepsForReset(t *testing.T) {
	sleeper := &fakeSleep{}
	limiter := NewRateLimiter(WithSleep(sleeper.sleep))

	limiter.Update(context.Background(), "set_pixel", quotaHeaders(0, 10, "2.5"))

	require.NoError(t, limiter.Wait(context.Background(), "set_pixel"))
	require.Equal(t, []time.Duration{2500 * time.Millisecond}, sleeper.slept)
}

func TestWaitConsumesCooldown(t *testing.T) {
	sleeper := &fakeSleep{}
	limiter := NewRateLimiter(WithSleep(sleeper.sleep))

	headers := quotaHeaders(5, 10, "2")
	headers.Set(core.HeaderCooldownReset, "30")
	limiter.Update(context.Background(), "set_pixel", headers)

	require.NoError(t, limiter.Wait(context.Background(), "set_pixel"))
	require.Equal(t, []time.Duration{30 * time.Second}, sleeper.slept)

	// The cooldown is consumed; the next wait falls back to the quota
	// window, which is exhausted.
	require.NoError(t, limiter.Wait(context.Background(), "set_pixel"))
	require.Len(t, sleeper.slept, 2)
	require.Equal(t, 2*time.Second, sleeper.slept[1])
}

func TestWaitUnlimitedEndpoint(t *testing.T) {
	sleeper := &fakeSleep{}
	limiter := NewRateLimiter(WithSleep(sleeper.sleep))

	limiter.Update(context.Background(), "get_size", http.Header{})

	require.NoError(t, limiter.Wait(context.Background(), "get_size"))
	require.Empty(t, sleeper.slept)
}

func TestWaitFreshEndpointSendsOptimistically(t *testing.T) {
	sleeper := &fakeSleep{}
	limiter := NewRateLimiter(WithSleep(sleeper.sleep))

	// No request observed yet: one optimistic send is allowed.
	require.NoError(t, limiter.Wait(context.Background(), "get_pixels"))
	require.Empty(t, sleeper.slept)
	require.Equal(t, core.LimitUnknown, limiter.State("get_pixels").Status)
}

func TestUpdatePersistsSnapshots(t *testing.T) {
	store := &memorySnapshotStore{}
	limiter := NewRateLimiter(WithStore(context.Background(), store))

	limiter.Update(context.Background(), "set_pixel", quotaHeaders(4, 10, "7"))
	require.Equal(t, 1, store.saves)
	require.Contains(t, store.snapshots, "set_pixel")
	require.Equal(t, 4, store.snapshots["set_pixel"].Remaining)

	limiter.Update(context.Background(), "get_pixel", quotaHeaders(9, 10, "1"))
	require.Equal(t, 2, store.saves)
	require.Len(t, store.snapshots, 2)
}

func TestNewRateLimiterRestoresStore(t *testing.T) {
	store := &memorySnapshotStore{snapshots: map[string]core.RateLimitSnapshot{
		"set_pixel": {Remaining: 0, Limit: 10, Reset: 3},
	}}
	sleeper := &fakeSleep{}
	limiter := NewRateLimiter(WithSleep(sleeper.sleep), WithStore(context.Background(), store))

	require.NoError(t, limiter.Wait(context.Background(), "set_pixel"))
	require.Equal(t, []time.Duration{3 * time.Second}, sleeper.slept)
}

func TestWaitHonoursContext(t *testing.T) {
	limiter := NewRateLimiter()
	limiter.Update(context.Background(), "set_pixel", quotaHeaders(0, 10, "60"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Wait(ctx, "set_pixel")
	require.ErrorIs(t, err, context.Canceled)
}
