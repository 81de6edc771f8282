package core

import (
	"net/http"
	"strconv"
	"time"
)

// Rate limit signalling headers used by the pixel API.
const (
	HeaderRequestsRemaining = "Requests-Remaining"
	HeaderRequestsLimit     = "Requests-Limit"
	HeaderRequestsReset     = "Requests-Reset"
	HeaderCooldownReset     = "Cooldown-Reset"
)

// LimitStatus records whether an endpoint is subject to rate limiting at
// all. Endpoints start out unknown and are classified by the first observed
// response: quota headers mean limited, their absence means unlimited.
type LimitStatus int

const (
	LimitUnknown LimitStatus = iota
	Limited
	Unlimited
)

func (s LimitStatus) String() string {
	switch s {
	case Limited:
		return "limited"
	case Unlimited:
		return "unlimited"
	default:
		return "unknown"
	}
}

// RateLimitState captures per-endpoint rate limiting state learned from
// response headers. A zero Cooldown means no cooldown is active.
type RateLimitState struct {
	Status    LimitStatus
	Remaining int
	Limit     int
	Reset     time.Duration
	Cooldown  time.Duration
}

// NewRateLimitState returns the state for an endpoint no request has been
// sent to yet. Remaining starts at one so the first request is sent
// optimistically and the response classifies the endpoint.
func NewRateLimitState() *RateLimitState {
	return &RateLimitState{Status: LimitUnknown, Remaining: 1}
}

// Observe updates the state from the headers of the latest response for this
// endpoint. Quota fields are recorded when present; a cooldown signal then
// zeroes the remaining count until the cooldown is consumed. Absence of any
// signal marks the endpoint unlimited until process restart.
func (s *RateLimitState) Observe(h http.Header) {
	if h.Get(HeaderRequestsRemaining) != "" {
		s.Status = Limited
		if remaining, err := strconv.Atoi(h.Get(HeaderRequestsRemaining)); err == nil {
			s.Remaining = remaining
		}
		if limit, err := strconv.Atoi(h.Get(HeaderRequestsLimit)); err == nil {
			s.Limit = limit
		}
		if reset, err := strconv.ParseFloat(h.Get(HeaderRequestsReset), 64); err == nil {
			s.Reset = time.Duration(reset * float64(time.Second))
		}
	} else if h.Get(HeaderCooldownReset) == "" {
		s.Status = Unlimited
		return
	}

	if value := h.Get(HeaderCooldownReset); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			s.Status = Limited
			s.Remaining = 0
			s.Cooldown = time.Duration(seconds) * time.Second
		}
	}
}

// Delay reports how long the caller must pause before the next request on
// this endpoint. consumeCooldown is true when the delay is a cooldown window;
// the caller must call ClearCooldown once it has slept through it.
func (s *RateLimitState) Delay() (delay time.Duration, consumeCooldown bool) {
	if s.Cooldown > 0 {
		return s.Cooldown, true
	}
	if s.Status == Unlimited {
		return 0, false
	}
	if s.Remaining > 0 {
		return 0, false
	}
	return s.Reset, false
}

// ClearCooldown marks an active cooldown as consumed.
func (s *RateLimitState) ClearCooldown() {
	s.Cooldown = 0
}

// RateLimitSnapshot is the persisted form of a rate limit state, keyed by
// endpoint in the backing store.
type RateLimitSnapshot struct {
	Remaining     int     `json:"remaining"`
	Limit         int     `json:"limit"`
	Reset         float64 `json:"reset"`
	CooldownReset int     `json:"cooldown_reset,omitempty"`
}

// Snapshot dumps the state for persistence.
func (s *RateLimitState) Snapshot() RateLimitSnapshot {
	return RateLimitSnapshot{
		Remaining:     s.Remaining,
		Limit:         s.Limit,
		Reset:         s.Reset.Seconds(),
		CooldownReset: int(s.Cooldown / time.Second),
	}
}

// Restore loads persisted state. Only observed endpoints are persisted, so a
// restored endpoint is treated as limited until fresher headers say
// otherwise.
func (s *RateLimitState) Restore(snap RateLimitSnapshot) {
	s.Status = Limited
	s.Remaining = snap.Remaining
	s.Limit = snap.Limit
	s.Reset = time.Duration(snap.Reset * float64(time.Second))
	s.Cooldown = time.Duration(snap.CooldownReset) * time.Second
}
