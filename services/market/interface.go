package market

import (
	"errors"
	"sync"
	"time"

	"servicebid/config"
	"servicebid/models"

	"github.com/go-redis/redis/v8"
)

var (
	// ErrSessionNotFound is returned for an unknown or expired session id.
	ErrSessionNotFound = errors.New("market session not found")

	// ErrSessionClosed rejects control operations on a closed session.
	ErrSessionClosed = errors.New("market session is closed")
)

// Simulator runs live market sessions: one per job posting, each generating
// competitor bids on a fixed cadence under a countdown. All methods are safe
// for concurrent use.
type Simulator interface {
	// Open starts a new session for a job at a target price and returns the
	// initial snapshot. The session runs until its countdown expires or it is
	// closed.
	Open(jobID string, targetPrice float64) (*models.MarketSession, error)

	// Snapshot returns the current state of a session. A closed or expired
	// session is answered from the cache for a short grace period, then not
	// found.
	Snapshot(sessionID string) (*models.MarketSession, error)

	// Pause freezes both bid generation and the countdown.
	Pause(sessionID string) error

	// Resume continues a paused session.
	Resume(sessionID string) error

	// Close ends a session early, stops its ticker and drops it from the
	// registry.
	Close(sessionID string) error
}

// DefaultSimulator implements Simulator with one goroutine per session and an
// optional Redis snapshot cache.
type DefaultSimulator struct {
	mu       sync.Mutex
	sessions map[string]*session

	cache       *redis.Client
	bidInterval time.Duration
	countdown   time.Duration
}

// NewDefaultSimulator builds a simulator with explicit timings. cache may be
// nil, in which case snapshots stay in memory only.
func NewDefaultSimulator(cache *redis.Client, bidInterval, countdown time.Duration) *DefaultSimulator {
	return &DefaultSimulator{
		sessions:    make(map[string]*session),
		cache:       cache,
		bidInterval: bidInterval,
		countdown:   countdown,
	}
}

// NewSimulatorFromConfig builds a simulator with the configured timings.
func NewSimulatorFromConfig(cache *redis.Client) *DefaultSimulator {
	return NewDefaultSimulator(
		cache,
		time.Duration(config.AppConfig.MarketBidIntervalSec)*time.Second,
		time.Duration(config.AppConfig.MarketCountdownSec)*time.Second,
	)
}
