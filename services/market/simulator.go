package market

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"servicebid/models"
	"servicebid/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxVisibleBids caps the bid list; older bids fall off the end.
const maxVisibleBids = 10

// snapshotCacheGrace keeps the cached snapshot readable a little past the
// session's own lifetime.
const snapshotCacheGrace = 5 * time.Minute

var bidderNames = []string{
	"Marco V.", "Sofia L.", "Jean-Pierre D.", "Ana R.", "Tomasz K.",
	"Luca B.", "Marta S.", "Pedro G.", "Claire F.", "Nikolai P.",
}

var bidderLevels = []string{"Novice", "Professional", "Expert", "Master"}

type session struct {
	mu    sync.Mutex
	state models.MarketSession

	// sinceBid counts active (unpaused) seconds since the last generated bid.
	sinceBid int
	stop     chan struct{}
}

func (s *DefaultSimulator) Open(jobID string, targetPrice float64) (*models.MarketSession, error) {
	sess := &session{
		state: models.MarketSession{
			ID:           uuid.New().String(),
			JobID:        jobID,
			TargetPrice:  targetPrice,
			Bids:         []models.MarketBid{},
			RemainingSec: int(s.countdown / time.Second),
			StartedAt:    time.Now(),
		},
		stop: make(chan struct{}),
	}

	s.mu.Lock()
	s.sessions[sess.state.ID] = sess
	s.mu.Unlock()

	go s.run(sess)

	utils.GetLogger().Info("market session opened",
		zap.String("sessionId", sess.state.ID),
		zap.String("jobId", jobID),
		zap.Float64("targetPrice", targetPrice))

	snap := sess.snapshot()
	s.cacheSnapshot(snap)
	return snap, nil
}

// run drives a session on a 1 second tick. Pausing freezes the countdown and
// the bid cadence together: paused ticks advance neither.
func (s *DefaultSimulator) run(sess *session) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	bidEvery := int(s.bidInterval / time.Second)
	if bidEvery < 1 {
		bidEvery = 1
	}

	for {
		select {
		case <-sess.stop:
			return
		case <-ticker.C:
			sess.mu.Lock()
			if sess.state.Closed {
				sess.mu.Unlock()
				return
			}
			if sess.state.Paused {
				sess.mu.Unlock()
				continue
			}

			sess.state.RemainingSec--
			sess.sinceBid++
			if sess.sinceBid >= bidEvery && sess.state.RemainingSec > 0 {
				s.placeBid(sess)
				sess.sinceBid = 0
			}

			expired := sess.state.RemainingSec <= 0
			if expired {
				sess.state.RemainingSec = 0
				sess.state.Closed = true
			}
			snap := sess.snapshotLocked()
			sess.mu.Unlock()

			s.cacheSnapshot(snap)
			if expired {
				s.evict(snap.ID)
				utils.GetLogger().Info("market session expired",
					zap.String("sessionId", snap.ID),
					zap.Int("totalBids", snap.TotalBidsSeen))
				return
			}
		}
	}
}

// placeBid appends a simulated competitor bid. Caller holds sess.mu.
func (s *DefaultSimulator) placeBid(sess *session) {
	now := time.Now()
	bid := models.MarketBid{
		ID:        uuid.New().String(),
		ProName:   bidderNames[rand.Intn(len(bidderNames))],
		ProLevel:  bidderLevels[rand.Intn(len(bidderLevels))],
		Rating:    roundRating(3.5 + rand.Float64()*1.5),
		Price:     bidPrice(sess.state.TargetPrice),
		ETA:       fmt.Sprintf("%d min", 10+rand.Intn(50)),
		CreatedAt: now,
	}

	sess.state.Bids = append([]models.MarketBid{bid}, sess.state.Bids...)
	if len(sess.state.Bids) > maxVisibleBids {
		sess.state.Bids = sess.state.Bids[:maxVisibleBids]
	}
	sess.state.LastBidAt = &now
	sess.state.TotalBidsSeen++
}

// bidPrice spreads bids across 80% to 120% of the target price.
func bidPrice(target float64) float64 {
	price := target * (0.8 + rand.Float64()*0.4)
	return float64(int(price*100)) / 100
}

func roundRating(r float64) float64 {
	return float64(int(r*10)) / 10
}

func (s *DefaultSimulator) Snapshot(sessionID string) (*models.MarketSession, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		// Closed and expired sessions are evicted from the registry; late
		// reads are served from the cached snapshot while it lasts.
		return s.cachedSnapshot(sessionID)
	}
	return sess.snapshot(), nil
}

// cachedSnapshot reads the Redis mirror of a session no longer in memory.
func (s *DefaultSimulator) cachedSnapshot(sessionID string) (*models.MarketSession, error) {
	if s.cache == nil {
		return nil, ErrSessionNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, err := s.cache.Get(ctx, utils.MarketSessionPrefix+sessionID).Bytes()
	if err != nil {
		return nil, ErrSessionNotFound
	}
	var snap models.MarketSession
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, ErrSessionNotFound
	}
	return &snap, nil
}

func (s *DefaultSimulator) Pause(sessionID string) error {
	return s.setPaused(sessionID, true)
}

func (s *DefaultSimulator) Resume(sessionID string) error {
	return s.setPaused(sessionID, false)
}

func (s *DefaultSimulator) setPaused(sessionID string, paused bool) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	if sess.state.Closed {
		sess.mu.Unlock()
		return ErrSessionClosed
	}
	sess.state.Paused = paused
	snap := sess.snapshotLocked()
	sess.mu.Unlock()

	s.cacheSnapshot(snap)
	return nil
}

func (s *DefaultSimulator) Close(sessionID string) error {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	if sess.state.Closed {
		sess.mu.Unlock()
		return ErrSessionClosed
	}
	sess.state.Closed = true
	close(sess.stop)
	snap := sess.snapshotLocked()
	sess.mu.Unlock()

	s.cacheSnapshot(snap)
	s.evict(sessionID)
	utils.GetLogger().Info("market session closed", zap.String("sessionId", sessionID))
	return nil
}

// evict drops a finished session from the registry so it does not accumulate
// over the process lifetime.
func (s *DefaultSimulator) evict(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

func (s *DefaultSimulator) lookup(sessionID string) (*session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (sess *session) snapshot() *models.MarketSession {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshotLocked()
}

// snapshotLocked copies the state so readers never alias the live bid slice.
func (sess *session) snapshotLocked() *models.MarketSession {
	snap := sess.state
	snap.Bids = append([]models.MarketBid(nil), sess.state.Bids...)
	return &snap
}

// cacheSnapshot mirrors the session into Redis so a restarted API process can
// still answer snapshot reads. Best effort: cache failures only log.
func (s *DefaultSimulator) cacheSnapshot(snap *models.MarketSession) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	ttl := time.Duration(snap.RemainingSec)*time.Second + snapshotCacheGrace
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.cache.Set(ctx, utils.MarketSessionPrefix+snap.ID, data, ttl).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache market snapshot",
			zap.String("sessionId", snap.ID), zap.Error(err))
	}
}
