package market

import (
	"errors"
	"testing"
	"time"
)

func newSimulator() *DefaultSimulator {
	// No cache client; snapshots stay in memory for the tests.
	return NewDefaultSimulator(nil, 8*time.Second, 1800*time.Second)
}

func TestOpenStartsFullCountdown(t *testing.T) {
	sim := newSimulator()
	session, err := sim.Open("job-1", 150)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = sim.Close(session.ID) }()

	if session.RemainingSec != 1800 {
		t.Errorf("remaining = %d, want 1800", session.RemainingSec)
	}
	if session.JobID != "job-1" || session.TargetPrice != 150 {
		t.Errorf("session identity wrong: %+v", session)
	}
	if session.Paused || session.Closed {
		t.Errorf("fresh session paused=%v closed=%v", session.Paused, session.Closed)
	}
}

func TestSnapshotUnknownSession(t *testing.T) {
	sim := newSimulator()
	if _, err := sim.Snapshot("ghost"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Snapshot unknown = %v, want ErrSessionNotFound", err)
	}
}

func TestPauseFreezesSession(t *testing.T) {
	sim := newSimulator()
	session, err := sim.Open("job-1", 150)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = sim.Close(session.ID) }()

	if err := sim.Pause(session.ID); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	paused, _ := sim.Snapshot(session.ID)
	if !paused.Paused {
		t.Fatal("session not marked paused")
	}
	remaining := paused.RemainingSec
	bids := len(paused.Bids)

	// Paused ticks must advance neither the countdown nor the bid stream.
	time.Sleep(1500 * time.Millisecond)
	later, _ := sim.Snapshot(session.ID)
	if later.RemainingSec != remaining {
		t.Errorf("countdown moved while paused: %d -> %d", remaining, later.RemainingSec)
	}
	if len(later.Bids) != bids {
		t.Errorf("bids generated while paused: %d -> %d", bids, len(later.Bids))
	}

	if err := sim.Resume(session.ID); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	resumed, _ := sim.Snapshot(session.ID)
	if resumed.Paused {
		t.Error("session still paused after resume")
	}
}

func TestCloseStopsAndEvicts(t *testing.T) {
	sim := newSimulator()
	session, err := sim.Open("job-1", 150)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := sim.Close(session.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// The registry must not retain finished sessions; without a cache a late
	// read is simply not found.
	sim.mu.Lock()
	left := len(sim.sessions)
	sim.mu.Unlock()
	if left != 0 {
		t.Errorf("registry holds %d sessions after close, want 0", left)
	}
	if _, err := sim.Snapshot(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Snapshot after close = %v, want ErrSessionNotFound", err)
	}
	if err := sim.Close(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Close = %v, want ErrSessionNotFound", err)
	}
	if err := sim.Pause(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Pause after close = %v, want ErrSessionNotFound", err)
	}
}

func TestExpiryEvictsSession(t *testing.T) {
	sim := NewDefaultSimulator(nil, time.Hour, 2*time.Second)
	session, err := sim.Open("job-1", 150)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Countdown of 2s; give the ticker room to run it out.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		sim.mu.Lock()
		left := len(sim.sessions)
		sim.mu.Unlock()
		if left == 0 {
			if _, err := sim.Snapshot(session.ID); !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Snapshot after expiry = %v, want ErrSessionNotFound", err)
			}
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("expired session never left the registry")
}

func TestBidPriceStaysInBand(t *testing.T) {
	const target = 200.0
	for i := 0; i < 1000; i++ {
		price := bidPrice(target)
		if price < target*0.8-0.01 || price > target*1.2+0.01 {
			t.Fatalf("bid price %v outside 80%%..120%% of %v", price, target)
		}
	}
}

func TestBidListCapsAtTen(t *testing.T) {
	sim := newSimulator()
	sess := &session{stop: make(chan struct{})}
	sess.state.TargetPrice = 100

	for i := 0; i < 15; i++ {
		sess.mu.Lock()
		sim.placeBid(sess)
		sess.mu.Unlock()
	}

	snap := sess.snapshot()
	if len(snap.Bids) != maxVisibleBids {
		t.Fatalf("visible bids = %d, want %d", len(snap.Bids), maxVisibleBids)
	}
	if snap.TotalBidsSeen != 15 {
		t.Errorf("total bids seen = %d, want 15", snap.TotalBidsSeen)
	}
	// Newest first.
	for i := 1; i < len(snap.Bids); i++ {
		if snap.Bids[i].CreatedAt.After(snap.Bids[i-1].CreatedAt) {
			t.Fatal("bids are not ordered newest first")
		}
	}
}

func TestSnapshotDoesNotAliasLiveState(t *testing.T) {
	sim := newSimulator()
	sess := &session{stop: make(chan struct{})}
	sess.state.TargetPrice = 100
	sess.mu.Lock()
	sim.placeBid(sess)
	sess.mu.Unlock()

	snap := sess.snapshot()
	snap.Bids[0].Price = -1

	fresh := sess.snapshot()
	if fresh.Bids[0].Price == -1 {
		t.Fatal("snapshot mutation leaked into the live session")
	}
}
