package repository

import (
	"errors"
	"testing"
	"time"

	"servicebid/database"
	"servicebid/models"
)

func newTestRepo(t *testing.T) (*StoreBackedRepo, *database.MemoryStore) {
	t.Helper()
	store := database.NewMemoryStore()
	repo, err := NewStoreBackedRepo(store)
	if err != nil {
		t.Fatalf("NewStoreBackedRepo: %v", err)
	}
	return repo, store
}

func TestCreateProposalBumpsJob(t *testing.T) {
	repo, _ := newTestRepo(t)

	job := models.JobRequest{
		ID:        "job-1",
		ClientID:  "client-1",
		Status:    models.StatusOpen,
		CreatedAt: time.Now(),
	}
	if err := repo.CreateJob(&job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	prop := models.Proposal{ID: "prop-1", JobID: "job-1", ProID: "pro-1", Price: 120, CreatedAt: time.Now()}
	if err := repo.CreateProposal(&prop); err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}

	got, err := repo.GetJob("job-1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.ProposalsCount != 1 {
		t.Errorf("ProposalsCount = %d, want 1", got.ProposalsCount)
	}
	if got.Status != models.StatusNegotiating {
		t.Errorf("Status = %s, want NEGOTIATING", got.Status)
	}
}

func TestCreateProposalToleratesMissingJob(t *testing.T) {
	repo, _ := newTestRepo(t)

	prop := models.Proposal{ID: "prop-orphan", JobID: "gone", ProID: "pro-1", Price: 80, CreatedAt: time.Now()}
	if err := repo.CreateProposal(&prop); err != nil {
		t.Fatalf("CreateProposal with missing job: %v", err)
	}
	if _, err := repo.GetProposal("prop-orphan"); err != nil {
		t.Fatalf("GetProposal: %v", err)
	}
}

func TestWriteThrough(t *testing.T) {
	repo, store := newTestRepo(t)

	user := models.User{ID: "u1", Name: "Ana", Role: models.RoleClient, CreatedAt: time.Now()}
	if err := repo.CreateUser(&user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if store.Flushes != 1 {
		t.Fatalf("Flushes after CreateUser = %d, want 1", store.Flushes)
	}

	user.Name = "Ana Maria"
	if err := repo.UpdateUser(&user); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if store.Flushes != 2 {
		t.Errorf("Flushes after UpdateUser = %d, want 2", store.Flushes)
	}

	// A fresh repo over the same store must see the write.
	repo2, err := NewStoreBackedRepo(store)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, err := repo2.GetUser("u1")
	if err != nil {
		t.Fatalf("GetUser after reload: %v", err)
	}
	if got.Name != "Ana Maria" {
		t.Errorf("Name after reload = %q, want %q", got.Name, "Ana Maria")
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	if _, err := repo.GetJob("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetJob error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetUser("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser error = %v, want ErrNotFound", err)
	}
}

func TestThreadAppendAndUpdate(t *testing.T) {
	repo, _ := newTestRepo(t)

	base := time.Now()
	first := models.ChatMessage{ID: "m1", SenderID: "u1", Type: models.MessageText, Text: "hello", Timestamp: base}
	second := models.ChatMessage{
		ID: "m2", SenderID: "u2", Type: models.MessageOffer,
		Offer:     &models.OfferDetails{OldPrice: 100, NewPrice: 90, Reason: "deal", Status: models.OfferPending},
		Timestamp: base.Add(time.Second),
	}
	for _, m := range []models.ChatMessage{first, second} {
		if err := repo.AppendMessage("t1", m); err != nil {
			t.Fatalf("AppendMessage: %v", err)
		}
	}

	msgs := repo.Thread("t1")
	if len(msgs) != 2 || msgs[0].ID != "m1" || msgs[1].ID != "m2" {
		t.Fatalf("thread order wrong: %+v", msgs)
	}

	updated, err := repo.UpdateMessage("t1", "m2", func(m *models.ChatMessage) error {
		m.Offer.Status = models.OfferAccepted
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateMessage: %v", err)
	}
	if updated.Offer.Status != models.OfferAccepted {
		t.Errorf("updated status = %s, want ACCEPTED", updated.Offer.Status)
	}

	if _, err := repo.UpdateMessage("t1", "missing", func(*models.ChatMessage) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateMessage on missing id = %v, want ErrNotFound", err)
	}
}

func TestAppendMessageValidates(t *testing.T) {
	repo, _ := newTestRepo(t)
	bad := models.ChatMessage{ID: "m1", SenderID: "u1", Type: models.MessageText, Timestamp: time.Now()}
	if err := repo.AppendMessage("t1", bad); err == nil {
		t.Fatal("AppendMessage accepted a text message without text")
	}
}

func TestListJobsByPro(t *testing.T) {
	repo, _ := newTestRepo(t)

	job := models.JobRequest{ID: "j1", ClientID: "c1", Status: models.StatusOpen, CreatedAt: time.Now()}
	if err := repo.CreateJob(&job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	prop := models.Proposal{ID: "p1", JobID: "j1", ProID: "pro-9", Price: 50, CreatedAt: time.Now()}
	if err := repo.CreateProposal(&prop); err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}

	// Not linked yet: the proposal was placed but never accepted.
	if got := repo.ListJobsByPro("pro-9"); len(got) != 0 {
		t.Fatalf("ListJobsByPro before accept = %d jobs, want 0", len(got))
	}

	job.AcceptedProposalID = "p1"
	if err := repo.UpdateJob(&job); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	if got := repo.ListJobsByPro("pro-9"); len(got) != 1 {
		t.Fatalf("ListJobsByPro after accept = %d jobs, want 1", len(got))
	}
}

func TestSeedDemoDataFeedsProEarnings(t *testing.T) {
	repo, _ := newTestRepo(t)
	if err := SeedDemoData(repo); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}

	jobs := repo.ListJobsByPro("pro-1")
	completed := 0
	for _, job := range jobs {
		if job.Status != models.StatusCompleted {
			continue
		}
		completed++
		if job.FinishedAt == nil {
			t.Errorf("completed job %s has no finish time", job.ID)
		}
		if job.AcceptedProposalID == "" {
			t.Errorf("completed job %s has no accepted proposal", job.ID)
		}
	}
	if completed != 3 {
		t.Fatalf("completed jobs visible to the seeded pro = %d, want 3", completed)
	}
}

func TestSeedDemoDataIsIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)

	if err := SeedDemoData(repo); err != nil {
		t.Fatalf("SeedDemoData: %v", err)
	}
	firstCount := len(repo.ListUsers())
	if firstCount == 0 {
		t.Fatal("seed created no users")
	}

	if err := SeedDemoData(repo); err != nil {
		t.Fatalf("SeedDemoData second run: %v", err)
	}
	if got := len(repo.ListUsers()); got != firstCount {
		t.Errorf("second seed changed user count: %d -> %d", firstCount, got)
	}
}
