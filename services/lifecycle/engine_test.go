package lifecycle

import (
	"errors"
	"testing"
	"time"

	"servicebid/database"
	"servicebid/database/repository"
	"servicebid/models"
)

func newEngine(t *testing.T) (*DefaultEngine, repository.EntityRepository) {
	t.Helper()
	repo, err := repository.NewStoreBackedRepo(database.NewMemoryStore())
	if err != nil {
		t.Fatalf("NewStoreBackedRepo: %v", err)
	}
	return &DefaultEngine{Repo: repo}, repo
}

func seedEngagement(t *testing.T, repo repository.EntityRepository, status models.JobStatus) (jobID, propID string) {
	t.Helper()
	job := models.JobRequest{
		ID:             "job-1",
		ClientID:       "client-1",
		Status:         status,
		SuggestedPrice: 150,
		CreatedAt:      time.Now(),
	}
	if err := repo.CreateJob(&job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	prop := models.Proposal{
		ID: "prop-1", JobID: job.ID, ProID: "pro-1",
		Price: 180, Status: status, CreatedAt: time.Now(),
	}
	if err := repo.CreateProposal(&prop); err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}
	// CreateProposal may have hopped OPEN -> NEGOTIATING; force the wanted state.
	j, _ := repo.GetJob(job.ID)
	j.Status = status
	if err := repo.UpdateJob(j); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	return job.ID, prop.ID
}

func TestConfirmSetsFinalPrice(t *testing.T) {
	engine, repo := newEngine(t)
	_, propID := seedEngagement(t, repo, models.StatusNegotiating)

	job, err := engine.Confirm(propID, 160)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if job.Status != models.StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", job.Status)
	}
	if job.FinalPrice != 160 {
		t.Errorf("final price = %v, want 160", job.FinalPrice)
	}
	if job.AcceptedProposalID != propID {
		t.Errorf("accepted proposal = %q, want %q", job.AcceptedProposalID, propID)
	}

	prop, _ := repo.GetProposal(propID)
	if prop.Status != models.StatusConfirmed {
		t.Errorf("proposal mirror = %s, want CONFIRMED", prop.Status)
	}
	if prop.Price != 160 {
		t.Errorf("proposal price = %v, want 160", prop.Price)
	}
}

func TestConfirmRejectedPastNegotiation(t *testing.T) {
	engine, repo := newEngine(t)
	_, propID := seedEngagement(t, repo, models.StatusConfirmed)

	if _, err := engine.Confirm(propID, 100); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Confirm from CONFIRMED = %v, want ErrInvalidTransition", err)
	}
}

func TestAcceptProposalUsesThreadPrice(t *testing.T) {
	engine, repo := newEngine(t)
	_, propID := seedEngagement(t, repo, models.StatusNegotiating)

	job, err := engine.AcceptProposal(propID)
	if err != nil {
		t.Fatalf("AcceptProposal: %v", err)
	}
	if job.FinalPrice != 180 {
		t.Errorf("final price = %v, want the proposal price 180", job.FinalPrice)
	}
}

func TestAdvanceFullHappyPath(t *testing.T) {
	engine, repo := newEngine(t)
	_, propID := seedEngagement(t, repo, models.StatusNegotiating)

	if _, err := engine.Confirm(propID, 200); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	steps := []struct {
		next  models.JobStatus
		actor models.Role
	}{
		{models.StatusEnRoute, models.RolePro},
		{models.StatusArrived, models.RolePro},
		{models.StatusInProgress, models.RolePro},
		{models.StatusReviewPending, models.RolePro},
		{models.StatusPaymentPending, models.RoleClient},
		{models.StatusCompleted, models.RolePro},
	}
	for _, step := range steps {
		job, err := engine.Advance(propID, step.next, step.actor)
		if err != nil {
			t.Fatalf("Advance to %s: %v", step.next, err)
		}
		if job.Status != step.next {
			t.Fatalf("status = %s, want %s", job.Status, step.next)
		}
	}

	job, _ := repo.GetJob("job-1")
	if job.StartedAt == nil {
		t.Error("StartedAt not stamped on IN_PROGRESS")
	}
	if job.FinishedAt == nil {
		t.Error("FinishedAt not stamped on REVIEW_PENDING")
	}
}

func TestAdvanceRejectsSkippedStep(t *testing.T) {
	engine, repo := newEngine(t)
	_, propID := seedEngagement(t, repo, models.StatusConfirmed)

	if _, err := engine.Advance(propID, models.StatusInProgress, models.RolePro); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("skipping EN_ROUTE = %v, want ErrInvalidTransition", err)
	}
}

func TestAdvanceRejectsWrongActor(t *testing.T) {
	engine, repo := newEngine(t)
	_, propID := seedEngagement(t, repo, models.StatusConfirmed)

	if _, err := engine.Advance(propID, models.StatusEnRoute, models.RoleClient); !errors.Is(err, ErrWrongActor) {
		t.Errorf("client advancing EN_ROUTE = %v, want ErrWrongActor", err)
	}

	// Rating step belongs to the client.
	seed := func(status models.JobStatus) {
		j, _ := repo.GetJob("job-1")
		j.Status = status
		_ = repo.UpdateJob(j)
		p, _ := repo.GetProposal(propID)
		p.Status = status
		_ = repo.UpdateProposal(p)
	}
	seed(models.StatusReviewPending)
	if _, err := engine.Advance(propID, models.StatusPaymentPending, models.RolePro); !errors.Is(err, ErrWrongActor) {
		t.Errorf("pro advancing PAYMENT_PENDING = %v, want ErrWrongActor", err)
	}
}

func TestCancelFromAnyActiveState(t *testing.T) {
	for _, status := range []models.JobStatus{
		models.StatusOpen, models.StatusNegotiating, models.StatusConfirmed,
		models.StatusEnRoute, models.StatusArrived, models.StatusInProgress,
		models.StatusReviewPending, models.StatusPaymentPending,
	} {
		t.Run(string(status), func(t *testing.T) {
			engine, repo := newEngine(t)
			_, propID := seedEngagement(t, repo, status)
			job, err := engine.Cancel(propID)
			if err != nil {
				t.Fatalf("Cancel from %s: %v", status, err)
			}
			if job.Status != models.StatusCancelled {
				t.Errorf("status = %s, want CANCELLED", job.Status)
			}
		})
	}
}

func TestCancelRejectsTerminal(t *testing.T) {
	engine, repo := newEngine(t)
	_, propID := seedEngagement(t, repo, models.StatusCompleted)
	if _, err := engine.Cancel(propID); !errors.Is(err, ErrTerminal) {
		t.Errorf("Cancel from COMPLETED = %v, want ErrTerminal", err)
	}
}

func TestReopenIsOneShot(t *testing.T) {
	engine, repo := newEngine(t)
	_, propID := seedEngagement(t, repo, models.StatusCompleted)

	job, err := engine.Reopen(propID)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	if job.Status != models.StatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", job.Status)
	}
	if !job.Reopened {
		t.Error("Reopened flag not set")
	}
	if job.FinishedAt != nil {
		t.Error("FinishedAt not cleared on reopen")
	}

	// Complete again, then the second reopen must fail.
	for _, step := range []struct {
		next  models.JobStatus
		actor models.Role
	}{
		{models.StatusReviewPending, models.RolePro},
		{models.StatusPaymentPending, models.RoleClient},
		{models.StatusCompleted, models.RolePro},
	} {
		if _, err := engine.Advance(propID, step.next, step.actor); err != nil {
			t.Fatalf("Advance to %s: %v", step.next, err)
		}
	}
	if _, err := engine.Reopen(propID); !errors.Is(err, ErrAlreadyReopened) {
		t.Errorf("second Reopen = %v, want ErrAlreadyReopened", err)
	}
}

func TestReopenOnlyFromCompleted(t *testing.T) {
	engine, repo := newEngine(t)
	_, propID := seedEngagement(t, repo, models.StatusInProgress)
	if _, err := engine.Reopen(propID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Reopen from IN_PROGRESS = %v, want ErrInvalidTransition", err)
	}
}

func TestStatusFallsBackToMirror(t *testing.T) {
	engine, repo := newEngine(t)

	// Proposal referencing a job that was never stored.
	prop := models.Proposal{
		ID: "prop-solo", JobID: "ghost", ProID: "pro-1",
		Price: 90, Status: models.StatusConfirmed, CreatedAt: time.Now(),
	}
	if err := repo.CreateProposal(&prop); err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}

	status, err := engine.Status("prop-solo")
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status != models.StatusConfirmed {
		t.Errorf("status = %s, want mirror CONFIRMED", status)
	}

	// Transitions keep working against the mirror alone.
	if _, err := engine.Advance("prop-solo", models.StatusEnRoute, models.RolePro); err != nil {
		t.Fatalf("Advance on mirror: %v", err)
	}
	got, _ := repo.GetProposal("prop-solo")
	if got.Status != models.StatusEnRoute {
		t.Errorf("mirror after advance = %s, want EN_ROUTE", got.Status)
	}
}
