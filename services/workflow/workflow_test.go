package workflow

import (
	"errors"
	"testing"
	"time"

	"servicebid/database"
	"servicebid/database/repository"
	"servicebid/models"
	"servicebid/services/lifecycle"

	"github.com/shopspring/decimal"
)

func newController(t *testing.T) (*DefaultController, repository.EntityRepository) {
	t.Helper()
	repo, err := repository.NewStoreBackedRepo(database.NewMemoryStore())
	if err != nil {
		t.Fatalf("NewStoreBackedRepo: %v", err)
	}
	engine := &lifecycle.DefaultEngine{Repo: repo}
	return &DefaultController{Repo: repo, Engine: engine}, repo
}

func seedConfirmed(t *testing.T, repo repository.EntityRepository, status models.JobStatus) string {
	t.Helper()
	client := models.User{ID: "client-1", Name: "Alice", Surname: "Martin", Role: models.RoleClient, CreatedAt: time.Now()}
	pro := models.User{
		ID: "pro-1", Name: "Roberto", Role: models.RolePro,
		Level: "Professional", Rating: 4.0, ReviewsCount: 4, XP: 1200,
		CompanyDetails: &models.CompanyDetails{LegalName: "Roberto Services SARL", VATNumber: "LU12345678"},
		CreatedAt:      time.Now(),
	}
	for _, u := range []models.User{client, pro} {
		user := u
		if err := repo.CreateUser(&user); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}

	job := models.JobRequest{
		ID: "job-1", ClientID: "client-1", Category: models.CategoryPlumbing,
		Title: "Leaking sink", Status: status, FinalPrice: 200,
		AcceptedProposalID: "prop-1", CreatedAt: time.Now(),
	}
	if err := repo.CreateJob(&job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	prop := models.Proposal{
		ID: "prop-1", JobID: job.ID, ProID: "pro-1", ProName: "Roberto",
		Price: 200, Status: status, CreatedAt: time.Now(),
	}
	if err := repo.CreateProposal(&prop); err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}
	j, _ := repo.GetJob(job.ID)
	j.Status = status
	if err := repo.UpdateJob(j); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}
	return prop.ID
}

func TestAdvanceNarratesSteps(t *testing.T) {
	ctl, repo := newController(t)
	threadID := seedConfirmed(t, repo, models.StatusConfirmed)

	for _, next := range []models.JobStatus{
		models.StatusEnRoute, models.StatusArrived, models.StatusInProgress,
	} {
		msg, err := ctl.Advance(threadID, next)
		if err != nil {
			t.Fatalf("Advance to %s: %v", next, err)
		}
		if !msg.IsSystem || msg.Text == "" {
			t.Errorf("step %s produced no narration: %+v", next, msg)
		}
	}

	if got := len(repo.Thread(threadID)); got != 3 {
		t.Errorf("thread has %d messages, want 3 narrations", got)
	}
}

func TestAdvanceRejectsNonWorkflowStatus(t *testing.T) {
	ctl, repo := newController(t)
	threadID := seedConfirmed(t, repo, models.StatusConfirmed)

	if _, err := ctl.Advance(threadID, models.StatusCompleted); !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Errorf("Advance(COMPLETED) = %v, want ErrInvalidTransition", err)
	}
}

func TestFinishJobAppendsReceiptAndInvoiceOnce(t *testing.T) {
	ctl, repo := newController(t)
	threadID := seedConfirmed(t, repo, models.StatusInProgress)

	start := time.Now().Add(-85 * time.Minute)
	job, _ := repo.GetJob("job-1")
	job.StartedAt = &start
	if err := repo.UpdateJob(job); err != nil {
		t.Fatalf("UpdateJob: %v", err)
	}

	msgs, err := ctl.FinishJob(threadID)
	if err != nil {
		t.Fatalf("FinishJob: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("FinishJob returned %d messages, want receipt + invoice", len(msgs))
	}
	receipt, invoice := msgs[0], msgs[1]
	if receipt.Type != models.MessageReceipt {
		t.Fatalf("first message type = %s, want receipt", receipt.Type)
	}
	if invoice.Type != models.MessageInvoice {
		t.Fatalf("second message type = %s, want invoice", invoice.Type)
	}

	if receipt.Receipt.Duration != "1h 25m" {
		t.Errorf("duration = %q, want 1h 25m", receipt.Receipt.Duration)
	}
	if receipt.Receipt.TotalAmount != 200 {
		t.Errorf("receipt amount = %v, want 200", receipt.Receipt.TotalAmount)
	}

	// 200 * 1.17
	if !invoice.Invoice.TotalTTC.Equal(decimal.RequireFromString("234")) {
		t.Errorf("invoice TTC = %s, want 234", invoice.Invoice.TotalTTC)
	}
	if invoice.Invoice.Issuer.LegalName != "Roberto Services SARL" {
		t.Errorf("issuer = %q, want the pro's company", invoice.Invoice.Issuer.LegalName)
	}
	if invoice.Invoice.ClientName != "Alice Martin" {
		t.Errorf("client name = %q", invoice.Invoice.ClientName)
	}

	job, _ = repo.GetJob("job-1")
	if job.Status != models.StatusReviewPending {
		t.Errorf("job status = %s, want REVIEW_PENDING", job.Status)
	}

	// The invoice lives in the thread exactly once.
	count := 0
	for _, m := range repo.Thread(threadID) {
		if m.Type == models.MessageInvoice {
			count++
		}
	}
	if count != 1 {
		t.Errorf("thread holds %d invoices, want 1", count)
	}

	// Finishing again is an invalid transition, not a second invoice.
	if _, err := ctl.FinishJob(threadID); err == nil {
		t.Error("second FinishJob succeeded")
	}
}

func TestFinishJobFallbackWindow(t *testing.T) {
	ctl, repo := newController(t)
	threadID := seedConfirmed(t, repo, models.StatusInProgress)

	// No StartedAt on the record: the receipt backfills a one hour window.
	msgs, err := ctl.FinishJob(threadID)
	if err != nil {
		t.Fatalf("FinishJob: %v", err)
	}
	receipt := msgs[0].Receipt
	if receipt.Duration != "1h 00m" {
		t.Errorf("fallback duration = %q, want 1h 00m", receipt.Duration)
	}
	if got := receipt.EndTime.Sub(receipt.StartTime); got != time.Hour {
		t.Errorf("fallback window = %v, want 1h", got)
	}
}

func TestSubmitRatingValidatesRange(t *testing.T) {
	ctl, repo := newController(t)
	threadID := seedConfirmed(t, repo, models.StatusReviewPending)

	for _, rating := range []int{0, -1, 6} {
		if _, err := ctl.SubmitRating(threadID, rating, nil, ""); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d = %v, want ErrInvalidRating", rating, err)
		}
	}

	// The failed submissions must not have moved the job.
	job, _ := repo.GetJob("job-1")
	if job.Status != models.StatusReviewPending {
		t.Errorf("status after invalid ratings = %s, want REVIEW_PENDING", job.Status)
	}
}

func TestSubmitRatingAdvancesAndCreditsPro(t *testing.T) {
	ctl, repo := newController(t)
	threadID := seedConfirmed(t, repo, models.StatusReviewPending)

	msg, err := ctl.SubmitRating(threadID, 5, []string{"punctual"}, "great work")
	if err != nil {
		t.Fatalf("SubmitRating: %v", err)
	}
	if !msg.IsSystem {
		t.Errorf("rating message is not system: %+v", msg)
	}

	job, _ := repo.GetJob("job-1")
	if job.Status != models.StatusPaymentPending {
		t.Errorf("status = %s, want PAYMENT_PENDING", job.Status)
	}

	pro, _ := repo.GetUser("pro-1")
	// (4.0*4 + 5) / 5 = 4.2
	if pro.Rating != 4.2 {
		t.Errorf("pro rating = %v, want 4.2", pro.Rating)
	}
	if pro.ReviewsCount != 5 {
		t.Errorf("reviews count = %d, want 5", pro.ReviewsCount)
	}
	if pro.XP != 1300 {
		t.Errorf("XP = %d, want 1300", pro.XP)
	}
}

func TestConfirmPaymentCompletes(t *testing.T) {
	ctl, repo := newController(t)
	threadID := seedConfirmed(t, repo, models.StatusPaymentPending)

	if _, err := ctl.ConfirmPayment(threadID); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	job, _ := repo.GetJob("job-1")
	if job.Status != models.StatusCompleted {
		t.Errorf("status = %s, want COMPLETED", job.Status)
	}
}

func TestCancelAndReopenNarrate(t *testing.T) {
	ctl, repo := newController(t)
	threadID := seedConfirmed(t, repo, models.StatusCompleted)

	if err := ctl.Reopen(threadID); err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	job, _ := repo.GetJob("job-1")
	if job.Status != models.StatusInProgress {
		t.Errorf("status after reopen = %s, want IN_PROGRESS", job.Status)
	}

	if err := ctl.Cancel(threadID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	job, _ = repo.GetJob("job-1")
	if job.Status != models.StatusCancelled {
		t.Errorf("status after cancel = %s, want CANCELLED", job.Status)
	}

	if got := len(repo.Thread(threadID)); got != 2 {
		t.Errorf("thread has %d messages, want reopen + cancel narrations", got)
	}
}

func TestInvoiceRegeneration(t *testing.T) {
	ctl, repo := newController(t)
	threadID := seedConfirmed(t, repo, models.StatusCompleted)

	inv, err := ctl.Invoice(threadID)
	if err != nil {
		t.Fatalf("Invoice: %v", err)
	}
	if inv.Number != "INV-job-1" {
		t.Errorf("number = %q, want INV-job-1", inv.Number)
	}
	if !inv.TotalTTC.Equal(decimal.RequireFromString("234")) {
		t.Errorf("TTC = %s, want 234", inv.TotalTTC)
	}

	again, err := ctl.Invoice(threadID)
	if err != nil {
		t.Fatalf("second Invoice: %v", err)
	}
	if again.Number != inv.Number || !again.TotalTTC.Equal(inv.TotalTTC) {
		t.Error("regenerated invoice differs from the first")
	}
}

func TestInvoiceFallsBackToProposalSnapshot(t *testing.T) {
	ctl, repo := newController(t)

	// Orphan thread: proposal only, pro without company details.
	pro := models.User{ID: "pro-solo", Name: "Carlos", Role: models.RolePro, CreatedAt: time.Now()}
	if err := repo.CreateUser(&pro); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	prop := models.Proposal{
		ID: "prop-solo", JobID: "ghost", ProID: "pro-solo", ProName: "Carlos M.",
		Price: 90, Message: "Fix the lock", Status: models.StatusCompleted, CreatedAt: time.Now(),
	}
	if err := repo.CreateProposal(&prop); err != nil {
		t.Fatalf("CreateProposal: %v", err)
	}

	inv, err := ctl.Invoice("prop-solo")
	if err != nil {
		t.Fatalf("Invoice: %v", err)
	}
	if inv.Issuer.LegalName != "Carlos M." {
		t.Errorf("issuer = %q, want the proposal snapshot name", inv.Issuer.LegalName)
	}
	if !inv.TotalTTC.Equal(decimal.RequireFromString("105.3")) {
		t.Errorf("TTC = %s, want 105.3 (90 * 1.17)", inv.TotalTTC)
	}
}
