package autoreply

import (
	"testing"
	"time"

	"servicebid/database"
	"servicebid/database/repository"
	"servicebid/models"
	"servicebid/services/lifecycle"
)

// recordingScheduler captures schedule calls instead of queueing them.
type recordingScheduler struct {
	payloads []TaskPayload
	delays   []time.Duration
}

func (r *recordingScheduler) Schedule(payload TaskPayload, delay time.Duration) error {
	r.payloads = append(r.payloads, payload)
	r.delays = append(r.delays, delay)
	return nil
}

func newService(t *testing.T) (*DefaultService, *recordingScheduler, repository.EntityRepository) {
	t.Helper()
	repo, err := repository.NewStoreBackedRepo(database.NewMemoryStore())
	if err != nil {
		t.Fatalf("NewStoreBackedRepo: %v", err)
	}
	sched := &recordingScheduler{}
	svc := &DefaultService{
		Repo:      repo,
		Engine:    &lifecycle.DefaultEngine{Repo: repo},
		Scheduler: sched,
	}
	return svc, sched, repo
}

func seedThread(t *testing.T, repo repository.EntityRepository, cfg *models.AutoReplyConfig, status models.JobStatus) string {
	t.Helper()
	pro := models.User{ID: "pro-1", Name: "Roberto", Role: models.RolePro, AutoReply: cfg, CreatedAt: time.Now()}
	if err := repo.CreateUser(&pro); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	job := models.JobRequest{ID: "job-1", ClientID: "client-1", Status: status, CreatedAt: time.Now()}
	if err := repo.CreateJob(&job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	prop := models.Proposal{
		ID: "prop-1", JobID: job.ID, ProID: pro.ID,
		Price: 100, Status: status, CreatedAt: time.Now(),
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

func clientMessage(t *testing.T, repo repository.EntityRepository, threadID, id string) models.ChatMessage {
	t.Helper()
	msg := models.ChatMessage{
		ID: id, SenderID: "client-1", Type: models.MessageText,
		Text: "are you available?", Timestamp: time.Now(),
	}
	if err := repo.AppendMessage(threadID, msg); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}
	return msg
}

func TestNotifySchedulesWithConfiguredDelay(t *testing.T) {
	svc, sched, repo := newService(t)
	cfg := &models.AutoReplyConfig{Enabled: true, DelayMinutes: 2, Template: models.AutoReplyTemplateOnMyWay}
	threadID := seedThread(t, repo, cfg, models.StatusConfirmed)
	msg := clientMessage(t, repo, threadID, "m1")

	if err := svc.NotifyClientMessage(threadID, msg); err != nil {
		t.Fatalf("NotifyClientMessage: %v", err)
	}
	if len(sched.payloads) != 1 {
		t.Fatalf("scheduled %d deliveries, want 1", len(sched.payloads))
	}
	if sched.delays[0] != 2*time.Minute {
		t.Errorf("delay = %v, want 2m", sched.delays[0])
	}
	if sched.payloads[0].ClientMessageID != "m1" || sched.payloads[0].ProID != "pro-1" {
		t.Errorf("payload = %+v", sched.payloads[0])
	}
}

func TestNotifySkipsWhenDisabled(t *testing.T) {
	svc, sched, repo := newService(t)
	threadID := seedThread(t, repo, &models.AutoReplyConfig{Enabled: false}, models.StatusConfirmed)
	msg := clientMessage(t, repo, threadID, "m1")

	if err := svc.NotifyClientMessage(threadID, msg); err != nil {
		t.Fatalf("NotifyClientMessage: %v", err)
	}
	if len(sched.payloads) != 0 {
		t.Errorf("scheduled %d deliveries for a disabled bot", len(sched.payloads))
	}
}

func TestNotifySkipsTerminalThread(t *testing.T) {
	svc, sched, repo := newService(t)
	cfg := &models.AutoReplyConfig{Enabled: true, DelayMinutes: 1, Template: models.AutoReplyTemplateBusy}
	threadID := seedThread(t, repo, cfg, models.StatusCompleted)
	msg := clientMessage(t, repo, threadID, "m1")

	if err := svc.NotifyClientMessage(threadID, msg); err != nil {
		t.Fatalf("NotifyClientMessage: %v", err)
	}
	if len(sched.payloads) != 0 {
		t.Errorf("scheduled %d deliveries on a completed job", len(sched.payloads))
	}
}

func TestZeroDelayFallsBack(t *testing.T) {
	svc, sched, repo := newService(t)
	cfg := &models.AutoReplyConfig{Enabled: true, DelayMinutes: 0, Template: models.AutoReplyTemplateBusy}
	threadID := seedThread(t, repo, cfg, models.StatusConfirmed)
	msg := clientMessage(t, repo, threadID, "m1")

	if err := svc.NotifyClientMessage(threadID, msg); err != nil {
		t.Fatalf("NotifyClientMessage: %v", err)
	}
	if sched.delays[0] != fallbackDelay {
		t.Errorf("delay = %v, want the %v fallback", sched.delays[0], fallbackDelay)
	}
}

func TestDeliverAppendsAutomatedReply(t *testing.T) {
	svc, _, repo := newService(t)
	cfg := &models.AutoReplyConfig{Enabled: true, DelayMinutes: 1, Template: models.AutoReplyTemplateOnMyWay}
	threadID := seedThread(t, repo, cfg, models.StatusConfirmed)
	clientMessage(t, repo, threadID, "m1")

	payload := TaskPayload{ThreadID: threadID, ProID: "pro-1", ClientMessageID: "m1"}
	if err := svc.Deliver(payload); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	msgs := repo.Thread(threadID)
	last := msgs[len(msgs)-1]
	if !last.Automated || last.SenderID != "pro-1" {
		t.Fatalf("last message is not the automated reply: %+v", last)
	}
	if last.Text != templateTexts[models.AutoReplyTemplateOnMyWay] {
		t.Errorf("reply text = %q", last.Text)
	}
}

func TestDeliverUsesCustomText(t *testing.T) {
	svc, _, repo := newService(t)
	cfg := &models.AutoReplyConfig{
		Enabled: true, DelayMinutes: 1,
		Template: models.AutoReplyTemplateCustom, CustomText: "Back at 3pm.",
	}
	threadID := seedThread(t, repo, cfg, models.StatusConfirmed)
	clientMessage(t, repo, threadID, "m1")

	if err := svc.Deliver(TaskPayload{ThreadID: threadID, ProID: "pro-1", ClientMessageID: "m1"}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	msgs := repo.Thread(threadID)
	if msgs[len(msgs)-1].Text != "Back at 3pm." {
		t.Errorf("reply text = %q, want the custom text", msgs[len(msgs)-1].Text)
	}
}

func TestDeliverSuppressedWhenProAnswered(t *testing.T) {
	svc, _, repo := newService(t)
	cfg := &models.AutoReplyConfig{Enabled: true, DelayMinutes: 1, Template: models.AutoReplyTemplateBusy}
	threadID := seedThread(t, repo, cfg, models.StatusConfirmed)
	clientMessage(t, repo, threadID, "m1")

	// The pro got there first.
	reply := models.ChatMessage{
		ID: "m2", SenderID: "pro-1", Type: models.MessageText,
		Text: "yes, on my way", Timestamp: time.Now(),
	}
	if err := repo.AppendMessage(threadID, reply); err != nil {
		t.Fatalf("AppendMessage: %v", err)
	}

	before := len(repo.Thread(threadID))
	if err := svc.Deliver(TaskPayload{ThreadID: threadID, ProID: "pro-1", ClientMessageID: "m1"}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if got := len(repo.Thread(threadID)); got != before {
		t.Errorf("suppressed delivery still appended: %d -> %d", before, got)
	}
}

func TestDeliverIsIdempotent(t *testing.T) {
	svc, _, repo := newService(t)
	cfg := &models.AutoReplyConfig{Enabled: true, DelayMinutes: 1, Template: models.AutoReplyTemplateBusy}
	threadID := seedThread(t, repo, cfg, models.StatusConfirmed)
	clientMessage(t, repo, threadID, "m1")

	payload := TaskPayload{ThreadID: threadID, ProID: "pro-1", ClientMessageID: "m1"}
	if err := svc.Deliver(payload); err != nil {
		t.Fatalf("first Deliver: %v", err)
	}
	after := len(repo.Thread(threadID))

	// A redelivered task sees the bot's own reply and stands down.
	if err := svc.Deliver(payload); err != nil {
		t.Fatalf("second Deliver: %v", err)
	}
	if got := len(repo.Thread(threadID)); got != after {
		t.Errorf("redelivery appended again: %d -> %d", after, got)
	}
}

func TestDeliverSkipsTerminalThread(t *testing.T) {
	svc, _, repo := newService(t)
	cfg := &models.AutoReplyConfig{Enabled: true, DelayMinutes: 1, Template: models.AutoReplyTemplateBusy}
	threadID := seedThread(t, repo, cfg, models.StatusCancelled)
	clientMessage(t, repo, threadID, "m1")

	before := len(repo.Thread(threadID))
	if err := svc.Deliver(TaskPayload{ThreadID: threadID, ProID: "pro-1", ClientMessageID: "m1"}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if got := len(repo.Thread(threadID)); got != before {
		t.Errorf("delivery on cancelled job appended: %d -> %d", before, got)
	}
}
