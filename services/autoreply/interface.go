package autoreply

import (
	"time"

	"servicebid/database/repository"
	"servicebid/models"
	"servicebid/services/lifecycle"
)

// TaskTypeSend is the queue task type for a scheduled auto-reply delivery.
const TaskTypeSend = "autoreply:send"

// TaskPayload is the queued delivery request.
type TaskPayload struct {
	ThreadID        string `json:"threadId"`
	ProID           string `json:"proId"`
	ClientMessageID string `json:"clientMessageId"`
}

// Scheduler defers a delivery by the given delay. The asynq-backed
// implementation survives process restarts; tests substitute an inline one.
type Scheduler interface {
	Schedule(payload TaskPayload, delay time.Duration) error
}

// Service is the pro's delayed auto-reply bot. A client message on an active
// thread schedules a canned reply on the pro's behalf; delivery re-checks the
// thread so a pro who answered in the meantime silences the bot.
type Service interface {
	// NotifyClientMessage is called after a client message lands on a thread.
	// It schedules a delivery when the thread's pro has auto-reply enabled.
	NotifyClientMessage(threadID string, clientMsg models.ChatMessage) error

	// Deliver executes a scheduled delivery. Safe to run more than once.
	Deliver(payload TaskPayload) error
}

// DefaultService implements Service.
type DefaultService struct {
	Repo      repository.EntityRepository
	Engine    lifecycle.Engine
	Scheduler Scheduler
}
