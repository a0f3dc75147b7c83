package database

import (
	"errors"

	"servicebid/models"
)

// ErrThreadNotFound is returned when a chat thread has no entries yet.
var ErrThreadNotFound = errors.New("thread not found")

// Store is the persistence collaborator behind the entity repository. It is a
// plain keyed snapshot store: one record per collection, plus an append-only
// message log per chat thread (keyed by proposal ID). Implementations must
// survive process restarts; consistency is the repository's job.
type Store interface {
	LoadUsers() ([]models.User, error)
	ReplaceUsers(users []models.User) error

	LoadJobs() ([]models.JobRequest, error)
	ReplaceJobs(jobs []models.JobRequest) error

	LoadProposals() ([]models.Proposal, error)
	ReplaceProposals(proposals []models.Proposal) error

	// AppendMessage appends one entry to a thread's log, creating the log on
	// first use. ReadThread returns entries in append order.
	AppendMessage(threadID string, msg models.ChatMessage) error
	ReadThread(threadID string) ([]models.ChatMessage, error)

	// ReplaceThread rewrites a whole thread log. Only used to persist an
	// offer resolution; ordinary writes go through AppendMessage.
	ReplaceThread(threadID string, msgs []models.ChatMessage) error

	ThreadIDs() ([]string, error)
}
