package database

import (
	"sync"

	"servicebid/models"
)

// MemoryStore is an in-process Store used by the test suites. It keeps the
// same copy-on-read discipline as the real backends so tests catch aliasing
// bugs in the repository.
type MemoryStore struct {
	mu        sync.Mutex
	users     []models.User
	jobs      []models.JobRequest
	proposals []models.Proposal
	threads   map[string][]models.ChatMessage

	// Flushes counts ReplaceX calls, letting tests assert write-through.
	Flushes int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{threads: make(map[string][]models.ChatMessage)}
}

func (s *MemoryStore) LoadUsers() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...), nil
}

func (s *MemoryStore) ReplaceUsers(users []models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append([]models.User(nil), users...)
	s.Flushes++
	return nil
}

func (s *MemoryStore) LoadJobs() ([]models.JobRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.JobRequest(nil), s.jobs...), nil
}

func (s *MemoryStore) ReplaceJobs(jobs []models.JobRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append([]models.JobRequest(nil), jobs...)
	s.Flushes++
	return nil
}

func (s *MemoryStore) LoadProposals() ([]models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Proposal(nil), s.proposals...), nil
}

func (s *MemoryStore) ReplaceProposals(proposals []models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals = append([]models.Proposal(nil), proposals...)
	s.Flushes++
	return nil
}

func (s *MemoryStore) AppendMessage(threadID string, msg models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[threadID] = append(s.threads[threadID], msg)
	return nil
}

func (s *MemoryStore) ReadThread(threadID string) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage(nil), s.threads[threadID]...), nil
}

func (s *MemoryStore) ReplaceThread(threadID string, msgs []models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[threadID] = append([]models.ChatMessage(nil), msgs...)
	return nil
}

func (s *MemoryStore) ThreadIDs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.threads))
	for id := range s.threads {
		ids = append(ids, id)
	}
	return ids, nil
}
