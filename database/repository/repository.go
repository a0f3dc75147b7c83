package repository

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"servicebid/database"
	"servicebid/models"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// EntityRepository is the single mutable source of truth for users, jobs,
// proposals and chat threads. Every component mutates through it, never
// through private copies; every mutation is flushed write-through to the
// persistence store before the call returns.
type EntityRepository interface {
	GetUser(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
	ListUsers() []models.User

	GetJob(id string) (*models.JobRequest, error)
	CreateJob(job *models.JobRequest) error
	UpdateJob(job *models.JobRequest) error
	ListJobs() []models.JobRequest
	ListJobsByClient(clientID string) []models.JobRequest
	ListJobsByPro(proID string) []models.JobRequest

	GetProposal(id string) (*models.Proposal, error)
	// CreateProposal also increments the job's proposal counter and, when the
	// job is still OPEN, advances it to NEGOTIATING, all in one flush.
	CreateProposal(proposal *models.Proposal) error
	UpdateProposal(proposal *models.Proposal) error
	ListProposalsByJob(jobID string) []models.Proposal
	ListProposalsByPro(proID string) []models.Proposal

	// UpdateJobAndProposal applies a paired job + proposal update in one
	// critical section so callers never observe the two disagreeing.
	UpdateJobAndProposal(job *models.JobRequest, proposal *models.Proposal) error

	AppendMessage(threadID string, msg models.ChatMessage) error
	// UpdateMessage mutates one message in place (offer resolution only) and
	// rewrites the thread log.
	UpdateMessage(threadID, messageID string, mutate func(*models.ChatMessage) error) (*models.ChatMessage, error)
	Thread(threadID string) []models.ChatMessage
	ThreadIDs() []string
}

// StoreBackedRepo implements EntityRepository over a database.Store with an
// in-memory authoritative copy. A single mutex serializes all access; the
// core is event-driven, so contention is not a concern.
type StoreBackedRepo struct {
	mu    sync.Mutex
	store database.Store

	users     map[string]models.User
	jobs      map[string]models.JobRequest
	proposals map[string]models.Proposal
	chats     map[string][]models.ChatMessage
}

// NewStoreBackedRepo loads the persisted snapshot into memory.
func NewStoreBackedRepo(store database.Store) (*StoreBackedRepo, error) {
	repo := &StoreBackedRepo{
		store:     store,
		users:     make(map[string]models.User),
		jobs:      make(map[string]models.JobRequest),
		proposals: make(map[string]models.Proposal),
		chats:     make(map[string][]models.ChatMessage),
	}

	users, err := store.LoadUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		repo.users[u.ID] = u
	}

	jobs, err := store.LoadJobs()
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}
	for _, j := range jobs {
		repo.jobs[j.ID] = j
	}

	proposals, err := store.LoadProposals()
	if err != nil {
		return nil, fmt.Errorf("failed to load proposals: %w", err)
	}
	for _, p := range proposals {
		repo.proposals[p.ID] = p
	}

	threadIDs, err := store.ThreadIDs()
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	for _, id := range threadIDs {
		msgs, err := store.ReadThread(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load thread %s: %w", id, err)
		}
		repo.chats[id] = msgs
	}

	return repo, nil
}

// --- Users ---

func (r *StoreBackedRepo) GetUser(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return &u, nil
}

func (r *StoreBackedRepo) GetUserByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

func (r *StoreBackedRepo) CreateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; exists {
		return fmt.Errorf("user %s already exists", user.ID)
	}
	r.users[user.ID] = *user
	return r.flushUsers()
}

func (r *StoreBackedRepo) UpdateUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user %s: %w", user.ID, ErrNotFound)
	}
	r.users[user.ID] = *user
	return r.flushUsers()
}

func (r *StoreBackedRepo) ListUsers() []models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// --- Jobs ---

func (r *StoreBackedRepo) GetJob(id string) (*models.JobRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return &j, nil
}

func (r *StoreBackedRepo) CreateJob(job *models.JobRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	r.jobs[job.ID] = *job
	return r.flushJobs()
}

func (r *StoreBackedRepo) UpdateJob(job *models.JobRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return fmt.Errorf("job %s: %w", job.ID, ErrNotFound)
	}
	r.jobs[job.ID] = *job
	return r.flushJobs()
}

func (r *StoreBackedRepo) ListJobs() []models.JobRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedJobs(func(models.JobRequest) bool { return true })
}

func (r *StoreBackedRepo) ListJobsByClient(clientID string) []models.JobRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedJobs(func(j models.JobRequest) bool { return j.ClientID == clientID })
}

func (r *StoreBackedRepo) ListJobsByPro(proID string) []models.JobRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedJobs(func(j models.JobRequest) bool {
		if j.AcceptedProposalID == "" {
			return false
		}
		p, ok := r.proposals[j.AcceptedProposalID]
		return ok && p.ProID == proID
	})
}

func (r *StoreBackedRepo) sortedJobs(keep func(models.JobRequest) bool) []models.JobRequest {
	out := make([]models.JobRequest, 0, len(r.jobs))
	for _, j := range r.jobs {
		if keep(j) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// --- Proposals ---

func (r *StoreBackedRepo) GetProposal(id string) (*models.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.proposals[id]
	if !ok {
		return nil, fmt.Errorf("proposal %s: %w", id, ErrNotFound)
	}
	return &p, nil
}

func (r *StoreBackedRepo) CreateProposal(proposal *models.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.proposals[proposal.ID]; exists {
		return fmt.Errorf("proposal %s already exists", proposal.ID)
	}
	r.proposals[proposal.ID] = *proposal

	// The proposal counter and the OPEN -> NEGOTIATING hop move with the
	// proposal itself; a missing job is tolerated (the chat keeps working
	// off the proposal snapshot).
	if job, ok := r.jobs[proposal.JobID]; ok {
		job.ProposalsCount++
		if job.Status == models.StatusOpen {
			job.Status = models.StatusNegotiating
		}
		r.jobs[proposal.JobID] = job
		if err := r.flushJobs(); err != nil {
			return err
		}
	}
	return r.flushProposals()
}

func (r *StoreBackedRepo) UpdateProposal(proposal *models.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.proposals[proposal.ID]; !ok {
		return fmt.Errorf("proposal %s: %w", proposal.ID, ErrNotFound)
	}
	r.proposals[proposal.ID] = *proposal
	return r.flushProposals()
}

func (r *StoreBackedRepo) ListProposalsByJob(jobID string) []models.Proposal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedProposals(func(p models.Proposal) bool { return p.JobID == jobID })
}

func (r *StoreBackedRepo) ListProposalsByPro(proID string) []models.Proposal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedProposals(func(p models.Proposal) bool { return p.ProID == proID })
}

func (r *StoreBackedRepo) sortedProposals(keep func(models.Proposal) bool) []models.Proposal {
	out := make([]models.Proposal, 0, len(r.proposals))
	for _, p := range r.proposals {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *StoreBackedRepo) UpdateJobAndProposal(job *models.JobRequest, proposal *models.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job != nil {
		if _, ok := r.jobs[job.ID]; !ok {
			return fmt.Errorf("job %s: %w", job.ID, ErrNotFound)
		}
		r.jobs[job.ID] = *job
	}
	if proposal != nil {
		if _, ok := r.proposals[proposal.ID]; !ok {
			return fmt.Errorf("proposal %s: %w", proposal.ID, ErrNotFound)
		}
		r.proposals[proposal.ID] = *proposal
	}
	if job != nil {
		if err := r.flushJobs(); err != nil {
			return err
		}
	}
	if proposal != nil {
		return r.flushProposals()
	}
	return nil
}

// --- Chat threads ---

func (r *StoreBackedRepo) AppendMessage(threadID string, msg models.ChatMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats[threadID] = append(r.chats[threadID], msg)
	return r.store.AppendMessage(threadID, msg)
}

func (r *StoreBackedRepo) UpdateMessage(threadID, messageID string, mutate func(*models.ChatMessage) error) (*models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs, ok := r.chats[threadID]
	if !ok {
		return nil, fmt.Errorf("thread %s: %w", threadID, ErrNotFound)
	}
	for i := range msgs {
		if msgs[i].ID != messageID {
			continue
		}
		if err := mutate(&msgs[i]); err != nil {
			return nil, err
		}
		r.chats[threadID] = msgs
		if err := r.store.ReplaceThread(threadID, msgs); err != nil {
			return nil, err
		}
		updated := msgs[i]
		return &updated, nil
	}
	return nil, fmt.Errorf("message %s in thread %s: %w", messageID, threadID, ErrNotFound)
}

func (r *StoreBackedRepo) Thread(threadID string) []models.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ChatMessage(nil), r.chats[threadID]...)
}

func (r *StoreBackedRepo) ThreadIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.chats))
	for id := range r.chats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// --- Flush helpers (called with the lock held) ---

func (r *StoreBackedRepo) flushUsers() error {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return r.store.ReplaceUsers(out)
}

func (r *StoreBackedRepo) flushJobs() error {
	out := make([]models.JobRequest, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return r.store.ReplaceJobs(out)
}

func (r *StoreBackedRepo) flushProposals() error {
	out := make([]models.Proposal, 0, len(r.proposals))
	for _, p := range r.proposals {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return r.store.ReplaceProposals(out)
}
