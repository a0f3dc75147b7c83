package lifecycle

import (
	"servicebid/database/repository"
	"servicebid/models"
)

// Engine owns the JobStatus state machine. Every operation is keyed by the
// engagement thread (proposal ID); the job and its proposal mirror are
// updated together so callers never observe them disagreeing.
type Engine interface {
	// AcceptProposal is the client's outright accept: the job leaves
	// NEGOTIATING (or OPEN, for a direct accept-and-chat) for CONFIRMED at
	// the proposal's current price, and the proposal becomes the engagement.
	AcceptProposal(proposalID string) (*models.JobRequest, error)

	// Confirm moves a still-negotiating job to CONFIRMED at the given agreed
	// price. Used by the negotiation protocol's offer-acceptance path.
	Confirm(proposalID string, price float64) (*models.JobRequest, error)

	// Advance performs one sequential step of the on-site workflow
	// (CONFIRMED -> EN_ROUTE -> ARRIVED -> IN_PROGRESS -> REVIEW_PENDING ->
	// PAYMENT_PENDING -> COMPLETED). Skipping a step is a caller error.
	Advance(proposalID string, next models.JobStatus, actor models.Role) (*models.JobRequest, error)

	// Cancel ends the job from any non-terminal state.
	Cancel(proposalID string) (*models.JobRequest, error)

	// Reopen is the one-shot COMPLETED -> IN_PROGRESS correction path.
	Reopen(proposalID string) (*models.JobRequest, error)

	// Status reports the authoritative status for a thread, falling back to
	// the proposal's mirror when the job record is missing.
	Status(proposalID string) (models.JobStatus, error)
}

// DefaultEngine implements Engine over the entity repository.
type DefaultEngine struct {
	Repo repository.EntityRepository
}
