package workflow

import (
	"errors"

	"servicebid/database/repository"
	"servicebid/models"
	"servicebid/services/lifecycle"
)

// ErrInvalidRating blocks a rating submission outside 1..5. A zero rating
// means the client never picked a star count; the submission is refused at
// the point of entry, it is not an exception.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Controller drives the pro's on-site sequence and the client's
// post-work confirmation, narrating every step into the chat thread and
// producing the derived receipt and invoice artifacts.
type Controller interface {
	// Advance performs one pro-side step: EN_ROUTE, ARRIVED or IN_PROGRESS.
	// Finishing goes through FinishJob instead.
	Advance(threadID string, next models.JobStatus) (*models.ChatMessage, error)

	// FinishJob ends the work session: IN_PROGRESS -> REVIEW_PENDING, a
	// receipt message and an invoice message appended in that order.
	FinishJob(threadID string) ([]models.ChatMessage, error)

	// SubmitRating records the client's star rating (required) with optional
	// tags and comment: REVIEW_PENDING -> PAYMENT_PENDING.
	SubmitRating(threadID string, rating int, tags []string, comment string) (*models.ChatMessage, error)

	// ConfirmPayment is the pro acknowledging payment:
	// PAYMENT_PENDING -> COMPLETED.
	ConfirmPayment(threadID string) (*models.ChatMessage, error)

	// Cancel ends the engagement from any non-terminal state.
	Cancel(threadID string) error

	// Reopen is the one-shot COMPLETED -> IN_PROGRESS correction path.
	Reopen(threadID string) error

	// Invoice regenerates the invoice for a thread on demand (preview,
	// download). Pure recomputation from current job + user data.
	Invoice(threadID string) (*models.Invoice, error)
}

// DefaultController implements Controller.
type DefaultController struct {
	Repo   repository.EntityRepository
	Engine lifecycle.Engine
}
