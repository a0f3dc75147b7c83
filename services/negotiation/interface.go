package negotiation

import (
	"sync"

	"servicebid/database/repository"
	"servicebid/models"
	"servicebid/services/lifecycle"
)

// Service manages the price-offer exchange embedded in a chat thread.
// Accepting is deliberately a two-step operation: RespondToOffer(accept)
// only arms the change, ConfirmAcceptance commits it. Accepting moves a
// binding price, so the caller gets one explicit "are you sure" round trip.
type Service interface {
	// ProposeOffer appends a PENDING offer_update message carrying the old
	// and proposed price. Valid while the engagement is not terminal.
	ProposeOffer(threadID, senderID string, newPrice float64, reason string) (*models.ChatMessage, error)

	// RespondToOffer is called by the receiving party (never the author).
	// Reject resolves the offer immediately; accept arms the confirmation
	// step and leaves the offer PENDING.
	RespondToOffer(threadID, messageID, responderID string, accept bool) (*models.ChatMessage, error)

	// ConfirmAcceptance commits an armed acceptance: the offer becomes
	// ACCEPTED, the thread price and the job's final price move, a
	// still-negotiating job advances to CONFIRMED and a system message
	// announces the agreed price. Confirming an already accepted offer is a
	// no-op returning the resolved message.
	ConfirmAcceptance(threadID, messageID string) (*models.ChatMessage, error)

	// ActionableOffer returns the most recent unresolved offer in a thread,
	// or nil. Older pending offers stay in the log but are not actionable.
	ActionableOffer(threadID string) *models.ChatMessage
}

// DefaultService implements Service.
type DefaultService struct {
	Repo   repository.EntityRepository
	Engine lifecycle.Engine

	// armed tracks offers whose acceptance awaits confirmation, keyed by
	// message ID. Transient by design: an unconfirmed acceptance does not
	// survive a restart, the offer simply stays PENDING.
	mu    sync.Mutex
	armed map[string]string // messageID -> responderID
}

// NewDefaultService wires a negotiation service.
func NewDefaultService(repo repository.EntityRepository, engine lifecycle.Engine) *DefaultService {
	return &DefaultService{
		Repo:   repo,
		Engine: engine,
		armed:  make(map[string]string),
	}
}
