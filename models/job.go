package models

import "time"

// JobRequest is a client's service request. Jobs are never deleted; they end
// as COMPLETED or CANCELLED and stay on record for reporting.
type JobRequest struct {
	ID            string    `bson:"id" json:"id"`
	ClientID      string    `bson:"clientId" json:"clientId"`
	Category      Category  `bson:"category" json:"category"`
	Title         string    `bson:"title,omitempty" json:"title,omitempty"`
	Description   string    `bson:"description" json:"description"`
	Photos        []string  `bson:"photos,omitempty" json:"photos,omitempty"`
	Location      string    `bson:"location" json:"location"`
	Urgency       Urgency   `bson:"urgency" json:"urgency"`
	ScheduledDate string    `bson:"scheduledDate,omitempty" json:"scheduledDate,omitempty"` // YYYY-MM-DD
	SuggestedPrice float64  `bson:"suggestedPrice,omitempty" json:"suggestedPrice,omitempty"`

	// FinalPrice is set exactly when the job reaches CONFIRMED and may only
	// change through the negotiation protocol afterwards.
	FinalPrice float64   `bson:"finalPrice,omitempty" json:"finalPrice,omitempty"`
	Status     JobStatus `bson:"status" json:"status"`

	// AcceptedProposalID links the job to the one proposal that became the
	// engagement once the job left OPEN.
	AcceptedProposalID string `bson:"acceptedProposalId,omitempty" json:"acceptedProposalId,omitempty"`

	ProposalsCount int `bson:"proposalsCount,omitempty" json:"proposalsCount,omitempty"`

	// Reopened marks that the one-shot COMPLETED -> IN_PROGRESS correction
	// path has already been used.
	Reopened bool `bson:"reopened,omitempty" json:"reopened,omitempty"`

	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	StartedAt  *time.Time `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	FinishedAt *time.Time `bson:"finishedAt,omitempty" json:"finishedAt,omitempty"`

	Distance string `bson:"distance,omitempty" json:"distance,omitempty"`
}

// AgreedPrice returns the binding price when one exists, else the client's
// suggested budget. Reporting over legacy records uses the same fallback.
func (j JobRequest) AgreedPrice() float64 {
	if j.FinalPrice > 0 {
		return j.FinalPrice
	}
	return j.SuggestedPrice
}
