package models

import "time"

// Proposal is one pro's bid against a job. The pro identity fields are a
// snapshot taken at bid time so the chat stays renderable even when the
// linked records are missing; they are not kept in sync with the user record.
type Proposal struct {
	ID    string `bson:"id" json:"id"`
	JobID string `bson:"jobId" json:"jobId"`
	ProID string `bson:"proId" json:"proId"`

	ProName   string  `bson:"proName" json:"proName"`
	ProAvatar string  `bson:"proAvatar" json:"proAvatar"`
	ProLevel  string  `bson:"proLevel" json:"proLevel"`
	ProRating float64 `bson:"proRating" json:"proRating"`

	// Price is the thread's current price. It starts as the bid amount and
	// only moves through the negotiation protocol's confirmed-offer path.
	Price         float64 `bson:"price" json:"price"`
	Message       string  `bson:"message" json:"message"`
	EstimatedTime string  `bson:"estimatedTime,omitempty" json:"estimatedTime,omitempty"`
	Distance      string  `bson:"distance,omitempty" json:"distance,omitempty"`

	// Status mirrors the job's status for the chat view. The job record is
	// authoritative; this is a best-effort cache refreshed on every
	// lifecycle transition and only read when the job cannot be loaded.
	Status JobStatus `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
