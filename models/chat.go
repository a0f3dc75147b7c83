package models

import (
	"fmt"
	"time"
)

// SystemSenderID authors the messages the backend synthesizes to narrate
// lifecycle transitions. System messages are never edited after creation.
const SystemSenderID = "system"

// MessageType discriminates the chat message payload.
type MessageType string

const (
	MessageText    MessageType = "text"
	MessageOffer   MessageType = "offer_update"
	MessageReceipt MessageType = "receipt"
	MessageInvoice MessageType = "invoice"
)

// OfferStatus is the resolution state of one negotiation round.
type OfferStatus string

const (
	OfferPending  OfferStatus = "PENDING"
	OfferAccepted OfferStatus = "ACCEPTED"
	OfferRejected OfferStatus = "REJECTED"
)

// OfferDetails models one price-change round inside a thread. Once the status
// leaves PENDING the whole message is frozen and kept for history only.
type OfferDetails struct {
	OldPrice float64     `bson:"oldPrice" json:"oldPrice"`
	NewPrice float64     `bson:"newPrice" json:"newPrice"`
	Reason   string      `bson:"reason" json:"reason"`
	Status   OfferStatus `bson:"status" json:"status"`
}

// ReceiptDetails summarizes a finished work session.
type ReceiptDetails struct {
	StartTime   time.Time `bson:"startTime" json:"startTime"`
	EndTime     time.Time `bson:"endTime" json:"endTime"`
	Duration    string    `bson:"duration" json:"duration"` // e.g. "1h 25m"
	TotalAmount float64   `bson:"totalAmount" json:"totalAmount"`
}

// ChatMessage is one entry in a per-engagement log keyed by proposal ID.
// The log is append-only and ordered by creation; only the offer resolution
// status may change after a message is written.
type ChatMessage struct {
	ID        string      `bson:"id" json:"id"`
	SenderID  string      `bson:"senderId" json:"senderId"`
	Type      MessageType `bson:"type" json:"type"`
	Text      string      `bson:"text,omitempty" json:"text,omitempty"`
	IsSystem  bool        `bson:"isSystem,omitempty" json:"isSystem,omitempty"`
	Automated bool        `bson:"automated,omitempty" json:"automated,omitempty"`

	Offer   *OfferDetails   `bson:"offer,omitempty" json:"offer,omitempty"`
	Receipt *ReceiptDetails `bson:"receipt,omitempty" json:"receipt,omitempty"`
	Invoice *Invoice        `bson:"invoice,omitempty" json:"invoice,omitempty"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Validate checks that the payload matches the declared type.
func (m ChatMessage) Validate() error {
	switch m.Type {
	case MessageText:
		if m.Text == "" {
			return fmt.Errorf("text message %s has no text", m.ID)
		}
	case MessageOffer:
		if m.Offer == nil {
			return fmt.Errorf("offer message %s has no offer details", m.ID)
		}
	case MessageReceipt:
		if m.Receipt == nil {
			return fmt.Errorf("receipt message %s has no receipt details", m.ID)
		}
	case MessageInvoice:
		if m.Invoice == nil {
			return fmt.Errorf("invoice message %s has no invoice", m.ID)
		}
	default:
		return fmt.Errorf("message %s has unknown type %q", m.ID, m.Type)
	}
	return nil
}
