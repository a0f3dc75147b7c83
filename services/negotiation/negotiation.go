package negotiation

import (
	"fmt"
	"time"

	"servicebid/models"
	"servicebid/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultService) ProposeOffer(threadID, senderID string, newPrice float64, reason string) (*models.ChatMessage, error) {
	if newPrice <= 0 || reason == "" {
		return nil, ErrOfferFieldsRequired
	}
	prop, err := s.Repo.GetProposal(threadID)
	if err != nil {
		return nil, err
	}
	status, err := s.Engine.Status(threadID)
	if err != nil {
		return nil, err
	}
	if status.Terminal() {
		return nil, fmt.Errorf("thread %s is %s: %w", threadID, status, ErrThreadClosed)
	}

	msg := models.ChatMessage{
		ID:       uuid.New().String(),
		SenderID: senderID,
		Type:     models.MessageOffer,
		Offer: &models.OfferDetails{
			OldPrice: prop.Price,
			NewPrice: newPrice,
			Reason:   reason,
			Status:   models.OfferPending,
		},
		Timestamp: time.Now(),
	}
	if err := s.Repo.AppendMessage(threadID, msg); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("offer proposed",
		zap.String("threadId", threadID),
		zap.Float64("oldPrice", prop.Price),
		zap.Float64("newPrice", newPrice))
	return &msg, nil
}

func (s *DefaultService) RespondToOffer(threadID, messageID, responderID string, accept bool) (*models.ChatMessage, error) {
	offer, err := s.findOffer(threadID, messageID)
	if err != nil {
		return nil, err
	}
	if offer.SenderID == responderID {
		return nil, ErrOwnOffer
	}
	if offer.Offer.Status != models.OfferPending {
		return nil, fmt.Errorf("offer %s is %s: %w", messageID, offer.Offer.Status, ErrOfferResolved)
	}

	if !accept {
		return s.Repo.UpdateMessage(threadID, messageID, func(m *models.ChatMessage) error {
			m.Offer.Status = models.OfferRejected
			return nil
		})
	}

	// Arm the confirmation step; the offer stays PENDING until confirmed.
	s.mu.Lock()
	s.armed[messageID] = responderID
	s.mu.Unlock()
	return offer, nil
}

func (s *DefaultService) ConfirmAcceptance(threadID, messageID string) (*models.ChatMessage, error) {
	offer, err := s.findOffer(threadID, messageID)
	if err != nil {
		return nil, err
	}

	switch offer.Offer.Status {
	case models.OfferAccepted:
		// Confirmed before; applying again would double-move the price.
		return offer, nil
	case models.OfferRejected:
		return nil, fmt.Errorf("offer %s: %w", messageID, ErrOfferResolved)
	}

	// A cancellation between arming and confirming closes the round; an armed
	// acceptance must never move the price of a terminal job.
	status, err := s.Engine.Status(threadID)
	if err != nil {
		return nil, err
	}
	if status.Terminal() {
		return nil, fmt.Errorf("thread %s is %s: %w", threadID, status, ErrThreadClosed)
	}

	s.mu.Lock()
	_, armed := s.armed[messageID]
	delete(s.armed, messageID)
	s.mu.Unlock()
	if !armed {
		return nil, fmt.Errorf("offer %s: %w", messageID, ErrNotArmed)
	}

	newPrice := offer.Offer.NewPrice
	updated, err := s.Repo.UpdateMessage(threadID, messageID, func(m *models.ChatMessage) error {
		m.Offer.Status = models.OfferAccepted
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Move the binding price. A still-negotiating job advances to CONFIRMED;
	// past that point only the price itself changes.
	if status == models.StatusOpen || status == models.StatusNegotiating {
		if _, err := s.Engine.Confirm(threadID, newPrice); err != nil {
			return nil, err
		}
	} else if err := s.applyPrice(threadID, newPrice); err != nil {
		return nil, err
	}

	announcement := models.ChatMessage{
		ID:        uuid.New().String(),
		SenderID:  models.SystemSenderID,
		Type:      models.MessageText,
		Text:      fmt.Sprintf("Price updated. New agreed total: € %.2f.", newPrice),
		IsSystem:  true,
		Timestamp: time.Now(),
	}
	if err := s.Repo.AppendMessage(threadID, announcement); err != nil {
		return nil, err
	}
	utils.GetLogger().Info("offer accepted",
		zap.String("threadId", threadID), zap.Float64("newPrice", newPrice))
	return updated, nil
}

// applyPrice moves the thread price and the job's final price outside the
// NEGOTIATING -> CONFIRMED hop.
func (s *DefaultService) applyPrice(threadID string, price float64) error {
	prop, err := s.Repo.GetProposal(threadID)
	if err != nil {
		return err
	}
	prop.Price = price
	job, err := s.Repo.GetJob(prop.JobID)
	if err != nil {
		// Missing linkage: keep the thread price moving regardless.
		return s.Repo.UpdateProposal(prop)
	}
	job.FinalPrice = price
	return s.Repo.UpdateJobAndProposal(job, prop)
}

func (s *DefaultService) ActionableOffer(threadID string) *models.ChatMessage {
	msgs := s.Repo.Thread(threadID)
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == models.MessageOffer && msgs[i].Offer.Status == models.OfferPending {
			msg := msgs[i]
			return &msg
		}
	}
	return nil
}

func (s *DefaultService) findOffer(threadID, messageID string) (*models.ChatMessage, error) {
	for _, msg := range s.Repo.Thread(threadID) {
		if msg.ID == messageID {
			if msg.Type != models.MessageOffer || msg.Offer == nil {
				return nil, fmt.Errorf("message %s: %w", messageID, ErrNotOffer)
			}
			m := msg
			return &m, nil
		}
	}
	return nil, fmt.Errorf("message %s in thread %s: %w", messageID, threadID, ErrNotFoundInThread)
}
