package workflow

import (
	"errors"
	"fmt"
	"time"

	"servicebid/database/repository"
	"servicebid/models"
	"servicebid/services/billing"
	"servicebid/services/lifecycle"
	"servicebid/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultSessionWindow backfills the session length when a job reaches the
// end of work without a recorded start (malformed state, e.g. a legacy
// record).
const defaultSessionWindow = time.Hour

// ratingXP is the XP a pro earns per rated job.
const ratingXP = 100

var stepNarration = map[models.JobStatus]string{
	models.StatusEnRoute:    "Your pro is on the way.",
	models.StatusArrived:    "Your pro has arrived on site.",
	models.StatusInProgress: "Work has started.",
}

func systemMessage(text string) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.New().String(),
		SenderID:  models.SystemSenderID,
		Type:      models.MessageText,
		Text:      text,
		IsSystem:  true,
		Timestamp: time.Now(),
	}
}

func (c *DefaultController) Advance(threadID string, next models.JobStatus) (*models.ChatMessage, error) {
	narration, ok := stepNarration[next]
	if !ok {
		return nil, fmt.Errorf("%s: %w", next, lifecycle.ErrInvalidTransition)
	}
	if _, err := c.Engine.Advance(threadID, next, models.RolePro); err != nil {
		return nil, err
	}
	msg := systemMessage(narration)
	if err := c.Repo.AppendMessage(threadID, msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *DefaultController) FinishJob(threadID string) ([]models.ChatMessage, error) {
	job, err := c.Engine.Advance(threadID, models.StatusReviewPending, models.RolePro)
	if err != nil {
		return nil, err
	}
	prop, err := c.Repo.GetProposal(threadID)
	if err != nil {
		return nil, err
	}

	// Session window. The transition just stamped FinishedAt; a missing
	// start falls back to a one-hour window.
	end := time.Now()
	amount := prop.Price
	var start time.Time
	if job != nil {
		if job.FinishedAt != nil {
			end = *job.FinishedAt
		}
		amount = job.AgreedPrice()
	}
	if job != nil && job.StartedAt != nil {
		start = *job.StartedAt
	} else {
		start = end.Add(-defaultSessionWindow)
	}

	receipt := models.ChatMessage{
		ID:       uuid.New().String(),
		SenderID: models.SystemSenderID,
		Type:     models.MessageReceipt,
		Receipt: &models.ReceiptDetails{
			StartTime:   start,
			EndTime:     end,
			Duration:    formatDuration(end.Sub(start)),
			TotalAmount: amount,
		},
		Timestamp: time.Now(),
	}
	if err := c.Repo.AppendMessage(threadID, receipt); err != nil {
		return nil, err
	}

	invoice, err := c.buildInvoice(job, prop)
	if err != nil {
		return nil, err
	}
	invoiceMsg := models.ChatMessage{
		ID:        uuid.New().String(),
		SenderID:  models.SystemSenderID,
		Type:      models.MessageInvoice,
		Invoice:   invoice,
		Timestamp: time.Now(),
	}
	if err := c.Repo.AppendMessage(threadID, invoiceMsg); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("job finished",
		zap.String("threadId", threadID), zap.Float64("amount", amount))
	return []models.ChatMessage{receipt, invoiceMsg}, nil
}

func (c *DefaultController) SubmitRating(threadID string, rating int, tags []string, comment string) (*models.ChatMessage, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := c.Engine.Advance(threadID, models.StatusPaymentPending, models.RoleClient); err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Service rated %d/5.", rating)
	for _, tag := range tags {
		text += " #" + tag
	}
	if comment != "" {
		text += fmt.Sprintf(" \"%s\"", comment)
	}
	msg := systemMessage(text)
	if err := c.Repo.AppendMessage(threadID, msg); err != nil {
		return nil, err
	}

	c.creditPro(threadID, rating)
	return &msg, nil
}

// creditPro folds the rating into the pro's reputation. Reputation is a
// best-effort side effect; a missing pro record does not fail the rating.
func (c *DefaultController) creditPro(threadID string, rating int) {
	prop, err := c.Repo.GetProposal(threadID)
	if err != nil {
		return
	}
	pro, err := c.Repo.GetUser(prop.ProID)
	if err != nil {
		utils.GetLogger().Warn("pro missing for rating credit",
			zap.String("threadId", threadID), zap.String("proId", prop.ProID))
		return
	}
	total := pro.Rating*float64(pro.ReviewsCount) + float64(rating)
	pro.ReviewsCount++
	pro.Rating = total / float64(pro.ReviewsCount)
	pro.XP += ratingXP
	pro.Level = levelFor(pro.XP)
	if err := c.Repo.UpdateUser(pro); err != nil {
		utils.GetLogger().Warn("failed to update pro reputation", zap.Error(err))
	}
}

func levelFor(xp int) string {
	switch {
	case xp >= 5000:
		return "Master"
	case xp >= 2500:
		return "Expert"
	case xp >= 1000:
		return "Professional"
	default:
		return "Novice"
	}
}

func (c *DefaultController) ConfirmPayment(threadID string) (*models.ChatMessage, error) {
	if _, err := c.Engine.Advance(threadID, models.StatusCompleted, models.RolePro); err != nil {
		return nil, err
	}
	msg := systemMessage("Payment received. Job completed.")
	if err := c.Repo.AppendMessage(threadID, msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *DefaultController) Cancel(threadID string) error {
	if _, err := c.Engine.Cancel(threadID); err != nil {
		return err
	}
	return c.Repo.AppendMessage(threadID, systemMessage("The job was cancelled."))
}

func (c *DefaultController) Reopen(threadID string) error {
	if _, err := c.Engine.Reopen(threadID); err != nil {
		return err
	}
	return c.Repo.AppendMessage(threadID, systemMessage("The job was reopened for follow-up work."))
}

func (c *DefaultController) Invoice(threadID string) (*models.Invoice, error) {
	prop, err := c.Repo.GetProposal(threadID)
	if err != nil {
		return nil, err
	}
	job, err := c.Repo.GetJob(prop.JobID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return c.buildInvoice(job, prop)
}

// buildInvoice assembles the calculator inputs, degrading to the proposal's
// denormalized snapshot when linked records are missing.
func (c *DefaultController) buildInvoice(job *models.JobRequest, prop *models.Proposal) (*models.Invoice, error) {
	issuer := models.CompanyDetails{LegalName: prop.ProName}
	if pro, err := c.Repo.GetUser(prop.ProID); err == nil && pro.CompanyDetails != nil {
		issuer = *pro.CompanyDetails
	}

	clientName := "Client"
	billedJob := models.JobRequest{
		ID:          prop.JobID,
		Description: prop.Message,
		CreatedAt:   prop.CreatedAt,
	}
	amount := prop.Price
	if job != nil {
		billedJob = *job
		amount = job.AgreedPrice()
		if client, err := c.Repo.GetUser(job.ClientID); err == nil {
			clientName = client.FullName()
		}
	}

	invoice := billing.ComputeInvoice(issuer, clientName, billedJob, amount)
	return &invoice, nil
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	mins := int(d%time.Hour) / int(time.Minute)
	return fmt.Sprintf("%dh %02dm", hours, mins)
}
