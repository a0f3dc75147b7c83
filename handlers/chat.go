package handlers

import (
	"net/http"
	"time"

	"servicebid/database/repository"
	"servicebid/models"
	"servicebid/services/autoreply"
	"servicebid/services/lifecycle"
	"servicebid/services/negotiation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListThreadsHandler returns the caller's chat threads: for a pro every
// proposal they sent, for a client every proposal on one of their jobs. Each
// entry carries the proposal snapshot, the live status and the last message.
func ListThreadsHandler(repo repository.EntityRepository, engine lifecycle.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")

		var proposals []models.Proposal
		if c.GetString("userRole") == string(models.RolePro) {
			proposals = repo.ListProposalsByPro(userID)
		} else {
			for _, job := range repo.ListJobsByClient(userID) {
				proposals = append(proposals, repo.ListProposalsByJob(job.ID)...)
			}
		}

		threads := make([]gin.H, 0, len(proposals))
		for _, prop := range proposals {
			status, err := engine.Status(prop.ID)
			if err != nil {
				status = prop.Status
			}
			entry := gin.H{"proposal": prop, "status": status}
			if msgs := repo.Thread(prop.ID); len(msgs) > 0 {
				entry["lastMessage"] = msgs[len(msgs)-1]
			}
			threads = append(threads, entry)
		}
		c.JSON(http.StatusOK, gin.H{"threads": threads})
	}
}

// threadParticipant reports whether userID is the thread's pro or the client
// who posted the underlying job.
func threadParticipant(repo repository.EntityRepository, prop *models.Proposal, userID string) bool {
	if prop.ProID == userID {
		return true
	}
	job, err := repo.GetJob(prop.JobID)
	return err == nil && job.ClientID == userID
}

// GetThreadHandler returns the full message log plus the thread's current
// status and the actionable offer, if any.
func GetThreadHandler(repo repository.EntityRepository, engine lifecycle.Engine, negSvc negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		threadID := c.Param("id")
		prop, err := repo.GetProposal(threadID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if !threadParticipant(repo, prop, c.GetString("userID")) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant in this conversation"})
			return
		}

		status, err := engine.Status(threadID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"messages":        repo.Thread(threadID),
			"status":          status,
			"actionableOffer": negSvc.ActionableOffer(threadID),
		})
	}
}

// SendMessageHandler appends a plain text message. A client message on an
// active thread may trigger the pro's auto-reply bot.
func SendMessageHandler(repo repository.EntityRepository, bot autoreply.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Text string `json:"text" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		threadID := c.Param("id")
		prop, err := repo.GetProposal(threadID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if !threadParticipant(repo, prop, c.GetString("userID")) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a participant in this conversation"})
			return
		}

		msg := models.ChatMessage{
			ID:        uuid.New().String(),
			SenderID:  c.GetString("userID"),
			Type:      models.MessageText,
			Text:      req.Text,
			Timestamp: time.Now(),
		}
		if err := repo.AppendMessage(threadID, msg); err != nil {
			respondServiceError(c, err)
			return
		}

		if c.GetString("userRole") == string(models.RoleClient) {
			if err := bot.NotifyClientMessage(threadID, msg); err != nil {
				getLogger(c).Warn("Auto-reply scheduling failed",
					zap.String("threadId", threadID), zap.Error(err))
			}
		}
		c.JSON(http.StatusCreated, msg)
	}
}

// ProposeOfferHandler opens a price-change round on the thread.
func ProposeOfferHandler(negSvc negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			NewPrice float64 `json:"newPrice"`
			Reason   string  `json:"reason"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		msg, err := negSvc.ProposeOffer(c.Param("id"), c.GetString("userID"), req.NewPrice, req.Reason)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}

// RespondOfferHandler rejects an offer outright or arms its acceptance.
func RespondOfferHandler(negSvc negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			MessageID string `json:"messageId" binding:"required"`
			Accept    bool   `json:"accept"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		msg, err := negSvc.RespondToOffer(c.Param("id"), req.MessageID, c.GetString("userID"), req.Accept)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}

// ConfirmOfferHandler commits an armed acceptance.
func ConfirmOfferHandler(negSvc negotiation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			MessageID string `json:"messageId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		msg, err := negSvc.ConfirmAcceptance(c.Param("id"), req.MessageID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}
