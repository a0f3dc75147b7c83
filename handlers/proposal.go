package handlers

import (
	"fmt"
	"net/http"
	"time"

	"servicebid/database/repository"
	"servicebid/models"
	"servicebid/services/lifecycle"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type createProposalRequest struct {
	JobID         string  `json:"jobId" binding:"required"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Message       string  `json:"message" binding:"required"`
	EstimatedTime string  `json:"estimatedTime"`
	Distance      string  `json:"distance"`
}

// CreateProposalHandler places a pro's bid on a job. The pro identity fields
// are snapshotted onto the proposal at creation.
func CreateProposalHandler(repo repository.EntityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProposalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		pro, err := repo.GetUser(c.GetString("userID"))
		if err != nil {
			respondServiceError(c, err)
			return
		}

		if job, err := repo.GetJob(req.JobID); err == nil {
			if job.Status != models.StatusOpen && job.Status != models.StatusNegotiating {
				c.JSON(http.StatusConflict, gin.H{"error": "Job is no longer accepting proposals"})
				return
			}
		}

		proposal := models.Proposal{
			ID:            uuid.New().String(),
			JobID:         req.JobID,
			ProID:         pro.ID,
			ProName:       pro.FullName(),
			ProAvatar:     pro.Avatar,
			ProLevel:      pro.Level,
			ProRating:     pro.Rating,
			Price:         req.Price,
			Message:       req.Message,
			EstimatedTime: req.EstimatedTime,
			Distance:      req.Distance,
			Status:        models.StatusNegotiating,
			CreatedAt:     time.Now(),
		}
		if err := repo.CreateProposal(&proposal); err != nil {
			respondServiceError(c, err)
			return
		}

		// The proposal opens its chat thread with the pro's pitch.
		opening := models.ChatMessage{
			ID:        uuid.New().String(),
			SenderID:  pro.ID,
			Type:      models.MessageText,
			Text:      req.Message,
			Timestamp: time.Now(),
		}
		if err := repo.AppendMessage(proposal.ID, opening); err != nil {
			getLogger(c).Warn("Failed to open proposal thread", zap.Error(err))
		}

		getLogger(c).Info("Proposal created",
			zap.String("proposalId", proposal.ID),
			zap.String("jobId", req.JobID),
			zap.Float64("price", req.Price))
		c.JSON(http.StatusCreated, proposal)
	}
}

// ListJobProposalsHandler lists the bids on one job, newest first.
func ListJobProposalsHandler(repo repository.EntityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, repo.ListProposalsByJob(c.Param("id")))
	}
}

// AcceptProposalHandler is the client's quick accept: the proposal's current
// price becomes binding and the job moves to CONFIRMED without a negotiation
// round.
func AcceptProposalHandler(repo repository.EntityRepository, engine lifecycle.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		proposalID := c.Param("id")
		prop, err := repo.GetProposal(proposalID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if _, err := engine.AcceptProposal(proposalID); err != nil {
			respondServiceError(c, err)
			return
		}

		note := models.ChatMessage{
			ID:        uuid.New().String(),
			SenderID:  models.SystemSenderID,
			Type:      models.MessageText,
			Text:      fmt.Sprintf("Proposal accepted. Agreed total: € %.2f.", prop.Price),
			IsSystem:  true,
			Timestamp: time.Now(),
		}
		if err := repo.AppendMessage(proposalID, note); err != nil {
			getLogger(c).Warn("Failed to append acceptance note", zap.Error(err))
		}

		updated, err := repo.GetProposal(proposalID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
