package handlers

import (
	"net/http"
	"time"

	"servicebid/database/repository"
	"servicebid/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type createJobRequest struct {
	Category       models.Category `json:"category" binding:"required"`
	Title          string          `json:"title"`
	Description    string          `json:"description" binding:"required"`
	Photos         []string        `json:"photos"`
	Location       string          `json:"location" binding:"required"`
	Urgency        models.Urgency  `json:"urgency" binding:"required"`
	ScheduledDate  string          `json:"scheduledDate"`
	SuggestedPrice float64         `json:"suggestedPrice"`
}

// CreateJobHandler posts a new service request. Caller must be a client.
func CreateJobHandler(repo repository.EntityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createJobRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		if req.Urgency == models.UrgencySpecificDate && req.ScheduledDate == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "scheduledDate is required for SPECIFIC_DATE urgency"})
			return
		}

		job := models.JobRequest{
			ID:             uuid.New().String(),
			ClientID:       c.GetString("userID"),
			Category:       req.Category,
			Title:          req.Title,
			Description:    req.Description,
			Photos:         req.Photos,
			Location:       req.Location,
			Urgency:        req.Urgency,
			ScheduledDate:  req.ScheduledDate,
			SuggestedPrice: req.SuggestedPrice,
			Status:         models.StatusOpen,
			CreatedAt:      time.Now(),
		}
		if err := repo.CreateJob(&job); err != nil {
			respondServiceError(c, err)
			return
		}
		getLogger(c).Info("Job created",
			zap.String("jobId", job.ID), zap.String("clientId", job.ClientID))
		c.JSON(http.StatusCreated, job)
	}
}

// ListJobsHandler lists jobs, newest first. Filters: ?clientId=, ?proId=,
// ?status=. proId matches jobs whose accepted proposal belongs to that pro.
func ListJobsHandler(repo repository.EntityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var jobs []models.JobRequest
		switch {
		case c.Query("clientId") != "":
			jobs = repo.ListJobsByClient(c.Query("clientId"))
		case c.Query("proId") != "":
			jobs = repo.ListJobsByPro(c.Query("proId"))
		default:
			jobs = repo.ListJobs()
		}

		if status := c.Query("status"); status != "" {
			filtered := jobs[:0]
			for _, j := range jobs {
				if j.Status == models.JobStatus(status) {
					filtered = append(filtered, j)
				}
			}
			jobs = filtered
		}
		c.JSON(http.StatusOK, jobs)
	}
}

// GetJobHandler returns one job.
func GetJobHandler(repo repository.EntityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, err := repo.GetJob(c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, job)
	}
}
