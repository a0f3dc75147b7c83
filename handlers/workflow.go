package handlers

import (
	"net/http"

	"servicebid/models"
	"servicebid/services/workflow"

	"github.com/gin-gonic/gin"
)

// AdvanceStatusHandler performs one pro-side workflow step (EN_ROUTE, ARRIVED
// or IN_PROGRESS).
func AdvanceStatusHandler(wf workflow.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status models.JobStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		msg, err := wf.Advance(c.Param("id"), req.Status)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}

// FinishJobHandler ends the work session and returns the appended receipt and
// invoice messages.
func FinishJobHandler(wf workflow.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		msgs, err := wf.FinishJob(c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": msgs})
	}
}

// SubmitRatingHandler records the client's review.
func SubmitRatingHandler(wf workflow.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Rating  int      `json:"rating"`
			Tags    []string `json:"tags"`
			Comment string   `json:"comment"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		msg, err := wf.SubmitRating(c.Param("id"), req.Rating, req.Tags, req.Comment)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}

// ConfirmPaymentHandler is the pro acknowledging payment.
func ConfirmPaymentHandler(wf workflow.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		msg, err := wf.ConfirmPayment(c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}

// CancelJobHandler ends the engagement from any non-terminal state.
func CancelJobHandler(wf workflow.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := wf.Cancel(c.Param("id")); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": string(models.StatusCancelled)})
	}
}

// ReopenJobHandler is the one-shot completed-job correction path.
func ReopenJobHandler(wf workflow.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := wf.Reopen(c.Param("id")); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": string(models.StatusInProgress)})
	}
}

// GetInvoiceHandler regenerates the invoice for a thread on demand.
func GetInvoiceHandler(wf workflow.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoice, err := wf.Invoice(c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, invoice)
	}
}
