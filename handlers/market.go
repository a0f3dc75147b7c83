package handlers

import (
	"net/http"

	"servicebid/services/market"

	"github.com/gin-gonic/gin"
)

// OpenMarketHandler starts a live market session for a job posting.
func OpenMarketHandler(sim market.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			JobID       string  `json:"jobId" binding:"required"`
			TargetPrice float64 `json:"targetPrice" binding:"required,gt=0"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		session, err := sim.Open(req.JobID, req.TargetPrice)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, session)
	}
}

// MarketSnapshotHandler returns the current session state.
func MarketSnapshotHandler(sim market.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := sim.Snapshot(c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// PauseMarketHandler freezes bid generation and the countdown together.
func PauseMarketHandler(sim market.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sim.Pause(c.Param("id")); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "paused"})
	}
}

// ResumeMarketHandler continues a paused session.
func ResumeMarketHandler(sim market.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sim.Resume(c.Param("id")); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "running"})
	}
}

// CloseMarketHandler ends a session early.
func CloseMarketHandler(sim market.Simulator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sim.Close(c.Param("id")); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "closed"})
	}
}
