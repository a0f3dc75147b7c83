package handlers

import (
	"net/http"

	"servicebid/database/repository"
	"servicebid/models"

	"github.com/gin-gonic/gin"
)

// GetUserHandler returns a user's public profile.
func GetUserHandler(repo repository.EntityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := repo.GetUser(c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateAutoReplyHandler sets the caller's auto-reply configuration.
// Pro accounts only.
func UpdateAutoReplyHandler(repo repository.EntityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cfg models.AutoReplyConfig
		if err := c.ShouldBindJSON(&cfg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		if cfg.Template == models.AutoReplyTemplateCustom && cfg.CustomText == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Custom template requires customText"})
			return
		}

		user, err := repo.GetUser(c.GetString("userID"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		user.AutoReply = &cfg
		if err := repo.UpdateUser(user); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateCompanyHandler sets the caller's invoicing identity. Pro accounts only.
func UpdateCompanyHandler(repo repository.EntityRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var details models.CompanyDetails
		if err := c.ShouldBindJSON(&details); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
		if details.LegalName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "legalName is required"})
			return
		}

		user, err := repo.GetUser(c.GetString("userID"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		user.CompanyDetails = &details
		if err := repo.UpdateUser(user); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
