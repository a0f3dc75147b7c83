package handlers

import (
	"errors"
	"net/http"

	"servicebid/database/repository"
	"servicebid/services/lifecycle"
	"servicebid/services/market"
	"servicebid/services/negotiation"
	"servicebid/services/workflow"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized is a 500.
func respondServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, market.ErrSessionNotFound),
		errors.Is(err, negotiation.ErrNotFoundInThread):
		status = http.StatusNotFound
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrTerminal),
		errors.Is(err, lifecycle.ErrAlreadyReopened),
		errors.Is(err, negotiation.ErrThreadClosed),
		errors.Is(err, negotiation.ErrOfferResolved),
		errors.Is(err, negotiation.ErrNotArmed),
		errors.Is(err, market.ErrSessionClosed):
		status = http.StatusConflict
	case errors.Is(err, lifecycle.ErrWrongActor):
		status = http.StatusForbidden
	case errors.Is(err, negotiation.ErrOfferFieldsRequired),
		errors.Is(err, negotiation.ErrNotOffer),
		errors.Is(err, negotiation.ErrOwnOffer),
		errors.Is(err, workflow.ErrInvalidRating):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
