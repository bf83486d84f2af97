package api

import (
	"errors"
	"net/http"

	"booking-core/internal/handler/httperr"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// abortUseCaseError maps usecase sentinels onto the HTTP error taxonomy.
// Anything unrecognized is a 500; the original error rides along on the gin
// error stack for the log middleware.
func abortUseCaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBookingNotFound),
		errors.Is(err, queries.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, commands.ErrServiceNotFound),
		errors.Is(err, queries.ErrServiceNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Service not found", nil)
	case errors.Is(err, queries.ErrPricingOptionNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Pricing option not found", nil)
	case errors.Is(err, queries.ErrAccessDenied),
		errors.Is(err, commands.ErrActorNotAllowed):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Not allowed for this booking", nil)
	case errors.Is(err, commands.ErrBookingConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Time window conflicts with a confirmed booking", nil)
	case errors.Is(err, commands.ErrVersionConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking was modified concurrently, retry", nil)
	case errors.Is(err, commands.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Transition not allowed from current status", nil)
	case errors.Is(err, commands.ErrServiceInactive):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Service is not accepting bookings", nil)
	case errors.Is(err, commands.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Validation failed", nil)
	case errors.Is(err, queries.ErrInvalidInterval):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Interval end must be after start", nil)
	case errors.Is(err, queries.ErrCurrencyMismatch):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Currency mismatch between rate and pricing option", nil)
	case errors.Is(err, queries.ErrInvalidCursor):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid pagination cursor", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
