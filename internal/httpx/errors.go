package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Simplici0/carte/internal/catalog"
	"github.com/Simplici0/carte/internal/pricing"
)

// RespondError maps domain errors to problem responses.
func RespondError(w http.ResponseWriter, err error) {
	var verr *catalog.ValidationError
	switch {
	case errors.As(err, &verr):
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(ProblemDetail{
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: verr.Error(),
			Fields: verr.Fields,
		})
	case errors.Is(err, catalog.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, pricing.ErrInvalidAmount),
		errors.Is(err, pricing.ErrInvalidTaxRate),
		errors.Is(err, pricing.ErrUnknownCategory),
		errors.Is(err, pricing.ErrInvalidFormat),
		errors.Is(err, pricing.ErrUnknownSubUnit),
		errors.Is(err, pricing.ErrZeroCostBasis),
		errors.Is(err, pricing.ErrIncompleteCocktail),
		errors.Is(err, pricing.ErrLineOutOfRange),
		errors.Is(err, pricing.ErrDoseNotApplicable):
		Problem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
