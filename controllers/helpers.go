package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go-storefront/services"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return false
	}
	return true
}

// pathID parses the ObjectID in the route variable name.
func pathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

// optionalID parses a hex id that may be empty.
func optionalID(s string) (primitive.ObjectID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return primitive.NilObjectID, nil
	}
	return primitive.ObjectIDFromHex(s)
}

// writeServiceError maps service errors to HTTP answers. Unknown errors are
// logged and reported as 500 without details.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs services.ValidationErrors
	var below *services.BelowMinimumError
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": verrs})
	case errors.As(err, &below):
		writeError(w, http.StatusBadRequest, below.Error())
	case errors.Is(err, services.ErrCartEmpty):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error(), "redirect": "/cart"})
	case errors.Is(err, services.ErrPromoInvalid),
		errors.Is(err, services.ErrPromoExpired),
		errors.Is(err, services.ErrPromoUsageExceeded),
		errors.Is(err, services.ErrUnsupportedCurrency),
		errors.Is(err, services.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrEmailNotVerified):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrCheckoutInProgress),
		errors.Is(err, services.ErrNoShippingOption),
		errors.Is(err, services.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	default:
		utils.Logger(r.Context()).WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
