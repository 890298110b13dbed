package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	appErrors "github.com/savannahlabs/orders-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto the API error taxonomy: field
// validation -> 400, not-found -> 404, everything else -> 500.
func writeError(w http.ResponseWriter, log *logrus.Logger, err error) {
	if ve, ok := appErrors.IsValidationError(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": ve.Fields})
		return
	}
	if appErrors.IsNotFound(err) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	log.Errorf("request failed: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal server error."})
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}
