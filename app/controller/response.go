package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"storefront-orders/service"
)

// errorResponse is the body of every failed API call
type errorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
	Field     string `json:"field,omitempty"`
	Item      string `json:"item,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}, logger *zap.SugaredLogger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Errorf("❌ writeJSON: Error encoding response: %v", err)
	}
}

// statusFor maps an order error kind to its HTTP status
func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.ErrEmptyCart, service.ErrInvalidData:
		return http.StatusBadRequest
	case service.ErrNotFound:
		return http.StatusNotFound
	case service.ErrReplicationFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status and error_type matching err
func writeError(w http.ResponseWriter, op string, err error, logger *zap.SugaredLogger) {
	resp := errorResponse{Error: err.Error(), ErrorType: "InternalError"}
	status := http.StatusInternalServerError

	var oe *service.OrderError
	if errors.As(err, &oe) {
		status = statusFor(oe.Kind)
		resp.ErrorType = oe.Kind.String()
		resp.Field = oe.Field
		resp.Item = oe.Item
	}

	if status >= http.StatusInternalServerError {
		logger.Errorf("❌ %s: %v", op, err)
	} else {
		logger.Warnf("⚠️ %s: %v", op, err)
	}
	writeJSON(w, status, resp, logger)
}

// writeBadRequest answers 400 for bodies that cannot be decoded
func writeBadRequest(w http.ResponseWriter, op, message string, logger *zap.SugaredLogger) {
	logger.Warnf("⚠️ %s: %s", op, message)
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message, ErrorType: service.ErrInvalidData.String()}, logger)
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
