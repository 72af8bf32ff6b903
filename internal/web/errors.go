package web

// errors.go provides unified error response handling for the API.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. Error is mapped via core.MapError to a user-friendly message and code
//  4. Technical error is logged with the request ID for correlation
//  5. The status is derived from the code and the message is written as JSON

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/reconcile/internal/core"
	"github.com/JonMunkholm/reconcile/internal/logging"
	"github.com/JonMunkholm/reconcile/internal/reconcile"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`

	// Set only for SCH001.
	Index     *int     `json:"index,omitempty"`
	Reason    string   `json:"reason,omitempty"`
	OldHeader []string `json:"old_header,omitempty"`
	NewHeader []string `json:"new_header,omitempty"`
}

// statusByCode maps error codes to HTTP status codes. Unlisted codes are 500.
var statusByCode = map[string]int{
	"SCH001":  http.StatusUnprocessableEntity,
	"ARG001":  http.StatusBadRequest,
	"FILE001": http.StatusRequestEntityTooLarge,
	"FILE002": http.StatusBadRequest,
	"FILE004": http.StatusBadRequest,
	"FILE005": http.StatusBadRequest,
	"RUN001":  http.StatusServiceUnavailable,
	"RUN002":  http.StatusNotFound,
	"RUN003":  http.StatusServiceUnavailable,
	"RUN004":  http.StatusGatewayTimeout,
	"DB004":   http.StatusServiceUnavailable,
	"DB005":   http.StatusServiceUnavailable,
	"RATE001": http.StatusTooManyRequests,
}

func statusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError logs err with request context and writes the mapped user
// message. A schema mismatch also carries the offending column and both headers.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	userMsg := core.MapError(err)
	status := statusForCode(userMsg.Code)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if userMsg.Code == "RUN001" {
		w.Header().Set("Retry-After", "5")
	}

	resp := newErrorResponse(userMsg)

	var mismatch *reconcile.SchemaMismatchError
	if errors.As(err, &mismatch) {
		index := mismatch.Index
		resp.Index = &index
		resp.Reason = mismatch.Reason
		resp.OldHeader = mismatch.OldHeader
		resp.NewHeader = mismatch.NewHeader
	}

	writeJSON(w, status, resp)
}

// respondErrorJSON writes a JSON error response without logging.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(newErrorResponse(msg))
}

func newErrorResponse(msg core.UserMessage) ErrorResponse {
	return ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
}
