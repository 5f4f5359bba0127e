package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/linkshare/internal/common"
	"github.com/dmitrijs2005/linkshare/internal/server/repositories/users"
)

// Error codes carried in {"error": {"code": ..., "message": ...}}.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
	CodeAccessDenied       = "ACCESS_DENIED"
	CodeInvalidPassword    = "INVALID_PASSWORD"
	CodeUploadFailed       = "UPLOAD_FAILED"
	CodeBadRequest         = "BAD_REQUEST"
	CodeInternalError      = "INTERNAL_ERROR"
)

const internalMessage = "internal server error"

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError writes an error response in the common envelope.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// classify maps a service error to a status, a code and a client-safe
// message. ok is false for errors that must not be described to clients.
// A record whose bytes are gone answers exactly like an unknown link.
func classify(err error) (status int, code, message string, ok bool) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, CodeValidationError, detail(err, common.ErrorValidation), true
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, CodeValidationError, alreadyExistsMessage(err), true
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrorBlobInconsistent):
		return http.StatusNotFound, CodeNotFound, "file not found", true
	case errors.Is(err, common.ErrorAccessDenied):
		return http.StatusForbidden, CodeAccessDenied, "access denied", true
	case errors.Is(err, common.ErrorInvalidPassword):
		return http.StatusForbidden, CodeInvalidPassword, "invalid password", true
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized, "unauthorized", true
	default:
		return http.StatusInternalServerError, CodeInternalError, internalMessage, false
	}
}

// detail returns the text that follows sentinel in err's message.
func detail(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}

func alreadyExistsMessage(err error) string {
	switch {
	case errors.Is(err, users.ErrUserNameTaken):
		return "username is already taken"
	case errors.Is(err, users.ErrEmailTaken):
		return "email is already registered"
	default:
		return "already exists"
	}
}
