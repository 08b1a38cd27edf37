package httpapi

import (
	"errors"
	"net/http"

	"github.com/skbidisigma1/backpackpi/internal/files"
	"github.com/skbidisigma1/backpackpi/internal/fsutil"
	"github.com/skbidisigma1/backpackpi/internal/roles"
)

// Stable error codes surfaced in the JSON error envelope.
const (
	codePathEscape      = "PATH_ESCAPE"
	codeNotFound        = "NOT_FOUND"
	codeNotADirectory   = "NOT_A_DIRECTORY"
	codeIsDirectory     = "IS_DIRECTORY"
	codeInvalidName     = "INVALID_NAME"
	codeTooLarge        = "PAYLOAD_TOO_LARGE"
	codeExists          = "ALREADY_EXISTS"
	codeInvalidRole     = "INVALID_ROLE"
	codeAuthRequired    = "AUTH_REQUIRED"
	codeForbidden       = "INSUFFICIENT_ROLE"
	codeRateLimited     = "RATE_LIMITED"
	codeAuthUnavailable = "AUTH_UNAVAILABLE"
	codeBadRequest      = "BAD_REQUEST"
	codeServerError     = "SERVER_ERROR"
)

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{"error": msg, "code": code})
}

// writeServiceError maps file and sandbox errors onto the HTTP
// taxonomy. Anything unrecognized becomes an opaque 500; the caller is
// expected to have logged it.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fsutil.ErrPathEscape):
		writeError(w, http.StatusBadRequest, codePathEscape, "Path resolves outside the sandbox")
	case errors.Is(err, files.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "Not found")
	case errors.Is(err, files.ErrNotADirectory):
		writeError(w, http.StatusBadRequest, codeNotADirectory, "Not a directory")
	case errors.Is(err, files.ErrIsDirectory):
		writeError(w, http.StatusBadRequest, codeIsDirectory, "Is a directory")
	case errors.Is(err, files.ErrInvalidName):
		writeError(w, http.StatusBadRequest, codeInvalidName, "Invalid name")
	case errors.Is(err, files.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge, "File exceeds the 512 KiB limit")
	case errors.Is(err, files.ErrExists):
		writeError(w, http.StatusConflict, codeExists, "Already exists")
	case errors.Is(err, roles.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, codeInvalidRole, "Invalid role")
	default:
		writeError(w, http.StatusInternalServerError, codeServerError, "Server error")
	}
}
