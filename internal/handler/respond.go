package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/trackday/internal/domain"
	"github.com/pkordes/trackday/internal/taxonomy"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure. Rule and Tags are only set when tag
// validation failed; Tags then lists the unrecognised tags.
type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Rule    string   `json:"rule,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Pagination is the paging envelope returned alongside list data.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// listResponse is the shape of every paged listing.
type listResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func newListResponse[T, D any](page domain.Page[D], p domain.PaginationParams, conv func(D) T) listResponse[T] {
	data := make([]T, len(page.Items))
	for i, item := range page.Items {
		data[i] = conv(item)
	}
	return listResponse[T]{
		Data:       data,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: int(page.Total)},
	}
}

// paramError is a path or query parameter that could not be bound.
type paramError struct {
	name string
	err  error
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %v", e.name, e.err)
}

func (e *paramError) Unwrap() error { return e.err }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorBody(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// writeError maps err onto a status code and error body. resource names what
// a domain.ErrNotFound refers to, e.g. "track".
func writeError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	var (
		tagErr   *taxonomy.TagError
		paramErr *paramError
		maxErr   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tagErr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code:    "validation_error",
			Message: tagErr.Error(),
			Rule:    string(tagErr.Rule),
			Tags:    tagErr.Tags,
		}})
	case errors.As(err, &paramErr):
		writeErrorBody(w, http.StatusBadRequest, "invalid_parameter", paramErr.Error())
	case errors.As(err, &maxErr):
		writeErrorBody(w, http.StatusRequestEntityTooLarge, "payload_too_large",
			fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
	case errors.Is(err, domain.ErrValidation):
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrNotFound):
		writeErrorBody(w, http.StatusNotFound, "not_found", resource+" not found")
	case errors.Is(err, domain.ErrConflict):
		writeErrorBody(w, http.StatusConflict, "conflict", unwrapMessage(err))
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeErrorBody(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// unwrapMessage extracts the human-readable part of a wrapped sentinel error.
// e.g. "service.X.Create: validation error: name is required" → "name is required"
func unwrapMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrValidation, domain.ErrConflict} {
		marker := sentinel.Error() + ": "
		if i := strings.Index(msg, marker); i >= 0 {
			return fieldPath(msg[:i]) + msg[i+len(marker):]
		}
		if strings.HasSuffix(msg, sentinel.Error()) {
			return sentinel.Error()
		}
	}
	return msg
}

// fieldPath keeps a field path such as "availability[0]: " that precedes the
// sentinel, and drops "pkg.Type.Method: " wrapping.
func fieldPath(prefix string) string {
	parts := strings.Split(strings.TrimSuffix(prefix, ": "), ": ")
	last := parts[len(parts)-1]
	if last == "" || strings.Contains(last, ".") {
		return ""
	}
	return last + ": "
}

// decodeJSON reads a JSON request body into dst. Malformed bodies become
// domain.ErrValidation; an over-limit body keeps its *http.MaxBytesError.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil
	}
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, domain.ErrValidation):
		return err
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: request body is required", domain.ErrValidation)
	}
	return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrValidation, err)
}
