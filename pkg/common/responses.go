// Package common holds the JSON envelope every endpoint answers with.
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *MetaInfo  `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type MetaInfo struct {
	RequestID string `json:"request_id,omitempty"`
	Count     int    `json:"count"`
}

// MaxBodyBytes caps request bodies. A full idea map fits comfortably.
const MaxBodyBytes = 1 << 20

func write(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data any) {
	write(w, status, APIResponse{Success: status >= 200 && status < 300, Data: data})
}

// RespondWithMeta sends a list response with its count.
func RespondWithMeta(w http.ResponseWriter, status int, data any, meta *MetaInfo) {
	write(w, status, APIResponse{Success: status >= 200 && status < 300, Data: data, Meta: meta})
}

func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondErrorWithDetails(w, status, code, message, nil)
}

func RespondErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	write(w, status, APIResponse{
		Error: &ErrorInfo{Code: code, Message: message, Details: details},
	})
}

// StandardErrorCodes defines codes for failures that have no AppError.
var StandardErrorCodes = struct {
	BadRequest      string
	NotFound        string
	TooManyRequests string
	InternalError   string
}{
	BadRequest:      "BAD_REQUEST",
	NotFound:        "NOT_FOUND",
	TooManyRequests: "TOO_MANY_REQUESTS",
	InternalError:   "INTERNAL_ERROR",
}

// ErrEmptyBody is returned by DecodeJSON for a request without a body.
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON reads one JSON value from the body, rejecting unknown fields
// and anything past MaxBodyBytes.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return decodeJSON(w, r, v, true)
}

// DecodeJSONLenient is DecodeJSON without the unknown-field check. Canvas
// change batches carry client-side fields the server does not model.
func DecodeJSONLenient(w http.ResponseWriter, r *http.Request, v any) error {
	return decodeJSON(w, r, v, false)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any, strict bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
