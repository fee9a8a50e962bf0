// Package response holds the uniform {success, message, data} envelope that
// every failed operation can be rendered as.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/FractureX/fracturex-module-database/internal/errs"
)

// ErrorPrefix starts the message of every execution failure.
const ErrorPrefix = "There was an error: "

// Response is the uniform payload. Data is a mapping or a sequence of
// mappings; on failure it is always an empty mapping.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Failure builds the failure payload for err. Module errors keep their own
// message; foreign errors are prefixed the way adapter failures are.
func Failure(err error) Response {
	msg := ""
	var e *errs.Error
	switch {
	case err == nil:
	case errors.As(err, &e):
		msg = e.Message
	default:
		msg = ErrorPrefix + err.Error()
	}
	return Response{Success: false, Message: msg, Data: map[string]any{}}
}

// OK builds a success payload around data.
func OK(message string, data any) Response {
	if data == nil {
		data = map[string]any{}
	}
	return Response{Success: true, Message: message, Data: data}
}

// WriteJSON renders resp with the given status code.
func WriteJSON(w http.ResponseWriter, status int, resp Response) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(resp)
}

// WriteError renders the failure payload for err as a 500.
func WriteError(w http.ResponseWriter, err error) error {
	return WriteJSON(w, http.StatusInternalServerError, Failure(err))
}
