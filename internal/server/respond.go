package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"elysoir/storefront/internal/cart"
	"elysoir/storefront/internal/session"
	"elysoir/storefront/internal/view"

	log "github.com/sirupsen/logrus"
)

const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
	View  any    `json:"view,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("❌ Failed to encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrProductNotFound),
		errors.Is(err, session.ErrArticleNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrOptionsIncomplete),
		errors.Is(err, session.ErrUnknownOption),
		errors.Is(err, session.ErrEmptyMessage),
		errors.Is(err, cart.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, view.ErrTransitionNotAllowed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Errorf("❌ Request failed: %v", err)
	}
	writeMessage(w, status, err.Error())
}

// respond writes v on success. A rejected add-to-cart still carries the page
// so the client can show the inline message.
func respond(w http.ResponseWriter, v any, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, v)
		return
	}
	if errors.Is(err, session.ErrOptionsIncomplete) {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error(), View: v})
		return
	}
	writeError(w, err)
}

// decode reads an optional JSON body into v. An empty body leaves v zero.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
