package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"notify-lab/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type registerRequest struct {
	Name string `json:"name" validate:"required"`
}

type userPayload struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func (u userPayload) toDomain() domain.User {
	return domain.User{ID: u.ID, Name: u.Name}
}

type postMessageRequest struct {
	User userPayload `json:"user"`
	// Message is a pointer so an absent field fails validation instead of
	// defaulting to the empty string.
	Message *string `json:"message" validate:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleRegister validates the payload, mints a fresh identity, and publishes
// the joined event. A validation failure publishes nothing.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.clientError(w, fmt.Errorf("decoding register payload: %w", err))
		return
	}
	if err := validate.Struct(req); err != nil {
		s.clientError(w, err)
		return
	}

	user := s.service.Register(r.Context(), req.Name)
	s.writeJSON(w, http.StatusOK, user)
}

// handlePostMessage validates the payload and broadcasts the message. The
// response is an empty acknowledgment: the sender sees its own message
// arrive on the stream it is subscribed to.
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.clientError(w, fmt.Errorf("decoding message payload: %w", err))
		return
	}
	if err := validate.Struct(req); err != nil {
		s.clientError(w, err)
		return
	}

	s.service.PostMessage(r.Context(), req.User.toDomain(), *req.Message)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.monitor.GetLatest())
}

// clientError reports a validation failure to the caller. Logged at the
// boundary only; nothing reaches the bus.
func (s *Server) clientError(w http.ResponseWriter, err error) {
	s.log.Warn("Rejecting request", "err", err)
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("Error writing response body", "err", err)
	}
}
