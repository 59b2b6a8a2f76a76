package devserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxMessageLength = 5000

// envelope is the response shape shared by every service endpoint.
type envelope struct {
	Success  bool     `json:"success"`
	Messages []Record `json:"messages,omitempty"`
	Message  *Record  `json:"message,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a failure envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Error: message})
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListMessages returns every stored message.
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	records := s.store.List()
	if records == nil {
		records = []Record{}
	}
	// messages must be present even when empty, so bypass omitempty.
	writeJSON(w, http.StatusOK, struct {
		Success  bool     `json:"success"`
		Messages []Record `json:"messages"`
	}{true, records})
}

// handleDeleteMessage removes one message by id.
func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Message id is required")
		return
	}
	if !s.store.Delete(id) {
		writeError(w, http.StatusNotFound, "Message not found")
		return
	}
	s.logger.Info("deleted message", "id", id)
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

// submitRequest is the expected JSON body for POST /contact.
type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// handleSubmit accepts a contact form submission.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	switch {
	case req.Name == "":
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	case req.Email == "":
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	case strings.TrimSpace(req.Message) == "":
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	case len([]rune(req.Message)) > maxMessageLength:
		writeError(w, http.StatusBadRequest, "Message is too long")
		return
	}

	rec, err := s.store.Add(req.Name, req.Email, req.Message)
	if err != nil {
		s.logger.Error("failed to store submission", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save message")
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: &rec})
}
