// Package webhooks consumes compliance event notifications from the issuing
// platform. Application status changes gate card issuance, so the consumer
// keeps the local user records current.
package webhooks

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yezz123/rain-go/pkg/storage"
)

// Event is the envelope delivered for every webhook notification.
type Event struct {
	Resource string          `json:"resource"`
	Action   string          `json:"action"`
	Body     json.RawMessage `json:"body"`
}

// ApplicationEvent is the body of a user application status notification.
type ApplicationEvent struct {
	ID                string `json:"id"`
	ApplicationStatus string `json:"applicationStatus"`
}

// Handler consumes webhook deliveries.
type Handler struct {
	Users storage.UserStore
}

// NewHandler creates a new webhook Handler.
func NewHandler(users storage.UserStore) *Handler {
	return &Handler{Users: users}
}

// Routes mounts the webhook endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Receive)
	return r
}

// Receive handles a single webhook delivery. Deliveries are at-least-once,
// so applying the same event twice must land in the same state.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	var event Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	switch event.Resource {
	case "application", "user":
		h.handleApplication(w, r, &event)
	default:
		// Unhandled resources are acknowledged so the platform stops
		// redelivering them.
		slog.Info("ignoring webhook for unhandled resource", "resource", event.Resource, "action", event.Action)
		w.WriteHeader(http.StatusOK)
	}
}

func (h *Handler) handleApplication(w http.ResponseWriter, r *http.Request, event *Event) {
	var body ApplicationEvent
	if err := json.Unmarshal(event.Body, &body); err != nil {
		http.Error(w, fmt.Sprintf("Invalid event body: %v", err), http.StatusBadRequest)
		return
	}
	if body.ID == "" || body.ApplicationStatus == "" {
		http.Error(w, "Event body missing id or applicationStatus", http.StatusBadRequest)
		return
	}

	if err := h.Users.SetApplicationStatus(r.Context(), body.ID, body.ApplicationStatus); err != nil {
		http.Error(w, fmt.Sprintf("Failed to apply application status: %v", err), http.StatusInternalServerError)
		return
	}

	slog.Info("applied application status", "user_id", body.ID, "status", body.ApplicationStatus)
	w.WriteHeader(http.StatusOK)
}
