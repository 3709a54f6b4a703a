package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	appBox "github.com/notification-hub/notification-hub/internal/application/box"
	appCallback "github.com/notification-hub/notification-hub/internal/application/callback"
	appDelivery "github.com/notification-hub/notification-hub/internal/application/delivery"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	boxSvc            *appBox.Service
	deliverySvc       *appDelivery.Service
	callbackSvc       *appCallback.Service
	allowedUserAgents []string
}

func NewServer(
	boxSvc *appBox.Service,
	deliverySvc *appDelivery.Service,
	callbackSvc *appCallback.Service,
	allowedUserAgents []string,
) *Server {
	return &Server{
		boxSvc:            boxSvc,
		deliverySvc:       deliverySvc,
		callbackSvc:       callbackSvc,
		allowedUserAgents: allowedUserAgents,
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/box", func(r chi.Router) {
		r.With(s.requireAllowedUserAgent).Put("/", s.createBox)
		r.Get("/", s.getBoxByNameAndClientID)

		r.Route("/{boxId}", func(r chi.Router) {
			r.With(s.requireAllowedUserAgent).Put("/callback", s.updateCallbackURL)
			r.Post("/notifications", s.publishNotification)
			r.Get("/notifications", s.listNotifications)
			r.Put("/notifications/acknowledge", s.acknowledgeNotifications)
		})
	})

	return r
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	val := chi.URLParam(r, key)
	return uuid.Parse(val)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
