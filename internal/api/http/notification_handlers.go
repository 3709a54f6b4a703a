package httpapi

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	appDelivery "github.com/notification-hub/notification-hub/internal/application/delivery"
	"github.com/notification-hub/notification-hub/internal/domain/box"
	"github.com/notification-hub/notification-hub/internal/domain/notification"
)

// maxMessageBytes bounds an inbound publish body.
const maxMessageBytes = 1 << 20

type publishResponse struct {
	NotificationID string `json:"notificationId"`
}

func (s *Server) publishNotification(w http.ResponseWriter, r *http.Request) {
	boxID, err := parseUUIDParam(r, "boxId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Box ID is not a UUID")
		return
	}

	contentType, ok := notification.ParseContentType(mediaType(r.Header.Get("Content-Type")))
	if !ok {
		respondError(w, http.StatusUnsupportedMediaType, "BAD_REQUEST", "Content type must be application/json or application/xml")
		return
	}

	// An explicit notificationId lets trusted publishers make retries
	// idempotent; duplicates are absorbed.
	notificationID := uuid.Nil
	if raw := r.URL.Query().Get("notificationId"); raw != "" {
		notificationID, err = uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "BAD_REQUEST", "notificationId is not a UUID")
			return
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBytes+1))
	if err != nil || len(body) == 0 || len(body) > maxMessageBytes {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST_PAYLOAD", "Message body is missing or too large")
		return
	}
	if !validMessage(contentType, body) {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST_PAYLOAD", "Message syntax is invalid")
		return
	}

	result, err := s.deliverySvc.SaveAndMaybePush(r.Context(), boxID, notificationID, contentType, string(body))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	switch result.Kind {
	case appDelivery.BoxNotFound:
		respondError(w, http.StatusNotFound, "BOX_NOT_FOUND", result.Message)
	default:
		// Duplicate publishes are absorbed and answered like the original.
		respondJSON(w, http.StatusCreated, publishResponse{NotificationID: result.NotificationID.String()})
	}
}

func validMessage(contentType notification.ContentType, body []byte) bool {
	switch contentType {
	case notification.ContentTypeJSON:
		return json.Valid(body)
	case notification.ContentTypeXML:
		dec := xml.NewDecoder(bytes.NewReader(body))
		for {
			if _, err := dec.Token(); err != nil {
				return errors.Is(err, io.EOF)
			}
		}
	}
	return false
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	boxID, err := parseUUIDParam(r, "boxId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Box ID is not a UUID")
		return
	}

	var filter notification.Filter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := notification.ParseStatus(raw)
		if !ok {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST_PAYLOAD", "Invalid status parameter provided")
			return
		}
		filter.Status = &status
	}
	if filter.From, err = parseDateParam(r, "fromDate"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST_PAYLOAD", "Invalid fromDate parameter provided")
		return
	}
	if filter.To, err = parseDateParam(r, "toDate"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST_PAYLOAD", "Invalid toDate parameter provided")
		return
	}

	notifications, err := s.deliverySvc.List(r.Context(), boxID, filter)
	if err != nil {
		if errors.Is(err, box.ErrNotFound) {
			respondError(w, http.StatusNotFound, "BOX_NOT_FOUND", "Box not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if notifications == nil {
		notifications = []*notification.Notification{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

func parseDateParam(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type acknowledgeRequest struct {
	NotificationIDs []string `json:"notificationIds"`
}

func (s *Server) acknowledgeNotifications(w http.ResponseWriter, r *http.Request) {
	boxID, err := parseUUIDParam(r, "boxId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Box ID is not a UUID")
		return
	}

	var req acknowledgeRequest
	if err := decodeBody(r, &req); err != nil || len(req.NotificationIDs) == 0 {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST_PAYLOAD", "JSON body is invalid against expected format")
		return
	}

	ids := make([]uuid.UUID, 0, len(req.NotificationIDs))
	for _, raw := range req.NotificationIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST_PAYLOAD", "notificationId is not a UUID")
			return
		}
		ids = append(ids, id)
	}

	if err := s.deliverySvc.Acknowledge(r.Context(), boxID, ids); err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
