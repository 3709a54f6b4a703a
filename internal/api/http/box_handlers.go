package httpapi

import (
	"net/http"

	appBox "github.com/notification-hub/notification-hub/internal/application/box"
	appCallback "github.com/notification-hub/notification-hub/internal/application/callback"
)

type createBoxRequest struct {
	BoxName  string `json:"boxName"`
	ClientID string `json:"clientId"`
}

type boxIDResponse struct {
	BoxID string `json:"boxId"`
}

func (s *Server) createBox(w http.ResponseWriter, r *http.Request) {
	if !requireJSONContentType(w, r) {
		return
	}

	var req createBoxRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST_PAYLOAD", "JSON body is invalid against expected format")
		return
	}
	if req.BoxName == "" || req.ClientID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST_PAYLOAD", "Expecting boxName and clientId in request body")
		return
	}

	result, err := s.boxSvc.CreateBox(r.Context(), req.ClientID, req.BoxName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	switch result.Kind {
	case appBox.BoxCreated:
		respondJSON(w, http.StatusCreated, boxIDResponse{BoxID: result.Box.BoxID.String()})
	case appBox.BoxRetrieved:
		respondJSON(w, http.StatusOK, boxIDResponse{BoxID: result.Box.BoxID.String()})
	default:
		respondError(w, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", result.Reason)
	}
}

func (s *Server) getBoxByNameAndClientID(w http.ResponseWriter, r *http.Request) {
	boxName := r.URL.Query().Get("boxName")
	clientID := r.URL.Query().Get("clientId")
	if boxName == "" || clientID == "" {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Must specify both boxName and clientId query parameters")
		return
	}

	b, err := s.boxSvc.GetBoxByNameAndClientID(r.Context(), boxName, clientID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if b == nil {
		respondError(w, http.StatusNotFound, "BOX_NOT_FOUND", "Box not found")
		return
	}
	respondJSON(w, http.StatusOK, b)
}

type updateCallbackURLResponse struct {
	Successful   bool   `json:"successful"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

func (s *Server) updateCallbackURL(w http.ResponseWriter, r *http.Request) {
	boxID, err := parseUUIDParam(r, "boxId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "Box ID is not a UUID")
		return
	}

	var req appCallback.UpdateCallbackURLRequest
	if err := decodeBody(r, &req); err != nil || req.ClientID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST_PAYLOAD", "JSON body is invalid against expected format")
		return
	}

	result, err := s.callbackSvc.ValidateCallbackURL(r.Context(), boxID, req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	switch result.Kind {
	case appCallback.Updated:
		respondJSON(w, http.StatusOK, updateCallbackURLResponse{Successful: true})
	case appCallback.ValidationFailed, appCallback.UnableToUpdate:
		respondJSON(w, http.StatusOK, updateCallbackURLResponse{Successful: false, ErrorMessage: result.ErrorMessage})
	case appCallback.Unauthorized:
		respondError(w, http.StatusUnauthorized, "UNAUTHORISED", result.ErrorMessage)
	case appCallback.BoxNotFound:
		respondError(w, http.StatusNotFound, "BOX_NOT_FOUND", result.ErrorMessage)
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "unexpected result")
	}
}
