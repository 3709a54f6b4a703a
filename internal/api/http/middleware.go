package httpapi

import (
	"net/http"
	"strings"
)

// requireAllowedUserAgent rejects callers whose User-Agent is not on the
// configured allowlist. The product part of the header is compared; version
// suffixes are ignored.
func (s *Server) requireAllowedUserAgent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent := r.Header.Get("User-Agent")
		if product, _, found := strings.Cut(agent, "/"); found {
			agent = product
		}
		for _, allowed := range s.allowedUserAgents {
			if agent == allowed {
				next.ServeHTTP(w, r)
				return
			}
		}
		respondError(w, http.StatusForbidden, "FORBIDDEN", "Authorisation failed")
	})
}

// requireJSONContentType rejects requests whose Content-Type is not
// application/json.
func requireJSONContentType(w http.ResponseWriter, r *http.Request) bool {
	if mediaType(r.Header.Get("Content-Type")) != "application/json" {
		respondError(w, http.StatusUnsupportedMediaType, "BAD_REQUEST", "Content-Type must be application/json")
		return false
	}
	return true
}

// mediaType strips parameters such as charset from a Content-Type value.
func mediaType(contentType string) string {
	if t, _, found := strings.Cut(contentType, ";"); found {
		return strings.TrimSpace(t)
	}
	return strings.TrimSpace(contentType)
}
