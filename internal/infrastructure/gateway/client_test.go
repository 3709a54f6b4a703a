package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Notify(t *testing.T) {
	t.Run("successful delivery", func(t *testing.T) {
		var got OutboundNotification
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/notify", r.URL.Path)
			assert.Equal(t, "token-1", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_ = json.NewEncoder(w).Encode(map[string]bool{"successful": true})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "token-1", time.Second, zerolog.Nop())
		ok, err := c.Notify(context.Background(), OutboundNotification{
			DestinationURL:   "https://example.com/cb",
			ForwardedHeaders: []ForwardedHeader{{Key: "X-Hub-Signature", Value: "abc"}},
			Payload:          `{"notificationId":"n1"}`,
		})

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "https://example.com/cb", got.DestinationURL)
		require.Len(t, got.ForwardedHeaders, 1)
		assert.Equal(t, "X-Hub-Signature", got.ForwardedHeaders[0].Key)
	})

	t.Run("declared failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]bool{"successful": false})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "token-1", time.Second, zerolog.Nop())
		ok, err := c.Notify(context.Background(), OutboundNotification{})

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "token-1", time.Second, zerolog.Nop())
		_, err := c.Notify(context.Background(), OutboundNotification{})
		require.Error(t, err)
	})

	t.Run("timeout is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "token-1", 20*time.Millisecond, zerolog.Nop())
		_, err := c.Notify(context.Background(), OutboundNotification{})
		require.Error(t, err)
	})
}

func TestClient_ValidateCallback(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/validate-callback", r.URL.Path)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "https://example.com/cb", body["callbackUrl"])
			_ = json.NewEncoder(w).Encode(map[string]bool{"successful": true})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "token-1", time.Second, zerolog.Nop())
		res, err := c.ValidateCallback(context.Background(), "https://example.com/cb")

		require.NoError(t, err)
		assert.True(t, res.Successful)
	})

	t.Run("rejected with message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"successful": false, "errorMessage": "DNS"})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "token-1", time.Second, zerolog.Nop())
		res, err := c.ValidateCallback(context.Background(), "https://bad")

		require.NoError(t, err)
		assert.False(t, res.Successful)
		assert.Equal(t, "DNS", res.ErrorMessage)
	})
}
