package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"otp-registration/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFast2SMSClient_Defaults(t *testing.T) {
	client := NewFast2SMSClient(utils.SMSConfig{APIKey: "key"})

	assert.Equal(t, defaultSMSBaseURL, client.BaseURL)
	assert.Equal(t, defaultSMSBrand, client.Brand)
	require.NotNil(t, client.HTTPClient)
	assert.Equal(t, defaultSMSTimeout, client.HTTPClient.Timeout)
}

func TestFast2SMSClient_SendSMSOTP(t *testing.T) {
	t.Run("sends the quick route query", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			q := r.URL.Query()
			assert.Equal(t, "test-key", q.Get("authorization"))
			assert.Equal(t, "Your Acme OTP is 123456", q.Get("message"))
			assert.Equal(t, "english", q.Get("language"))
			assert.Equal(t, "q", q.Get("route"))
			assert.Equal(t, "919800000000", q.Get("numbers"))

			w.Write([]byte(`{"return":true,"request_id":"abc","message":["SMS sent successfully."]}`))
		}))
		defer server.Close()

		client := NewFast2SMSClient(utils.SMSConfig{APIKey: "test-key", BaseURL: server.URL, Brand: "Acme"})
		assert.NoError(t, client.SendSMSOTP(context.Background(), "919800000000", "123456"))
	})

	t.Run("provider rejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"return":false,"message":"Invalid Numbers"}`))
		}))
		defer server.Close()

		client := NewFast2SMSClient(utils.SMSConfig{APIKey: "test-key", BaseURL: server.URL})
		err := client.SendSMSOTP(context.Background(), "1", "123456")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid Numbers")
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"return":false,"status_code":412,"message":"Invalid Authentication"}`))
		}))
		defer server.Close()

		client := NewFast2SMSClient(utils.SMSConfig{APIKey: "bad", BaseURL: server.URL})
		err := client.SendSMSOTP(context.Background(), "919800000000", "123456")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=401")
	})

	t.Run("missing api key", func(t *testing.T) {
		client := NewFast2SMSClient(utils.SMSConfig{})
		err := client.SendSMSOTP(context.Background(), "919800000000", "123456")
		assert.ErrorContains(t, err, "API key not configured")
	})

	t.Run("context deadline", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		client := NewFast2SMSClient(utils.SMSConfig{APIKey: "k", BaseURL: server.URL})
		assert.Error(t, client.SendSMSOTP(ctx, "919800000000", "123456"))
	})
}
