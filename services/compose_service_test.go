package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"lifeline/models"
)

func TestComposeAlertFallbackWithoutAPIKey(t *testing.T) {
	compose := NewComposeService("")

	location := &models.LocationSample{Latitude: 37.7749, Longitude: -122.4194}
	text := compose.ComposeAlert(context.Background(), "Please check on me.", location, 0.42)

	assert.Equal(t, "EMERGENCY: User check-in missed. Please check on me.. Location: 37.774900, -122.419400. Battery: 42%", text)
}

func TestComposeAlertFallbackWithoutLocation(t *testing.T) {
	compose := NewComposeService("")

	text := compose.ComposeAlert(context.Background(), "Help.", nil, 1.0)

	assert.Equal(t, "EMERGENCY: User check-in missed. Help.. Location: Unknown. Battery: 100%", text)
}

func TestComposeAlertUsesGeneratedText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"I need help immediately."}]}}]}`))
	}))
	defer server.Close()

	compose := NewComposeService("test-key")
	compose.SetEndpoint(server.URL)

	text := compose.ComposeAlert(context.Background(), "note", nil, 0.8)
	assert.Equal(t, "I need help immediately.", text)
}

func TestComposeAlertFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	compose := NewComposeService("test-key")
	compose.SetEndpoint(server.URL)

	text := compose.ComposeAlert(context.Background(), "note", nil, 0.5)
	assert.Contains(t, text, "EMERGENCY: User check-in missed.")
}

func TestComposeAlertFallsBackOnEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	compose := NewComposeService("test-key")
	compose.SetEndpoint(server.URL)

	text := compose.ComposeAlert(context.Background(), "note", nil, 0.5)
	assert.Contains(t, text, "EMERGENCY: User check-in missed.")
}

func TestComposeSafetyTipFallback(t *testing.T) {
	compose := NewComposeService("")

	tip := compose.ComposeSafetyTip(context.Background())
	assert.Equal(t, "Stay aware of your surroundings.", tip)
}
