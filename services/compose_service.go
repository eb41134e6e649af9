package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"lifeline/models"

	"github.com/sirupsen/logrus"
)

const defaultComposeEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// ComposeService asks a generative-text API to write the emergency alert body
// and the safety tip. Every call fails soft: on any error, or when no API key
// is configured, a deterministic local template is returned instead. Nothing
// here may block or fail a dispatch.
type ComposeService struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewComposeService(apiKey string) *ComposeService {
	return &ComposeService{
		apiKey:   apiKey,
		endpoint: defaultComposeEndpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetEndpoint overrides the generation endpoint; tests point it at a local
// HTTP server.
func (cs *ComposeService) SetEndpoint(endpoint string) {
	cs.endpoint = endpoint
}

// ComposeAlert returns the emergency message text. The fallback embeds the
// custom message, last location and battery level.
func (cs *ComposeService) ComposeAlert(ctx context.Context, customMessage string, location *models.LocationSample, batteryLevel float64) string {
	fallback := cs.fallbackAlert(customMessage, location, batteryLevel)

	locString := "Location unavailable"
	if location != nil {
		locString = fmt.Sprintf("Latitude: %f, Longitude: %f (Accuracy: %.0fm)",
			location.Latitude, location.Longitude, location.Accuracy)
	}

	prompt := fmt.Sprintf(`Create a concise, urgent emergency SMS message (max 160 characters if possible, but prioritize clarity).

Context:
- The user failed to check in to their safety app.
- User's Custom Note: %q
- Current Coordinates: %s
- Battery Level: %d%%

The message should be written in first person ("I am..."). It is being sent to police and emergency contacts.`,
		customMessage, locString, int(math.Round(batteryLevel*100)))

	text, err := cs.generate(ctx, prompt)
	if err != nil {
		logrus.Warnf("Alert generation failed, using fallback: %v", err)
		return fallback
	}
	return text
}

// ComposeSafetyTip returns a short general safety tip for the home screen.
func (cs *ComposeService) ComposeSafetyTip(ctx context.Context) string {
	const fallback = "Stay aware of your surroundings."

	text, err := cs.generate(ctx, "Give me 3 short, bulleted general personal safety tips for walking alone at night. Keep it under 50 words.")
	if err != nil {
		logrus.Warnf("Safety tip generation failed, using fallback: %v", err)
		return fallback
	}
	return text
}

func (cs *ComposeService) fallbackAlert(customMessage string, location *models.LocationSample, batteryLevel float64) string {
	locString := "Unknown"
	if location != nil {
		locString = fmt.Sprintf("%f, %f", location.Latitude, location.Longitude)
	}
	return fmt.Sprintf("EMERGENCY: User check-in missed. %s. Location: %s. Battery: %d%%",
		customMessage, locString, int(math.Round(batteryLevel*100)))
}

func (cs *ComposeService) generate(ctx context.Context, prompt string) (string, error) {
	if cs.apiKey == "" {
		return "", fmt.Errorf("generation API key not configured")
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cs.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", cs.apiKey)

	resp, err := cs.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("generation API error: %s", resp.Status)
	}

	var genResponse struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &genResponse); err != nil {
		return "", err
	}
	if len(genResponse.Candidates) == 0 || len(genResponse.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty generation response")
	}

	return genResponse.Candidates[0].Content.Parts[0].Text, nil
}
