package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DetectedObject is one object the detection service found in a photo.
type DetectedObject struct {
	Label string    `json:"label"`
	Score float64   `json:"score"`
	Box   []float64 `json:"box,omitempty"`
}

// Detection is the detection service's answer.
type Detection struct {
	Status  string           `json:"status"`
	UserID  uint64           `json:"user_id"`
	Objects []DetectedObject `json:"objects"`
}

// FirstLabel returns the label of the first detected object, or "".
func (d *Detection) FirstLabel() string {
	if d == nil || len(d.Objects) == 0 {
		return ""
	}
	return strings.TrimSpace(d.Objects[0].Label)
}

type detectRequest struct {
	ImageURL string `json:"image_url"`
	User     struct {
		ID uint64 `json:"id"`
	} `json:"user"`
}

// DetectionClient calls the external object detection service over HTTP.
type DetectionClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewDetectionClient creates a client for the service at baseURL.
func NewDetectionClient(baseURL string, timeout time.Duration) *DetectionClient {
	return &DetectionClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Detect asks the service what the image at imageURL shows.
func (c *DetectionClient) Detect(ctx context.Context, imageURL string, userID uint64) (*Detection, error) {
	var body detectRequest
	body.ImageURL = imageURL
	body.User.ID = userID
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("detection service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var out Detection
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode detection response: %w", err)
	}
	return &out, nil
}
