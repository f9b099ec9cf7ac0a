package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"creditdesk/pkg/apperr"

	"github.com/sirupsen/logrus"
)

// Result is the raw output of the OCR engine for one image
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Engine converts image bytes into raw text. Implementations must return an
// error wrapping apperr.ErrUpstreamUnavailable when the engine cannot be
// reached, so callers can degrade to the manual-entry path.
type Engine interface {
	ExtractText(ctx context.Context, image []byte) (Result, error)
}

// HTTPEngine calls an external OCR service over HTTP
type HTTPEngine struct {
	baseURL string
	client  *http.Client
}

// NewHTTPEngine builds an Engine backed by the OCR service at baseURL. The
// timeout bounds the whole extraction call; the service is the only slow
// external step in the request path.
func NewHTTPEngine(baseURL string, timeout time.Duration) *HTTPEngine {
	return &HTTPEngine{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *HTTPEngine) ExtractText(ctx context.Context, image []byte) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/extract", bytes.NewReader(image))
	if err != nil {
		return Result{}, fmt.Errorf("failed to build OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := e.client.Do(req)
	if err != nil {
		logrus.WithError(err).Warn("OCR service unreachable")
		return Result{}, fmt.Errorf("OCR service unreachable: %w", apperr.ErrUpstreamUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status", resp.StatusCode).Warn("OCR service returned non-OK status")
		return Result{}, fmt.Errorf("OCR service returned %d: %w", resp.StatusCode, apperr.ErrUpstreamUnavailable)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("failed to decode OCR response: %w", apperr.ErrUpstreamUnavailable)
	}

	return result, nil
}

// Disabled is an Engine used when no OCR service is configured; every call
// reports the upstream as unavailable.
type Disabled struct{}

func (Disabled) ExtractText(ctx context.Context, image []byte) (Result, error) {
	return Result{}, fmt.Errorf("no OCR service configured: %w", apperr.ErrUpstreamUnavailable)
}
