// Package upload stores user-submitted pictures and documents on the
// configured media service and returns stable URLs. Registration flows
// call it before anything is persisted: an upload failure aborts the
// whole registration.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var ErrEmptyContent = errors.New("no file content provided")

var attempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "emercare",
	Subsystem: "upload",
	Name:      "attempts_total",
	Help:      "Media service upload attempts by outcome",
}, []string{"outcome"})

// Uploader is the collaborator contract consumed by the registry
// services.
type Uploader interface {
	Upload(ctx context.Context, base64Content, folder string) (string, error)
}

// Config holds the media service endpoint and credentials.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type client struct {
	cfg  Config
	http *http.Client
}

// NewClient returns an Uploader backed by the media service's upload
// endpoint.
func NewClient(cfg Config) Uploader {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *client) Upload(ctx context.Context, base64Content, folder string) (string, error) {
	if base64Content == "" {
		return "", ErrEmptyContent
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("file", base64Content); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := w.WriteField("folder", folder); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		attempts.WithLabelValues("error").Inc()
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		attempts.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || result.SecureURL == "" {
		attempts.WithLabelValues("rejected").Inc()
		msg := result.Error.Message
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("upload rejected: %s", msg)
	}

	attempts.WithLabelValues("ok").Inc()
	log.Debug().Str("folder", folder).Str("url", result.SecureURL).Msg("file uploaded")
	return result.SecureURL, nil
}
