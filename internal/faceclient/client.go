package faceclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/lekan/attendease/internal/pkg/apperrors"
	"github.com/lekan/attendease/internal/pkg/logger"
)

// Client talks to the external face embedding service over HTTP. The
// service accepts an image and returns either the face descriptor or a
// no-face indication.
type Client struct {
	baseURL    string
	httpClient *http.Client
	skip       bool
}

// Config configures the face client. Skip bypasses the remote call and
// returns a fixed embedding, for environments without the service.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Skip    bool
}

// NewClient creates a face service client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		skip:       cfg.Skip,
	}
}

type embedResponse struct {
	FaceDetected bool      `json:"faceDetected"`
	Embedding    []float64 `json:"embedding"`
	Error        string    `json:"error,omitempty"`
}

// Embed extracts a face descriptor from an image. It returns
// ErrNoFaceDetected when the service finds no face, and
// ErrServiceUnavailable when the service times out or fails.
func (c *Client) Embed(ctx context.Context, image []byte, filename string) ([]float64, error) {
	if c.skip {
		// Deterministic stand-in embedding for service-less environments.
		return make([]float64, 128), nil
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("url", c.baseURL).Msg("Face service request failed")
		return nil, apperrors.NewCustomError(apperrors.ErrServiceUnavailable,
			"Face verification service is unavailable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, apperrors.NewCustomError(apperrors.ErrServiceUnavailable,
			fmt.Sprintf("Face verification service returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrServiceUnavailable,
			"Failed to read face service response")
	}

	var parsed embedResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, apperrors.NewCustomError(apperrors.ErrServiceUnavailable,
			"Invalid face service response")
	}

	if !parsed.FaceDetected || len(parsed.Embedding) == 0 {
		return nil, apperrors.ErrNoFaceDetected
	}
	return parsed.Embedding, nil
}

// Health checks service reachability.
func (c *Client) Health(ctx context.Context) error {
	if c.skip {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.New("face service unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("face service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
