package inference

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Abraxas-365/mockup2html/errx"
	"github.com/Abraxas-365/mockup2html/logx"
	"github.com/Abraxas-365/mockup2html/markup"
)

// DefaultURL is the hosted UI element detection model
const DefaultURL = "https://detect.roboflow.com/webui-fheoa-github/1"

var (
	inferenceErrors = errx.NewRegistry("INFERENCE")

	ErrUnreachable       = inferenceErrors.Register("UNREACHABLE", errx.TypeUnavailable, http.StatusBadGateway, "Inference service unreachable")
	ErrTimeout           = inferenceErrors.Register("TIMEOUT", errx.TypeTimeout, http.StatusGatewayTimeout, "Inference request timed out")
	ErrRequestFailed     = inferenceErrors.Register("REQUEST_FAILED", errx.TypeExternal, http.StatusBadGateway, "Inference request failed")
	ErrMalformedResponse = inferenceErrors.Register("MALFORMED_RESPONSE", errx.TypeExternal, http.StatusBadGateway, "Inference response has no predictions")
	ErrInvalidRequest    = inferenceErrors.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid inference request")
)

// Detector finds UI elements in an image
type Detector interface {
	Detect(ctx context.Context, imageDataURI string) (Result, error)
}

// ImageSize is the size the model saw
type ImageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Result is the decoded response body
type Result struct {
	Predictions []markup.Prediction `json:"predictions"`
	Image       *ImageSize          `json:"image,omitempty"`
	Time        float64             `json:"time,omitempty"`
}

// Config holds configuration for the inference client
type Config struct {
	URL     string        `json:"url"`
	APIKey  string        `json:"api_key"`
	Timeout time.Duration `json:"timeout"`
}

// Client calls a hosted object detection endpoint
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

var _ Detector = (*Client)(nil)

// NewClient creates a client; a nil httpClient gets one with cfg.Timeout
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}
}

// Detect posts the data URI as the raw body. The service expects a
// form-urlencoded content type and the key as the api_key query parameter.
func (c *Client) Detect(ctx context.Context, imageDataURI string) (Result, error) {
	if imageDataURI == "" {
		return Result{}, inferenceErrors.New(ErrInvalidRequest).WithDetail("reason", "empty image")
	}

	reqURL, err := url.Parse(c.url)
	if err != nil {
		return Result{}, inferenceErrors.NewWithCause(ErrInvalidRequest, err).WithDetail("url", c.url)
	}
	q := reqURL.Query()
	q.Set("api_key", c.apiKey)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), strings.NewReader(imageDataURI))
	if err != nil {
		return Result{}, inferenceErrors.NewWithCause(ErrInvalidRequest, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	logx.Debug("Making inference request: POST %s (%d bytes)", c.url, len(imageDataURI))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return Result{}, inferenceErrors.NewWithCause(ErrTimeout, err).WithDetail("url", c.url)
		}
		return Result{}, inferenceErrors.NewWithCause(ErrUnreachable, err).WithDetail("url", c.url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, inferenceErrors.NewWithCause(ErrRequestFailed, err)
	}

	if resp.StatusCode >= 400 {
		return Result{}, inferenceErrors.New(ErrRequestFailed).
			WithDetail("status", resp.StatusCode).
			WithDetail("response", truncate(string(body), 512))
	}

	result, err := decode(body)
	if err != nil {
		return Result{}, err
	}

	logx.Debug("Inference completed in %s with %d predictions", time.Since(start), len(result.Predictions))
	logx.DebugStruct("inference result", result)
	return result, nil
}

// decode requires a predictions array; null or absent is a failure
func decode(body []byte) (Result, error) {
	var envelope struct {
		Predictions json.RawMessage `json:"predictions"`
		Image       *ImageSize      `json:"image"`
		Time        float64         `json:"time"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Result{}, inferenceErrors.NewWithCause(ErrMalformedResponse, err).
			WithDetail("response", truncate(string(body), 512))
	}

	raw := strings.TrimSpace(string(envelope.Predictions))
	if raw == "" || raw == "null" {
		return Result{}, inferenceErrors.New(ErrMalformedResponse).
			WithDetail("response", truncate(string(body), 512))
	}

	var preds []markup.Prediction
	if err := json.Unmarshal(envelope.Predictions, &preds); err != nil {
		return Result{}, inferenceErrors.NewWithCause(ErrMalformedResponse, err).
			WithDetail("response", truncate(string(body), 512))
	}

	return Result{
		Predictions: preds,
		Image:       envelope.Image,
		Time:        envelope.Time,
	}, nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
