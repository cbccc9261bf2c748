package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnavailable marks transport-level failures (timeout, connection refused,
// non-2xx). Callers treat it as "no verdict", not as a rejection.
var ErrUnavailable = errors.New("vision service unavailable")

// AnalysisResult is the authenticity verdict for a catch photo.
type AnalysisResult struct {
	Authentic  bool `json:"authentic"`
	Confidence int  `json:"confidence"`
}

// Analyzer is the photo-authenticity collaborator.
type Analyzer interface {
	Analyze(ctx context.Context, photoRef string) (AnalysisResult, error)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type analyzeRequest struct {
	PhotoRef string `json:"photo_ref"`
}

func (c *Client) Analyze(ctx context.Context, photoRef string) (AnalysisResult, error) {
	body, err := json.Marshal(analyzeRequest{PhotoRef: photoRef})
	if err != nil {
		return AnalysisResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/analyze", bytes.NewReader(body))
	if err != nil {
		return AnalysisResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return AnalysisResult{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return result, nil
}
