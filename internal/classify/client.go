package classify

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

// Client talks to the model inference service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether an inference endpoint is configured. When
// false the resolver falls back to pattern matching.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

func (c *Client) Info(ctx context.Context) (ModelInfo, error) {
	if !c.Enabled() {
		return ModelInfo{}, fmt.Errorf("classifier service is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/model/info", nil)
	if err != nil {
		return ModelInfo{}, err
	}
	var out ModelInfo
	if err := c.do(req, &out); err != nil {
		return ModelInfo{}, err
	}
	if out.InputWidth <= 0 || len(out.Labels) == 0 {
		return ModelInfo{}, fmt.Errorf("classifier reported invalid model info: width=%d labels=%d", out.InputWidth, len(out.Labels))
	}
	return out, nil
}

func (c *Client) Score(ctx context.Context, features []float64) ([]float64, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("classifier service is not configured")
	}

	body, _ := json.Marshal(map[string]any{"features": features})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/model/score", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Probabilities []float64 `json:"probabilities"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if len(out.Probabilities) == 0 {
		return nil, fmt.Errorf("classifier returned no probabilities")
	}
	return out.Probabilities, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("classifier status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return err
	}
	return nil
}
