// Package genai talks to the Gemini generateContent endpoint. The service
// is treated as prompt-in, free-text-out; callers own any parsing of the
// returned text.
package genai

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

const DefaultBaseURL = "https://generativelanguage.googleapis.com"

type Client struct {
	apiKey  string
	model   string
	baseURL string
	hc      *http.Client
}

type Opts struct {
	APIKey  string
	Model   string
	BaseURL string // override for tests
	Timeout time.Duration
}

func New(o Opts) *Client {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  o.APIKey,
		model:   o.Model,
		baseURL: strings.TrimRight(o.BaseURL, "/"),
		hc:      &http.Client{Timeout: o.Timeout},
	}
}

type genRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type genResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateContent sends one prompt and returns the first candidate's text.
// A single attempt, no retries; the client timeout bounds the round-trip.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(genRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("gemini response: %w", err)
	}

	var out genResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("gemini response decode: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		if out.Error != nil {
			return "", fmt.Errorf("gemini error %d: %s", out.Error.Code, out.Error.Message)
		}
		return "", fmt.Errorf("gemini http %d", res.StatusCode)
	}
	if len(out.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}
