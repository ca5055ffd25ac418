package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"marketplace-backend/internal/config"
)

// =====================================================
// OPENAI IMAGE ENRICHMENT CLIENT
// =====================================================
//
// One-shot, best-effort image generation for items submitted without an
// image. Callers treat every error as "no image"; nothing here is retried.

type Client struct {
	config     *config.EnrichmentConfig
	httpClient *http.Client
}

func NewClient(cfg *config.EnrichmentConfig) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type generateResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// EnrichImage asks the image API for a picture matching the item's title
// and description. The prompt embeds a transformed description, but the
// caller keeps storing the user-supplied one.
func (c *Client) EnrichImage(ctx context.Context, title, description string) (string, error) {
	prompt := fmt.Sprintf("TITLE: %s", title)
	if description != "" {
		prompt = fmt.Sprintf("%s DESCRIPTION: A high quality photography of %s", prompt, description)
	}

	body := generateRequest{
		Prompt: prompt,
		N:      1,
		Size:   "256x256",
	}

	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	url := c.config.BaseURL + "/v1/images/generations"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call image API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image API returned status %d after %v", resp.StatusCode, time.Since(start))
	}

	var respData generateResponse
	if err := json.Unmarshal(bodyBytes, &respData); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(respData.Data) == 0 || respData.Data[0].URL == "" {
		return "", fmt.Errorf("image API response in unexpected format")
	}

	return respData.Data[0].URL, nil
}
