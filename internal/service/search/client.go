package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/asistec/asistec/backend/internal/config"
)

// Client issues lookups against the Google Custom Search API. Failures never
// escape as errors; every outcome is folded into the returned Result.
type Client struct {
	apiKey     string
	cseID      string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a search client from configuration. Missing credentials
// are allowed; such a client answers every query with the disabled sentinel.
func NewClient(cfg config.SearchConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		apiKey:     cfg.APIKey,
		cseID:      cfg.CSEID,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search forwards the query verbatim (an empty query is valid) together with
// the requested result count. Exactly one attempt per call: no retries, no
// caching.
func (c *Client) Search(ctx context.Context, query string, maxResults int) Result {
	if c.apiKey == "" || c.cseID == "" {
		return Result{Kind: Disabled}
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cseID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		log.Printf("[search] build request failed: %v", err)
		return Result{Kind: Failed, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[search] request failed: %v", err)
		return Result{Kind: Failed, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := fmt.Errorf("unexpected status %s", resp.Status)
		log.Printf("[search] %v", statusErr)
		return Result{Kind: Failed, Err: statusErr}
	}

	var payload struct {
		Items []Item `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("[search] decode response failed: %v", err)
		return Result{Kind: Failed, Err: err}
	}

	if len(payload.Items) == 0 {
		return Result{Kind: NoResults}
	}

	return Result{Kind: Found, Items: payload.Items}
}
