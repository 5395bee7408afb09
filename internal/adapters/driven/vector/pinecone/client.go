package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

// Default endpoints and headers.
const (
	DefaultControlURL = "https://api.pinecone.io"
	DefaultTimeout    = 30 * time.Second
	apiVersion        = "2024-07"
)

// client is a minimal Pinecone REST client covering the calls the store needs.
type client struct {
	http    *http.Client
	apiKey  string
	limiter *RateLimiter
}

// indexDescription is the control plane GET /indexes/{name} response.
type indexDescription struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Host      string `json:"host"`
	Status    struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

// vector is a record in an upsert request.
type vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type upsertRequest struct {
	Vectors   []vector `json:"vectors"`
	Namespace string   `json:"namespace"`
}

type upsertResponse struct {
	UpsertedCount int `json:"upsertedCount"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	Namespace       string    `json:"namespace"`
	IncludeMetadata bool      `json:"includeMetadata"`
	IncludeValues   bool      `json:"includeValues"`
}

type queryMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

type queryResponse struct {
	Matches   []queryMatch `json:"matches"`
	Namespace string       `json:"namespace"`
}

// describeIndex resolves the data plane host for an index.
func (c *client) describeIndex(ctx context.Context, controlURL, name string) (*indexDescription, error) {
	url := strings.TrimRight(controlURL, "/") + "/indexes/" + name
	var desc indexDescription
	if err := c.do(ctx, http.MethodGet, url, nil, &desc); err != nil {
		return nil, err
	}
	if desc.Host == "" {
		return nil, fmt.Errorf("index %q has no host", name)
	}
	return &desc, nil
}

func (c *client) upsert(ctx context.Context, host string, req upsertRequest) (int, error) {
	var resp upsertResponse
	if err := c.do(ctx, http.MethodPost, host+"/vectors/upsert", req, &resp); err != nil {
		return 0, err
	}
	return resp.UpsertedCount, nil
}

func (c *client) query(ctx context.Context, host string, req queryRequest) (*queryResponse, error) {
	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, host+"/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do sends one rate-limited request and decodes the JSON response into out.
// Transport failures and non-2xx statuses wrap domain.ErrBackendUnavailable.
func (c *client) do(ctx context.Context, method, url string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("X-Pinecone-API-Version", apiVersion)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: pinecone: %v", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordThrottle(parseRetryAfter(resp.Header.Get("Retry-After")))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: pinecone %s %s: status %d: %s",
			domain.ErrBackendUnavailable, method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// hostURL adds a scheme to bare hosts returned by the control plane.
func hostURL(host string) string {
	host = strings.TrimRight(host, "/")
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}
