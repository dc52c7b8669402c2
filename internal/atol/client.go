package atol

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Known upstream hosts. The environment flag in the gateway config selects
// between them.
const (
	ProductionBaseURL = "https://app.ecomkassa.ru/fiscalorder/v5"
	SandboxBaseURL    = "https://demo.ecomkassa.ru/fiscalorder/v5"
)

// Observed upstream timeouts: document registration is allowed more time
// than the read-only calls.
const (
	DefaultAuthTimeout    = 10 * time.Second
	DefaultStatusTimeout  = 10 * time.Second
	DefaultReceiptTimeout = 15 * time.Second
)

const userAgent = "eKomKassa-Gateway/1.0"

// ClientConfig configures the upstream client.
type ClientConfig struct {
	BaseURL        string
	AuthTimeout    time.Duration
	StatusTimeout  time.Duration
	ReceiptTimeout time.Duration
}

// Client performs the outbound HTTP calls against the eKomKassa cloud API.
// It is stateless and safe for concurrent use.
type Client struct {
	baseURL       string
	authClient    *http.Client
	statusClient  *http.Client
	receiptClient *http.Client
}

// NewClient creates a Client, filling unset config fields with defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = ProductionBaseURL
	}
	if cfg.AuthTimeout == 0 {
		cfg.AuthTimeout = DefaultAuthTimeout
	}
	if cfg.StatusTimeout == 0 {
		cfg.StatusTimeout = DefaultStatusTimeout
	}
	if cfg.ReceiptTimeout == 0 {
		cfg.ReceiptTimeout = DefaultReceiptTimeout
	}

	return &Client{
		baseURL:       strings.TrimSuffix(cfg.BaseURL, "/"),
		authClient:    &http.Client{Timeout: cfg.AuthTimeout},
		statusClient:  &http.Client{Timeout: cfg.StatusTimeout},
		receiptClient: &http.Client{Timeout: cfg.ReceiptTimeout},
	}
}

// BaseURL returns the configured upstream base.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetToken exchanges credentials for an access token via POST {base}/getToken.
func (c *Client) GetToken(ctx context.Context, payload AuthPayload) (*Response, error) {
	url := c.baseURL + "/getToken"
	return c.do(ctx, c.authClient, http.MethodPost, url, "", payload)
}

// CreateDocument registers a fiscal document via
// POST {base}/{groupCode}/{segment}.
func (c *Client) CreateDocument(ctx context.Context, groupCode, segment, token string, payload interface{}) (*Response, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, groupCode, segment)
	return c.do(ctx, c.receiptClient, http.MethodPost, url, token, payload)
}

// GetReport fetches the processing state of a document via
// GET {base}/{groupCode}/report/{documentID}.
func (c *Client) GetReport(ctx context.Context, groupCode, documentID, token string) (*Response, error) {
	url := fmt.Sprintf("%s/%s/report/%s", c.baseURL, groupCode, documentID)
	return c.do(ctx, c.statusClient, http.MethodGet, url, token, nil)
}

// Replay re-issues a previously logged outbound call verbatim.
func (c *Client) Replay(ctx context.Context, method, url string, body []byte) (*Response, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	return c.send(c.receiptClient, req)
}

func (c *Client) do(ctx context.Context, httpClient *http.Client, method, url, token string, payload interface{}) (*Response, error) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if token != "" {
		req.Header.Set("Token", token)
	}

	slog.Debug("upstream request", "method", method, "url", url)
	return c.send(httpClient, req)
}

func (c *Client) send(httpClient *http.Client, req *http.Request) (*Response, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	slog.Debug("upstream response", "url", req.URL.String(), "status", resp.StatusCode)
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
