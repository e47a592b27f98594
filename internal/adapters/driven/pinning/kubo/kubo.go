// Package kubo uploads documents through an IPFS HTTP API such as a local
// Kubo node or a hosted gateway like Infura.
package kubo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/docproof/internal/adapters/driven/pinning/transport"
	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
	"github.com/custodia-labs/docproof/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Pinner = (*Client)(nil)

// Default configuration values.
const (
	DefaultEndpoint = domain.DefaultKuboEndpoint
	DefaultTimeout  = 60 * time.Second
)

const providerName = "kubo"

// Config holds configuration for the IPFS HTTP API client.
type Config struct {
	// Endpoint is the API base URL (default: http://127.0.0.1:5001).
	Endpoint string

	// ProjectID and ProjectSecret enable basic auth for hosted APIs.
	ProjectID     string
	ProjectSecret string

	// Timeout bounds each HTTP request (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond throttles uploads. Zero disables throttling.
	RequestsPerSecond float64
}

// Client pins files through /api/v0/add.
type Client struct {
	client   *http.Client
	endpoint string
	user     string
	secret   string
	limiter  *transport.Limiter
}

// addResponse is one line of the add endpoint's JSON stream.
type addResponse struct {
	Name string `json:"Name"`
	Hash string `json:"Hash"`
	Size string `json:"Size"`
}

// New creates an IPFS HTTP API client.
func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		client:   &http.Client{Timeout: cfg.Timeout},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		user:     cfg.ProjectID,
		secret:   cfg.ProjectSecret,
		limiter:  transport.NewLimiter(cfg.RequestsPerSecond),
	}
}

// Name identifies the provider.
func (c *Client) Name() string {
	return providerName
}

// Pin adds and pins data, returning the root hash.
func (c *Client) Pin(ctx context.Context, name string, data []byte) (domain.ContentID, error) {
	if len(data) == 0 {
		return "", domain.Precondition(domain.ErrNoDocument)
	}

	body, contentType, err := transport.FileBody("file", name, data)
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, "/api/v0/add?pin=true", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	logger.Debug("kubo: adding %s (%d bytes)", name, len(data))
	respBody, err := transport.Do(ctx, c.client, c.limiter, providerName, req)
	if err != nil {
		return "", err
	}

	hash, err := lastHash(respBody)
	if err != nil {
		return "", fmt.Errorf("%w: kubo: %s", domain.ErrUploadRejected, err.Error())
	}
	return domain.ContentID(hash), nil
}

// Ping queries the node version.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, "/api/v0/version", http.NoBody)
	if err != nil {
		return err
	}
	_, err = transport.Do(ctx, c.client, c.limiter, providerName, req)
	return err
}

func (c *Client) newRequest(ctx context.Context, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.secret)
	}
	return req, nil
}

// lastHash reads the newline-delimited add response. The final entry is
// the root of what was added.
func lastHash(body []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	var hash string
	for {
		var entry addResponse
		err := dec.Decode(&entry)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}
		if entry.Hash != "" {
			hash = entry.Hash
		}
	}
	if hash == "" {
		return "", errors.New("response carried no Hash")
	}
	return hash, nil
}
