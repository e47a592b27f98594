// Package pinata uploads documents through the Pinata pinning API.
package pinata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/docproof/internal/adapters/driven/pinning/transport"
	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
	"github.com/custodia-labs/docproof/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Pinner = (*Client)(nil)

// Default configuration values.
const (
	DefaultEndpoint = domain.DefaultPinataEndpoint
	DefaultTimeout  = 60 * time.Second
	DefaultRate     = 2.0
)

const providerName = "pinata"

// Config holds configuration for the Pinata client.
type Config struct {
	// Endpoint is the API base URL (default: https://api.pinata.cloud).
	Endpoint string

	// JWT is the bearer credential. Pin fails with ErrUploadAuth when empty.
	JWT string

	// Timeout bounds each HTTP request (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond throttles uploads (default: 2).
	RequestsPerSecond float64

	// Base is the underlying transport. Defaults to http.DefaultTransport.
	Base http.RoundTripper
}

// Client pins files with Pinata.
type Client struct {
	client   *http.Client
	endpoint string
	jwt      string
	limiter  *transport.Limiter
	now      func() time.Time
}

// pinResponse is the pinFileToIPFS response format.
type pinResponse struct {
	IpfsHash    string `json:"IpfsHash"`
	PinSize     int64  `json:"PinSize"`
	Timestamp   string `json:"Timestamp"`
	IsDuplicate bool   `json:"isDuplicate"`
}

// New creates a Pinata client. The JWT is sent through an oauth2 static
// token source so it never appears in request construction code.
func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRate
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.JWT,
		TokenType:   "Bearer",
	})

	return &Client{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &oauth2.Transport{Source: source, Base: cfg.Base},
		},
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		jwt:      cfg.JWT,
		limiter:  transport.NewLimiter(cfg.RequestsPerSecond),
		now:      time.Now,
	}
}

// Name identifies the provider.
func (c *Client) Name() string {
	return providerName
}

// Pin uploads data as a single file and returns its IPFS hash.
func (c *Client) Pin(ctx context.Context, name string, data []byte) (domain.ContentID, error) {
	if len(data) == 0 {
		return "", domain.Precondition(domain.ErrNoDocument)
	}
	if err := c.checkCredential(); err != nil {
		return "", err
	}

	meta, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	body, contentType, err := transport.FileBody("file", name, data, transport.Part{
		Name:  "pinataMetadata",
		Value: string(meta),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/pinning/pinFileToIPFS", body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	logger.Debug("pinata: uploading %s (%d bytes)", name, len(data))
	respBody, err := transport.Do(ctx, c.client, c.limiter, providerName, req)
	if err != nil {
		return "", err
	}

	var out pinResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: pinata: decode response: %s", domain.ErrUploadRejected, err.Error())
	}
	if out.IpfsHash == "" {
		return "", fmt.Errorf("%w: pinata: response carried no IpfsHash", domain.ErrUploadRejected)
	}
	if out.IsDuplicate {
		logger.Info("pinata: %s was already pinned", out.IpfsHash)
	}
	return domain.ContentID(out.IpfsHash), nil
}

// Ping checks the credential against the authentication test endpoint.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.checkCredential(); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/data/testAuthentication", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	_, err = transport.Do(ctx, c.client, c.limiter, providerName, req)
	return err
}

// checkCredential rejects a missing, malformed or expired JWT before any I/O.
// The signature is not verified; only Pinata can do that.
func (c *Client) checkCredential() error {
	if c.jwt == "" {
		return fmt.Errorf("%w: pinata JWT not configured (set pinning.jwt or DOCPROOF_PINNING_JWT)",
			domain.ErrUploadAuth)
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(c.jwt, &claims); err != nil {
		return fmt.Errorf("%w: pinata JWT is malformed: %s", domain.ErrUploadAuth, err.Error())
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(c.now()) {
		return fmt.Errorf("%w: pinata JWT expired at %s",
			domain.ErrUploadAuth, claims.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}
