// Package transport holds the HTTP plumbing shared by the pinning adapters:
// request throttling, multipart file bodies and status classification.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// maxMessageLen bounds provider text copied into errors.
const maxMessageLen = 200

// Part is an extra multipart form field sent before the file.
type Part struct {
	Name  string
	Value string
}

// FileBody encodes data as a multipart form with the file under field.
// It returns the body and its Content-Type.
func FileBody(field, name string, data []byte, extra ...Part) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, p := range extra {
		if err := w.WriteField(p.Name, p.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", p.Name, err)
		}
	}

	part, err := w.CreateFormFile(field, name)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

// Do sends req after waiting on limiter and returns the body of a 2xx
// response. Failures wrap exactly one upload sentinel; context errors are
// returned as is.
func Do(ctx context.Context, client *http.Client, limiter *Limiter, provider string, req *http.Request) ([]byte, error) {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, NetworkError(provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, NetworkError(provider, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests && limiter != nil {
		limiter.RecordRateLimit(RetryAfter(resp.Header))
	}
	if err := ClassifyStatus(provider, resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// NetworkError wraps a transport failure.
func NetworkError(provider string, err error) error {
	return fmt.Errorf("%w: %s: %s", domain.ErrUploadNetwork, provider, err.Error())
}

// ClassifyStatus maps an HTTP status onto the upload error categories.
// 2xx returns nil.
func ClassifyStatus(provider string, code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}

	var sentinel error
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		sentinel = domain.ErrUploadAuth
	case code == http.StatusTooManyRequests, code >= 500:
		sentinel = domain.ErrUploadNetwork
	default:
		sentinel = domain.ErrUploadRejected
	}

	msg := Message(body)
	if msg == "" {
		return fmt.Errorf("%w: %s returned status %d", sentinel, provider, code)
	}
	return fmt.Errorf("%w: %s returned status %d: %s", sentinel, provider, code, msg)
}

// Message extracts a readable error from a provider response body.
// JSON error envelopes are unpacked; anything else is trimmed text.
func Message(body []byte) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"Message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return truncate(envelope.Message)
		}
		if len(envelope.Error) > 0 {
			var text string
			if err := json.Unmarshal(envelope.Error, &text); err == nil {
				return truncate(text)
			}
			var detail struct {
				Reason  string `json:"reason"`
				Details string `json:"details"`
			}
			if err := json.Unmarshal(envelope.Error, &detail); err == nil {
				switch {
				case detail.Reason != "" && detail.Details != "":
					return truncate(detail.Reason + ": " + detail.Details)
				case detail.Details != "":
					return truncate(detail.Details)
				case detail.Reason != "":
					return truncate(detail.Reason)
				}
			}
		}
	}
	return truncate(strings.TrimSpace(string(body)))
}

// RetryAfter parses a Retry-After header given in seconds.
func RetryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(h.Get("Retry-After")))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	return s[:maxMessageLen] + "..."
}
