// Package mcp provides an MCP (Model Context Protocol) server adapter for docproof.
// It lets AI assistants fingerprint text, verify documents and read the
// connected account's ledger history.
package mcp

import "errors"

// ErrMissingVerificationService is returned when the verification service is not provided.
var ErrMissingVerificationService = errors.New("mcp: verification service is required")
