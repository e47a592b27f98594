package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for docproof resources.
	uriScheme = "docproof://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the connected session.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "session",
		Name:        "session",
		Description: "Connected account, network and balance",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	// Template for ledger records.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{fingerprint}",
		Name:        "document-record",
		Description: "Ledger record of a document fingerprint",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)
}

// sessionInfo is the JSON body of docproof://session.
type sessionInfo struct {
	Account       string `json:"account,omitempty"`
	Connected     bool   `json:"connected"`
	WalletMissing bool   `json:"wallet_missing,omitempty"`
	ChainID       uint64 `json:"chain_id,omitempty"`
	Network       string `json:"network,omitempty"`
	Balance       string `json:"balance,omitempty"`
	ExporterInfo  string `json:"exporter_info,omitempty"`
}

// handleSessionResource describes the connected session.
func (s *Server) handleSessionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Session == nil {
		return jsonResource(req.Params.URI, sessionInfo{})
	}

	status, err := s.ports.Session.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting session status: %w", err)
	}

	return jsonResource(req.Params.URI, sessionInfo{
		Account:       status.Account.String(),
		Connected:     !status.Account.IsZero(),
		WalletMissing: status.WalletMissing,
		ChainID:       status.ChainID,
		Network:       status.ChainLabel,
		Balance:       status.Balance,
		ExporterInfo:  status.ExporterInfo,
	})
}

// recordInfo is the JSON body of docproof://documents/{fingerprint}.
type recordInfo struct {
	Fingerprint  string `json:"fingerprint"`
	Verified     bool   `json:"verified"`
	ExporterInfo string `json:"exporter_info,omitempty"`
	BlockNumber  uint64 `json:"block_number,omitempty"`
	Timestamp    uint64 `json:"timestamp,omitempty"`
	ContentID    string `json:"content_id,omitempty"`
}

// handleDocumentResource returns the ledger record for a fingerprint.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract fingerprint from URI: docproof://documents/{fingerprint}
	fp, ok := extractFingerprint(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	rec, err := s.ports.Verification.Lookup(ctx, fp)
	if err != nil {
		return nil, fmt.Errorf("looking up document: %w", err)
	}

	return jsonResource(req.Params.URI, recordInfo{
		Fingerprint:  fp.Hex(),
		Verified:     rec.Exists(),
		ExporterInfo: rec.ExporterInfo,
		BlockNumber:  rec.BlockNumber,
		Timestamp:    rec.Timestamp,
		ContentID:    rec.ContentID.String(),
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractFingerprint parses the fingerprint from a URI like docproof://documents/0x....
func extractFingerprint(uri string) (domain.Fingerprint, bool) {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return domain.Fingerprint{}, false
	}

	fp, err := domain.ParseFingerprint(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return domain.Fingerprint{}, false
	}
	return fp, true
}
