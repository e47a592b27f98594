package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/fingerprint"
)

// defaultHistoryLimit caps local upload listings.
const defaultHistoryLimit = 20

// FingerprintInput is the input schema for the fingerprint_text tool.
type FingerprintInput struct {
	Text string `json:"text" jsonschema:"the document text to fingerprint"`
}

// FingerprintOutput is the output schema for the fingerprint_text tool.
type FingerprintOutput struct {
	Fingerprint string `json:"fingerprint"`
}

// VerifyInput is the input schema for the verify_document tool.
type VerifyInput struct {
	Hash string `json:"hash,omitempty" jsonschema:"0x-prefixed document fingerprint"`
	Text string `json:"text,omitempty" jsonschema:"document text to fingerprint and look up, used when hash is empty"`
}

// VerifyOutput is the output schema for the verify_document tool.
type VerifyOutput struct {
	Fingerprint  string `json:"fingerprint"`
	Verified     bool   `json:"verified"`
	ExporterInfo string `json:"exporter_info,omitempty"`
	BlockNumber  uint64 `json:"block_number,omitempty"`
	RecordedAt   string `json:"recorded_at,omitempty"`
	ContentID    string `json:"content_id,omitempty"`
	DocumentURL  string `json:"document_url,omitempty"`
	VerifyURL    string `json:"verify_url"`
}

// HistoryInput is the input schema for the upload_history tool.
type HistoryInput struct {
	FromBlock uint64 `json:"from_block,omitempty" jsonschema:"first block to search"`
	ToBlock   uint64 `json:"to_block,omitempty" jsonschema:"last block to search (0 means latest)"`
	Local     bool   `json:"local,omitempty" jsonschema:"list local submission attempts instead of ledger records"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum local attempts to return (default 20)"`
}

// HistoryOutput is the output schema for the upload_history tool.
type HistoryOutput struct {
	Account  string          `json:"account,omitempty"`
	Records  []RecordOutput  `json:"records,omitempty"`
	Attempts []AttemptOutput `json:"attempts,omitempty"`
	Count    int             `json:"count"`
	Partial  bool            `json:"partial,omitempty"`
	Warning  string          `json:"warning,omitempty"`
}

// RecordOutput is one HashAdded record.
type RecordOutput struct {
	ContentID   string `json:"content_id"`
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number"`
}

// AttemptOutput is one local submission attempt.
type AttemptOutput struct {
	ID          string `json:"id"`
	Operation   string `json:"operation"`
	FileName    string `json:"file_name,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Phase       string `json:"phase"`
	Error       string `json:"error,omitempty"`
	StartedAt   string `json:"started_at"`
}

// ExporterInput is the input schema for the exporter_info tool.
type ExporterInput struct {
	Address string `json:"address,omitempty" jsonschema:"exporter address; defaults to the connected account"`
}

// ExporterOutput is the output schema for the exporter_info tool.
type ExporterOutput struct {
	Address    string `json:"address"`
	Info       string `json:"info"`
	Registered bool   `json:"registered"`
}

// CountersInput is the empty input schema for the ledger_counters tool.
type CountersInput struct{}

// CountersOutput is the output schema for the ledger_counters tool.
type CountersOutput struct {
	Exporters uint16 `json:"exporters"`
	Hashes    uint16 `json:"hashes"`
	Owner     string `json:"owner,omitempty"`
}

// Tool names.
const (
	ToolFingerprint    = "fingerprint_text"
	ToolVerify         = "verify_document"
	ToolHistory        = "upload_history"
	ToolExporterInfo   = "exporter_info"
	ToolLedgerCounters = "ledger_counters"
)

// ToolInfo describes one tool the server offers.
type ToolInfo struct {
	Name        string
	Description string
}

// Tools lists the tools served for ports, in registration order.
// History and exporter tools are left out when their service is missing.
func Tools(ports *Ports) []ToolInfo {
	tools := []ToolInfo{
		{ToolFingerprint, "Compute the ledger fingerprint (keccak256 of the UTF-8 text) of a document"},
		{ToolVerify, "Check whether a document fingerprint is recorded on the ledger and by which exporter"},
	}
	if ports.History != nil {
		tools = append(tools, ToolInfo{ToolHistory, "List documents recorded by the connected account, or local submission attempts"})
	}
	if ports.Exporter != nil {
		tools = append(tools,
			ToolInfo{ToolExporterInfo, "Look up an exporter directory entry"},
			ToolInfo{ToolLedgerCounters, "Report the number of exporters and recorded documents"},
		)
	}
	return tools
}

// registerTools adds a handler for every tool in s.tools.
func (s *Server) registerTools() {
	for _, info := range s.tools {
		tool := &mcp.Tool{Name: info.Name, Description: info.Description}
		switch info.Name {
		case ToolFingerprint:
			mcp.AddTool(s.server, tool, s.handleFingerprint)
		case ToolVerify:
			mcp.AddTool(s.server, tool, s.handleVerify)
		case ToolHistory:
			mcp.AddTool(s.server, tool, s.handleHistory)
		case ToolExporterInfo:
			mcp.AddTool(s.server, tool, s.handleExporterInfo)
		case ToolLedgerCounters:
			mcp.AddTool(s.server, tool, s.handleCounters)
		}
	}
}

func (s *Server) handleFingerprint(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FingerprintInput,
) (*mcp.CallToolResult, FingerprintOutput, error) {
	fp, err := fingerprint.Text(input.Text)
	if err != nil {
		return nil, FingerprintOutput{}, fmt.Errorf("fingerprint: %w", err)
	}
	return nil, FingerprintOutput{Fingerprint: fp.Hex()}, nil
}

func (s *Server) handleVerify(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input VerifyInput,
) (*mcp.CallToolResult, VerifyOutput, error) {
	var fp domain.Fingerprint
	var err error
	switch {
	case input.Hash != "":
		fp, err = domain.ParseFingerprint(input.Hash)
		if err != nil {
			return nil, VerifyOutput{}, fmt.Errorf("%q is not a 32 byte hex fingerprint", input.Hash)
		}
	case input.Text != "":
		fp, err = fingerprint.Text(input.Text)
		if err != nil {
			return nil, VerifyOutput{}, fmt.Errorf("fingerprint: %w", err)
		}
	default:
		return nil, VerifyOutput{}, errors.New("either hash or text is required")
	}

	rec, err := s.ports.Verification.Lookup(ctx, fp)
	if err != nil {
		return nil, VerifyOutput{}, err
	}

	output := VerifyOutput{
		Fingerprint: fp.Hex(),
		Verified:    rec.Exists(),
		VerifyURL:   s.ports.Verification.URL(fp),
	}
	if rec.Exists() {
		output.ExporterInfo = rec.ExporterInfo
		output.BlockNumber = rec.BlockNumber
		if rec.Timestamp > 0 {
			output.RecordedAt = time.Unix(int64(rec.Timestamp), 0).UTC().Format(time.RFC3339)
		}
		if rec.ContentID != "" {
			output.ContentID = rec.ContentID.String()
			output.DocumentURL = s.ports.Verification.GatewayURL(rec.ContentID)
		}
	}
	return nil, output, nil
}

func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	if s.ports.History == nil {
		return nil, HistoryOutput{}, errors.New("history is not available")
	}

	if input.Local {
		limit := input.Limit
		if limit <= 0 {
			limit = defaultHistoryLimit
		}
		sessions, err := s.ports.History.Uploads(ctx, limit)
		if err != nil {
			return nil, HistoryOutput{}, err
		}
		output := HistoryOutput{
			Attempts: make([]AttemptOutput, len(sessions)),
			Count:    len(sessions),
		}
		for i := range sessions {
			output.Attempts[i] = toAttempt(&sessions[i])
		}
		return nil, output, nil
	}

	r := domain.BlockRange{From: input.FromBlock}
	if input.ToBlock > 0 {
		to := input.ToBlock
		r.To = &to
	}
	page, err := s.ports.History.Records(ctx, r)
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	output := HistoryOutput{
		Account: page.Account.String(),
		Records: make([]RecordOutput, len(page.Records)),
		Count:   len(page.Records),
		Partial: page.Partial,
	}
	for i, rec := range page.Records {
		output.Records[i] = RecordOutput{
			ContentID:   rec.ContentID.String(),
			TxHash:      rec.TxHash,
			BlockNumber: rec.BlockNumber,
		}
	}
	if page.Err != nil {
		output.Warning = page.Err.Error()
	}
	return nil, output, nil
}

func (s *Server) handleExporterInfo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExporterInput,
) (*mcp.CallToolResult, ExporterOutput, error) {
	if s.ports.Exporter == nil {
		return nil, ExporterOutput{}, errors.New("exporter directory is not available")
	}
	exp, err := s.ports.Exporter.Info(ctx, input.Address)
	if err != nil {
		return nil, ExporterOutput{}, err
	}
	return nil, ExporterOutput{
		Address:    exp.Address.String(),
		Info:       exp.Info,
		Registered: exp.Info != "",
	}, nil
}

func (s *Server) handleCounters(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CountersInput,
) (*mcp.CallToolResult, CountersOutput, error) {
	if s.ports.Exporter == nil {
		return nil, CountersOutput{}, errors.New("exporter directory is not available")
	}
	c, err := s.ports.Exporter.Counters(ctx)
	if err != nil {
		return nil, CountersOutput{}, err
	}
	output := CountersOutput{Exporters: c.Exporters, Hashes: c.Hashes}
	if owner, err := s.ports.Exporter.Owner(ctx); err == nil {
		output.Owner = owner.String()
	}
	return nil, output, nil
}

func toAttempt(sess *domain.UploadSession) AttemptOutput {
	a := AttemptOutput{
		ID:        sess.ID,
		Operation: sess.Operation.String(),
		FileName:  sess.FileName,
		Phase:     sess.Phase.String(),
		Error:     sess.ErrorMessage(),
		StartedAt: sess.StartedAt.UTC().Format(time.RFC3339),
	}
	if !sess.Fingerprint.IsZero() {
		a.Fingerprint = sess.Fingerprint.Hex()
	}
	return a
}
