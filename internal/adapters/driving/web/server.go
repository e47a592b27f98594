package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
	"github.com/custodia-labs/docproof/internal/logger"
)

// Default server settings.
const (
	DefaultAddr            = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// Config holds server settings.
type Config struct {
	Addr      string
	CacheTTL  time.Duration
	CacheSize int
}

// Metrics is the recorder the server reports to. May be nil.
type Metrics interface {
	LookupRecorder
	Middleware() func(http.Handler) http.Handler
}

// Server is the verification HTTP server.
type Server struct {
	httpServer *http.Server
	verify     driving.VerificationService
	lookups    *LookupCache
}

// New creates a server. gatherer backs /metrics and defaults to the
// global Prometheus registry.
func New(cfg Config, verify driving.VerificationService, metrics Metrics, gatherer prometheus.Gatherer) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	var recorder LookupRecorder
	if metrics != nil {
		recorder = metrics
	}

	s := &Server{
		verify:  verify,
		lookups: NewLookupCache(verify, cfg.CacheSize, cfg.CacheTTL, recorder),
	}

	router := chi.NewRouter()
	if metrics != nil {
		router.Use(metrics.Middleware())
	}
	router.Get("/verify.html", s.handleVerifyPage)
	router.Get("/api/v1/verify/{hash}", s.handleVerifyJSON)
	router.Get("/api/v1/qr/{hash}.png", s.handleQR)
	router.Get("/health/live", s.handleLive)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("verification server listening on %s", s.httpServer.Addr)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownTimeout)
	defer cancel()

	logger.Info("shutting down verification server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// verifyResponse is the JSON lookup result.
type verifyResponse struct {
	Hash         string `json:"hash"`
	Verified     bool   `json:"verified"`
	ExporterInfo string `json:"exporter_info,omitempty"`
	BlockNumber  uint64 `json:"block_number,omitempty"`
	Timestamp    uint64 `json:"timestamp,omitempty"`
	RecordedAt   string `json:"recorded_at,omitempty"`
	ContentID    string `json:"content_id,omitempty"`
	DocumentURL  string `json:"document_url,omitempty"`
	VerifyURL    string `json:"verify_url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleVerifyPage(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("hash")
	page := verifyPage{Hash: raw}

	fp, err := domain.ParseFingerprint(raw)
	if err != nil {
		page.Error = fmt.Sprintf("%q is not a document fingerprint", raw)
		s.renderPage(w, http.StatusBadRequest, page)
		return
	}
	page.Hash = fp.Hex()

	rec, err := s.lookups.Lookup(r.Context(), fp)
	if err != nil {
		logger.Warn("verify %s: %v", fp.Hex(), err)
		page.Error = "The ledger could not be reached. Try again later."
		s.renderPage(w, http.StatusBadGateway, page)
		return
	}

	page.Record = &verifyRecord{
		ExporterInfo: rec.ExporterInfo,
		BlockNumber:  rec.BlockNumber,
		ContentID:    rec.ContentID.String(),
		Exists:       rec.Exists(),
	}
	page.QRPath = "/api/v1/qr/" + fp.Hex() + ".png"
	if rec.Exists() {
		page.Recorded = formatTimestamp(rec.Timestamp)
		if rec.ContentID != "" {
			page.DocumentURL = s.verify.GatewayURL(rec.ContentID)
		}
	}

	status := http.StatusOK
	if !rec.Exists() {
		status = http.StatusNotFound
	}
	s.renderPage(w, status, page)
}

func (s *Server) handleVerifyJSON(w http.ResponseWriter, r *http.Request) {
	fp, err := domain.ParseFingerprint(chi.URLParam(r, "hash"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "hash must be 32 bytes of hex"})
		return
	}

	rec, err := s.lookups.Lookup(r.Context(), fp)
	if err != nil {
		logger.Warn("verify %s: %v", fp.Hex(), err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	resp := verifyResponse{
		Hash:      fp.Hex(),
		Verified:  rec.Exists(),
		VerifyURL: s.verify.URL(fp),
	}
	if rec.Exists() {
		resp.ExporterInfo = rec.ExporterInfo
		resp.BlockNumber = rec.BlockNumber
		resp.Timestamp = rec.Timestamp
		resp.RecordedAt = formatTimestamp(rec.Timestamp)
		resp.ContentID = rec.ContentID.String()
		if rec.ContentID != "" {
			resp.DocumentURL = s.verify.GatewayURL(rec.ContentID)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	fp, err := domain.ParseFingerprint(strings.TrimSuffix(chi.URLParam(r, "hash"), ".png"))
	if err != nil {
		http.Error(w, "hash must be 32 bytes of hex", http.StatusBadRequest)
		return
	}

	png, err := s.verify.QRCode(fp)
	if err != nil {
		logger.Warn("render QR for %s: %v", fp.Hex(), err)
		http.Error(w, "QR code unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(png)
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) renderPage(w http.ResponseWriter, status int, page verifyPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := verifyTemplate.Execute(w, page); err != nil {
		logger.Warn("render verify page: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func formatTimestamp(unix uint64) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(int64(unix), 0).UTC().Format(time.RFC3339)
}
