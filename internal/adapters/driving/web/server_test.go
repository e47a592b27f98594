package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docproof/internal/adapters/driven/metrics"
	"github.com/custodia-labs/docproof/internal/core/domain"
)

const knownHash = "0x1111111111111111111111111111111111111111111111111111111111111111"

type fakeVerify struct {
	mu      sync.Mutex
	records map[domain.Fingerprint]*domain.DocumentRecord
	err     error
	lookups int
}

func newFakeVerify() *fakeVerify {
	fp, _ := domain.ParseFingerprint(knownHash)
	return &fakeVerify{
		records: map[domain.Fingerprint]*domain.DocumentRecord{
			fp: {
				Fingerprint:  fp,
				BlockNumber:  42,
				Timestamp:    1700000000,
				ExporterInfo: "Acme University",
				ContentID:    "QmTestCid",
			},
		},
	}
}

func (f *fakeVerify) URL(fp domain.Fingerprint) string {
	return "http://verify.test/verify.html?hash=" + fp.Hex()
}

func (f *fakeVerify) QRCode(domain.Fingerprint) ([]byte, error) {
	return []byte("\x89PNG fake"), nil
}

func (f *fakeVerify) Lookup(_ context.Context, fp domain.Fingerprint) (*domain.DocumentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	if rec, ok := f.records[fp]; ok {
		return rec, nil
	}
	return &domain.DocumentRecord{Fingerprint: fp}, nil
}

func (f *fakeVerify) TxURL(h string) string              { return "tx/" + h }
func (f *fakeVerify) AddressURL(a domain.Account) string { return "address/" + string(a) }
func (f *fakeVerify) GatewayURL(cid domain.ContentID) string {
	return "https://gw.test/ipfs/" + string(cid)
}

func (f *fakeVerify) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

func newTestServer(t *testing.T, verify *fakeVerify) (*Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	srv := New(Config{CacheTTL: time.Minute}, verify, rec, reg)
	return srv, reg
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestVerifyPage_Found(t *testing.T) {
	srv, _ := newTestServer(t, newFakeVerify())

	rr := get(t, srv.Handler(), "/verify.html?hash="+knownHash)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	body := rr.Body.String()
	assert.Contains(t, body, "Document Verified Successfully")
	assert.Contains(t, body, "Acme University")
	assert.Contains(t, body, "https://gw.test/ipfs/QmTestCid")
	assert.Contains(t, body, "/api/v1/qr/"+knownHash+".png")
	assert.Contains(t, body, "2023-11-14T22:13:20Z")
}

func TestVerifyPage_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, newFakeVerify())
	other := "0x" + strings.Repeat("ab", 32)

	rr := get(t, srv.Handler(), "/verify.html?hash="+other)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Document Not Found")
	assert.Contains(t, rr.Body.String(), other)
}

func TestVerifyPage_BadHash(t *testing.T) {
	verify := newFakeVerify()
	srv, _ := newTestServer(t, verify)

	rr := get(t, srv.Handler(), "/verify.html?hash=nothex")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "is not a document fingerprint")
	assert.Equal(t, 0, verify.count())
}

func TestVerifyPage_LedgerError(t *testing.T) {
	verify := newFakeVerify()
	verify.err = errors.New("connection refused")
	srv, _ := newTestServer(t, verify)

	rr := get(t, srv.Handler(), "/verify.html?hash="+knownHash)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "could not be reached")
}

func TestVerifyJSON(t *testing.T) {
	srv, _ := newTestServer(t, newFakeVerify())

	rr := get(t, srv.Handler(), "/api/v1/verify/"+knownHash)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp verifyResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Verified)
	assert.Equal(t, knownHash, resp.Hash)
	assert.Equal(t, uint64(42), resp.BlockNumber)
	assert.Equal(t, "QmTestCid", resp.ContentID)
	assert.Equal(t, "https://gw.test/ipfs/QmTestCid", resp.DocumentURL)
	assert.Equal(t, "http://verify.test/verify.html?hash="+knownHash, resp.VerifyURL)
}

func TestVerifyJSON_Unknown(t *testing.T) {
	srv, _ := newTestServer(t, newFakeVerify())

	rr := get(t, srv.Handler(), "/api/v1/verify/"+strings.Repeat("cd", 32))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp verifyResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Verified)
	assert.Empty(t, resp.ContentID)
}

func TestVerifyJSON_BadHash(t *testing.T) {
	srv, _ := newTestServer(t, newFakeVerify())

	rr := get(t, srv.Handler(), "/api/v1/verify/0x1234")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "32 bytes")
}

func TestVerifyJSON_CachesLookups(t *testing.T) {
	verify := newFakeVerify()
	srv, reg := newTestServer(t, verify)

	get(t, srv.Handler(), "/api/v1/verify/"+knownHash)
	get(t, srv.Handler(), "/api/v1/verify/"+knownHash)

	assert.Equal(t, 1, verify.count())

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "docproof_verify_lookups_total")
}

func TestVerifyJSON_ErrorsAreNotCached(t *testing.T) {
	verify := newFakeVerify()
	verify.err = errors.New("timeout")
	srv, _ := newTestServer(t, verify)

	rr := get(t, srv.Handler(), "/api/v1/verify/"+knownHash)
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	verify.mu.Lock()
	verify.err = nil
	verify.mu.Unlock()

	rr = get(t, srv.Handler(), "/api/v1/verify/"+knownHash)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, verify.count())
}

func TestQR(t *testing.T) {
	srv, _ := newTestServer(t, newFakeVerify())

	rr := get(t, srv.Handler(), "/api/v1/qr/"+knownHash+".png")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG fake", rr.Body.String())
}

func TestQR_BadHash(t *testing.T) {
	srv, _ := newTestServer(t, newFakeVerify())

	rr := get(t, srv.Handler(), "/api/v1/qr/zz.png")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t, newFakeVerify())

	rr := get(t, srv.Handler(), "/health/live")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = get(t, srv.Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "docproof_http_requests_total")
}

func TestNew_Defaults(t *testing.T) {
	srv := New(Config{}, newFakeVerify(), nil, prometheus.NewRegistry())

	assert.Equal(t, DefaultAddr, srv.Addr())
	rr := get(t, srv.Handler(), "/health/live")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := New(Config{Addr: "127.0.0.1:0"}, newFakeVerify(), nil, prometheus.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestLookupCache_CountsHits(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	cache := NewLookupCache(newFakeVerify(), 0, time.Minute, rec)
	fp, err := domain.ParseFingerprint(knownHash)
	require.NoError(t, err)

	_, err = cache.Lookup(context.Background(), fp)
	require.NoError(t, err)
	_, err = cache.Lookup(context.Background(), fp)
	require.NoError(t, err)

	assert.Equal(t, 2, testutil.CollectAndCount(reg, "docproof_verify_lookups_total"))

	cache.Purge()
	_, err = cache.Lookup(context.Background(), fp)
	require.NoError(t, err)
}
