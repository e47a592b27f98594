// Package web serves verification pages and their JSON and QR variants.
//
// Routes:
//
//	GET /verify.html?hash=0x...   HTML result page
//	GET /api/v1/verify/{hash}     JSON lookup result
//	GET /api/v1/qr/{hash}.png     verification QR code
//	GET /health/live              liveness probe
//	GET /metrics                  Prometheus metrics
//
// Ledger lookups are cached for a short TTL so a scanned QR code that is
// refreshed repeatedly does not hit the node each time.
package web
