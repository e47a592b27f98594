// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Wallet: Account selection, chain identity and balances
//   - Ledger: Contract writes with lifecycle events, reads and event history
//   - Pinner: Content-addressed upload (Pinata or an IPFS HTTP API)
//   - SessionStore: Persisted client values (the connected account)
//   - UploadStore: Local log of submission attempts
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - QRRenderer: Verification QR images. Without it only the URL is produced.
//   - LifecycleRecorder: Metrics. Without it nothing is counted.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
