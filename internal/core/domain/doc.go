// Package domain defines the core business entities for docproof.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Account: The wallet address that signs ledger writes
//   - Fingerprint: The content digest recorded on the ledger
//   - ContractCall: One state-changing contract invocation
//   - TxEvent / Transition: Transaction lifecycle stages
//   - UploadSession: One submission attempt
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
