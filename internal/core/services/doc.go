// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// SessionState is the one piece of shared mutable state. The session
// service owns the account, the orchestrator owns the selected document
// and the submission lifecycle, and renderers only read snapshots.
package services
