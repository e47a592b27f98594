package domain

import "time"

// Phase is a state of the transaction orchestrator.
type Phase int

// Orchestrator phases. PhaseReady is the sub-state of idle in which a
// fingerprint is present and submission is possible.
const (
	PhaseIdle Phase = iota
	PhaseHashing
	PhaseReady
	PhaseUploading
	PhaseAwaitingSignature
	PhasePending
	PhaseConfirmed
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseHashing:
		return "hashing"
	case PhaseReady:
		return "ready"
	case PhaseUploading:
		return "uploading"
	case PhaseAwaitingSignature:
		return "awaiting_signature"
	case PhasePending:
		return "pending"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParsePhase is the inverse of Phase.String. Unknown names map to PhaseIdle.
func ParsePhase(s string) Phase {
	for p := PhaseIdle; p <= PhaseFailed; p++ {
		if p.String() == s {
			return p
		}
	}
	return PhaseIdle
}

// IsIdle reports whether no submission is running in this phase.
func (p Phase) IsIdle() bool {
	return p == PhaseIdle || p == PhaseReady
}

// InFlight reports whether the phase belongs to a running submission.
func (p Phase) InFlight() bool {
	switch p {
	case PhaseUploading, PhaseAwaitingSignature, PhasePending:
		return true
	default:
		return false
	}
}

// Note is the status line shown while in the phase.
func (p Phase) Note() string {
	switch p {
	case PhaseHashing:
		return "Hashing Your Document..."
	case PhaseReady:
		return "Document Hashed"
	case PhaseUploading:
		return "Uploading document..."
	case PhaseAwaitingSignature:
		return "Please confirm the transaction"
	case PhasePending:
		return "Please wait for transaction to be mined..."
	case PhaseConfirmed:
		return "Transaction Confirmed"
	case PhaseFailed:
		return "Transaction Failed"
	default:
		return ""
	}
}

// TxEventKind identifies a ledger lifecycle event.
type TxEventKind int

// Lifecycle events in the order a ledger adapter emits them.
const (
	TxEventHash TxEventKind = iota
	TxEventReceipt
	TxEventConfirmation
	TxEventError
)

// String returns the event name.
func (k TxEventKind) String() string {
	switch k {
	case TxEventHash:
		return "transactionHash"
	case TxEventReceipt:
		return "receipt"
	case TxEventConfirmation:
		return "confirmation"
	case TxEventError:
		return "error"
	default:
		return "unknown"
	}
}

// TxEvent is one stage of a submitted transaction.
type TxEvent struct {
	Kind          TxEventKind
	TxHash        string
	Receipt       *TransactionReceipt
	Confirmations uint64
	Err           error
}

// Transition records a phase change of the orchestrator.
type Transition struct {
	SessionID string
	Operation ContractMethod
	From      Phase
	To        Phase
	TxHash    string
	Receipt   *TransactionReceipt
	Err       error
	At        time.Time
}

// Note is the user-facing line for the transition.
func (t Transition) Note() string {
	switch t.To {
	case PhaseConfirmed:
		return t.Operation.SuccessNote()
	case PhaseFailed:
		if t.Err != nil {
			return t.Err.Error()
		}
	}
	return t.To.Note()
}

// Observer receives transitions in order. It is called synchronously from
// the orchestrator and must not block for long.
type Observer func(Transition)

// OrchestratorState is a read-only view of the orchestrator for renderers.
type OrchestratorState struct {
	Phase     Phase
	InFlight  bool
	CanSubmit bool
	Last      *UploadSession
}

// UploadSession aggregates one submission attempt.
type UploadSession struct {
	ID          string
	Operation   ContractMethod
	Account     Account
	FileName    string
	Fingerprint Fingerprint
	ContentID   ContentID
	Receipt     *TransactionReceipt
	Phase       Phase
	Err         error
	VerifyURL   string
	QRCode      []byte
	Balance     string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Confirmed reports whether the attempt reached a receipt.
func (s *UploadSession) Confirmed() bool {
	return s.Phase == PhaseConfirmed && s.Receipt != nil
}

// ErrorMessage returns the failure text, or empty.
func (s *UploadSession) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}
