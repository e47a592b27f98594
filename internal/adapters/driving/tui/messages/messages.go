// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewUpload selects, hashes and records a document.
	ViewUpload
	// ViewVerify looks a document up on the ledger.
	ViewVerify
	// ViewHistory lists records of the connected account.
	ViewHistory
	// ViewWallet shows the connected account and network.
	ViewWallet
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewUpload:
		return "upload"
	case ViewVerify:
		return "verify"
	case ViewHistory:
		return "history"
	case ViewWallet:
		return "wallet"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentHashed carries the result of fingerprinting a selected file.
type DocumentHashed struct {
	Selection *domain.FileSelection
	Err       error
}

// PhaseChanged carries one orchestrator transition.
type PhaseChanged struct {
	Transition domain.Transition
}

// SubmissionFinished is sent when a ledger write has confirmed or failed.
type SubmissionFinished struct {
	Session *domain.UploadSession
	Err     error
}

// PassphraseRequested asks the user to unlock the signing account.
// The answer must be sent on Reply exactly once; an empty answer declines.
type PassphraseRequested struct {
	Account domain.Account
	Reply   chan<- string
}

// VerifyCompleted carries the ledger's answer to a lookup.
type VerifyCompleted struct {
	Fingerprint domain.Fingerprint
	Record      *domain.DocumentRecord
	Err         error
}

// HistoryLoaded carries HashAdded records of the connected account.
type HistoryLoaded struct {
	Page *domain.HistoryPage
	Err  error
}

// UploadsLoaded carries local submission attempts.
type UploadsLoaded struct {
	Sessions []domain.UploadSession
	Err      error
}

// StatusLoaded carries the connected session's status.
type StatusLoaded struct {
	Status *driving.SessionStatus
	Err    error
}

// AccountChanged is sent when the wallet switches accounts.
type AccountChanged struct {
	Account domain.Account
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals a setting was stored or reset.
type SettingsSaved struct {
	Key string
	Err error
}
