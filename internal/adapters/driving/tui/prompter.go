package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docproof/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docproof/internal/core/domain"
)

// ErrNoProgram is returned when a passphrase is requested while no TUI
// program is running.
var ErrNoProgram = errors.New("tui: no running program to prompt")

// Sender delivers messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Prompter asks for signing passphrases through the running TUI.
// The terminal belongs to Bubbletea while it runs, so the wallet's
// prompt must go through the program instead of stdin.
type Prompter struct {
	mu     sync.Mutex
	sender Sender
}

// NewPrompter creates a prompter with no program attached.
func NewPrompter() *Prompter {
	return &Prompter{}
}

// Attach routes future prompts to s.
func (p *Prompter) Attach(s Sender) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sender = s
}

// Detach stops routing prompts.
func (p *Prompter) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sender = nil
}

// Prompt shows the passphrase dialog for account and waits for the answer.
// An empty answer declines.
func (p *Prompter) Prompt(ctx context.Context, account domain.Account) (string, error) {
	p.mu.Lock()
	sender := p.sender
	p.mu.Unlock()
	if sender == nil {
		return "", ErrNoProgram
	}

	reply := make(chan string, 1)
	sender.Send(messages.PassphraseRequested{Account: account, Reply: reply})

	select {
	case passphrase := <-reply:
		return passphrase, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
