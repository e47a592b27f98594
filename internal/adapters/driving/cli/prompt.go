package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

// stdinReader is shared so consecutive prompts on piped input do not lose
// buffered lines.
var stdinReader = bufio.NewReader(os.Stdin)

// readSecret prints label and reads one line without echo when stdin is a
// terminal. Tests replace it.
var readSecret = func(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	line, err := stdinReader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// passphrasePrompt, when set, replaces the terminal prompt. The tui
// command installs one while Bubbletea owns the terminal.
var (
	promptMu         sync.RWMutex
	passphrasePrompt func(ctx context.Context, account domain.Account) (string, error)
)

func setPassphrasePrompt(fn func(ctx context.Context, account domain.Account) (string, error)) {
	promptMu.Lock()
	defer promptMu.Unlock()
	passphrasePrompt = fn
}

// PromptPassphrase asks for the passphrase that unlocks account. It is the
// wallet's signing prompt; an empty answer declines the transaction.
func PromptPassphrase(ctx context.Context, account domain.Account) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	promptMu.RLock()
	prompt := passphrasePrompt
	promptMu.RUnlock()
	if prompt != nil {
		return prompt(ctx, account)
	}
	return readSecret(fmt.Sprintf("Passphrase to sign with %s (empty to decline): ", account.Short()))
}

// readNewPassphrase asks twice and requires both answers to match.
func readNewPassphrase() (string, error) {
	first, err := readSecret("New passphrase: ")
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", domain.Precondition(errors.New("passphrase must not be empty"))
	}
	second, err := readSecret("Repeat passphrase: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", domain.Precondition(errors.New("passphrases do not match"))
	}
	return first, nil
}

func maskSecret(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
