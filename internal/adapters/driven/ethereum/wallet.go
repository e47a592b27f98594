package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
)

// Verify interface compliance at compile time.
var (
	_ driven.Wallet = (*KeystoreWallet)(nil)
	_ Signer        = (*KeystoreWallet)(nil)
)

// PassphraseFunc asks the user to unlock an account.
// An error or empty passphrase declines the signature.
type PassphraseFunc func(ctx context.Context, account domain.Account) (string, error)

// ChainReader is the part of the node API the wallet needs.
type ChainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// WalletOption configures a KeystoreWallet.
type WalletOption func(*walletConfig)

type walletConfig struct {
	scryptN int
	scryptP int
}

// WithLightKDF uses cheap key derivation. Keys written this way are weaker,
// so it is meant for tests and throwaway accounts.
func WithLightKDF() WalletOption {
	return func(c *walletConfig) {
		c.scryptN = keystore.LightScryptN
		c.scryptP = keystore.LightScryptP
	}
}

// KeystoreWallet is a wallet backed by an encrypted key directory.
type KeystoreWallet struct {
	dir    string
	ks     *keystore.KeyStore
	chain  ChainReader
	prompt PassphraseFunc
}

// NewKeystoreWallet opens the keystore in dir. chain may be nil when no
// node is configured; ChainID and Balance then fail.
func NewKeystoreWallet(dir string, chain ChainReader, prompt PassphraseFunc, opts ...WalletOption) *KeystoreWallet {
	cfg := walletConfig{
		scryptN: keystore.StandardScryptN,
		scryptP: keystore.StandardScryptP,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &KeystoreWallet{
		dir:    dir,
		ks:     keystore.NewKeyStore(dir, cfg.scryptN, cfg.scryptP),
		chain:  chain,
		prompt: prompt,
	}
}

// Dir returns the keystore directory.
func (w *KeystoreWallet) Dir() string {
	return w.dir
}

// Available reports whether the keystore holds at least one key.
func (w *KeystoreWallet) Available() bool {
	return len(w.ks.Accounts()) > 0
}

// Accounts lists the keystore accounts in file order.
func (w *KeystoreWallet) Accounts() []domain.Account {
	list := w.ks.Accounts()
	out := make([]domain.Account, len(list))
	for i, a := range list {
		out[i] = domain.Account(a.Address.Hex())
	}
	return out
}

// RequestAccounts returns the accounts the user may connect.
func (w *KeystoreWallet) RequestAccounts(context.Context) ([]domain.Account, error) {
	list := w.Accounts()
	if len(list) == 0 {
		return nil, domain.ErrNoWallet
	}
	return list, nil
}

// AccountsChanged emits the account list whenever a key file appears or
// disappears in the keystore directory.
func (w *KeystoreWallet) AccountsChanged(ctx context.Context) <-chan []domain.Account {
	out := make(chan []domain.Account)
	events := make(chan accounts.WalletEvent, 8)
	sub := w.ks.Subscribe(events)

	go func() {
		defer close(out)
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.Err():
				return
			case <-events:
				select {
				case out <- w.Accounts():
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// ChainID returns the chain the node serves.
func (w *KeystoreWallet) ChainID(ctx context.Context) (uint64, error) {
	if w.chain == nil {
		return 0, fmt.Errorf("%w: no node configured", domain.ErrLedger)
	}
	id, err := w.chain.ChainID(ctx)
	if err != nil {
		return 0, WrapError("eth_chainId", err)
	}
	return bigToUint64(id), nil
}

// Balance returns the account balance in wei at the latest block.
func (w *KeystoreWallet) Balance(ctx context.Context, account domain.Account) (*big.Int, error) {
	if w.chain == nil {
		return nil, fmt.Errorf("%w: no node configured", domain.ErrLedger)
	}
	addr, err := toAddress(account)
	if err != nil {
		return nil, err
	}
	bal, err := w.chain.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, WrapError("eth_getBalance", err)
	}
	return bal, nil
}

// Create generates a new key encrypted with passphrase.
func (w *KeystoreWallet) Create(passphrase string) (domain.Account, error) {
	if passphrase == "" {
		return "", fmt.Errorf("%w: passphrase must not be empty", domain.ErrInvalidInput)
	}
	acct, err := w.ks.NewAccount(passphrase)
	if err != nil {
		return "", fmt.Errorf("create account: %w", err)
	}
	return domain.Account(acct.Address.Hex()), nil
}

// Import stores a hex-encoded private key encrypted with passphrase.
func (w *KeystoreWallet) Import(hexKey, passphrase string) (domain.Account, error) {
	if passphrase == "" {
		return "", fmt.Errorf("%w: passphrase must not be empty", domain.ErrInvalidInput)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return "", fmt.Errorf("%w: private key: %s", domain.ErrInvalidInput, err.Error())
	}
	acct, err := w.ks.ImportECDSA(key, passphrase)
	if err != nil {
		if errors.Is(err, keystore.ErrAccountAlreadyExists) {
			addr := domain.Account(crypto.PubkeyToAddress(key.PublicKey).Hex())
			return addr, fmt.Errorf("account %s: %w", addr, domain.ErrAlreadyExists)
		}
		return "", fmt.Errorf("import key: %w", err)
	}
	return domain.Account(acct.Address.Hex()), nil
}

// Transactor prompts for the account's passphrase and returns options that
// sign with it. The key is decrypted per signature and never left unlocked.
func (w *KeystoreWallet) Transactor(
	ctx context.Context,
	from domain.Account,
	chainID *big.Int,
) (*bind.TransactOpts, error) {
	acct, err := w.find(from)
	if err != nil {
		return nil, err
	}
	if w.prompt == nil {
		return nil, fmt.Errorf("%w: no passphrase prompt", domain.ErrSignatureDeclined)
	}
	passphrase, err := w.prompt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSignatureDeclined, err.Error())
	}
	if passphrase == "" {
		return nil, domain.ErrSignatureDeclined
	}

	return &bind.TransactOpts{
		From:    acct.Address,
		Context: ctx,
		Signer: func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if addr != acct.Address {
				return nil, bind.ErrNotAuthorized
			}
			signed, err := w.ks.SignTxWithPassphrase(acct, passphrase, tx, chainID)
			if errors.Is(err, keystore.ErrDecrypt) {
				return nil, fmt.Errorf("%w: wrong passphrase", domain.ErrSignatureDeclined)
			}
			return signed, err
		},
	}, nil
}

func (w *KeystoreWallet) find(account domain.Account) (accounts.Account, error) {
	addr, err := toAddress(account)
	if err != nil {
		return accounts.Account{}, err
	}
	acct, err := w.ks.Find(accounts.Account{Address: addr})
	if err != nil {
		return accounts.Account{}, fmt.Errorf("account %s: %w", account, domain.ErrNotFound)
	}
	return acct, nil
}
