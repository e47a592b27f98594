package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
	"github.com/custodia-labs/docproof/internal/logger"
)

// Verify interface compliance at compile time.
var _ driven.Ledger = (*Ledger)(nil)

// Backend is the node API the adapters use. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend

	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

var _ Backend = (*ethclient.Client)(nil)

// Signer produces transaction options able to sign for an account.
// Returning domain.ErrSignatureDeclined aborts the write before anything is sent.
type Signer interface {
	Transactor(ctx context.Context, from domain.Account, chainID *big.Int) (*bind.TransactOpts, error)
}

// Dial connects to a JSON-RPC endpoint.
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %s", domain.ErrLedger, rpcURL, err.Error())
	}
	return client, nil
}

// Ledger is the document registry contract bound at a fixed address.
type Ledger struct {
	backend  Backend
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	signer   Signer
}

// NewLedger binds the registry contract at address.
// signer may be nil for read-only use; writes then fail with ErrNoWallet.
func NewLedger(backend Backend, address string, signer Signer) (*Ledger, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q is not a contract address", domain.ErrInvalidInput, address)
	}
	parsed, err := ParseRegistryABI()
	if err != nil {
		return nil, fmt.Errorf("parse contract abi: %w", err)
	}
	addr := common.HexToAddress(address)
	return &Ledger{
		backend:  backend,
		address:  addr,
		abi:      parsed,
		contract: bind.NewBoundContract(addr, parsed, backend, backend, backend),
		signer:   signer,
	}, nil
}

// Address returns the bound contract address.
func (l *Ledger) Address() domain.Account {
	return domain.Account(l.address.Hex())
}

// Submit sends a contract write. Events are produced by a single goroutine
// in lifecycle order and the channel closes after the last one.
func (l *Ledger) Submit(ctx context.Context, from domain.Account, call domain.ContractCall) <-chan domain.TxEvent {
	out := make(chan domain.TxEvent)

	go func() {
		defer close(out)

		send := func(ev domain.TxEvent) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		fail := func(err error) {
			send(domain.TxEvent{Kind: domain.TxEventError, Err: err})
		}

		args, err := callArgs(call)
		if err != nil {
			fail(err)
			return
		}
		if l.signer == nil {
			fail(domain.ErrNoWallet)
			return
		}

		chainID, err := l.backend.ChainID(ctx)
		if err != nil {
			fail(WrapError("eth_chainId", err))
			return
		}
		opts, err := l.signer.Transactor(ctx, from, chainID)
		if err != nil {
			fail(err)
			return
		}
		opts.Context = ctx
		opts.GasLimit = call.GasLimit

		logger.Debug("ledger: sending %s from %s", call.Method, from.Short())
		tx, err := l.contract.Transact(opts, call.Method.String(), args...)
		if err != nil {
			fail(WrapError(call.Method.String(), err))
			return
		}

		hash := tx.Hash().Hex()
		if !send(domain.TxEvent{Kind: domain.TxEventHash, TxHash: hash}) {
			return
		}

		receipt, err := bind.WaitMined(ctx, l.backend, tx)
		if err != nil {
			fail(WrapError(call.Method.String(), err))
			return
		}
		logger.Debug("ledger: %s mined in block %s status %d", hash, receipt.BlockNumber, receipt.Status)

		if !send(domain.TxEvent{
			Kind:    domain.TxEventReceipt,
			TxHash:  hash,
			Receipt: l.toReceipt(receipt, from),
		}) {
			return
		}
		send(domain.TxEvent{Kind: domain.TxEventConfirmation, TxHash: hash, Confirmations: 1})
	}()

	return out
}

// FindDocHash looks up the record for a fingerprint.
func (l *Ledger) FindDocHash(ctx context.Context, fp domain.Fingerprint) (*domain.DocumentRecord, error) {
	out, err := l.call(ctx, methodFindDocHash, [32]byte(fp))
	if err != nil {
		return nil, err
	}
	if len(out) != 4 {
		return nil, &Error{Method: methodFindDocHash, Err: fmt.Errorf("unexpected %d return values", len(out))}
	}

	blockNumber := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	timestamp := *abi.ConvertType(out[1], new(*big.Int)).(**big.Int)
	info := *abi.ConvertType(out[2], new(string)).(*string)
	cid := *abi.ConvertType(out[3], new(string)).(*string)

	return &domain.DocumentRecord{
		Fingerprint:  fp,
		BlockNumber:  bigToUint64(blockNumber),
		Timestamp:    bigToUint64(timestamp),
		ExporterInfo: info,
		ContentID:    domain.ContentID(cid),
	}, nil
}

// ExporterInfo returns the directory text for an address.
func (l *Ledger) ExporterInfo(ctx context.Context, addr domain.Account) (string, error) {
	out, err := l.call(ctx, methodGetExporterInfo, common.HexToAddress(addr.String()))
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

// CountExporters returns the number of registered exporters.
func (l *Ledger) CountExporters(ctx context.Context) (uint16, error) {
	return l.callUint16(ctx, methodCountExporters)
}

// CountHashes returns the number of recorded fingerprints.
func (l *Ledger) CountHashes(ctx context.Context) (uint16, error) {
	return l.callUint16(ctx, methodCountHashes)
}

// Owner returns the contract owner.
func (l *Ledger) Owner(ctx context.Context) (domain.Account, error) {
	out, err := l.call(ctx, methodOwner)
	if err != nil {
		return "", err
	}
	owner := *abi.ConvertType(out[0], new(common.Address)).(*common.Address)
	return domain.Account(owner.Hex()), nil
}

// HashAdded streams HashAdded events for an exporter. The provider is
// queried once for the whole range.
func (l *Ledger) HashAdded(
	ctx context.Context,
	exporter domain.Account,
	r domain.BlockRange,
) (<-chan domain.LedgerRecord, <-chan error) {
	out := make(chan domain.LedgerRecord)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		query, err := l.hashAddedQuery(exporter, r)
		if err != nil {
			errs <- err
			return
		}
		logs, err := l.backend.FilterLogs(ctx, query)
		if err != nil {
			errs <- wrapQueryError(err)
			return
		}
		logger.Debug("ledger: %d HashAdded logs for %s", len(logs), exporter.Short())

		for _, lg := range logs {
			rec, err := l.decodeHashAdded(lg)
			if err != nil {
				errs <- err
				return
			}
			select {
			case out <- rec:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()

	return out, errs
}

// LatestBlock returns the current block number.
func (l *Ledger) LatestBlock(ctx context.Context) (uint64, error) {
	n, err := l.backend.BlockNumber(ctx)
	if err != nil {
		return 0, WrapError("eth_blockNumber", err)
	}
	return n, nil
}

func (l *Ledger) call(ctx context.Context, method string, args ...any) ([]any, error) {
	var out []any
	if err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, WrapError(method, err)
	}
	if len(out) == 0 {
		return nil, &Error{Method: method, Err: errors.New("empty result")}
	}
	return out, nil
}

func (l *Ledger) callUint16(ctx context.Context, method string) (uint16, error) {
	out, err := l.call(ctx, method)
	if err != nil {
		return 0, err
	}
	return *abi.ConvertType(out[0], new(uint16)).(*uint16), nil
}

func (l *Ledger) hashAddedQuery(exporter domain.Account, r domain.BlockRange) (geth.FilterQuery, error) {
	if !common.IsHexAddress(exporter.String()) {
		return geth.FilterQuery{}, fmt.Errorf("%w: %q is not an address", domain.ErrInvalidInput, exporter)
	}
	event := l.abi.Events[eventHashAdded]
	topic := common.BytesToHash(common.HexToAddress(exporter.String()).Bytes())

	query := geth.FilterQuery{
		FromBlock: new(big.Int).SetUint64(r.From),
		Addresses: []common.Address{l.address},
		Topics:    [][]common.Hash{{event.ID}, {topic}},
	}
	if r.To != nil {
		query.ToBlock = new(big.Int).SetUint64(*r.To)
	}
	return query, nil
}

// hashAddedEvent mirrors the HashAdded event fields.
type hashAddedEvent struct {
	Exporter common.Address
	IpfsHash string
}

func (l *Ledger) decodeHashAdded(lg types.Log) (domain.LedgerRecord, error) {
	var ev hashAddedEvent
	if err := l.contract.UnpackLog(&ev, eventHashAdded, lg); err != nil {
		return domain.LedgerRecord{}, &Error{Method: eventHashAdded, Err: fmt.Errorf("decode log: %w", err)}
	}
	return domain.LedgerRecord{
		Exporter:    domain.Account(ev.Exporter.Hex()),
		ContentID:   domain.ContentID(ev.IpfsHash),
		TxHash:      lg.TxHash.Hex(),
		BlockNumber: lg.BlockNumber,
		LogIndex:    lg.Index,
	}, nil
}

func (l *Ledger) toReceipt(r *types.Receipt, from domain.Account) *domain.TransactionReceipt {
	rec := &domain.TransactionReceipt{
		TxHash:          r.TxHash.Hex(),
		BlockHash:       r.BlockHash.Hex(),
		GasUsed:         r.GasUsed,
		ContractAddress: domain.Account(l.address.Hex()),
		From:            from,
		Status:          r.Status,
	}
	if r.BlockNumber != nil {
		rec.BlockNumber = r.BlockNumber.Uint64()
	}
	return rec
}

// callArgs converts a write into ABI arguments in declaration order.
func callArgs(call domain.ContractCall) ([]any, error) {
	switch call.Method {
	case domain.MethodAddDocHash:
		return []any{[32]byte(call.Fingerprint), call.ContentID.String()}, nil
	case domain.MethodDeleteHash:
		return []any{[32]byte(call.Fingerprint)}, nil
	case domain.MethodAddExporter, domain.MethodAlterExporter:
		addr, err := toAddress(call.Address)
		if err != nil {
			return nil, err
		}
		return []any{addr, call.Info}, nil
	case domain.MethodDeleteExporter, domain.MethodChangeOwner:
		addr, err := toAddress(call.Address)
		if err != nil {
			return nil, err
		}
		return []any{addr}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported method %q", domain.ErrInvalidInput, call.Method)
	}
}

func toAddress(a domain.Account) (common.Address, error) {
	if !common.IsHexAddress(a.String()) {
		return common.Address{}, fmt.Errorf("%w: %q is not an address", domain.ErrInvalidInput, a)
	}
	return common.HexToAddress(a.String()), nil
}

func bigToUint64(n *big.Int) uint64 {
	if n == nil || !n.IsUint64() {
		return 0
	}
	return n.Uint64()
}
