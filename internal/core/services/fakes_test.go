package services

import (
	"context"
	"math/big"
	"sync"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
)

const (
	testAccount  = domain.Account("0x9DD2E2cFDFf249317Ef0F3c770E679FDCEee6FA0")
	otherAccount = domain.Account("0x1111111111111111111111111111111111111111")
)

// fakeWallet is a scripted driven.Wallet.
type fakeWallet struct {
	mu        sync.Mutex
	missing   bool
	accounts  []domain.Account
	chainID   uint64
	balance   *big.Int
	reqErr    error
	changes   chan []domain.Account
	requested int
}

var _ driven.Wallet = (*fakeWallet)(nil)

func newFakeWallet(accounts ...domain.Account) *fakeWallet {
	return &fakeWallet{
		accounts: accounts,
		chainID:  137,
		balance:  new(big.Int).Mul(big.NewInt(15), big.NewInt(1e17)), // 1.5 ether
		changes:  make(chan []domain.Account, 4),
	}
}

func (w *fakeWallet) Available() bool { return !w.missing }

func (w *fakeWallet) RequestAccounts(context.Context) ([]domain.Account, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.requested++
	if w.reqErr != nil {
		return nil, w.reqErr
	}
	return append([]domain.Account(nil), w.accounts...), nil
}

func (w *fakeWallet) AccountsChanged(ctx context.Context) <-chan []domain.Account {
	out := make(chan []domain.Account)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case accts, ok := <-w.changes:
				if !ok {
					return
				}
				w.mu.Lock()
				w.accounts = accts
				w.mu.Unlock()
				select {
				case out <- accts:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (w *fakeWallet) ChainID(context.Context) (uint64, error) { return w.chainID, nil }

func (w *fakeWallet) Balance(context.Context, domain.Account) (*big.Int, error) {
	return w.balance, nil
}

// fakeLedger scripts Submit event streams and read results.
type fakeLedger struct {
	mu       sync.Mutex
	events   []domain.TxEvent
	gate     chan struct{}
	calls    []domain.ContractCall
	froms    []domain.Account
	record   *domain.DocumentRecord
	info     map[domain.Account]string
	records  []domain.LedgerRecord
	histErr  error
	owner    domain.Account
	counters domain.Counters
	readErr  error
}

var _ driven.Ledger = (*fakeLedger)(nil)

func newFakeLedger(events ...domain.TxEvent) *fakeLedger {
	return &fakeLedger{
		events: events,
		info:   map[domain.Account]string{},
	}
}

func confirmedEvents(hash string) []domain.TxEvent {
	return []domain.TxEvent{
		{Kind: domain.TxEventHash, TxHash: hash},
		{Kind: domain.TxEventReceipt, TxHash: hash, Receipt: &domain.TransactionReceipt{
			TxHash:      hash,
			BlockNumber: 42,
			Status:      1,
		}},
		{Kind: domain.TxEventConfirmation, TxHash: hash, Confirmations: 1},
	}
}

func (l *fakeLedger) Submit(ctx context.Context, from domain.Account, call domain.ContractCall) <-chan domain.TxEvent {
	l.mu.Lock()
	l.calls = append(l.calls, call)
	l.froms = append(l.froms, from)
	events := append([]domain.TxEvent(nil), l.events...)
	gate := l.gate
	l.mu.Unlock()

	out := make(chan domain.TxEvent)
	go func() {
		defer close(out)
		if gate != nil {
			select {
			case <-gate:
			case <-ctx.Done():
				return
			}
		}
		for _, ev := range events {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (l *fakeLedger) submitted() []domain.ContractCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.ContractCall(nil), l.calls...)
}

func (l *fakeLedger) FindDocHash(_ context.Context, fp domain.Fingerprint) (*domain.DocumentRecord, error) {
	if l.readErr != nil {
		return nil, l.readErr
	}
	if l.record == nil {
		return &domain.DocumentRecord{Fingerprint: fp}, nil
	}
	rec := *l.record
	return &rec, nil
}

func (l *fakeLedger) ExporterInfo(_ context.Context, addr domain.Account) (string, error) {
	if l.readErr != nil {
		return "", l.readErr
	}
	return l.info[addr], nil
}

func (l *fakeLedger) CountExporters(context.Context) (uint16, error) {
	return l.counters.Exporters, l.readErr
}

func (l *fakeLedger) CountHashes(context.Context) (uint16, error) {
	return l.counters.Hashes, l.readErr
}

func (l *fakeLedger) Owner(context.Context) (domain.Account, error) {
	return l.owner, l.readErr
}

func (l *fakeLedger) HashAdded(
	ctx context.Context,
	exporter domain.Account,
	_ domain.BlockRange,
) (<-chan domain.LedgerRecord, <-chan error) {
	out := make(chan domain.LedgerRecord)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		for _, rec := range l.records {
			if !rec.Exporter.Equal(exporter) {
				continue
			}
			select {
			case out <- rec:
			case <-ctx.Done():
				return
			}
		}
		if l.histErr != nil {
			errs <- l.histErr
		}
	}()
	return out, errs
}

func (l *fakeLedger) LatestBlock(context.Context) (uint64, error) { return 100, nil }

// fakePinner returns a fixed content ID or error.
type fakePinner struct {
	mu    sync.Mutex
	cid   domain.ContentID
	err   error
	names []string
}

var _ driven.Pinner = (*fakePinner)(nil)

func (p *fakePinner) Pin(_ context.Context, name string, _ []byte) (domain.ContentID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names = append(p.names, name)
	return p.cid, p.err
}

func (p *fakePinner) Name() string { return "fake" }

func (p *fakePinner) pinned() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.names)
}

type fakeQR struct{}

func (fakeQR) PNG(content string, _ int) ([]byte, error) {
	return []byte("png:" + content), nil
}

type fakeRecorder struct {
	mu          sync.Mutex
	transitions []domain.Transition
	uploads     []error
}

func (r *fakeRecorder) RecordTransition(t domain.Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, t)
}

func (r *fakeRecorder) RecordUpload(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads = append(r.uploads, err)
}

// phases collects the To phase of each transition.
type phases struct {
	mu   sync.Mutex
	seen []domain.Transition
}

func (p *phases) observe(t domain.Transition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, t)
}

func (p *phases) list() []domain.Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Phase, len(p.seen))
	for i, t := range p.seen {
		out[i] = t.To
	}
	return out
}
