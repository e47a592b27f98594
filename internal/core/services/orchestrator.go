package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
	"github.com/custodia-labs/docproof/internal/fingerprint"
	"github.com/custodia-labs/docproof/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.Orchestrator = (*Orchestrator)(nil)

// Orchestrator runs document submissions through their lifecycle.
// A single-flight guard is held from the moment a submission is accepted
// until it confirms or fails, so concurrent callers get
// domain.ErrSubmissionInFlight instead of a second transaction.
type Orchestrator struct {
	state   *SessionState
	pinner  driven.Pinner
	ledger  driven.Ledger
	wallet  driven.Wallet
	uploads driven.UploadStore

	verify   driving.VerificationService
	recorder driven.LifecycleRecorder
	mode     domain.FingerprintMode
	gasLimit uint64
	now      func() time.Time

	inFlight atomic.Bool

	mu    sync.RWMutex
	phase domain.Phase
	last  *domain.UploadSession
}

// NewOrchestrator creates an orchestrator. The upload store may be nil, in
// which case attempts are not logged locally.
func NewOrchestrator(
	state *SessionState,
	pinner driven.Pinner,
	ledger driven.Ledger,
	wallet driven.Wallet,
	uploads driven.UploadStore,
) *Orchestrator {
	return &Orchestrator{
		state:    state,
		pinner:   pinner,
		ledger:   ledger,
		wallet:   wallet,
		uploads:  uploads,
		mode:     domain.FingerprintText,
		gasLimit: domain.DefaultDocHashGas,
		now:      time.Now,
	}
}

// WithVerification enables verify URL and QR artifacts after an upload confirms.
func (o *Orchestrator) WithVerification(v driving.VerificationService) *Orchestrator {
	o.verify = v
	return o
}

// WithRecorder sets the metrics recorder.
func (o *Orchestrator) WithRecorder(r driven.LifecycleRecorder) *Orchestrator {
	o.recorder = r
	return o
}

// WithFingerprintMode sets how selected documents are hashed.
func (o *Orchestrator) WithFingerprintMode(mode domain.FingerprintMode) *Orchestrator {
	if mode.IsValid() {
		o.mode = mode
	}
	return o
}

// WithGasLimit sets the gas limit sent with addDocHash.
func (o *Orchestrator) WithGasLimit(gas uint64) *Orchestrator {
	if gas > 0 {
		o.gasLimit = gas
	}
	return o
}

// SelectFile fingerprints a document and holds it for submission.
// It holds the submission guard while hashing, so it cannot interleave
// with Upload, Delete or Submit.
func (o *Orchestrator) SelectFile(ctx context.Context, name string, data []byte) (*domain.FileSelection, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSubmissionInFlight
	}
	defer o.inFlight.Store(false)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.setPhase(domain.Transition{To: domain.PhaseHashing}, nil)

	res, err := fingerprint.ComputeMode(o.mode, data)
	if err != nil {
		o.state.clearDocument()
		o.setPhase(domain.Transition{To: domain.PhaseIdle}, nil)
		return nil, domain.Precondition(err)
	}
	if res.Lossy {
		logger.Warn("%s is not valid UTF-8 text; its fingerprint is lossy", name)
	}

	sel := &domain.FileSelection{
		Name:        name,
		Size:        len(data),
		Fingerprint: res.Fingerprint,
		Lossy:       res.Lossy,
	}
	o.state.setDocument(sel, data)
	o.setPhase(domain.Transition{To: domain.PhaseReady}, nil)

	logger.Debug("Selected %s (%d bytes) fingerprint %s", name, len(data), sel.Fingerprint.Hex())
	copied := *sel
	return &copied, nil
}

// Upload pins the selected document, then records its fingerprint and
// content identifier on the ledger.
func (o *Orchestrator) Upload(ctx context.Context, notify domain.Observer) (*domain.UploadSession, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSubmissionInFlight
	}
	defer o.inFlight.Store(false)

	account, err := o.checkWritable()
	if err != nil {
		return nil, err
	}
	sel, data, err := o.checkSelection()
	if err != nil {
		return nil, err
	}

	sess := o.newSession(domain.MethodAddDocHash, account, sel)

	// 1. Pin the document
	o.transition(sess, domain.PhaseUploading, notify, nil)
	pinned := logger.Timed("pin %s via %s", sel.Name, o.pinner.Name())
	cid, err := o.pinner.Pin(ctx, sel.Name, data)
	pinned()
	if err == nil && cid == "" {
		err = fmt.Errorf("%w: empty content identifier", domain.ErrUploadRejected)
	}
	if o.recorder != nil {
		o.recorder.RecordUpload(o.pinner.Name(), err)
	}
	if err != nil {
		return o.fail(ctx, sess, notify, fmt.Errorf("upload: %w", err))
	}
	o.state.setContentID(cid)
	sess.ContentID = cid
	logger.Info("Pinned %s as %s", sel.Name, cid)

	// 2. Record on the ledger
	call := domain.ContractCall{
		Method:      domain.MethodAddDocHash,
		Fingerprint: sel.Fingerprint,
		ContentID:   cid,
		GasLimit:    o.gasLimit,
	}
	if err := o.track(ctx, sess, call, notify); err != nil {
		return o.fail(ctx, sess, notify, err)
	}

	// 3. Build artifacts and reset for the next document
	o.attachArtifacts(ctx, sess)
	o.state.clearDocument()

	return o.finish(ctx, sess), nil
}

// Delete removes the selected document's fingerprint from the ledger.
// Nothing is uploaded and the selection is kept.
func (o *Orchestrator) Delete(ctx context.Context, notify domain.Observer) (*domain.UploadSession, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSubmissionInFlight
	}
	defer o.inFlight.Store(false)

	account, err := o.checkWritable()
	if err != nil {
		return nil, err
	}
	sel, _, err := o.checkSelection()
	if err != nil {
		return nil, err
	}

	sess := o.newSession(domain.MethodDeleteHash, account, sel)
	call := domain.ContractCall{
		Method:      domain.MethodDeleteHash,
		Fingerprint: sel.Fingerprint,
	}
	if err := o.track(ctx, sess, call, notify); err != nil {
		return o.fail(ctx, sess, notify, err)
	}

	return o.finish(ctx, sess), nil
}

// Submit runs a contract write that needs no document.
func (o *Orchestrator) Submit(
	ctx context.Context,
	call domain.ContractCall,
	notify domain.Observer,
) (*domain.UploadSession, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSubmissionInFlight
	}
	defer o.inFlight.Store(false)

	account, err := o.checkWritable()
	if err != nil {
		return nil, err
	}

	sess := o.newSession(call.Method, account, nil)
	if err := o.track(ctx, sess, call, notify); err != nil {
		return o.fail(ctx, sess, notify, err)
	}

	return o.finish(ctx, sess), nil
}

// State returns a snapshot for rendering.
func (o *Orchestrator) State() domain.OrchestratorState {
	o.mu.RLock()
	phase := o.phase
	var last *domain.UploadSession
	if o.last != nil {
		copied := *o.last
		last = &copied
	}
	o.mu.RUnlock()

	inFlight := o.inFlight.Load()
	sel := o.state.Selection()
	canSubmit := !inFlight &&
		!o.state.WalletMissing() &&
		!o.state.Account().IsZero() &&
		sel != nil && !sel.Fingerprint.IsZero()

	return domain.OrchestratorState{
		Phase:     phase,
		InFlight:  inFlight,
		CanSubmit: canSubmit,
		Last:      last,
	}
}

// Selection returns the held document, or nil.
func (o *Orchestrator) Selection() *domain.FileSelection {
	return o.state.Selection()
}

// checkWritable refuses writes without a wallet or connected account.
func (o *Orchestrator) checkWritable() (domain.Account, error) {
	if o.state.WalletMissing() || o.wallet == nil || !o.wallet.Available() {
		return "", domain.ErrNoWallet
	}
	account := o.state.Account()
	if account.IsZero() {
		return "", domain.Precondition(domain.ErrNotConnected)
	}
	return account, nil
}

func (o *Orchestrator) checkSelection() (*domain.FileSelection, []byte, error) {
	sel, data := o.state.selected()
	if sel == nil {
		return nil, nil, domain.Precondition(domain.ErrNoDocument)
	}
	if sel.Fingerprint.IsZero() {
		return nil, nil, domain.Precondition(domain.ErrNoFingerprint)
	}
	return sel, data, nil
}

func (o *Orchestrator) newSession(
	op domain.ContractMethod,
	account domain.Account,
	sel *domain.FileSelection,
) *domain.UploadSession {
	sess := &domain.UploadSession{
		ID:        uuid.New().String(),
		Operation: op,
		Account:   account,
		StartedAt: o.now(),
	}
	if sel != nil {
		sess.FileName = sel.Name
		sess.Fingerprint = sel.Fingerprint
	}
	return sess
}

// track submits the call and follows its events until a receipt or an
// error. A receipt that arrives before the transaction hash still yields
// Pending before Confirmed.
func (o *Orchestrator) track(
	ctx context.Context,
	sess *domain.UploadSession,
	call domain.ContractCall,
	notify domain.Observer,
) error {
	o.transition(sess, domain.PhaseAwaitingSignature, notify, nil)

	events := o.ledger.Submit(ctx, sess.Account, call)
	defer drain(events)
	defer logger.Timed("%s from %s", call.Method, sess.Account.Short())()

	var txHash string
	pending := func(hash string) {
		if txHash != "" {
			return
		}
		txHash = hash
		sess.Phase = domain.PhasePending
		o.setPhase(domain.Transition{
			SessionID: sess.ID,
			Operation: sess.Operation,
			To:        domain.PhasePending,
			TxHash:    hash,
		}, notify)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return fmt.Errorf("%w: event stream ended without a receipt", domain.ErrLedger)
			}

			switch ev.Kind {
			case domain.TxEventHash:
				logger.Debug("%s submitted: %s", call.Method, ev.TxHash)
				pending(ev.TxHash)
			case domain.TxEventReceipt:
				if ev.Receipt == nil {
					return fmt.Errorf("%w: empty receipt", domain.ErrLedger)
				}
				pending(ev.Receipt.TxHash)
				if !ev.Receipt.Succeeded() {
					sess.Receipt = ev.Receipt
					return fmt.Errorf("%w: %s", domain.ErrTxReverted, ev.Receipt.TxHash)
				}
				sess.Receipt = ev.Receipt
				o.transition(sess, domain.PhaseConfirmed, notify, nil)
				logger.Info("%s confirmed in block %d", call.Method, ev.Receipt.BlockNumber)
				return nil
			case domain.TxEventConfirmation:
				logger.Debug("%s confirmation %d", call.Method, ev.Confirmations)
			case domain.TxEventError:
				if ev.Err == nil {
					return domain.ErrLedger
				}
				return ev.Err
			}
		}
	}
}

// drain consumes what is left of an event stream so the adapter never
// blocks on a send after the orchestrator stopped listening.
func drain(events <-chan domain.TxEvent) {
	go func() {
		for range events {
			continue
		}
	}()
}

// fail moves the session to Failed, then back to Ready when a document is
// still held so the user can retry.
func (o *Orchestrator) fail(
	ctx context.Context,
	sess *domain.UploadSession,
	notify domain.Observer,
	err error,
) (*domain.UploadSession, error) {
	sess.Err = err
	o.transition(sess, domain.PhaseFailed, notify, err)
	logger.Warn("%s failed: %v", sess.Operation, err)

	restored := domain.PhaseIdle
	if sel := o.state.Selection(); sel != nil && !sel.Fingerprint.IsZero() {
		restored = domain.PhaseReady
	}
	o.setPhase(domain.Transition{
		SessionID: sess.ID,
		Operation: sess.Operation,
		To:        restored,
	}, notify)

	sess.Phase = domain.PhaseFailed
	return o.finish(ctx, sess), err
}

// attachArtifacts adds the verification link, QR image and refreshed
// balance. Failures here never undo a confirmed transaction.
func (o *Orchestrator) attachArtifacts(ctx context.Context, sess *domain.UploadSession) {
	if o.verify != nil {
		sess.VerifyURL = o.verify.URL(sess.Fingerprint)
		if png, err := o.verify.QRCode(sess.Fingerprint); err == nil {
			sess.QRCode = png
		} else {
			logger.Warn("render QR code: %v", err)
		}
	}

	if balance, err := o.wallet.Balance(ctx, sess.Account); err == nil {
		sess.Balance = FormatBalance(balance)
	} else {
		logger.Warn("refresh balance: %v", err)
	}
}

// finish stamps and persists the attempt.
func (o *Orchestrator) finish(ctx context.Context, sess *domain.UploadSession) *domain.UploadSession {
	sess.FinishedAt = o.now()

	o.mu.Lock()
	copied := *sess
	o.last = &copied
	o.mu.Unlock()

	if o.uploads != nil {
		// Persist even when the caller has gone away.
		saveCtx := context.WithoutCancel(ctx)
		if err := o.uploads.Save(saveCtx, sess); err != nil {
			logger.Warn("save upload session: %v", err)
		}
	}
	return sess
}

func (o *Orchestrator) transition(
	sess *domain.UploadSession,
	to domain.Phase,
	notify domain.Observer,
	err error,
) {
	sess.Phase = to
	t := domain.Transition{
		SessionID: sess.ID,
		Operation: sess.Operation,
		To:        to,
		Receipt:   sess.Receipt,
		Err:       err,
	}
	if sess.Receipt != nil {
		t.TxHash = sess.Receipt.TxHash
	}
	o.setPhase(t, notify)
}

// setPhase applies t, filling in From and At, and publishes it.
func (o *Orchestrator) setPhase(t domain.Transition, notify domain.Observer) {
	o.mu.Lock()
	t.From = o.phase
	o.phase = t.To
	o.mu.Unlock()

	t.At = o.now()
	logger.Debug("phase %s -> %s", t.From, t.To)

	if o.recorder != nil {
		o.recorder.RecordTransition(t)
	}
	if notify != nil {
		notify(t)
	}
}

// IsRetryable reports whether a failed submission may simply be retried.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, domain.ErrUploadNetwork),
		errors.Is(err, domain.ErrLedger),
		errors.Is(err, domain.ErrSignatureDeclined),
		errors.Is(err, domain.ErrTxReverted):
		return true
	default:
		return false
	}
}
