package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driving"
)

const (
	testAccount  domain.Account = "0x1111111111111111111111111111111111111111"
	otherAccount domain.Account = "0x2222222222222222222222222222222222222222"
)

var testHash = domain.Fingerprint{0xab, 0xcd}

func testReceipt() *domain.TransactionReceipt {
	return &domain.TransactionReceipt{
		TxHash:          "0xfeed",
		BlockHash:       "0xb10c",
		BlockNumber:     1000,
		GasUsed:         50000,
		ContractAddress: "0x9DD2E2cFDFf249317Ef0F3c770E679FDCEee6FA0",
		From:            testAccount,
		Status:          1,
	}
}

// runLifecycle replays a successful submission of op through notify.
func runLifecycle(op domain.ContractMethod, notify domain.Observer) {
	if notify == nil {
		return
	}
	steps := []domain.Transition{
		{Operation: op, From: domain.PhaseReady, To: domain.PhaseAwaitingSignature},
		{Operation: op, From: domain.PhaseAwaitingSignature, To: domain.PhasePending, TxHash: "0xfeed"},
		{Operation: op, From: domain.PhasePending, To: domain.PhaseConfirmed, Receipt: testReceipt()},
	}
	if op == domain.MethodAddDocHash {
		steps = append([]domain.Transition{
			{Operation: op, From: domain.PhaseReady, To: domain.PhaseUploading},
		}, steps...)
	}
	for _, s := range steps {
		notify(s)
	}
}

type mockOrchestrator struct {
	selectErr error
	submitErr error
	session   *domain.UploadSession
	lastName  string
	lastData  []byte
	selects   int
}

func (m *mockOrchestrator) SelectFile(_ context.Context, name string, data []byte) (*domain.FileSelection, error) {
	m.selects++
	m.lastName = name
	m.lastData = data
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	return &domain.FileSelection{Name: name, Size: len(data), Fingerprint: testHash}, nil
}

func (m *mockOrchestrator) Upload(_ context.Context, notify domain.Observer) (*domain.UploadSession, error) {
	return m.submit(domain.MethodAddDocHash, notify)
}

func (m *mockOrchestrator) Delete(_ context.Context, notify domain.Observer) (*domain.UploadSession, error) {
	return m.submit(domain.MethodDeleteHash, notify)
}

func (m *mockOrchestrator) Submit(
	_ context.Context, call domain.ContractCall, notify domain.Observer,
) (*domain.UploadSession, error) {
	return m.submit(call.Method, notify)
}

func (m *mockOrchestrator) submit(op domain.ContractMethod, notify domain.Observer) (*domain.UploadSession, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	runLifecycle(op, notify)
	if m.session != nil {
		return m.session, nil
	}
	return &domain.UploadSession{Operation: op, Phase: domain.PhaseConfirmed, Receipt: testReceipt()}, nil
}

func (m *mockOrchestrator) State() domain.OrchestratorState {
	return domain.OrchestratorState{CanSubmit: true}
}

func (m *mockOrchestrator) Selection() *domain.FileSelection {
	return nil
}

type mockVerification struct {
	records map[domain.Fingerprint]*domain.DocumentRecord
	err     error
}

func (m *mockVerification) URL(fp domain.Fingerprint) string {
	return "http://localhost:8080/verify.html?hash=" + fp.Hex()
}

func (m *mockVerification) QRCode(_ domain.Fingerprint) ([]byte, error) {
	return []byte("png"), nil
}

func (m *mockVerification) Lookup(_ context.Context, fp domain.Fingerprint) (*domain.DocumentRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	if rec, ok := m.records[fp]; ok {
		return rec, nil
	}
	return &domain.DocumentRecord{Fingerprint: fp}, nil
}

func (m *mockVerification) TxURL(txHash string) string {
	return "https://explorer.example/tx/" + txHash
}

func (m *mockVerification) AddressURL(addr domain.Account) string {
	return "https://explorer.example/address/" + addr.String()
}

func (m *mockVerification) GatewayURL(cid domain.ContentID) string {
	return "https://gateway.example/ipfs/" + cid.String()
}

type mockHistory struct {
	page      *domain.HistoryPage
	sessions  []domain.UploadSession
	err       error
	lastRange domain.BlockRange
	lastLimit int
}

func (m *mockHistory) Records(_ context.Context, r domain.BlockRange) (*domain.HistoryPage, error) {
	m.lastRange = r
	if m.err != nil {
		return nil, m.err
	}
	if m.page == nil {
		return &domain.HistoryPage{Account: testAccount}, nil
	}
	return m.page, nil
}

func (m *mockHistory) Uploads(_ context.Context, limit int) ([]domain.UploadSession, error) {
	m.lastLimit = limit
	return m.sessions, m.err
}

type mockExporter struct {
	exporter *domain.Exporter
	counters *domain.Counters
	owner    domain.Account
	err      error
	lastAddr string
	lastInfo string
}

func (m *mockExporter) write(op domain.ContractMethod, addr, info string, notify domain.Observer) (*domain.UploadSession, error) {
	m.lastAddr = addr
	m.lastInfo = info
	if m.err != nil {
		return nil, m.err
	}
	runLifecycle(op, notify)
	return &domain.UploadSession{Operation: op, Phase: domain.PhaseConfirmed, Receipt: testReceipt()}, nil
}

func (m *mockExporter) Add(_ context.Context, addr, info string, notify domain.Observer) (*domain.UploadSession, error) {
	return m.write(domain.MethodAddExporter, addr, info, notify)
}

func (m *mockExporter) Alter(_ context.Context, addr, info string, notify domain.Observer) (*domain.UploadSession, error) {
	return m.write(domain.MethodAlterExporter, addr, info, notify)
}

func (m *mockExporter) Delete(_ context.Context, addr string, notify domain.Observer) (*domain.UploadSession, error) {
	return m.write(domain.MethodDeleteExporter, addr, "", notify)
}

func (m *mockExporter) ChangeOwner(_ context.Context, addr string, notify domain.Observer) (*domain.UploadSession, error) {
	return m.write(domain.MethodChangeOwner, addr, "", notify)
}

func (m *mockExporter) Info(_ context.Context, addr string) (*domain.Exporter, error) {
	m.lastAddr = addr
	if m.err != nil {
		return nil, m.err
	}
	return m.exporter, nil
}

func (m *mockExporter) Counters(_ context.Context) (*domain.Counters, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.counters, nil
}

func (m *mockExporter) Owner(_ context.Context) (domain.Account, error) {
	return m.owner, m.err
}

type mockSession struct {
	account       domain.Account
	status        *driving.SessionStatus
	err           error
	lastPreferred domain.Account
	disconnected  bool
}

func (m *mockSession) Restore(_ context.Context) (domain.Account, error) {
	return m.account, m.err
}

func (m *mockSession) Connect(_ context.Context, preferred domain.Account) (domain.Account, error) {
	m.lastPreferred = preferred
	if m.err != nil {
		return "", m.err
	}
	m.account = testAccount
	if !preferred.IsZero() {
		m.account = preferred
	}
	return m.account, nil
}

func (m *mockSession) Disconnect(_ context.Context) error {
	m.disconnected = true
	m.account = ""
	return m.err
}

func (m *mockSession) Account() domain.Account {
	return m.account
}

func (m *mockSession) Status(_ context.Context) (*driving.SessionStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.status, nil
}

func (m *mockSession) Watch(_ context.Context, _ func(domain.Account)) error {
	return nil
}

type mockWallet struct {
	accounts   []domain.Account
	err        error
	passphrase string
	hexKey     string
}

func (m *mockWallet) Accounts() []domain.Account {
	return m.accounts
}

func (m *mockWallet) Create(passphrase string) (domain.Account, error) {
	m.passphrase = passphrase
	if m.err != nil {
		return "", m.err
	}
	return testAccount, nil
}

func (m *mockWallet) Import(hexKey, passphrase string) (domain.Account, error) {
	m.hexKey = hexKey
	m.passphrase = passphrase
	return testAccount, m.err
}

func (m *mockWallet) Dir() string {
	return "/home/test/.docproof/keystore"
}

type mockSettings struct {
	settings domain.AppSettings
	values   map[string]string
	unset    []string
	err      error
}

func newMockSettings() *mockSettings {
	return &mockSettings{settings: domain.DefaultAppSettings(), values: map[string]string{}}
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func (m *mockSettings) Unset(key string) error {
	if m.err != nil {
		return m.err
	}
	m.unset = append(m.unset, key)
	return nil
}

func (m *mockSettings) Keys() []string {
	return []string{"network.rpc_url", "pinning.jwt"}
}

func (m *mockSettings) Path() string {
	return "/home/test/.docproof/config.toml"
}

// setupTestServices installs s for the duration of the test.
func setupTestServices(t *testing.T, s Services) {
	t.Helper()
	SetServices(s)
	t.Cleanup(func() { SetServices(Services{}) })
}

// execute runs the root command with args and returns everything printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag in the tree to its default so that
// values do not leak between tests.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// stubSecrets answers readSecret prompts in order.
func stubSecrets(t *testing.T, answers ...string) {
	t.Helper()
	orig := readSecret
	readSecret = func(string) (string, error) {
		if len(answers) == 0 {
			return "", nil
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	t.Cleanup(func() { readSecret = orig })
}
