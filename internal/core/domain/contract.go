package domain

import "math/big"

// ContractMethod names a state-changing ledger contract function.
type ContractMethod string

// Contract write methods.
const (
	MethodAddDocHash     ContractMethod = "addDocHash"
	MethodDeleteHash     ContractMethod = "deleteHash"
	MethodAddExporter    ContractMethod = "addExporter"
	MethodAlterExporter  ContractMethod = "alterExporter"
	MethodDeleteExporter ContractMethod = "deleteExporter"
	MethodChangeOwner    ContractMethod = "changeOwner"
)

// DefaultDocHashGas is the gas limit sent with addDocHash.
const DefaultDocHashGas uint64 = 1000000

// String returns the ABI method name.
func (m ContractMethod) String() string {
	return string(m)
}

// SuccessNote is the message shown once the method's transaction confirms.
func (m ContractMethod) SuccessNote() string {
	switch m {
	case MethodAddDocHash:
		return "Transaction Confirmed to the BlockChain"
	case MethodDeleteHash:
		return "Document Deleted"
	case MethodAddExporter:
		return "Exporter Added to the Blockchain"
	case MethodAlterExporter:
		return "Exporter Updated Successfully"
	case MethodDeleteExporter:
		return "Exporter Deleted Successfully"
	case MethodChangeOwner:
		return "Owner Changed Successfully"
	default:
		return "Transaction Confirmed"
	}
}

// ContractCall carries the arguments of one contract write.
// Only the fields the method uses are read.
type ContractCall struct {
	Method      ContractMethod
	Fingerprint Fingerprint
	ContentID   ContentID
	Address     Account
	Info        string
	// GasLimit of zero lets the ledger estimate gas.
	GasLimit uint64
}

// ContentID is the identifier returned by the pinning service.
type ContentID string

// String returns the identifier.
func (c ContentID) String() string {
	return string(c)
}

// TransactionReceipt is produced once a submitted transaction is mined.
type TransactionReceipt struct {
	TxHash          string
	BlockHash       string
	BlockNumber     uint64
	GasUsed         uint64
	ContractAddress Account
	From            Account
	// Status is 1 for success and 0 for a reverted transaction.
	Status uint64
}

// Succeeded reports whether the transaction executed without reverting.
func (r TransactionReceipt) Succeeded() bool {
	return r.Status == 1
}

// DocumentRecord is the ledger's answer to a fingerprint lookup.
type DocumentRecord struct {
	Fingerprint  Fingerprint
	BlockNumber  uint64
	Timestamp    uint64
	ExporterInfo string
	ContentID    ContentID
}

// Exists reports whether the ledger holds a record for the fingerprint.
func (r DocumentRecord) Exists() bool {
	return r.BlockNumber != 0 || r.ContentID != ""
}

// LedgerRecord is one HashAdded event emitted by the contract.
type LedgerRecord struct {
	Exporter    Account
	ContentID   ContentID
	TxHash      string
	BlockNumber uint64
	LogIndex    uint
}

// BlockRange bounds an event query. A nil To means the latest block.
type BlockRange struct {
	From uint64
	To   *uint64
}

// HistoryPage is the result of an event history query.
type HistoryPage struct {
	Account Account
	Records []LedgerRecord
	// Partial is set when the provider failed part way; Err says why.
	Partial bool
	Err     error
}

// Exporter is a directory entry linking an address to descriptive text.
type Exporter struct {
	Address Account
	Info    string
}

// Counters holds the contract's administrative totals.
type Counters struct {
	Exporters uint16
	Hashes    uint16
}

// NetworkStatus describes the wallet's current network.
type NetworkStatus struct {
	ChainID uint64
	Label   string
	Balance *big.Int
}
