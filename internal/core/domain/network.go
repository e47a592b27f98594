package domain

// chainLabels maps well-known chain IDs to display names.
var chainLabels = map[uint64]string{
	1:     "Ethereum Main Network (Mainnet)",
	80001: "Polygon Test Network",
	137:   "Polygon Mainnet",
	3:     "Ropsten Test Network",
	4:     "Rinkeby Test Network",
	5:     "Goerli Test Network",
	42:    "Kovan Test Network",
	1337:  "Ganache Test Network",
}

// UnknownChainLabel is shown for chain IDs without a known name.
const UnknownChainLabel = "Unknown ChainID"

// ChainLabel returns the human-readable network name for a chain ID.
func ChainLabel(chainID uint64) string {
	if label, ok := chainLabels[chainID]; ok {
		return label
	}
	return UnknownChainLabel
}
