// Package ethereum implements the Wallet and Ledger driven ports on top of
// go-ethereum.
//
// KeystoreWallet manages encrypted keys in a keystore directory and signs
// transactions with a passphrase obtained from a PassphraseFunc. Ledger
// binds the document registry contract through accounts/abi/bind and turns
// each write into an ordered stream of lifecycle events.
//
// Both take a Backend, which *ethclient.Client satisfies. Tests substitute
// an in-memory backend.
package ethereum
