package domain

import (
	"encoding/hex"
	"strings"
)

// Fingerprint is the 32 byte content digest recorded on the ledger.
type Fingerprint [32]byte

// ParseFingerprint decodes a 64 character hex string, with or without 0x.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if len(s) != 64 {
		return fp, ErrInvalidInput
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fp, ErrInvalidInput
	}
	copy(fp[:], b)
	return fp, nil
}

// Hex returns the 0x-prefixed lowercase encoding.
func (f Fingerprint) Hex() string {
	return "0x" + hex.EncodeToString(f[:])
}

// String returns Hex.
func (f Fingerprint) String() string {
	return f.Hex()
}

// IsZero reports whether the fingerprint is unset.
func (f Fingerprint) IsZero() bool {
	return f == Fingerprint{}
}

// FileSelection is the outcome of hashing a selected document.
type FileSelection struct {
	Name        string
	Size        int
	Fingerprint Fingerprint
	// Lossy is set when the document was not valid text and decoding
	// replaced bytes before hashing.
	Lossy bool
}
