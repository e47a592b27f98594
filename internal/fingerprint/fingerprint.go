// Package fingerprint derives the ledger fingerprint of a document.
//
// The fingerprint is the keccak256 digest of the document read as UTF-8
// text, which is what a browser FileReader hands to soliditySha3. Reading
// as text drops a leading byte order mark and replaces each ill-formed subpart
// with one U+FFFD, so binary documents hash lossily. Result.Lossy reports when
// that happened.
package fingerprint

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"

	"github.com/custodia-labs/docproof/internal/core/domain"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Result is a computed fingerprint.
type Result struct {
	Fingerprint domain.Fingerprint
	Lossy       bool
}

// Compute hashes data as decoded text.
// Empty input has no fingerprint and returns domain.ErrNoFingerprint.
func Compute(data []byte) (Result, error) {
	text, lossy := decodeText(data)
	if len(text) == 0 {
		return Result{}, domain.ErrNoFingerprint
	}
	return Result{Fingerprint: keccak(text), Lossy: lossy}, nil
}

// ComputeRaw hashes the exact bytes of data.
func ComputeRaw(data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, domain.ErrNoFingerprint
	}
	return Result{Fingerprint: keccak(data)}, nil
}

// ComputeMode dispatches on the configured mode.
func ComputeMode(mode domain.FingerprintMode, data []byte) (Result, error) {
	if mode == domain.FingerprintRaw {
		return ComputeRaw(data)
	}
	return Compute(data)
}

// Text hashes a string that is already text.
func Text(s string) (domain.Fingerprint, error) {
	if s == "" {
		return domain.Fingerprint{}, domain.ErrNoFingerprint
	}
	return keccak([]byte(s)), nil
}

func keccak(b []byte) domain.Fingerprint {
	var fp domain.Fingerprint
	h := sha3.NewLegacyKeccak256()
	h.Write(b) //nolint:errcheck // hash writes never fail
	copy(fp[:], h.Sum(nil))
	return fp
}

// decodeText mirrors a UTF-8 text read: strip the BOM and replace each
// maximal subpart of an ill-formed sequence with one replacement
// character. A truncated multi-byte prefix such as E2 82 therefore
// becomes a single U+FFFD, while a stray continuation byte gets its own.
func decodeText(data []byte) ([]byte, bool) {
	data = bytes.TrimPrefix(data, bom)
	if utf8.Valid(data) {
		return data, false
	}
	out := make([]byte, 0, len(data)+8)
	for i := 0; i < len(data); {
		n, lo, hi := sequence(data[i])
		if n == 0 {
			out = utf8.AppendRune(out, utf8.RuneError)
			i++
			continue
		}
		j := i + 1
		for k := 1; k < n; k++ {
			if j >= len(data) || data[j] < lo || data[j] > hi {
				break
			}
			lo, hi = 0x80, 0xBF
			j++
		}
		if j-i == n {
			out = append(out, data[i:j]...)
		} else {
			out = utf8.AppendRune(out, utf8.RuneError)
		}
		i = j
	}
	return out, true
}

// sequence reports the length of the sequence led by b and the allowed
// range of its second byte. n is 0 when b cannot start a sequence.
func sequence(b byte) (n int, lo, hi byte) {
	switch {
	case b < 0x80:
		return 1, 0, 0
	case b >= 0xC2 && b <= 0xDF:
		return 2, 0x80, 0xBF
	case b == 0xE0:
		return 3, 0xA0, 0xBF
	case b == 0xED:
		return 3, 0x80, 0x9F
	case b >= 0xE1 && b <= 0xEF:
		return 3, 0x80, 0xBF
	case b == 0xF0:
		return 4, 0x90, 0xBF
	case b >= 0xF1 && b <= 0xF3:
		return 4, 0x80, 0xBF
	case b == 0xF4:
		return 4, 0x80, 0x8F
	default:
		return 0, 0, 0
	}
}
