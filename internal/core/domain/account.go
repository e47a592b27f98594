package domain

import (
	"encoding/hex"
	"strings"
)

// Account is an externally-owned address held by the wallet.
// The zero value means no account is connected.
type Account string

// ParseAccount validates a 0x-prefixed 20 byte hex address.
func ParseAccount(s string) (Account, error) {
	s = strings.TrimSpace(s)
	if len(s) != 42 || !strings.HasPrefix(strings.ToLower(s), "0x") {
		return "", ErrInvalidInput
	}
	if _, err := hex.DecodeString(s[2:]); err != nil {
		return "", ErrInvalidInput
	}
	return Account(s), nil
}

// IsZero reports whether no account is set.
func (a Account) IsZero() bool {
	return a == ""
}

// Equal compares two addresses ignoring checksum casing.
func (a Account) Equal(other Account) bool {
	return strings.EqualFold(string(a), string(other))
}

// String returns the address.
func (a Account) String() string {
	return string(a)
}

// Short returns the abbreviated form used in listings.
func (a Account) Short() string {
	return Truncate(string(a))
}

// Truncate shortens an address or hash to its first 7 and last 8 characters.
// Values too short to abbreviate are returned unchanged.
func Truncate(s string) string {
	if len(s) <= 18 {
		return s
	}
	return s[:7] + "..." + s[len(s)-8:]
}
