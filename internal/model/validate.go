package model

import (
	"fmt"
	"strings"
)

// zeroAddress is the canonical null account; it is never a valid
// beneficiary.
const zeroAddress = "0000000000000000000000000000000000000000"

// NormalizeAddress canonicalizes an account address: the optional 0x
// prefix is stripped and hex digits are lowercased. It returns
// ErrInvalidAddress for anything that is not a 40-digit hex string, and
// for the zero address.
func NormalizeAddress(addr string) (string, error) {
	a := strings.ToLower(strings.TrimSpace(addr))
	a = strings.TrimPrefix(a, "0x")
	if len(a) != 40 {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
	}
	for _, c := range a {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("%w: %q", ErrInvalidAddress, addr)
		}
	}
	if a == zeroAddress {
		return "", fmt.Errorf("%w: zero address", ErrInvalidAddress)
	}
	return a, nil
}
