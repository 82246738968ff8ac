package email

import (
	"net/mail"
	"strings"
)

// Normalize lowercases and trims an address so endorsement uniqueness does
// not depend on caller casing.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Valid reports whether address parses as a bare RFC 5322 address.
func Valid(address string) bool {
	addr, err := mail.ParseAddress(address)
	if err != nil {
		return false
	}
	return addr.Address == address
}
