package kimicheck

import "strings"

// CredentialPrefix is the prefix every Moonshot API key starts with.
const CredentialPrefix = "sk-"

// Credential is an API key supplied by the user. It is read once at
// startup and never written anywhere.
type Credential struct {
	value string
}

// NewCredential trims surrounding whitespace from raw and returns the
// resulting credential, or ErrEmptyCredential if nothing is left.
func NewCredential(raw string) (Credential, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Credential{}, ErrEmptyCredential
	}
	return Credential{value: v}, nil
}

// Value returns the raw key, as sent in the Authorization header.
func (c Credential) Value() string {
	return c.value
}

// HasKnownPrefix reports whether the key looks like a Moonshot API key.
func (c Credential) HasKnownPrefix() bool {
	return strings.HasPrefix(c.value, CredentialPrefix)
}

// Masked returns the key with everything but a few leading and trailing
// characters hidden, suitable for printing.
func (c Credential) Masked() string {
	const keep = 4

	r := []rune(c.value)
	if len(r) <= 2*keep+len(CredentialPrefix) {
		return strings.Repeat("*", len(r))
	}

	head := keep
	if c.HasKnownPrefix() {
		head += len(CredentialPrefix)
	}

	return string(r[:head]) + "…" + string(r[len(r)-keep:])
}

// String implements fmt.Stringer, never revealing the full key.
func (c Credential) String() string {
	return c.Masked()
}
