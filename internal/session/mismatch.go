package session

import "fmt"

// MismatchReason says which half of a credential pair failed to match.
type MismatchReason string

const (
	MismatchIdentifier MismatchReason = "identifier"
	MismatchSecret     MismatchReason = "secret"
	MismatchBoth       MismatchReason = "both"
)

// CredentialMismatch is returned by a verifier when login or secret does not
// match the table for the requested role.
type CredentialMismatch struct {
	Reason MismatchReason
}

func (e *CredentialMismatch) Error() string {
	switch e.Reason {
	case MismatchBoth:
		return "credential mismatch: identifier and secret do not match"
	case MismatchIdentifier:
		return "credential mismatch: identifier does not match"
	case MismatchSecret:
		return "credential mismatch: secret does not match"
	default:
		return fmt.Sprintf("credential mismatch: %s", e.Reason)
	}
}

func mismatchFor(identifierOK, secretOK bool) error {
	switch {
	case identifierOK && secretOK:
		return nil
	case !identifierOK && !secretOK:
		return &CredentialMismatch{Reason: MismatchBoth}
	case !identifierOK:
		return &CredentialMismatch{Reason: MismatchIdentifier}
	default:
		return &CredentialMismatch{Reason: MismatchSecret}
	}
}
