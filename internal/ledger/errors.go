package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers wrap them with context and match with errors.Is.
var (
	// ErrSchemeNotFound is returned when no scheme has the requested ID.
	ErrSchemeNotFound = errors.New("scheme not found")

	// ErrTransactionNotFound is returned when a scheme has no purchase with
	// the requested ID.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrSchemeClosed is returned for changes to a redeemed or closed scheme.
	ErrSchemeClosed = errors.New("scheme is no longer active")

	// ErrLumpsumTransaction is returned for a second purchase on a lump-sum
	// scheme.
	ErrLumpsumTransaction = errors.New("lump-sum scheme accepts a single purchase")

	// ErrInvalidScheme is returned when scheme fields fail validation.
	ErrInvalidScheme = errors.New("invalid scheme")

	// ErrInvalidTransaction is returned when purchase fields fail validation.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrTransactionBeforeStart is returned for a purchase dated before the
	// scheme start. It matches ErrInvalidTransaction.
	ErrTransactionBeforeStart = fmt.Errorf("%w: dated before the scheme start", ErrInvalidTransaction)

	// ErrInvalidRedemption is returned when a redemption request cannot be
	// priced against the scheme.
	ErrInvalidRedemption = errors.New("invalid redemption")
)

// IsNotFound reports whether err refers to a missing scheme or purchase.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSchemeNotFound) || errors.Is(err, ErrTransactionNotFound)
}

// IsConflict reports whether err was caused by the scheme's state rather than
// the request itself.
func IsConflict(err error) bool {
	return errors.Is(err, ErrSchemeClosed) || errors.Is(err, ErrLumpsumTransaction)
}

// IsClientError reports whether err was caused by invalid request fields.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidScheme) ||
		errors.Is(err, ErrInvalidTransaction) ||
		errors.Is(err, ErrInvalidRedemption)
}
