package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxAccountIDLength bounds account identifiers.
const MaxAccountIDLength = 255

// ValidateAccountID rejects empty, oversized or non-printable account ids.
func ValidateAccountID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidAccountID)
	}

	if len(id) > MaxAccountIDLength {
		return fmt.Errorf("%w: id exceeds %d characters", ErrInvalidAccountID, MaxAccountIDLength)
	}

	for _, r := range id {
		if !unicode.IsPrint(r) {
			return fmt.Errorf("%w: id contains non-printable characters", ErrInvalidAccountID)
		}
	}

	return nil
}

// ValidateAmount validates deposit, transfer and payment amounts.
func ValidateAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
