// Package billing is a small service whose Store dependency the tests double.
package billing

import (
	"errors"
	"fmt"
)

// Store demonstrates the core stubbing features of impstub.
// It covers multiple return values, error-only returns, void methods, and variadic arguments.
type Store interface {
	// Balance demonstrates a value with an error.
	Balance(account string) (int, error)

	// Charge demonstrates an error-only return.
	Charge(account string, amount int) error

	// Audit demonstrates a void, variadic method.
	Audit(event string, accounts ...string)
}

// ErrInsufficient is returned when a balance does not cover a charge.
var ErrInsufficient = errors.New("insufficient funds")

// Bill charges amount to account when its balance covers it, auditing the decision.
func Bill(store Store, account string, amount int) error {
	balance, err := store.Balance(account)
	if err != nil {
		return fmt.Errorf("balance of %s: %w", account, err)
	}

	if balance < amount {
		store.Audit("declined", account)

		return ErrInsufficient
	}

	err = store.Charge(account, amount)
	if err != nil {
		return fmt.Errorf("charge %s: %w", account, err)
	}

	store.Audit("charged", account)

	return nil
}
