package core

import (
	"errors"
	"fmt"
)

// Exported variables.
var (
	// ErrUsage marks every misuse of the stubbing API. Specific sentinels below wrap it.
	ErrUsage = errors.New("impstub usage error")

	ErrArgCount        = fmt.Errorf("%w: stub argument count does not fit the method", ErrUsage)
	ErrArgType         = fmt.Errorf("%w: stub argument does not fit the method parameter", ErrUsage)
	ErrCallbackInvalid = fmt.Errorf("%w: callback requires a non-nil function", ErrUsage)
	ErrFinalType       = fmt.Errorf("%w: type cannot be substituted", ErrUsage)
	ErrNotADouble      = fmt.Errorf("%w: value is not a test double", ErrUsage)
	ErrNoSteps         = fmt.Errorf("%w: no method recorded before terminal call", ErrUsage)
	ErrNoResults       = fmt.Errorf("%w: cannot chain past a method with no results", ErrUsage)
	ErrResultType      = fmt.Errorf("%w: stubbed value does not fit the method result", ErrUsage)
	ErrSpyReal         = fmt.Errorf("%w: spy requires a real implementation of the mocked type", ErrUsage)
	ErrTerminalArity   = fmt.Errorf("%w: terminal call requires exactly one argument", ErrUsage)
	ErrTerminalReused  = fmt.Errorf("%w: terminal call already made on this builder", ErrUsage)
	ErrThrowInvalid    = fmt.Errorf("%w: throws requires an error, a func() error, or an error type", ErrUsage)
	ErrUnknownMethod   = fmt.Errorf("%w: no such method", ErrUsage)
	ErrUnknownType     = fmt.Errorf("%w: no such type or interface", ErrUsage)

	// ErrCorruptResponse marks a stored response that violates the store's invariants.
	ErrCorruptResponse = errors.New("impstub corrupt response")

	ErrCallbackSignature = fmt.Errorf("%w: callback cannot accept the call's arguments", ErrCorruptResponse)
)
