package domain

import (
	"errors"
	"fmt"
)

// ErrUnauthorized marks operations reserved for the configured resolver
// identity.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError reports bad user input. It is recoverable: the active
// wizard stays in its current step and re-prompts with the message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a recoverable input error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ChainError reports that an RPC read could not complete or a call setup
// failed before a transaction was broadcast. Fatal for the active wizard.
type ChainError struct {
	Op  string
	Err error
}

func (e *ChainError) Error() string { return fmt.Sprintf("chain: %s: %v", e.Op, e.Err) }
func (e *ChainError) Unwrap() error { return e.Err }

// ContractError reports that the contract rejected a call (reverted).
type ContractError struct {
	Op  string
	Err error
}

func (e *ContractError) Error() string { return fmt.Sprintf("contract: %s: %v", e.Op, e.Err) }
func (e *ContractError) Unwrap() error { return e.Err }

// TransactionError reports a transaction that was broadcast but not
// confirmed: mined with a failed status, or not mined before the receipt
// timeout. Hash is set when the broadcast succeeded.
type TransactionError struct {
	Op   string
	Hash string
	Err  error
}

func (e *TransactionError) Error() string {
	if e.Hash != "" {
		return fmt.Sprintf("transaction %s (%s): %v", e.Op, e.Hash, e.Err)
	}
	return fmt.Sprintf("transaction %s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }
