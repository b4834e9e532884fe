package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationf(t *testing.T) {
	err := Validationf("amount must be > 0, got %s", "-5")

	if !IsValidation(err) {
		t.Fatal("Validationf result not recognized as validation error")
	}
	if !strings.Contains(err.Error(), "-5") {
		t.Errorf("message = %q", err.Error())
	}
	if IsValidation(errors.New("plain")) {
		t.Error("plain error recognized as validation")
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")

	var err error = &ChainError{Op: "fetch market count", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("ChainError does not unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "fetch market count") {
		t.Errorf("ChainError message = %q", err.Error())
	}

	err = &TransactionError{Op: "place bet", Hash: "0xabc", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("TransactionError does not unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "0xabc") {
		t.Errorf("TransactionError message = %q", err.Error())
	}

	err = &ContractError{Op: "resolve market", Err: ErrUnauthorized}
	if !errors.Is(err, ErrUnauthorized) {
		t.Error("ContractError does not unwrap the sentinel")
	}
}
