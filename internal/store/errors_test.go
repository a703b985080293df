package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundSentinels(t *testing.T) {
	for _, err := range []error{ErrDeckNotFound, ErrCardNotFound, ErrUserNotFound} {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%v should wrap ErrNotFound", err)
		}
		if !IsNotFoundError(err) {
			t.Errorf("IsNotFoundError(%v) = false, want true", err)
		}
	}

	if IsNotFoundError(ErrEmailExists) {
		t.Error("IsNotFoundError(ErrEmailExists) = true, want false")
	}
	if IsNotFoundError(nil) {
		t.Error("IsNotFoundError(nil) = true, want false")
	}

	// Wrapping preserves the classification
	wrapped := fmt.Errorf("getting deck: %w", ErrDeckNotFound)
	if !IsNotFoundError(wrapped) {
		t.Error("wrapped ErrDeckNotFound not recognized as not-found")
	}
}

func TestDuplicateSentinels(t *testing.T) {
	if !errors.Is(ErrEmailExists, ErrDuplicate) {
		t.Error("ErrEmailExists should wrap ErrDuplicate")
	}
	if !IsDuplicateError(ErrEmailExists) {
		t.Error("IsDuplicateError(ErrEmailExists) = false, want true")
	}
	if IsDuplicateError(ErrDeckNotFound) {
		t.Error("IsDuplicateError(ErrDeckNotFound) = true, want false")
	}
}

func TestStoreError(t *testing.T) {
	inner := errors.New("connection reset")
	err := NewStoreError("deck", "create", "insert failed", inner)

	if !errors.Is(err, inner) {
		t.Error("StoreError should unwrap to the original error")
	}

	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatal("errors.As failed for *StoreError")
	}
	if storeErr.Entity != "deck" || storeErr.Operation != "create" {
		t.Errorf("unexpected fields: %+v", storeErr)
	}

	want := "create operation on deck failed: insert failed: connection reset"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := NewStoreError("card", "delete", "no rows", nil)
	if got, want := bare.Error(), "delete operation on card failed: no rows"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
