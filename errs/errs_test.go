package errs_test

import (
	"errors"
	"testing"

	. "github.com/Emanem/ehmap/errs"
)

func TestMapErrorMessage(t *testing.T) {
	err := NewAllocationError("New", "out of memory")
	want := "ehmap: New: allocation: out of memory"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestMapErrorMessageNoCause(t *testing.T) {
	err := &MapError{Kind: KindConfig, Op: "New"}
	want := "ehmap: New: config"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestMapErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewOverflowError("allocOverflow", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through MapError to its Cause")
	}
}

func TestMapErrorIsMatchesKind(t *testing.T) {
	err := NewAllocationError("New", "boom")
	if !errors.Is(err, &MapError{Kind: KindAllocation}) {
		t.Error("errors.Is should match on Kind alone")
	}
	if errors.Is(err, &MapError{Kind: KindConfig}) {
		t.Error("errors.Is should not match a different Kind")
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("New", "buckets must be non-zero")
	if err.Kind != KindConfig {
		t.Errorf("Kind = %v, want KindConfig", err.Kind)
	}
	if err.Cause == nil || err.Cause.Error() != "buckets must be non-zero" {
		t.Errorf("Cause = %v, want %q", err.Cause, "buckets must be non-zero")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindAllocation:         "allocation",
		KindOverflowAllocation: "overflow-allocation",
		KindConfig:             "config",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
