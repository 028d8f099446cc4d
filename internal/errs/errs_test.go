package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

var errSample = Sentinel(KindConflict, "sample conflict")

func TestKindOfWalksWrappedChain(t *testing.T) {
	err := Wrap(fmt.Errorf("%w: version 3", errSample), "save inspection")

	if got := KindOf(err); got != KindConflict {
		t.Fatalf("KindOf() = %q, want %q", got, KindConflict)
	}
	if !errors.Is(err, errSample) {
		t.Fatalf("errors.Is() = false for wrapped sentinel")
	}
	if !Recoverable(err) {
		t.Fatalf("Recoverable() = false for conflict")
	}
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	if got := KindOf(context.Canceled); got != KindInternal {
		t.Fatalf("KindOf() = %q, want internal", got)
	}
	if got := KindOf(nil); got != "" {
		t.Fatalf("KindOf(nil) = %q", got)
	}
	if Recoverable(errors.New("boom")) {
		t.Fatalf("Recoverable() = true for unclassified error")
	}
}

func TestWrapfKeepsChain(t *testing.T) {
	err := Wrapf(errSample, "area %s", "a-1")
	if err.Error() != "area a-1: sample conflict" {
		t.Fatalf("Wrapf() = %q", err.Error())
	}
	if Wrap(nil, "x") != nil || Wrapf(nil, "x") != nil {
		t.Fatalf("wrapping nil must stay nil")
	}

	chain := ErrorChainStrings(err)
	if len(chain) != 2 || chain[1] != "sample conflict" {
		t.Fatalf("ErrorChainStrings() = %#v", chain)
	}
}

func TestWithStackCapturesOnce(t *testing.T) {
	err := WithStack(errSample)
	again := WithStack(Wrap(err, "outer"))

	var se *StackError
	if !errors.As(again, &se) || len(se.Stack()) == 0 {
		t.Fatalf("expected stack error in chain")
	}
	if !errors.Is(again, errSample) {
		t.Fatalf("stack wrapping lost the sentinel")
	}
}
