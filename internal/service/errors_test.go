package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindAndCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind Kind
		wantCode int
	}{
		{name: "conflict", err: conflict(CodeWIPLimit, "busy"), wantKind: KindConflict, wantCode: CodeWIPLimit},
		{name: "wrapped", err: fmt.Errorf("outer: %w", notFound(CodeUserNotFound, "gone")), wantKind: KindNotFound, wantCode: CodeUserNotFound},
		{name: "forbidden", err: forbidden("no"), wantKind: KindForbidden, wantCode: CodeForbidden},
		{name: "plain", err: errors.New("boom"), wantKind: KindInternal, wantCode: CodeInternal},
		{name: "zero code", err: &Error{Kind: KindInvalidArgument}, wantKind: KindInvalidArgument, wantCode: CodeInvalidArgument},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.wantKind {
				t.Fatalf("KindOf = %s, want %s", got, tc.wantKind)
			}
			if got := CodeOf(tc.err); got != tc.wantCode {
				t.Fatalf("CodeOf = %d, want %d", got, tc.wantCode)
			}
		})
	}
}

func TestStoreFailureWrapsAndPassesThrough(t *testing.T) {
	if storeFailure("op", nil) != nil {
		t.Fatal("expected nil for nil error")
	}

	cause := errors.New("disk full")
	err := storeFailure("create task", cause)
	if KindOf(err) != KindInternal || CodeOf(err) != CodeStoreFailure {
		t.Fatalf("unexpected classification: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be wrapped")
	}

	classified := conflict(CodeConflict, "taken")
	if storeFailure("op", classified) != classified {
		t.Fatal("expected classified error to pass through")
	}
}
