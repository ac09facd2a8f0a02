package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrNotFound("/x", fs.ErrNotExist))
	if KindOf(err) != KindNotFound || !IsNotFound(err) {
		t.Fatalf("kind lost through wrapping: %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("cause must unwrap")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("foreign errors have no kind")
	}
	if KindOf(nil) != "" {
		t.Fatalf("nil has no kind")
	}
}

func TestCanceledKeepsCause(t *testing.T) {
	err := ErrCanceled(context.DeadlineExceeded)
	if !IsCanceled(err) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("unexpected %v", err)
	}
}

func TestResultLabel(t *testing.T) {
	if resultLabel(nil) != "ok" {
		t.Fatalf("nil -> ok")
	}
	if resultLabel(ErrNotLoaded) != "not_loaded" {
		t.Fatalf("kind label")
	}
	if resultLabel(errors.New("x")) != "error" {
		t.Fatalf("generic label")
	}
}
