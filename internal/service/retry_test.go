package service

import (
	"errors"
	"testing"
	"time"
)

func TestWithRetry(t *testing.T) {
	t.Run("success on first attempt", func(t *testing.T) {
		calls := 0
		err := WithRetry(time.Millisecond, func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 1 {
			t.Errorf("fn called %d times, want 1", calls)
		}
	})

	t.Run("transient failure clears on retry", func(t *testing.T) {
		calls := 0
		err := WithRetry(time.Millisecond, func() error {
			calls++
			if calls == 1 {
				return errors.New("transient")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls != 2 {
			t.Errorf("fn called %d times, want 2", calls)
		}
	})

	t.Run("persistent failure surfaces after one retry", func(t *testing.T) {
		calls := 0
		wantErr := errors.New("still broken")
		err := WithRetry(time.Millisecond, func() error {
			calls++
			return wantErr
		})
		if !errors.Is(err, wantErr) {
			t.Fatalf("err = %v, want %v", err, wantErr)
		}
		if calls != 2 {
			t.Errorf("fn called %d times, want exactly 2", calls)
		}
	})
}

func TestIsScopeError(t *testing.T) {
	if !IsScopeError(&CRMError{StatusCode: 403, Body: "missing scope"}) {
		t.Error("403 must be a scope error")
	}
	if IsScopeError(&CRMError{StatusCode: 500, Body: "boom"}) {
		t.Error("500 is not a scope error")
	}
	if IsScopeError(errors.New("plain error")) {
		t.Error("non-CRM errors are not scope errors")
	}
}
