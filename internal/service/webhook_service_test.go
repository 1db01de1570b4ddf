package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/internal/util"
)

type fakeLockStore struct {
	acquireErr error
	acquired   []string
	released   []string
}

func (f *fakeLockStore) Acquire(token string, payload json.RawMessage) error {
	f.acquired = append(f.acquired, token)
	return f.acquireErr
}

func (f *fakeLockStore) Release(token string) error {
	f.released = append(f.released, token)
	return nil
}

func (f *fakeLockStore) FindStale(olderThan time.Duration) ([]model.ProcessingLock, error) {
	return nil, nil
}

func submissionPayload(token string) (SubmissionWebhook, json.RawMessage) {
	var p SubmissionWebhook
	p.Token = token
	p.FormID = "form-1"
	p.Participant.Email = "applicant@example.com"
	raw, _ := json.Marshal(p)
	return p, raw
}

func TestProcessSubmissionDuplicateDelivery(t *testing.T) {
	locks := &fakeLockStore{acquireErr: util.ErrLockHeld}
	// Every other dependency is left nil: if the duplicate were not dropped
	// at the lock, the ingest pass would dereference one of them and panic.
	s := &WebhookService{Locks: locks}

	payload, raw := submissionPayload("tok-dup")
	if err := s.ProcessSubmission(payload, raw); err != nil {
		t.Fatalf("duplicate delivery must no-op, got %v", err)
	}
	if len(locks.acquired) != 1 || locks.acquired[0] != "tok-dup" {
		t.Errorf("acquired = %v, want one attempt for tok-dup", locks.acquired)
	}
	if len(locks.released) != 0 {
		t.Errorf("duplicate delivery must not release the holder's lock")
	}
}

func TestProcessSubmissionAcquireFailure(t *testing.T) {
	wantErr := errors.New("connection refused")
	s := &WebhookService{Locks: &fakeLockStore{acquireErr: wantErr}}

	payload, raw := submissionPayload("tok-err")
	if err := s.ProcessSubmission(payload, raw); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestApplyBooking(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("fresh call gets defaults and screener", func(t *testing.T) {
		call := &model.ScreeningCall{ApplicationID: 5}
		applyBooking(call, BookingWebhook{EventID: "evt-1", StartTime: start}, 42)

		if call.ExternalEventID != "evt-1" || !call.ScheduledAt.Equal(start) {
			t.Errorf("booking details not applied: %+v", call)
		}
		if call.DurationMinutes != 30 {
			t.Errorf("duration = %d, want default 30", call.DurationMinutes)
		}
		if call.ScreenerID != 42 {
			t.Errorf("screenerId = %d, want 42", call.ScreenerID)
		}
		if call.Status != model.ScreeningScheduled {
			t.Errorf("status = %q, want scheduled", call.Status)
		}
	})

	t.Run("explicit duration wins", func(t *testing.T) {
		call := &model.ScreeningCall{ApplicationID: 5}
		applyBooking(call, BookingWebhook{EventID: "evt-2", StartTime: start, DurationMin: 45}, 0)
		if call.DurationMinutes != 45 {
			t.Errorf("duration = %d, want 45", call.DurationMinutes)
		}
		if call.ScreenerID != 0 {
			t.Errorf("unknown host must leave the call unassigned, got %d", call.ScreenerID)
		}
	})

	t.Run("assigned screener is kept", func(t *testing.T) {
		call := &model.ScreeningCall{ApplicationID: 5, ScreenerID: 7, Status: model.ScreeningScheduled}
		applyBooking(call, BookingWebhook{EventID: "evt-3", StartTime: start}, 42)
		if call.ScreenerID != 7 {
			t.Errorf("screenerId = %d, existing assignment must not be overwritten", call.ScreenerID)
		}
	})
}
