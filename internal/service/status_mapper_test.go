package service

import (
	"testing"

	"retreat_screening_backend/internal/model"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		name         string
		status       model.ApplicationStatus
		closedReason string
		rejectedType model.RejectedType
		wantStage    string
		wantNil      bool
	}{
		{"submitted", model.StatusSubmitted, "", "", "application_received", false},
		{"screening scheduled", model.StatusScreeningScheduled, "", "", "screening_scheduled", false},
		{"completed recommended", model.StatusScreeningCompleted, "recommended", "", "screening_recommended", false},
		{"completed not recommended", model.StatusScreeningCompleted, "not_recommended", "", "screening_not_recommended", false},
		{"completed without reason", model.StatusScreeningCompleted, "", "", "", true},
		{"closed approved", model.StatusClosed, "approved", "", "approved", false},
		{"closed waitlisted", model.StatusClosed, "waitlisted", "", "waitlisted", false},
		{"closed withdrawn", model.StatusClosed, "withdrawn", "", "withdrawn", false},
		{"closed rejected temporary", model.StatusClosed, "rejected", model.RejectedTemporary, "rejected_temporary", false},
		{"closed rejected permanent", model.StatusClosed, "rejected", model.RejectedPermanent, "rejected_permanent", false},
		{"closed rejected no type", model.StatusClosed, "rejected", "", "rejected", false},
		{"closed unknown reason", model.StatusClosed, "ghosted", "", "", true},
		{"rejected temporary", model.StatusRejected, "", model.RejectedTemporary, "rejected_temporary", false},
		{"rejected permanent", model.StatusRejected, "", model.RejectedPermanent, "rejected_permanent", false},
		{"rejected without type", model.StatusRejected, "", "", "rejected", false},
		{"case-insensitive reason", model.StatusClosed, "  Approved ", "", "approved", false},
		{"case-insensitive rejected type", model.StatusRejected, "", model.RejectedType("PERMANENT"), "rejected_permanent", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapStatus(tt.status, tt.closedReason, tt.rejectedType)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("MapStatus = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("MapStatus = nil, want stage %q", tt.wantStage)
			}
			if got.Stage != tt.wantStage {
				t.Errorf("stage = %q, want %q", got.Stage, tt.wantStage)
			}
			if got.Pipeline != "applicants" {
				t.Errorf("pipeline = %q, want applicants", got.Pipeline)
			}
		})
	}
}

func TestMapStatusRejectionVariantsDistinct(t *testing.T) {
	temporary := MapStatus(model.StatusRejected, "", model.RejectedTemporary)
	permanent := MapStatus(model.StatusRejected, "", model.RejectedPermanent)
	fallback := MapStatus(model.StatusRejected, "", "")

	if temporary.Stage == permanent.Stage {
		t.Errorf("temporary and permanent rejection map to the same stage %q", temporary.Stage)
	}
	if fallback.Stage == temporary.Stage || fallback.Stage == permanent.Stage {
		t.Errorf("untyped rejection must use its own stage, got %q", fallback.Stage)
	}
}

func TestFormatScoreSummary(t *testing.T) {
	app := &model.Application{RedCount: 2, YellowCount: 0, GreenCount: 5}
	if got := FormatScoreSummary(app); got != "2 / 0 / 5" {
		t.Errorf("FormatScoreSummary = %q, want %q", got, "2 / 0 / 5")
	}
}
