package service

import (
	"strings"

	"retreat_screening_backend/internal/model"
)

// StageMapping is the external CRM pipeline position for an internal status.
type StageMapping struct {
	Pipeline string
	Stage    string
	Label    string
}

const applicantPipeline = "applicants"

// Close reasons recognized for closed / screening_completed statuses.
const (
	ReasonApproved       = "approved"
	ReasonWaitlisted     = "waitlisted"
	ReasonWithdrawn      = "withdrawn"
	ReasonRejected       = "rejected"
	ReasonRecommended    = "recommended"
	ReasonNotRecommended = "not_recommended"
)

// MapStatus maps (status, closedReason, rejectedType) to a CRM pipeline
// stage, or nil when no stage applies. closedReason and rejectedType are
// compared case-insensitively. closed and screening_completed need a
// closedReason to disambiguate; a rejection without a rejectedType falls back
// to the generic rejected stage.
func MapStatus(status model.ApplicationStatus, closedReason string, rejectedType model.RejectedType) *StageMapping {
	reason := strings.ToLower(strings.TrimSpace(closedReason))
	rtype := model.RejectedType(strings.ToLower(strings.TrimSpace(string(rejectedType))))

	switch status {
	case model.StatusSubmitted:
		return &StageMapping{applicantPipeline, "application_received", "Application Received"}
	case model.StatusScreeningScheduled:
		return &StageMapping{applicantPipeline, "screening_scheduled", "Screening Scheduled"}
	case model.StatusScreeningCompleted:
		switch reason {
		case ReasonRecommended:
			return &StageMapping{applicantPipeline, "screening_recommended", "Screening Completed: Recommended"}
		case ReasonNotRecommended:
			return &StageMapping{applicantPipeline, "screening_not_recommended", "Screening Completed: Not Recommended"}
		}
		return nil
	case model.StatusClosed:
		switch reason {
		case ReasonApproved:
			return &StageMapping{applicantPipeline, "approved", "Approved"}
		case ReasonWaitlisted:
			return &StageMapping{applicantPipeline, "waitlisted", "Waitlisted"}
		case ReasonWithdrawn:
			return &StageMapping{applicantPipeline, "withdrawn", "Withdrawn"}
		case ReasonRejected:
			return rejectedStage(rtype)
		}
		return nil
	case model.StatusRejected:
		return rejectedStage(rtype)
	}
	return nil
}

func rejectedStage(rtype model.RejectedType) *StageMapping {
	switch rtype {
	case model.RejectedTemporary:
		return &StageMapping{applicantPipeline, "rejected_temporary", "Rejected (Temporary)"}
	case model.RejectedPermanent:
		return &StageMapping{applicantPipeline, "rejected_permanent", "Rejected (Permanent)"}
	}
	return &StageMapping{applicantPipeline, "rejected", "Rejected"}
}
