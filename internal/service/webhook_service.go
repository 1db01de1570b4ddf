package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/internal/repository"
	"retreat_screening_backend/internal/util"
	"retreat_screening_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const bookingMatchWindow = 10 * time.Minute

// lockStore is the slice of the processing-lock repository the ingest flow
// depends on, narrowed so the duplicate-delivery contract is testable.
type lockStore interface {
	Acquire(token string, payload json.RawMessage) error
	Release(token string) error
	FindStale(olderThan time.Duration) ([]model.ProcessingLock, error)
}

// WebhookService ingests form-submission and booking webhooks. Submission
// processing is guarded by a ProcessingLock row per submission token; locks
// left behind by a crashed pass are reprocessed by SweepStaleLocks.
type WebhookService struct {
	Locks        lockStore
	Users        *repository.UserRepository
	Participants *repository.ParticipantRepository
	Apps         *repository.ApplicationRepository
	Forms        *repository.FormRepository
	Responses    *repository.FieldResponseRepository
	Screenings   *repository.ScreeningRepository
	Scoring      *ScoringService
	CRM          *CRMService
	Redis        *redis.Client
	RetryDelay   time.Duration
	LockStale    time.Duration
}

func NewWebhookService(
	locks *repository.ProcessingLockRepository,
	users *repository.UserRepository,
	participants *repository.ParticipantRepository,
	apps *repository.ApplicationRepository,
	forms *repository.FormRepository,
	responses *repository.FieldResponseRepository,
	screenings *repository.ScreeningRepository,
	scoring *ScoringService,
	crm *CRMService,
	rdb *redis.Client,
	retryDelay, lockStale time.Duration,
) *WebhookService {
	return &WebhookService{
		Locks:        locks,
		Users:        users,
		Participants: participants,
		Apps:         apps,
		Forms:        forms,
		Responses:    responses,
		Screenings:   screenings,
		Scoring:      scoring,
		CRM:          crm,
		Redis:        rdb,
		RetryDelay:   retryDelay,
		LockStale:    lockStale,
	}
}

// SubmissionWebhook is the form provider's delivery. Only presence of the
// token, form id and participant email is enforced; everything else is taken
// as sent.
type SubmissionWebhook struct {
	Token       string `json:"token" binding:"required"`
	FormID      string `json:"formId" binding:"required"`
	FormTitle   string `json:"formTitle"`
	SubmittedAt time.Time `json:"submittedAt"`
	Participant struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email" binding:"required,email"`
		Phone     string `json:"phone"`
		Timezone  string `json:"timezone"`
	} `json:"participant"`
	Answers []SubmissionAnswer `json:"answers"`
}

// SubmissionAnswer carries the field snapshot alongside the value so a field
// version unseen by this system can be recorded on the fly.
type SubmissionAnswer struct {
	FieldID        string          `json:"fieldId"`
	FieldTitle     string          `json:"fieldTitle"`
	FieldVersionID string          `json:"fieldVersionId"`
	FieldType      string          `json:"fieldType"`
	VersionNum     int             `json:"versionNum"`
	Choices        []AnswerChoice  `json:"choices"`
	Value          json.RawMessage `json:"value"`
}

type AnswerChoice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ProcessSubmission is the webhook entry point: it acquires the lock, then
// runs the ingest pass. A duplicate delivery (lock already held) is a no-op.
func (s *WebhookService) ProcessSubmission(payload SubmissionWebhook, raw json.RawMessage) error {
	if err := s.Locks.Acquire(payload.Token, raw); err != nil {
		if errors.Is(err, util.ErrLockHeld) {
			logger.Log.Info("duplicate submission delivery ignored",
				zap.String("token", payload.Token))
			return nil
		}
		return err
	}
	return s.processLocked(payload)
}

// processLocked runs the ingest pass for a token whose lock is already held
// (fresh delivery or sweeper reprocess). On success it releases the lock
// best-effort; a release failure is logged and swallowed, leaving the stale
// lock for the sweeper, whose reprocess of an already-ingested token no-ops.
func (s *WebhookService) processLocked(payload SubmissionWebhook) error {
	app, err := s.ingest(payload)
	if err != nil {
		return err
	}

	err = WithRetry(s.RetryDelay, func() error {
		_, scoreErr := s.Scoring.ScoreApplication(app.ID)
		return scoreErr
	})
	if err != nil {
		return fmt.Errorf("scoring submission %s: %w", payload.Token, err)
	}

	if err := s.Locks.Release(payload.Token); err != nil {
		logger.Log.Warn("failed to release processing lock",
			zap.String("token", payload.Token), zap.Error(err))
	}

	if err := s.CRM.SyncApplication(app.ID); err != nil {
		logger.Log.Error("crm sync after submission failed",
			zap.Uint("applicationId", app.ID), zap.Error(err))
	}
	return nil
}

// ingest upserts the participant, form and field versions, then creates the
// application and its responses. Reprocessing an already-ingested token
// returns the existing application unchanged.
func (s *WebhookService) ingest(payload SubmissionWebhook) (*model.Application, error) {
	if existing, err := s.Apps.FindByToken(payload.Token); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	participant, err := s.Participants.UpsertByEmail(&model.Participant{
		FirstName: payload.Participant.FirstName,
		LastName:  payload.Participant.LastName,
		Email:     payload.Participant.Email,
		Phone:     payload.Participant.Phone,
		Timezone:  payload.Participant.Timezone,
	})
	if err != nil {
		return nil, err
	}

	form, err := s.Forms.UpsertByExternalID(&model.Form{
		ExternalID: payload.FormID,
		Title:      payload.FormTitle,
	})
	if err != nil {
		return nil, err
	}

	submittedAt := payload.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}

	app := &model.Application{
		ParticipantID:   participant.ID,
		FormID:          form.ID,
		SubmissionToken: payload.Token,
		Status:          model.StatusSubmitted,
		SubmittedAt:     submittedAt,
	}
	if err := s.Apps.Create(app); err != nil {
		return nil, err
	}

	responses := make([]model.FieldResponse, 0, len(payload.Answers))
	for _, answer := range payload.Answers {
		version, err := s.ensureFieldVersion(form.ID, answer)
		if err != nil {
			logger.Log.Error("failed to record field version, skipping answer",
				zap.String("fieldVersionId", answer.FieldVersionID), zap.Error(err))
			continue
		}
		responses = append(responses, model.FieldResponse{
			ApplicationID:  app.ID,
			FieldVersionID: version.ID,
			ResponseValue:  answer.Value,
		})
	}
	if err := s.Responses.CreateBatch(responses); err != nil {
		return nil, err
	}

	return app, nil
}

func (s *WebhookService) ensureFieldVersion(formID uint, answer SubmissionAnswer) (*model.FieldVersion, error) {
	field, err := s.Forms.UpsertFieldByExternalID(&model.FormField{
		FormID:     formID,
		ExternalID: answer.FieldID,
		Title:      answer.FieldTitle,
	})
	if err != nil {
		return nil, err
	}

	version := &model.FieldVersion{
		FieldID:    field.ID,
		FieldType:  model.FieldType(answer.FieldType),
		Title:      answer.FieldTitle,
		VersionNum: answer.VersionNum,
	}
	version.ID = answer.FieldVersionID
	for _, c := range answer.Choices {
		choice := model.Choice{FieldVersionID: answer.FieldVersionID, Label: c.Label}
		choice.ID = c.ID
		version.Choices = append(version.Choices, choice)
	}
	return s.Forms.EnsureFieldVersion(version)
}

// BookingWebhook is the scheduling provider's delivery.
type BookingWebhook struct {
	EventID       string    `json:"eventId" binding:"required"`
	InviteeEmail  string    `json:"inviteeEmail" binding:"required,email"`
	ScreenerEmail string    `json:"screenerEmail"`
	StartTime     time.Time `json:"startTime" binding:"required"`
	DurationMin   int       `json:"durationMinutes"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HandleBooking matches a booking to an application with three strategies in
// order: the application holding a pending screening call, then an
// application submitted within 10 minutes of the booking's creation, then the
// participant's most recent application. The whole match is retried a bounded
// number of times before giving up.
func (s *WebhookService) HandleBooking(ctx context.Context, payload BookingWebhook) error {
	// Scheduling providers redeliver aggressively; dedupe on event id.
	dupKey := "booking:event:" + payload.EventID
	seen, err := s.Redis.Incr(ctx, dupKey).Result()
	if err == nil {
		s.Redis.Expire(ctx, dupKey, 24*time.Hour)
		if seen > 1 {
			logger.Log.Info("duplicate booking delivery ignored", zap.String("eventId", payload.EventID))
			return nil
		}
	}

	var matchErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			time.Sleep(s.RetryDelay)
		}
		matchErr = s.attachBooking(payload)
		if matchErr == nil {
			return nil
		}
		logger.Log.Warn("booking match attempt failed",
			zap.String("eventId", payload.EventID),
			zap.Int("attempt", attempt+1),
			zap.Error(matchErr))
	}
	return matchErr
}

func (s *WebhookService) attachBooking(payload BookingWebhook) error {
	participant, err := s.Participants.FindByEmail(payload.InviteeEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNoPendingWork
		}
		return err
	}

	app, call, err := s.matchApplication(participant.ID, payload)
	if err != nil {
		return err
	}

	screenerID := s.resolveScreener(payload.ScreenerEmail)

	if call != nil {
		// Strategy 1: fill in the already-pending call.
		applyBooking(call, payload, screenerID)
		if err := s.Screenings.Update(call); err != nil {
			return err
		}
	} else {
		call = &model.ScreeningCall{ApplicationID: app.ID}
		applyBooking(call, payload, screenerID)
		if err := s.Screenings.Create(call); err != nil {
			return err
		}
	}

	if app.Status == model.StatusSubmitted {
		if err := s.Apps.UpdateStatus(app.ID, model.StatusScreeningScheduled, app.ClosedReason, app.RejectedType); err != nil {
			return err
		}
	}
	return nil
}

// applyBooking copies booking details onto a call. An already-assigned
// screener is never overwritten; duration defaults to 30 minutes.
func applyBooking(call *model.ScreeningCall, payload BookingWebhook, screenerID uint) {
	call.ExternalEventID = payload.EventID
	call.ScheduledAt = payload.StartTime
	if payload.DurationMin > 0 {
		call.DurationMinutes = payload.DurationMin
	}
	if call.DurationMinutes == 0 {
		call.DurationMinutes = 30
	}
	if screenerID != 0 && call.ScreenerID == 0 {
		call.ScreenerID = screenerID
	}
	if call.Status == "" {
		call.Status = model.ScreeningScheduled
	}
}

// resolveScreener maps the booking's host email to a staff account. Unknown
// hosts leave the call unassigned.
func (s *WebhookService) resolveScreener(email string) uint {
	if email == "" {
		return 0
	}
	user, err := s.Users.FindByEmail(email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Warn("screener lookup failed",
				zap.String("email", email), zap.Error(err))
		}
		return 0
	}
	return user.ID
}

func (s *WebhookService) matchApplication(participantID uint, payload BookingWebhook) (*model.Application, *model.ScreeningCall, error) {
	// Strategy 1: most recent application with a still-pending call.
	if app, err := s.Apps.FindMostRecent(participantID); err == nil {
		if call, err := s.Screenings.FindPendingForApplication(app.ID); err == nil {
			return app, call, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	// Strategy 2: submission within the proximity window of the booking.
	reference := payload.CreatedAt
	if reference.IsZero() {
		reference = time.Now()
	}
	if app, err := s.Apps.FindSubmittedAround(participantID, reference, bookingMatchWindow); err == nil {
		return app, nil, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	// Strategy 3: most recent application, whatever its age.
	app, err := s.Apps.FindMostRecent(participantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrNoPendingWork
		}
		return nil, nil, err
	}
	return app, nil, nil
}

// SweepStaleLocks reprocesses submissions whose lock outlived the staleness
// threshold, deleting each lock once its pass succeeds. Wired to both the
// background ticker and the cron endpoint.
func (s *WebhookService) SweepStaleLocks() (int, error) {
	locks, err := s.Locks.FindStale(s.LockStale)
	if err != nil {
		return 0, err
	}

	reprocessed := 0
	for _, lock := range locks {
		var payload SubmissionWebhook
		if err := json.Unmarshal(lock.Payload, &payload); err != nil {
			logger.Log.Error("stale lock has undecodable payload, dropping",
				zap.String("token", lock.Token), zap.Error(err))
			if err := s.Locks.Release(lock.Token); err != nil {
				logger.Log.Warn("failed to drop bad lock", zap.String("token", lock.Token), zap.Error(err))
			}
			continue
		}

		if err := s.processLocked(payload); err != nil {
			logger.Log.Error("stale lock reprocess failed",
				zap.String("token", lock.Token), zap.Error(err))
			continue
		}
		reprocessed++
	}
	return reprocessed, nil
}
