package service

import (
	"fmt"
	"time"

	"retreat_screening_backend/internal/model"
	"retreat_screening_backend/internal/repository"
	"retreat_screening_backend/pkg/logger"
	"retreat_screening_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// CRMService mirrors local status and score changes onto the participant's
// CRM deal record. All of it is best-effort: the local change has already
// been persisted when a sync starts, and nothing here may undo or block it.
type CRMService struct {
	Client       *CRMClient
	Apps         *repository.ApplicationRepository
	Participants *repository.ParticipantRepository
	Timeout      time.Duration
}

func NewCRMService(client *CRMClient, apps *repository.ApplicationRepository, participants *repository.ParticipantRepository, timeout time.Duration) *CRMService {
	return &CRMService{Client: client, Apps: apps, Participants: participants, Timeout: timeout}
}

// SyncApplication races a reconciliation pass against the configured timeout.
// If the timer wins, the pass keeps running detached and its eventual outcome
// is logged; the caller proceeds either way. This means a retried caller can
// produce duplicate in-flight writes to the CRM, which the CRM tolerates
// (property updates are last-writer-wins).
func (s *CRMService) SyncApplication(applicationID uint) error {
	done := make(chan error, 1)
	go func() {
		done <- s.reconcile(applicationID)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(s.Timeout):
		logger.Log.Warn("crm sync timed out, continuing detached",
			zap.Uint("applicationId", applicationID))
		monitoring.CRMSyncCounter.WithLabelValues("timeout").Inc()
		go func() {
			if err := <-done; err != nil {
				logger.Log.Error("detached crm sync failed",
					zap.Uint("applicationId", applicationID), zap.Error(err))
			} else {
				logger.Log.Info("detached crm sync completed after timeout",
					zap.Uint("applicationId", applicationID))
			}
		}()
		return nil
	}
}

func (s *CRMService) reconcile(applicationID uint) error {
	app, err := s.Apps.FindByID(applicationID)
	if err != nil {
		return err
	}
	participant, err := s.Participants.FindByID(app.ParticipantID)
	if err != nil {
		return err
	}

	contactID, err := s.resolveContact(participant)
	if err != nil {
		if IsScopeError(err) {
			logger.Log.Warn("crm contact lookup denied, skipping sync", zap.Error(err))
			monitoring.CRMSyncCounter.WithLabelValues("scope_denied").Inc()
			return nil
		}
		monitoring.CRMSyncCounter.WithLabelValues("error").Inc()
		return err
	}
	if contactID == "" {
		logger.Log.Info("no crm contact for participant, skipping sync",
			zap.String("email", participant.Email))
		monitoring.CRMSyncCounter.WithLabelValues("no_contact").Inc()
		return nil
	}

	dealID, err := s.Client.LatestDealForContact(contactID)
	if err != nil {
		if IsScopeError(err) {
			logger.Log.Warn("crm deal lookup denied, skipping sync", zap.Error(err))
			monitoring.CRMSyncCounter.WithLabelValues("scope_denied").Inc()
			return nil
		}
		monitoring.CRMSyncCounter.WithLabelValues("error").Inc()
		return err
	}
	if dealID == "" {
		logger.Log.Info("crm contact has no deal, skipping sync",
			zap.String("contactId", contactID))
		monitoring.CRMSyncCounter.WithLabelValues("no_deal").Inc()
		return nil
	}

	mapping := MapStatus(app.Status, app.ClosedReason, app.RejectedType)

	statusLabel := string(app.Status)
	if mapping != nil {
		statusLabel = mapping.Label
	}

	properties := map[string]string{
		"screening_status": statusLabel,
		"screening_score":  FormatScoreSummary(app),
		"screening_notes":  app.Notes,
	}
	if err := s.Client.UpdateDealProperties(dealID, properties); err != nil {
		if IsScopeError(err) {
			logger.Log.Warn("crm property update denied", zap.Error(err))
			monitoring.CRMSyncCounter.WithLabelValues("scope_denied").Inc()
			return nil
		}
		monitoring.CRMSyncCounter.WithLabelValues("error").Inc()
		return err
	}

	if mapping != nil {
		if err := s.Client.UpdateDealStage(dealID, mapping.Pipeline, mapping.Stage); err != nil {
			if IsScopeError(err) {
				logger.Log.Warn("crm stage update denied", zap.Error(err))
				monitoring.CRMSyncCounter.WithLabelValues("scope_denied").Inc()
				return nil
			}
			monitoring.CRMSyncCounter.WithLabelValues("error").Inc()
			return err
		}
	}

	monitoring.CRMSyncCounter.WithLabelValues("ok").Inc()
	return nil
}

// resolveContact returns the cached CRM contact id or looks it up by email,
// caching a hit on the participant row. A miss is not an error.
func (s *CRMService) resolveContact(participant *model.Participant) (string, error) {
	if participant.CRMContactID != "" {
		return participant.CRMContactID, nil
	}
	contactID, err := s.Client.FindContactByEmail(participant.Email)
	if err != nil || contactID == "" {
		return "", err
	}
	participant.CRMContactID = contactID
	if updateErr := s.Participants.Update(participant); updateErr != nil {
		logger.Log.Warn("failed to cache crm contact id", zap.Error(updateErr))
	}
	return contactID, nil
}

// FormatScoreSummary renders the aggregate tally the way screeners read it in
// the CRM: "red / yellow / green".
func FormatScoreSummary(app *model.Application) string {
	return fmt.Sprintf("%d / %d / %d", app.RedCount, app.YellowCount, app.GreenCount)
}
