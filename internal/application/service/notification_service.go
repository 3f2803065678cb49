package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrsuite/requisition-flow/internal/application/port"
	"github.com/hrsuite/requisition-flow/internal/domain/event"
)

// RecipientLists are the ambient distribution lists for each audience,
// injected from configuration. The workflow core never sees them.
type RecipientLists struct {
	HR      []string
	Payroll []string
	VP      []string
}

// NotificationService turns transition notices into delivered messages
type NotificationService interface {
	Notify(ctx context.Context, notice *event.TransitionNotice) error
}

type notificationServiceImpl struct {
	requisitionRepo port.RequisitionRepository
	mailer          port.Mailer
	lists           RecipientLists
	logger          Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	requisitionRepo port.RequisitionRepository,
	mailer port.Mailer,
	lists RecipientLists,
	logger Logger,
) NotificationService {
	return &notificationServiceImpl{
		requisitionRepo: requisitionRepo,
		mailer:          mailer,
		lists:           lists,
		logger:          logger,
	}
}

// Notify resolves the audience hints of a notice to concrete addresses,
// composes the message and delivers it.
func (s *notificationServiceImpl) Notify(ctx context.Context, notice *event.TransitionNotice) error {
	recipients := s.resolveRecipients(ctx, notice)
	if len(recipients) == 0 {
		s.logger.Info("No recipients for notice", "requisition_id", notice.RequisitionID, "to_state", notice.ToState)
		return nil
	}

	subject := s.buildSubject(notice)
	body := s.buildBody(notice)

	if err := s.mailer.Send(ctx, recipients, subject, body); err != nil {
		s.logger.Error("Failed to send notification",
			"error", err,
			"requisition_id", notice.RequisitionID,
			"recipients", len(recipients))
		return fmt.Errorf("send notification: %w", err)
	}

	s.logger.Info("Notification sent",
		"requisition_id", notice.RequisitionID,
		"to_state", notice.ToState,
		"recipients", len(recipients))
	return nil
}

func (s *notificationServiceImpl) resolveRecipients(ctx context.Context, notice *event.TransitionNotice) []string {
	seen := make(map[string]bool)
	var recipients []string
	add := func(addrs ...string) {
		for _, a := range addrs {
			a = strings.TrimSpace(a)
			key := strings.ToLower(a)
			if a == "" || seen[key] {
				continue
			}
			seen[key] = true
			recipients = append(recipients, a)
		}
	}

	for _, audience := range notice.Audiences {
		switch audience {
		case event.AudienceHR:
			add(s.lists.HR...)
		case event.AudiencePayroll:
			add(s.lists.Payroll...)
		case event.AudienceVP:
			add(s.lists.VP...)
		case event.AudienceNextApprover:
			add(notice.NextApproverEmail)
		case event.AudienceRequester:
			add(s.requesterEmail(ctx, notice.RequisitionID))
		}
	}
	return recipients
}

func (s *notificationServiceImpl) requesterEmail(ctx context.Context, requisitionID string) string {
	req, err := s.requisitionRepo.GetByID(ctx, requisitionID)
	if err != nil || req == nil {
		s.logger.Error("Failed to resolve requester", "error", err, "requisition_id", requisitionID)
		return ""
	}
	return req.RequestedBy.Email
}

func (s *notificationServiceImpl) buildSubject(notice *event.TransitionNotice) string {
	switch notice.Type {
	case event.TypeRequisitionCreated:
		return fmt.Sprintf("Nueva requisición de personal %s", notice.RequisitionID)
	case event.TypeRequisitionClosed:
		return fmt.Sprintf("Requisición %s cerrada", notice.RequisitionID)
	case event.TypeRequisitionRejected:
		return fmt.Sprintf("Requisición %s rechazada", notice.RequisitionID)
	default:
		return fmt.Sprintf("Requisición %s: %s", notice.RequisitionID, notice.ToState)
	}
}

func (s *notificationServiceImpl) buildBody(notice *event.TransitionNotice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "La requisición %s cambió de estado.\n\n", notice.RequisitionID)
	if notice.FromState != "" {
		fmt.Fprintf(&b, "Estado anterior: %s\n", notice.FromState)
	}
	fmt.Fprintf(&b, "Estado actual: %s\n", notice.ToState)
	if notice.ActorName != "" || notice.ActorEmail != "" {
		fmt.Fprintf(&b, "Registrado por: %s <%s>\n", notice.ActorName, notice.ActorEmail)
	}
	if notice.Reason != "" {
		fmt.Fprintf(&b, "Motivo: %s\n", notice.Reason)
	}
	if notice.Warning != "" {
		fmt.Fprintf(&b, "\nAdvertencia: %s\n", notice.Warning)
	}
	b.WriteString("\nEste mensaje fue generado automáticamente por el sistema de requisiciones.\n")
	return b.String()
}
