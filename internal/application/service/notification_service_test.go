package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrsuite/requisition-flow/internal/domain/entity"
	"github.com/hrsuite/requisition-flow/internal/domain/event"
)

type mockMailer struct {
	sent    [][]string
	subject string
	body    string
	err     error
}

func (m *mockMailer) Send(ctx context.Context, to []string, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	m.subject = subject
	m.body = body
	return nil
}

func testLists() RecipientLists {
	return RecipientLists{
		HR:      []string{"gh@x.com", "gh2@x.com"},
		Payroll: []string{"nomina@x.com"},
		VP:      []string{"vp@x.com"},
	}
}

func TestNotify_ResolvesAudienceLists(t *testing.T) {
	mailer := &mockMailer{}
	svc := NewNotificationService(newMockRequisitionRepo(), mailer, testLists(), nopLogger{})

	notice := event.NewTransitionNotice(event.TypeStateChanged, "REQ-1", "En selección", "En nómina")
	notice.Audiences = []event.Audience{event.AudiencePayroll}

	require.NoError(t, svc.Notify(context.Background(), notice))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"nomina@x.com"}, mailer.sent[0])
	assert.Contains(t, mailer.subject, "REQ-1")
	assert.Contains(t, mailer.body, "En nómina")
}

func TestNotify_NextApproverAndDedup(t *testing.T) {
	mailer := &mockMailer{}
	svc := NewNotificationService(newMockRequisitionRepo(), mailer, testLists(), nopLogger{})

	notice := event.NewTransitionNotice(event.TypeStateChanged, "REQ-1", "", "En aprobación")
	notice.Audiences = []event.Audience{event.AudienceNextApprover, event.AudienceHR}
	// Same address as an HR list entry, different case: delivered once.
	notice.NextApproverEmail = "GH@x.com"

	require.NoError(t, svc.Notify(context.Background(), notice))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"GH@x.com", "gh2@x.com"}, mailer.sent[0])
}

func TestNotify_RequesterResolvedFromStore(t *testing.T) {
	repo := newMockRequisitionRepo()
	req := entity.NewRequisition("REQ-1", entity.TypeCommercial, nil, time.Now())
	req.RequestedBy = entity.Actor{Email: "solicitante@x.com"}
	require.NoError(t, repo.Create(context.Background(), req))

	mailer := &mockMailer{}
	svc := NewNotificationService(repo, mailer, testLists(), nopLogger{})

	notice := event.NewTransitionNotice(event.TypeRequisitionClosed, "REQ-1", "En VP GH", "Cerrada")
	notice.Audiences = []event.Audience{event.AudienceRequester}

	require.NoError(t, svc.Notify(context.Background(), notice))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"solicitante@x.com"}, mailer.sent[0])
	assert.Contains(t, mailer.subject, "cerrada")
}

func TestNotify_NoRecipientsIsSilentSuccess(t *testing.T) {
	mailer := &mockMailer{}
	svc := NewNotificationService(newMockRequisitionRepo(), mailer, RecipientLists{}, nopLogger{})

	notice := event.NewTransitionNotice(event.TypeStateChanged, "REQ-1", "", "En selección")
	notice.Audiences = []event.Audience{event.AudienceHR}

	require.NoError(t, svc.Notify(context.Background(), notice))
	assert.Empty(t, mailer.sent)
}

func TestNotify_MailerErrorPropagates(t *testing.T) {
	mailer := &mockMailer{err: errors.New("smtp down")}
	svc := NewNotificationService(newMockRequisitionRepo(), mailer, testLists(), nopLogger{})

	notice := event.NewTransitionNotice(event.TypeStateChanged, "REQ-1", "", "En nómina")
	notice.Audiences = []event.Audience{event.AudiencePayroll}

	err := svc.Notify(context.Background(), notice)
	assert.Error(t, err)
}

func TestNotify_WarningLandsInBody(t *testing.T) {
	mailer := &mockMailer{}
	svc := NewNotificationService(newMockRequisitionRepo(), mailer, testLists(), nopLogger{})

	notice := event.NewTransitionNotice(event.TypeStateChanged, "REQ-1", "En aprobación", "En selección")
	notice.Audiences = []event.Audience{event.AudienceHR}
	notice.Warning = "actor otro@x.com does not match expected approver jefe@x.com for level 1"

	require.NoError(t, svc.Notify(context.Background(), notice))
	assert.Contains(t, mailer.body, "Advertencia")
}
