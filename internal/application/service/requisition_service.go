package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hrsuite/requisition-flow/internal/application/port"
	"github.com/hrsuite/requisition-flow/internal/domain/entity"
	"github.com/hrsuite/requisition-flow/internal/domain/event"
	"github.com/hrsuite/requisition-flow/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// CreateInput carries the intake form for a new requisition
type CreateInput struct {
	Type        string
	JobTitle    string
	Channel     string
	Department  string
	RequestedBy entity.Actor
	Approvers   []entity.Actor
}

// ActionRequest is one inbound workflow command. Action and Level are free
// text resolved through the enum codec. Selection is only consulted by the
// save-candidate action.
type ActionRequest struct {
	RequisitionID string
	Action        string
	Level         string
	Actor         entity.Actor
	Reason        string
	Selection     *entity.Selection
}

// ActionResult reports the outcome of a performed action. Changed is false
// for the accepted-but-nothing-to-do case: decisions arriving after the
// requisition already advanced past that gate.
type ActionResult struct {
	Changed bool
	State   workflow.State
	Level   workflow.Level
	Warning string
}

// RequisitionService is the action intake boundary of the approval workflow
type RequisitionService interface {
	Create(ctx context.Context, input CreateInput) (*entity.Requisition, error)
	Get(ctx context.Context, id string) (*entity.Requisition, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Requisition, error)
	History(ctx context.Context, id string) ([]*entity.HistoryEntry, error)
	PerformAction(ctx context.Context, req ActionRequest) (*ActionResult, error)
}

type requisitionServiceImpl struct {
	requisitionRepo port.RequisitionRepository
	historyRepo     port.HistoryRepository
	referenceRepo   port.ReferenceRepository
	txManager       port.TransactionManager
	publisher       port.NoticePublisher
	logger          Logger
	now             func() time.Time
}

// NewRequisitionService creates a new RequisitionService
func NewRequisitionService(
	requisitionRepo port.RequisitionRepository,
	historyRepo port.HistoryRepository,
	referenceRepo port.ReferenceRepository,
	txManager port.TransactionManager,
	publisher port.NoticePublisher,
	logger Logger,
) RequisitionService {
	return &requisitionServiceImpl{
		requisitionRepo: requisitionRepo,
		historyRepo:     historyRepo,
		referenceRepo:   referenceRepo,
		txManager:       txManager,
		publisher:       publisher,
		logger:          logger,
		now:             time.Now,
	}
}

// Create registers a requisition at intake. Approver slots are seeded per
// requisition type; approvers given only by email are resolved against the
// user profile catalog.
func (s *requisitionServiceImpl) Create(ctx context.Context, input CreateInput) (*entity.Requisition, error) {
	typ, ok := entity.ParseRequisitionType(input.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unknown requisition type %q", ErrInvalidAction, input.Type)
	}
	if strings.TrimSpace(input.JobTitle) == "" {
		return nil, fmt.Errorf("%w: job title is required", ErrInvalidAction)
	}

	approvers := make([]entity.Actor, len(input.Approvers))
	copy(approvers, input.Approvers)
	for i := range approvers {
		if approvers[i].Name != "" || approvers[i].Email == "" {
			continue
		}
		profile, err := s.referenceRepo.GetProfileByEmail(ctx, approvers[i].Email)
		if err == nil && profile != nil {
			approvers[i].Name = profile.Name
		}
	}

	now := s.now()
	req := entity.NewRequisition(uuid.NewString(), typ, approvers, now)
	req.JobTitle = input.JobTitle
	req.Channel = input.Channel
	req.Department = input.Department
	req.RequestedBy = input.RequestedBy

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.requisitionRepo.Create(txCtx, req); err != nil {
			return fmt.Errorf("create requisition: %w", err)
		}

		entry := &entity.HistoryEntry{
			RequisitionID: req.ID,
			PreviousState: "",
			NewState:      req.State.Display(),
			Action:        "CREATE",
			ActorEmail:    input.RequestedBy.Email,
			ActorName:     input.RequestedBy.Name,
			Timestamp:     now,
		}
		if err := s.historyRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("create history: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create requisition", "error", err, "job_title", input.JobTitle)
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	notice := event.NewTransitionNotice(event.TypeRequisitionCreated, req.ID, "", req.State.Display())
	notice.ActorEmail = input.RequestedBy.Email
	notice.ActorName = input.RequestedBy.Name
	notice.Audiences = []event.Audience{event.AudienceHR}
	s.publisher.Publish(notice)

	s.logger.Info("Requisition created", "id", req.ID, "type", string(typ), "level", req.Level.String())
	return req, nil
}

// Get retrieves a requisition by id
func (s *requisitionServiceImpl) Get(ctx context.Context, id string) (*entity.Requisition, error) {
	req, err := s.requisitionRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get requisition", "error", err, "id", id)
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	if req == nil {
		return nil, ErrNotFound
	}
	return req, nil
}

// List retrieves a paginated list of requisitions
func (s *requisitionServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Requisition, error) {
	reqs, err := s.requisitionRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list requisitions", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	return reqs, nil
}

// History returns the audit trail of a requisition
func (s *requisitionServiceImpl) History(ctx context.Context, id string) ([]*entity.HistoryEntry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.GetByRequisitionID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get history", "error", err, "id", id)
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	return entries, nil
}

// PerformAction routes an inbound command through the state machine inside a
// single transaction. The notice for the notification pipeline is published
// only after the transaction committed.
func (s *requisitionServiceImpl) PerformAction(ctx context.Context, in ActionRequest) (*ActionResult, error) {
	if strings.TrimSpace(in.RequisitionID) == "" {
		return nil, fmt.Errorf("%w: empty requisition id", ErrInvalidAction)
	}
	action, ok := workflow.ParseAction(in.Action)
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidAction, in.Action)
	}
	level := workflow.LevelFinal
	if in.Level != "" {
		if level, ok = workflow.ParseLevel(in.Level); !ok {
			return nil, fmt.Errorf("%w: unknown level %q", ErrInvalidAction, in.Level)
		}
	}
	if action == workflow.ActionSaveCandidate {
		if in.Selection == nil || strings.TrimSpace(in.Selection.CandidateName) == "" {
			return nil, fmt.Errorf("%w: candidate data is required", ErrPreconditionFailed)
		}
	}

	var (
		result ActionResult
		notice *event.TransitionNotice
	)

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.requisitionRepo.GetByID(txCtx, in.RequisitionID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreFailure, err)
		}
		if req == nil {
			return ErrNotFound
		}

		fromState := req.State
		machine := workflow.BuildRequisitionStateMachine(req.State, req.Chain.HasPending)

		if !machine.CanFire(action) {
			// The gate already passed (or was never reachable from here):
			// nothing to do, reported as success.
			result = ActionResult{Changed: false, State: req.State, Level: req.Level}
			return nil
		}

		applied, warning, err := s.apply(txCtx, machine, req, action, level, in, s.now())
		if err != nil {
			return err
		}
		if !applied {
			result = ActionResult{Changed: false, State: req.State, Level: req.Level}
			return nil
		}

		if err := s.requisitionRepo.Update(txCtx, req); err != nil {
			if err == port.ErrVersionConflict {
				return fmt.Errorf("%w: concurrent update on %s", ErrStoreFailure, req.ID)
			}
			return fmt.Errorf("%w: %v", ErrStoreFailure, err)
		}

		entry := &entity.HistoryEntry{
			RequisitionID: req.ID,
			PreviousState: fromState.Display(),
			NewState:      req.State.Display(),
			Action:        action.String(),
			ActorEmail:    in.Actor.Email,
			ActorName:     in.Actor.Name,
			Reason:        in.Reason,
			Timestamp:     s.now(),
		}
		if err := s.historyRepo.Create(txCtx, entry); err != nil {
			return fmt.Errorf("%w: create history: %v", ErrStoreFailure, err)
		}

		result = ActionResult{Changed: true, State: req.State, Level: req.Level, Warning: warning}
		notice = s.buildNotice(req, fromState, action, in, warning)
		return nil
	})
	if err != nil {
		s.logger.Error("Action failed", "error", err, "id", in.RequisitionID, "action", in.Action)
		return nil, err
	}

	if notice != nil {
		s.publisher.Publish(notice)
	}

	s.logger.Info("Action performed",
		"id", in.RequisitionID,
		"action", action.String(),
		"changed", result.Changed,
		"state", result.State.Display(),
		"level", result.Level.String())
	return &result, nil
}

// apply mutates the aggregate for one action and fires the machine. It
// reports applied=false for chain decisions that resolved to a no-op (an
// approval for a level the cascade already covered) and returns an advisory
// warning for actor/approver mismatches.
func (s *requisitionServiceImpl) apply(
	ctx context.Context,
	machine workflow.StateMachine,
	req *entity.Requisition,
	action workflow.Action,
	level workflow.Level,
	in ActionRequest,
	now time.Time,
) (bool, string, error) {
	warning := ""

	switch action {
	case workflow.ActionHRApprove:
		req.HRReview = entity.HRReview{
			ReviewerName:  in.Actor.Name,
			ReviewerEmail: in.Actor.Email,
			ReviewedAt:    &now,
			Reason:        in.Reason,
		}
		req.SentForApprovalAt = &now
		req.Level = req.Chain.FirstPendingLevel()

	case workflow.ActionHRReject:
		req.HRReview = entity.HRReview{
			ReviewerName:  in.Actor.Name,
			ReviewerEmail: in.Actor.Email,
			ReviewedAt:    &now,
			Reason:        in.Reason,
		}
		req.Chain.MarkAllNotApplicable()
		req.Level = workflow.LevelFinal

	case workflow.ActionApproveLevel:
		target := level
		if target.IsFinal() {
			target = req.Level
		}
		if target != req.Level {
			// A decision for a level the chain already moved past; the
			// cascade or an earlier request covered it.
			return false, "", nil
		}
		if req.Level.IsFinal() {
			return false, "", fmt.Errorf("%w: no approval pending on %s", ErrPreconditionFailed, req.ID)
		}
		warning = s.approverMismatch(req, target, in.Actor)
		next, err := req.Chain.ApplyDecision(target, workflow.DecisionApproved, in.Actor, in.Reason, now)
		if err != nil {
			return false, "", fmt.Errorf("%w: %v", ErrPreconditionFailed, err)
		}
		req.Level = next
		if next.IsFinal() {
			req.ApprovalCompletedAt = &now
		}

	case workflow.ActionRejectLevel:
		target := level
		if target.IsFinal() {
			target = req.Level
		}
		if target.IsFinal() {
			return false, "", fmt.Errorf("%w: no approval pending on %s", ErrPreconditionFailed, req.ID)
		}
		warning = s.approverMismatch(req, target, in.Actor)
		if _, err := req.Chain.ApplyDecision(target, workflow.DecisionRejected, in.Actor, in.Reason, now); err != nil {
			return false, "", fmt.Errorf("%w: %v", ErrPreconditionFailed, err)
		}
		req.Level = workflow.LevelFinal

	case workflow.ActionSaveCandidate:
		req.Selection = *in.Selection

	case workflow.ActionPayrollApprove:
		req.Payroll = entity.PayrollReview{
			Status:     workflow.DecisionApproved,
			ActorName:  in.Actor.Name,
			ActorEmail: in.Actor.Email,
			DecidedAt:  &now,
			Reason:     in.Reason,
		}

	case workflow.ActionPayrollReject:
		req.Payroll = entity.PayrollReview{
			Status:     workflow.DecisionRejected,
			ActorName:  in.Actor.Name,
			ActorEmail: in.Actor.Email,
			DecidedAt:  &now,
			Reason:     in.Reason,
		}

	case workflow.ActionVPClose, workflow.ActionVPReject:
		req.Closure = entity.Closure{
			ActorName:  in.Actor.Name,
			ActorEmail: in.Actor.Email,
			Reason:     in.Reason,
			ClosedAt:   &now,
		}
		req.ClosedAt = &now

	case workflow.ActionVPReturn:
		// The return motive is recorded; the closing stamp is cleared so the
		// record reads as open again.
		req.Closure = entity.Closure{
			ActorName:  in.Actor.Name,
			ActorEmail: in.Actor.Email,
			Reason:     in.Reason,
		}
		req.ClosedAt = nil

	case workflow.ActionSelectionApprove, workflow.ActionSelectionReject, workflow.ActionPayrollReturn:
		// State change only; actor and reason land in the history entry.
	}

	if err := machine.Fire(ctx, action); err != nil {
		return false, "", fmt.Errorf("%w: %v", ErrPreconditionFailed, err)
	}
	req.State = machine.State()
	req.UpdatedAt = now
	return true, warning, nil
}

// approverMismatch returns the advisory warning when the acting identity does
// not match the approver recorded for the level. The action still applies;
// mismatches are surfaced, not enforced.
func (s *requisitionServiceImpl) approverMismatch(req *entity.Requisition, level workflow.Level, actor entity.Actor) string {
	slot := req.Chain.Slot(level)
	if slot == nil || slot.Email == "" || strings.EqualFold(slot.Email, actor.Email) {
		return ""
	}
	warning := fmt.Sprintf("actor %s does not match expected approver %s for level %s", actor.Email, slot.Email, level)
	s.logger.Info("Approver identity mismatch",
		"id", req.ID,
		"level", level.String(),
		"expected", slot.Email,
		"actor", actor.Email)
	return warning
}

// buildNotice assembles the immutable side-effect descriptor for a committed
// transition.
func (s *requisitionServiceImpl) buildNotice(req *entity.Requisition, from workflow.State, action workflow.Action, in ActionRequest, warning string) *event.TransitionNotice {
	eventType := event.TypeStateChanged
	switch {
	case req.State == workflow.StateClosed:
		eventType = event.TypeRequisitionClosed
	case req.State.IsTerminal():
		eventType = event.TypeRequisitionRejected
	}

	notice := event.NewTransitionNotice(eventType, req.ID, from.Display(), req.State.Display())
	notice.Action = action.String()
	notice.ActorEmail = in.Actor.Email
	notice.ActorName = in.Actor.Name
	notice.Reason = in.Reason
	notice.Warning = warning
	notice.Audiences = audiencesFor(req.State)

	if req.State == workflow.StateApproving && !req.Level.IsFinal() {
		if slot := req.Chain.Slot(req.Level); slot != nil {
			notice.NextApproverEmail = slot.Email
		}
	}
	return notice
}

func audiencesFor(to workflow.State) []event.Audience {
	switch to {
	case workflow.StateApproving:
		return []event.Audience{event.AudienceNextApprover}
	case workflow.StateSelection:
		return []event.Audience{event.AudienceHR}
	case workflow.StatePayroll:
		return []event.Audience{event.AudiencePayroll}
	case workflow.StateVPReview:
		return []event.Audience{event.AudienceVP}
	case workflow.StateClosed:
		return []event.Audience{event.AudienceRequester, event.AudienceHR}
	default:
		return []event.Audience{event.AudienceRequester, event.AudienceHR}
	}
}
