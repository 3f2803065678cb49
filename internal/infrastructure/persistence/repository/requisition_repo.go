package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/hrsuite/requisition-flow/internal/application/port"
	"github.com/hrsuite/requisition-flow/internal/domain/entity"
	"github.com/hrsuite/requisition-flow/internal/domain/workflow"
)

// RequisitionRepository implements port.RequisitionRepository on SQLite. The
// aggregate is stored as a single row; states and chain decisions are persisted
// as their canonical display strings and decoded through the enum codec.
type RequisitionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequisitionRepository creates a new requisition repository
func NewRequisitionRepository(db *sql.DB, logger *zap.Logger) port.RequisitionRepository {
	return &RequisitionRepository{
		db:     db,
		logger: logger,
	}
}

const requisitionColumns = `
	id, type, state, approval_level,
	job_title, channel, department,
	requested_by_email, requested_by_name,
	level1_name, level1_email, level1_status, level1_decided_at, level1_reason,
	level2_name, level2_email, level2_status, level2_decided_at, level2_reason,
	level3_name, level3_email, level3_status, level3_decided_at, level3_reason,
	hr_reviewer_name, hr_reviewer_email, hr_reviewed_at, hr_reason,
	candidate_name, candidate_document, candidate_start_date, contract_type,
	payroll_status, payroll_actor_name, payroll_actor_email, payroll_decided_at, payroll_reason,
	closure_actor_name, closure_actor_email, closure_reason,
	created_at, sent_for_approval_at, approval_completed_at, closed_at, updated_at,
	version`

// Create inserts a new requisition row
func (r *RequisitionRepository) Create(ctx context.Context, req *entity.Requisition) error {
	query := `
		INSERT INTO requisitions (` + requisitionColumns + `
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?,
			?, ?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?, ?, ?,
			?)
	`

	if req.Version == 0 {
		req.Version = 1
	}

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, r.writeArgs(req)...)
	if err != nil {
		r.logger.Error("Failed to create requisition", zap.String("id", req.ID), zap.Error(err))
		return fmt.Errorf("failed to create requisition: %w", err)
	}
	return nil
}

// GetByID retrieves a requisition by id; (nil, nil) when absent
func (r *RequisitionRepository) GetByID(ctx context.Context, id string) (*entity.Requisition, error) {
	query := `SELECT ` + requisitionColumns + ` FROM requisitions WHERE id = ?`

	row := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id)
	req, err := r.scan(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get requisition", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get requisition: %w", err)
	}
	return req, nil
}

// Update persists the aggregate guarded by its version. A concurrent writer
// that committed first makes the guarded UPDATE match zero rows, surfaced as
// ErrVersionConflict.
func (r *RequisitionRepository) Update(ctx context.Context, req *entity.Requisition) error {
	query := `
		UPDATE requisitions SET
			type = ?, state = ?, approval_level = ?,
			job_title = ?, channel = ?, department = ?,
			requested_by_email = ?, requested_by_name = ?,
			level1_name = ?, level1_email = ?, level1_status = ?, level1_decided_at = ?, level1_reason = ?,
			level2_name = ?, level2_email = ?, level2_status = ?, level2_decided_at = ?, level2_reason = ?,
			level3_name = ?, level3_email = ?, level3_status = ?, level3_decided_at = ?, level3_reason = ?,
			hr_reviewer_name = ?, hr_reviewer_email = ?, hr_reviewed_at = ?, hr_reason = ?,
			candidate_name = ?, candidate_document = ?, candidate_start_date = ?, contract_type = ?,
			payroll_status = ?, payroll_actor_name = ?, payroll_actor_email = ?, payroll_decided_at = ?, payroll_reason = ?,
			closure_actor_name = ?, closure_actor_email = ?, closure_reason = ?,
			sent_for_approval_at = ?, approval_completed_at = ?, closed_at = ?, updated_at = ?,
			version = version + 1
		WHERE id = ? AND version = ?
	`

	chainArgs := r.chainArgs(req)
	args := []interface{}{
		string(req.Type), req.State.Display(), int(req.Level),
		req.JobTitle, nullString(req.Channel), nullString(req.Department),
		nullString(req.RequestedBy.Email), nullString(req.RequestedBy.Name),
	}
	args = append(args, chainArgs...)
	args = append(args,
		nullString(req.HRReview.ReviewerName), nullString(req.HRReview.ReviewerEmail),
		nullTime(req.HRReview.ReviewedAt), nullString(req.HRReview.Reason),
		nullString(req.Selection.CandidateName), nullString(req.Selection.CandidateDocument),
		nullTime(req.Selection.StartDate), nullString(req.Selection.ContractType),
		nullString(req.Payroll.Status.Display()), nullString(req.Payroll.ActorName),
		nullString(req.Payroll.ActorEmail), nullTime(req.Payroll.DecidedAt), nullString(req.Payroll.Reason),
		nullString(req.Closure.ActorName), nullString(req.Closure.ActorEmail), nullString(req.Closure.Reason),
		nullTime(req.SentForApprovalAt), nullTime(req.ApprovalCompletedAt), nullTime(req.ClosedAt), req.UpdatedAt,
		req.ID, req.Version,
	)

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update requisition", zap.String("id", req.ID), zap.Error(err))
		return fmt.Errorf("failed to update requisition: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		r.logger.Warn("Version conflict on requisition update",
			zap.String("id", req.ID),
			zap.Int64("version", req.Version))
		return port.ErrVersionConflict
	}

	req.Version++
	return nil
}

// List retrieves requisitions newest first
func (r *RequisitionRepository) List(ctx context.Context, limit, offset int) ([]*entity.Requisition, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + requisitionColumns + `
		FROM requisitions
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list requisitions", zap.Error(err))
		return nil, fmt.Errorf("failed to list requisitions: %w", err)
	}
	defer rows.Close()

	var reqs []*entity.Requisition
	for rows.Next() {
		req, err := r.scan(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan requisition: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// writeArgs flattens the aggregate into the insert argument list, in
// requisitionColumns order.
func (r *RequisitionRepository) writeArgs(req *entity.Requisition) []interface{} {
	args := []interface{}{
		req.ID, string(req.Type), req.State.Display(), int(req.Level),
		req.JobTitle, nullString(req.Channel), nullString(req.Department),
		nullString(req.RequestedBy.Email), nullString(req.RequestedBy.Name),
	}
	args = append(args, r.chainArgs(req)...)
	args = append(args,
		nullString(req.HRReview.ReviewerName), nullString(req.HRReview.ReviewerEmail),
		nullTime(req.HRReview.ReviewedAt), nullString(req.HRReview.Reason),
		nullString(req.Selection.CandidateName), nullString(req.Selection.CandidateDocument),
		nullTime(req.Selection.StartDate), nullString(req.Selection.ContractType),
		nullString(req.Payroll.Status.Display()), nullString(req.Payroll.ActorName),
		nullString(req.Payroll.ActorEmail), nullTime(req.Payroll.DecidedAt), nullString(req.Payroll.Reason),
		nullString(req.Closure.ActorName), nullString(req.Closure.ActorEmail), nullString(req.Closure.Reason),
		req.CreatedAt, nullTime(req.SentForApprovalAt), nullTime(req.ApprovalCompletedAt),
		nullTime(req.ClosedAt), req.UpdatedAt,
		req.Version,
	)
	return args
}

func (r *RequisitionRepository) chainArgs(req *entity.Requisition) []interface{} {
	var args []interface{}
	for level := workflow.Level1; level <= workflow.Level3; level++ {
		slot := req.Chain.Slot(level)
		args = append(args,
			nullString(slot.Name),
			nullString(slot.Email),
			nullString(slot.Status.Display()),
			nullTime(slot.DecidedAt),
			nullString(slot.Reason),
		)
	}
	return args
}

// scan rebuilds the aggregate from one row. Display strings that fail to
// decode are kept verbatim in State so the record stays readable; decisions
// fall back to unset.
func (r *RequisitionRepository) scan(scan func(dest ...interface{}) error) (*entity.Requisition, error) {
	var (
		req entity.Requisition

		typ, state            string
		level                 int
		channel, department   sql.NullString
		reqByEmail, reqByName sql.NullString

		slotName    [3]sql.NullString
		slotEmail   [3]sql.NullString
		slotStatus  [3]sql.NullString
		slotDecided [3]sql.NullTime
		slotReason  [3]sql.NullString

		hrName, hrEmail, hrReason sql.NullString
		hrReviewedAt              sql.NullTime

		candName, candDoc, contract sql.NullString
		startDate                   sql.NullTime

		payStatus, payName, payEmail, payReason sql.NullString
		payDecidedAt                            sql.NullTime

		closeName, closeEmail, closeReason sql.NullString

		sentAt, completedAt, closedAt sql.NullTime
	)

	err := scan(
		&req.ID, &typ, &state, &level,
		&req.JobTitle, &channel, &department,
		&reqByEmail, &reqByName,
		&slotName[0], &slotEmail[0], &slotStatus[0], &slotDecided[0], &slotReason[0],
		&slotName[1], &slotEmail[1], &slotStatus[1], &slotDecided[1], &slotReason[1],
		&slotName[2], &slotEmail[2], &slotStatus[2], &slotDecided[2], &slotReason[2],
		&hrName, &hrEmail, &hrReviewedAt, &hrReason,
		&candName, &candDoc, &startDate, &contract,
		&payStatus, &payName, &payEmail, &payDecidedAt, &payReason,
		&closeName, &closeEmail, &closeReason,
		&req.CreatedAt, &sentAt, &completedAt, &closedAt, &req.UpdatedAt,
		&req.Version,
	)
	if err != nil {
		return nil, err
	}

	req.Type = entity.RequisitionType(typ)
	if s, ok := workflow.ParseState(state); ok {
		req.State = s
	} else {
		req.State = workflow.State(state)
	}
	req.Level = workflow.Level(level)
	req.Channel = channel.String
	req.Department = department.String
	req.RequestedBy = entity.Actor{Email: reqByEmail.String, Name: reqByName.String}

	for i := 0; i < workflow.MaxLevel; i++ {
		slot := req.Chain.Slot(workflow.Level(i + 1))
		slot.Name = slotName[i].String
		slot.Email = slotEmail[i].String
		slot.Status = decodeDecision(slotStatus[i].String)
		slot.DecidedAt = timePtr(slotDecided[i])
		slot.Reason = slotReason[i].String
	}

	req.HRReview = entity.HRReview{
		ReviewerName:  hrName.String,
		ReviewerEmail: hrEmail.String,
		ReviewedAt:    timePtr(hrReviewedAt),
		Reason:        hrReason.String,
	}
	req.Selection = entity.Selection{
		CandidateName:     candName.String,
		CandidateDocument: candDoc.String,
		StartDate:         timePtr(startDate),
		ContractType:      contract.String,
	}
	req.Payroll = entity.PayrollReview{
		Status:     decodeDecision(payStatus.String),
		ActorName:  payName.String,
		ActorEmail: payEmail.String,
		DecidedAt:  timePtr(payDecidedAt),
		Reason:     payReason.String,
	}
	req.Closure = entity.Closure{
		ActorName:  closeName.String,
		ActorEmail: closeEmail.String,
		Reason:     closeReason.String,
		ClosedAt:   timePtr(closedAt),
	}
	req.SentForApprovalAt = timePtr(sentAt)
	req.ApprovalCompletedAt = timePtr(completedAt)
	req.ClosedAt = timePtr(closedAt)

	return &req, nil
}

func decodeDecision(raw string) workflow.Decision {
	if raw == "" {
		return workflow.DecisionUnset
	}
	if d, ok := workflow.ParseDecision(raw); ok {
		return d
	}
	return workflow.DecisionUnset
}
