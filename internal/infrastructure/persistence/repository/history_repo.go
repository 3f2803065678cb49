package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/hrsuite/requisition-flow/internal/application/port"
	"github.com/hrsuite/requisition-flow/internal/domain/entity"
)

// HistoryRepository implements port.HistoryRepository
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends one audit trail entry
func (r *HistoryRepository) Create(ctx context.Context, entry *entity.HistoryEntry) error {
	query := `
		INSERT INTO requisition_history (
			requisition_id, previous_state, new_state, action,
			actor_email, actor_name, reason, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		entry.RequisitionID,
		nullString(entry.PreviousState),
		entry.NewState,
		entry.Action,
		nullString(entry.ActorEmail),
		nullString(entry.ActorName),
		nullString(entry.Reason),
		entry.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create history entry",
			zap.String("requisition_id", entry.RequisitionID),
			zap.Error(err))
		return fmt.Errorf("failed to create history entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

// GetByRequisitionID returns the audit trail of one requisition oldest first
func (r *HistoryRepository) GetByRequisitionID(ctx context.Context, requisitionID string) ([]*entity.HistoryEntry, error) {
	query := `
		SELECT id, requisition_id, previous_state, new_state, action,
			actor_email, actor_name, reason, timestamp
		FROM requisition_history
		WHERE requisition_id = ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, requisitionID)
	if err != nil {
		r.logger.Error("Failed to get history",
			zap.String("requisition_id", requisitionID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var entries []*entity.HistoryEntry
	for rows.Next() {
		var entry entity.HistoryEntry
		var prevState, actorEmail, actorName, reason sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.RequisitionID,
			&prevState,
			&entry.NewState,
			&entry.Action,
			&actorEmail,
			&actorName,
			&reason,
			&entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		entry.PreviousState = prevState.String
		entry.ActorEmail = actorEmail.String
		entry.ActorName = actorName.String
		entry.Reason = reason.String
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
