package port

import (
	"context"
	"errors"

	"github.com/hrsuite/requisition-flow/internal/domain/entity"
)

// ErrVersionConflict is returned by Update when the optimistic precondition
// fails: the row changed since the snapshot was read.
var ErrVersionConflict = errors.New("requisition version conflict")

// RequisitionRepository defines persistence operations for Requisition.
// GetByID returns (nil, nil) when the id does not exist.
type RequisitionRepository interface {
	Create(ctx context.Context, req *entity.Requisition) error
	GetByID(ctx context.Context, id string) (*entity.Requisition, error)

	// Update writes the full aggregate guarded by req.Version and bumps it.
	// Returns ErrVersionConflict when zero rows match.
	Update(ctx context.Context, req *entity.Requisition) error

	List(ctx context.Context, limit, offset int) ([]*entity.Requisition, error)
}

// HistoryRepository defines persistence operations for the audit trail
type HistoryRepository interface {
	Create(ctx context.Context, entry *entity.HistoryEntry) error
	GetByRequisitionID(ctx context.Context, requisitionID string) ([]*entity.HistoryEntry, error)
}

// ReferenceRepository exposes the read-only reference catalogs
type ReferenceRepository interface {
	ListChannels(ctx context.Context) ([]*entity.Channel, error)
	ListJobTitles(ctx context.Context) ([]*entity.JobTitle, error)
	GetProfileByEmail(ctx context.Context, email string) (*entity.UserProfile, error)
	GetProfileByDocument(ctx context.Context, document string) (*entity.UserProfile, error)
}

// TransactionManager handles database transactions. The fn context carries
// the open transaction; repositories pick their executor from it so the
// read-modify-write of an action happens in a single transaction scope.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
