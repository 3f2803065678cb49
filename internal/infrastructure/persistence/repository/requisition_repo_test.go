package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrsuite/requisition-flow/internal/application/port"
	"github.com/hrsuite/requisition-flow/internal/domain/entity"
	"github.com/hrsuite/requisition-flow/internal/domain/workflow"
	"github.com/hrsuite/requisition-flow/internal/infrastructure/persistence/sqlite"
	"github.com/hrsuite/requisition-flow/pkg/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrator := database.NewMigrator(db, zap.NewNop())
	require.NoError(t, migrator.RunMigrations(filepath.Join("..", "..", "..", "..", "migrations")))
	return db
}

func sampleRequisition(id string) *entity.Requisition {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	req := entity.NewRequisition(id, entity.TypeCommercial, []entity.Actor{
		{Email: "jefe@x.com", Name: "Jefe Comercial"},
		{Email: "gerente@x.com", Name: "Gerente"},
	}, now)
	req.JobTitle = "Asesor comercial"
	req.Channel = "LinkedIn"
	req.Department = "Comercial"
	req.RequestedBy = entity.Actor{Email: "solicitante@x.com", Name: "Solicitante"}
	return req
}

func TestRequisitionRepo_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequisitionRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	req := sampleRequisition("REQ-1")
	require.NoError(t, repo.Create(ctx, req))

	got, err := repo.GetByID(ctx, "REQ-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, entity.TypeCommercial, got.Type)
	assert.Equal(t, workflow.StateHRReview, got.State)
	assert.Equal(t, workflow.Level1, got.Level)
	assert.Equal(t, "jefe@x.com", got.Chain.Slot(workflow.Level1).Email)
	assert.Equal(t, workflow.DecisionPending, got.Chain.Slot(workflow.Level1).Status)
	assert.Equal(t, workflow.DecisionUnset, got.Chain.Slot(workflow.Level3).Status)
	assert.Equal(t, "solicitante@x.com", got.RequestedBy.Email)
	assert.EqualValues(t, 1, got.Version)
}

func TestRequisitionRepo_GetMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequisitionRepository(db.DB, zap.NewNop())

	got, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRequisitionRepo_UpdatePersistsTransition(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequisitionRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	req := sampleRequisition("REQ-1")
	require.NoError(t, repo.Create(ctx, req))

	now := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	req.State = workflow.StateApproving
	req.SentForApprovalAt = &now
	req.HRReview = entity.HRReview{ReviewerEmail: "gh@x.com", ReviewerName: "GH", ReviewedAt: &now}
	req.UpdatedAt = now
	require.NoError(t, repo.Update(ctx, req))
	assert.EqualValues(t, 2, req.Version)

	got, err := repo.GetByID(ctx, "REQ-1")
	require.NoError(t, err)
	assert.Equal(t, workflow.StateApproving, got.State)
	assert.Equal(t, "gh@x.com", got.HRReview.ReviewerEmail)
	require.NotNil(t, got.SentForApprovalAt)
	assert.EqualValues(t, 2, got.Version)
}

func TestRequisitionRepo_StaleVersionConflicts(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequisitionRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	req := sampleRequisition("REQ-1")
	require.NoError(t, repo.Create(ctx, req))

	stale := *req
	require.NoError(t, repo.Update(ctx, req))

	err := repo.Update(ctx, &stale)
	assert.True(t, errors.Is(err, port.ErrVersionConflict))
}

func TestRequisitionRepo_TransactionRollback(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequisitionRepository(db.DB, zap.NewNop())
	txManager := sqlite.NewDB(db.DB, zap.NewNop())
	ctx := context.Background()

	boom := errors.New("boom")
	err := txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, sampleRequisition("REQ-1")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.GetByID(ctx, "REQ-1")
	require.NoError(t, err)
	assert.Nil(t, got, "rolled back insert must not be visible")
}

func TestHistoryRepo_AppendAndRead(t *testing.T) {
	db := openTestDB(t)
	reqRepo := NewRequisitionRepository(db.DB, zap.NewNop())
	histRepo := NewHistoryRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, reqRepo.Create(ctx, sampleRequisition("REQ-1")))

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, action := range []string{"CREATE", "HR_APPROVE"} {
		entry := &entity.HistoryEntry{
			RequisitionID: "REQ-1",
			NewState:      "En aprobación",
			Action:        action,
			ActorEmail:    "gh@x.com",
			Timestamp:     base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, histRepo.Create(ctx, entry))
		assert.NotZero(t, entry.ID)
	}

	entries, err := histRepo.GetByRequisitionID(ctx, "REQ-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "CREATE", entries[0].Action)
	assert.Equal(t, "HR_APPROVE", entries[1].Action)
}

func TestReferenceRepo_Catalogs(t *testing.T) {
	db := openTestDB(t)
	repo := NewReferenceRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	channels, err := repo.ListChannels(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, channels)

	titles, err := repo.ListJobTitles(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, titles)
}

func TestReferenceRepo_ProfileLookups(t *testing.T) {
	db := openTestDB(t)
	repo := NewReferenceRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO user_profiles (document, name, email, role)
		VALUES ('CC 1020', 'Jefe Comercial', 'jefe@x.com', 'approver')`)
	require.NoError(t, err)

	profile, err := repo.GetProfileByEmail(ctx, "JEFE@X.COM")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Jefe Comercial", profile.Name)

	profile, err = repo.GetProfileByDocument(ctx, "CC 1020")
	require.NoError(t, err)
	require.NotNil(t, profile)

	missing, err := repo.GetProfileByEmail(ctx, "nadie@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
