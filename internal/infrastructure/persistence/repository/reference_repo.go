package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/hrsuite/requisition-flow/internal/application/port"
	"github.com/hrsuite/requisition-flow/internal/domain/entity"
)

// ReferenceRepository implements port.ReferenceRepository over the seeded
// reference catalogs.
type ReferenceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReferenceRepository creates a new reference repository
func NewReferenceRepository(db *sql.DB, logger *zap.Logger) port.ReferenceRepository {
	return &ReferenceRepository{
		db:     db,
		logger: logger,
	}
}

// ListChannels returns all recruiting channels
func (r *ReferenceRepository) ListChannels(ctx context.Context) ([]*entity.Channel, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx,
		`SELECT id, name FROM channels ORDER BY name ASC`)
	if err != nil {
		r.logger.Error("Failed to list channels", zap.Error(err))
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var channels []*entity.Channel
	for rows.Next() {
		var c entity.Channel
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, &c)
	}
	return channels, rows.Err()
}

// ListJobTitles returns all job title catalog entries
func (r *ReferenceRepository) ListJobTitles(ctx context.Context) ([]*entity.JobTitle, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx,
		`SELECT id, name, category FROM job_titles ORDER BY name ASC`)
	if err != nil {
		r.logger.Error("Failed to list job titles", zap.Error(err))
		return nil, fmt.Errorf("failed to list job titles: %w", err)
	}
	defer rows.Close()

	var titles []*entity.JobTitle
	for rows.Next() {
		var t entity.JobTitle
		var category sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &category); err != nil {
			return nil, fmt.Errorf("failed to scan job title: %w", err)
		}
		t.Category = category.String
		titles = append(titles, &t)
	}
	return titles, rows.Err()
}

// GetProfileByEmail looks up a user profile by email, case-insensitive;
// (nil, nil) when absent
func (r *ReferenceRepository) GetProfileByEmail(ctx context.Context, email string) (*entity.UserProfile, error) {
	return r.getProfile(ctx,
		`SELECT document, name, email, role FROM user_profiles WHERE email = ? COLLATE NOCASE`,
		email)
}

// GetProfileByDocument looks up a user profile by identity document;
// (nil, nil) when absent
func (r *ReferenceRepository) GetProfileByDocument(ctx context.Context, document string) (*entity.UserProfile, error) {
	return r.getProfile(ctx,
		`SELECT document, name, email, role FROM user_profiles WHERE document = ?`,
		document)
}

func (r *ReferenceRepository) getProfile(ctx context.Context, query, arg string) (*entity.UserProfile, error) {
	var p entity.UserProfile
	var role sql.NullString

	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(
		&p.Document, &p.Name, &p.Email, &role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get user profile", zap.Error(err))
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	p.Role = role.String
	return &p, nil
}
