package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrsuite/requisition-flow/internal/application/port"
	"github.com/hrsuite/requisition-flow/internal/domain/entity"
)

// ReferenceService exposes the read-only reference catalogs consumed by the
// intake surface: recruiting channels, job titles and user profiles.
type ReferenceService interface {
	Channels(ctx context.Context) ([]*entity.Channel, error)
	JobTitles(ctx context.Context) ([]*entity.JobTitle, error)
	Profile(ctx context.Context, emailOrDocument string) (*entity.UserProfile, error)
}

type referenceServiceImpl struct {
	referenceRepo port.ReferenceRepository
	logger        Logger
}

// NewReferenceService creates a new ReferenceService
func NewReferenceService(referenceRepo port.ReferenceRepository, logger Logger) ReferenceService {
	return &referenceServiceImpl{
		referenceRepo: referenceRepo,
		logger:        logger,
	}
}

func (s *referenceServiceImpl) Channels(ctx context.Context) ([]*entity.Channel, error) {
	channels, err := s.referenceRepo.ListChannels(ctx)
	if err != nil {
		s.logger.Error("Failed to list channels", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	return channels, nil
}

func (s *referenceServiceImpl) JobTitles(ctx context.Context) ([]*entity.JobTitle, error) {
	titles, err := s.referenceRepo.ListJobTitles(ctx)
	if err != nil {
		s.logger.Error("Failed to list job titles", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	return titles, nil
}

// Profile looks a user up by email when the argument contains an @, by
// identity document otherwise.
func (s *referenceServiceImpl) Profile(ctx context.Context, emailOrDocument string) (*entity.UserProfile, error) {
	key := strings.TrimSpace(emailOrDocument)
	if key == "" {
		return nil, fmt.Errorf("%w: empty profile lookup key", ErrInvalidAction)
	}

	var (
		profile *entity.UserProfile
		err     error
	)
	if strings.Contains(key, "@") {
		profile, err = s.referenceRepo.GetProfileByEmail(ctx, key)
	} else {
		profile, err = s.referenceRepo.GetProfileByDocument(ctx, key)
	}
	if err != nil {
		s.logger.Error("Failed to look up profile", "error", err, "key", key)
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}
