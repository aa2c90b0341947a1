// Package planner connects the projection engine to profile storage. The
// engine stays pure; loading and saving happen here.
package planner

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nuhgnoej/rofle/internal/calculation"
	"github.com/nuhgnoej/rofle/internal/domain"
)

// Repository is the profile store the service works against.
type Repository interface {
	LoadProfile(ctx context.Context, id string) (*domain.Profile, error)
	SaveProjection(ctx context.Context, id string, result *domain.ProjectionResult) error
	SetOverride(ctx context.Context, id string, year, month int, field string, value *decimal.Decimal) error
}

// Service runs projections for stored profiles.
type Service struct {
	repo   Repository
	engine *calculation.ProjectionEngine
	log    *zap.Logger
}

// NewService wires a service. A nil engine gets the defaults; a nil logger discards.
func NewService(repo Repository, engine *calculation.ProjectionEngine, log *zap.Logger) *Service {
	if engine == nil {
		engine = calculation.NewProjectionEngine()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, engine: engine, log: log}
}

// Project loads the profile, runs the engine and stores the result. Nothing
// is stored when the run fails.
func (s *Service) Project(ctx context.Context, id string) (*domain.ProjectionResult, error) {
	profile, err := s.repo.LoadProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	result, err := s.engine.RunProjection(profile)
	if err != nil {
		s.log.Warn("projection failed", zap.String("profile", id), zap.Error(err))
		return nil, err
	}
	if result.ProfileID == "" {
		result.ProfileID = id
	}

	if err := s.repo.SaveProjection(ctx, id, result); err != nil {
		return nil, fmt.Errorf("saving projection: %w", err)
	}

	s.log.Info("projection saved",
		zap.String("profile", id),
		zap.Int("months", result.Summary.MonthsProjected),
		zap.String("final_total_assets", result.Summary.FinalTotalAssets.StringFixed(2)),
		zap.String("total_interest", result.Summary.TotalInterestPaid.StringFixed(2)),
	)
	return result, nil
}

// EditOverride changes one overridden field and re-projects the profile so
// the stored projection reflects the edit.
func (s *Service) EditOverride(ctx context.Context, id string, year, month int, field string, value *decimal.Decimal) (*domain.ProjectionResult, error) {
	if err := s.repo.SetOverride(ctx, id, year, month, field, value); err != nil {
		return nil, fmt.Errorf("editing override: %w", err)
	}
	s.log.Debug("override edited",
		zap.String("profile", id), zap.Int("year", year), zap.Int("month", month),
		zap.String("field", field), zap.Bool("cleared", value == nil))
	return s.Project(ctx, id)
}
