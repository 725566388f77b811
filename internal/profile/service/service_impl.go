package service

import (
	"context"
	"strings"
	"time"

	"github.com/gufolabs/gestiune/internal/profile/domain"
	"github.com/gufolabs/gestiune/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultSeries = "FCT"

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("profile.service"),
		repo: p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.NumberingProfile, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok {
		return domain.NumberingProfile{}, domain.ErrMissingTenant
	}

	profile, err := s.repo.FindByTenant(ctx, s.db, tenantID)
	if err != nil {
		return domain.NumberingProfile{}, err
	}
	if profile == nil {
		return domain.NumberingProfile{}, domain.ErrNotConfigured
	}
	return *profile, nil
}

// Upsert replaces the tenant's numbering configuration. Lowering the
// starting number never reuses already-allocated numbers; allocation
// state lives in its own table.
func (s *Service) Upsert(ctx context.Context, req domain.UpsertProfileRequest) (domain.NumberingProfile, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok {
		return domain.NumberingProfile{}, domain.ErrMissingTenant
	}

	series := strings.ToUpper(strings.TrimSpace(req.Series))
	if series == "" {
		series = defaultSeries
	}
	if len(series) > 16 {
		return domain.NumberingProfile{}, domain.ErrInvalidSeries
	}

	start := req.NumberStart
	if start == 0 {
		start = 1
	}
	if start < 1 {
		return domain.NumberingProfile{}, domain.ErrInvalidStart
	}

	now := time.Now().UTC()
	profile := domain.NumberingProfile{
		TenantID:    tenantID,
		CompanyName: strings.TrimSpace(req.CompanyName),
		Series:      series,
		NumberStart: start,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Upsert(ctx, s.db, &profile); err != nil {
		return domain.NumberingProfile{}, err
	}

	s.log.Info("numbering profile updated",
		zap.String("tenant_id", tenantID),
		zap.String("series", series),
		zap.Int64("number_start", start),
	)
	return profile, nil
}
