package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gufolabs/gestiune/internal/money"
	"github.com/gufolabs/gestiune/internal/product/domain"
	"github.com/gufolabs/gestiune/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultUOM = "buc"

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProductRequest) (domain.Product, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok {
		return domain.Product{}, domain.ErrMissingTenant
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, domain.ErrInvalidName
	}

	uom := strings.TrimSpace(req.UOM)
	if uom == "" {
		uom = defaultUOM
	}

	unitPrice := money.Zero()
	if strings.TrimSpace(req.UnitPrice) != "" {
		parsed, err := money.ParseNonNegative(req.UnitPrice)
		if err != nil {
			return domain.Product{}, domain.ErrInvalidPrice
		}
		unitPrice = parsed
	}

	vatRate := money.New(19)
	if strings.TrimSpace(req.VATRate) != "" {
		parsed, err := money.ParseNonNegative(req.VATRate)
		if err != nil {
			return domain.Product{}, domain.ErrInvalidRate
		}
		vatRate = parsed
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Name:      name,
		UOM:       uom,
		UnitPrice: unitPrice,
		VATRate:   vatRate,
		Active:    true,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &product); err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok {
		return nil, domain.ErrMissingTenant
	}
	return s.repo.FindAll(ctx, s.db, tenantID)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Product, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok {
		return domain.Product{}, domain.ErrMissingTenant
	}

	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.Product{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, tenantID, parsed)
	if err != nil {
		return domain.Product{}, err
	}
	if item == nil {
		return domain.Product{}, domain.ErrNotFound
	}

	return *item, nil
}
