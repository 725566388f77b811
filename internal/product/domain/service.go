package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID string, id snowflake.ID) (*Product, error)
	FindAll(ctx context.Context, db *gorm.DB, tenantID string) ([]Product, error)
}

type CreateProductRequest struct {
	Name      string
	UOM       string
	UnitPrice string
	VATRate   string
}

type Service interface {
	Create(context.Context, CreateProductRequest) (Product, error)
	List(context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
}

var (
	ErrMissingTenant = errors.New("missing_tenant")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidPrice  = errors.New("invalid_price")
	ErrInvalidRate   = errors.New("invalid_vat_rate")
	ErrInvalidID     = errors.New("invalid_id")
	ErrNotFound      = errors.New("not_found")
)
