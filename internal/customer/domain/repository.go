package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gufolabs/gestiune/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID string, id snowflake.ID) (*Customer, error)
	FindByIDs(ctx context.Context, db *gorm.DB, tenantID string, ids []snowflake.ID) ([]*Customer, error)
	List(ctx context.Context, db *gorm.DB, tenantID string, page pagination.Pagination) ([]*Customer, error)
}
