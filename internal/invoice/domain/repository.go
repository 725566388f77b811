package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gufolabs/gestiune/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	InsertLine(ctx context.Context, db *gorm.DB, line *InvoiceLine) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID string, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, tenantID string, page pagination.Pagination) ([]*Invoice, error)
	FindLines(ctx context.Context, db *gorm.DB, tenantID string, invoiceIDs []snowflake.ID) ([]*InvoiceLine, error)
}
