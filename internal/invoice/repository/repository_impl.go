package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gufolabs/gestiune/internal/invoice/domain"
	"github.com/gufolabs/gestiune/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoices (
			id, tenant_id, series, number, customer_id, status, currency,
			issue_date, due_date, notes, subtotal, vat_total, total,
			metadata, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.TenantID,
		invoice.Series,
		invoice.Number,
		invoice.CustomerID,
		invoice.Status,
		invoice.Currency,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.Notes,
		invoice.Subtotal,
		invoice.VATTotal,
		invoice.Total,
		invoice.Metadata,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Error
}

func (r *repo) InsertLine(ctx context.Context, db *gorm.DB, line *domain.InvoiceLine) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoice_lines (
			id, tenant_id, invoice_id, product_id, description, uom,
			quantity, unit_price, vat_rate, vat_category,
			line_net, line_vat, line_total, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		line.ID,
		line.TenantID,
		line.InvoiceID,
		line.ProductID,
		line.Description,
		line.UOM,
		line.Quantity,
		line.UnitPrice,
		line.VATRate,
		line.VATCategory,
		line.LineNet,
		line.LineVAT,
		line.LineTotal,
		line.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID string, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM invoices WHERE tenant_id = ? AND id = ?`,
		tenantID,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID string, page pagination.Pagination) ([]*domain.Invoice, error) {
	limit := page.PageSize
	if limit <= 0 {
		limit = 50
	}

	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("tenant_id = ?", tenantID)

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		if cursor.CreatedAt != "" {
			createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
			if err != nil {
				return nil, err
			}
			cursorID, err := snowflake.ParseString(cursor.ID)
			if err != nil {
				return nil, err
			}
			stmt = stmt.Where("created_at < ? OR (created_at = ? AND id < ?)", createdAt, createdAt, cursorID.Int64())
		}
	}

	var invoices []*domain.Invoice
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit + 1).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) FindLines(ctx context.Context, db *gorm.DB, tenantID string, invoiceIDs []snowflake.ID) ([]*domain.InvoiceLine, error) {
	if len(invoiceIDs) == 0 {
		return nil, nil
	}
	var lines []*domain.InvoiceLine
	err := db.WithContext(ctx).
		Model(&domain.InvoiceLine{}).
		Where("tenant_id = ? AND invoice_id IN ?", tenantID, invoiceIDs).
		Order("invoice_id, id").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
