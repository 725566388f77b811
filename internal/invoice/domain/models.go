// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/gufolabs/gestiune/internal/customer/domain"
	"github.com/gufolabs/gestiune/internal/money"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusIssued    InvoiceStatus = "ISSUED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// VATCategory is the tax-treatment code of a line (UBL 5305 subset).
type VATCategory string

const (
	VATCategoryStandard VATCategory = "S"
	VATCategoryZero     VATCategory = "Z"
	VATCategoryExempt   VATCategory = "E"
)

// Invoice is the issued document header. The (tenant_id, series, number)
// triple is unique and immutable once assigned.
type Invoice struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID   string            `gorm:"type:text;not null;uniqueIndex:ux_invoices_tenant_series_number,priority:1" json:"tenant_id"`
	Series     string            `gorm:"type:text;not null;uniqueIndex:ux_invoices_tenant_series_number,priority:2" json:"series"`
	Number     int64             `gorm:"not null;uniqueIndex:ux_invoices_tenant_series_number,priority:3" json:"number"`
	CustomerID snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	Status     InvoiceStatus     `gorm:"type:text;not null;default:'ISSUED'" json:"status"`
	Currency   string            `gorm:"type:text;not null" json:"currency"`
	IssueDate  time.Time         `gorm:"not null" json:"issue_date"`
	DueDate    *time.Time        `gorm:"" json:"due_date,omitempty"`
	Notes      *string           `gorm:"type:text" json:"notes,omitempty"`
	Subtotal   money.Money       `gorm:"type:numeric(18,6);not null" json:"subtotal"`
	VATTotal   money.Money       `gorm:"column:vat_total;type:numeric(18,6);not null" json:"vat_total"`
	Total      money.Money       `gorm:"type:numeric(18,6);not null" json:"total"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Lines    []InvoiceLine            `gorm:"-" json:"lines,omitempty"`
	Customer *customerdomain.Customer `gorm:"-" json:"customer,omitempty"`
}

func (Invoice) TableName() string { return "invoices" }

// InvoiceLine is one billed row. Derived amounts are computed once at
// creation and never edited independently; line_total = line_net + line_vat
// holds exactly.
type InvoiceLine struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID    string        `gorm:"type:text;not null;index" json:"tenant_id"`
	InvoiceID   snowflake.ID  `gorm:"not null;index" json:"invoice_id"`
	ProductID   *snowflake.ID `gorm:"index" json:"product_id,omitempty"`
	Description string        `gorm:"type:text;not null" json:"description"`
	UOM         string        `gorm:"column:uom;type:text;not null;default:'buc'" json:"uom"`
	Quantity    money.Money   `gorm:"type:numeric(18,6);not null" json:"quantity"`
	UnitPrice   money.Money   `gorm:"type:numeric(18,6);not null" json:"unit_price"`
	VATRate     money.Money   `gorm:"column:vat_rate;type:numeric(8,4);not null" json:"vat_rate"`
	VATCategory VATCategory   `gorm:"column:vat_category;type:text;not null;default:'S'" json:"vat_category"`
	LineNet     money.Money   `gorm:"column:line_net;type:numeric(18,6);not null" json:"line_net"`
	LineVAT     money.Money   `gorm:"column:line_vat;type:numeric(18,6);not null" json:"line_vat"`
	LineTotal   money.Money   `gorm:"column:line_total;type:numeric(18,6);not null" json:"line_total"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (InvoiceLine) TableName() string { return "invoice_lines" }

// SequenceState is the high-water mark for one (tenant, series) numbering
// stream. It only ever moves forward.
type SequenceState struct {
	TenantID   string    `gorm:"primaryKey;type:text" json:"tenant_id"`
	Series     string    `gorm:"primaryKey;type:text" json:"series"`
	LastNumber int64     `gorm:"not null" json:"last_number"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SequenceState) TableName() string { return "invoice_sequences" }
