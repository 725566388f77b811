package domain

import (
	"context"
	"errors"
	"time"

	"github.com/gufolabs/gestiune/internal/money"
	"github.com/gufolabs/gestiune/pkg/db/pagination"
)

// LineItemInput is one user-supplied item of an issuance request. Derived
// amounts are never accepted from the caller.
type LineItemInput struct {
	ProductID   string
	Description string
	UOM         string
	Quantity    money.Money
	UnitPrice   money.Money
	// VATRate is a percentage; nil means the default rate (19).
	VATRate     *money.Money
	VATCategory string
}

type CreateInvoiceRequest struct {
	CustomerID string
	Currency   string
	Notes      string
	IssueDate  *time.Time
	DueDate    *time.Time
	Items      []LineItemInput
}

type ListInvoiceRequest struct {
	PageToken string
	PageSize  int
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
}

var (
	ErrMissingTenant        = errors.New("missing_tenant")
	ErrMissingCustomerID    = errors.New("missing_customer_id")
	ErrInvalidCustomerID    = errors.New("invalid_customer_id")
	ErrNoItems              = errors.New("missing_items")
	ErrCustomerNotFound     = errors.New("customer_not_found")
	ErrProfileNotConfigured = errors.New("profile_not_configured")
	ErrLockTimeout          = errors.New("lock_timeout")
	ErrInvalidInvoiceID     = errors.New("invalid_invoice_id")
	ErrNotFound             = errors.New("not_found")
)
