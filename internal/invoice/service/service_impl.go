package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gufolabs/gestiune/internal/config"
	customerdomain "github.com/gufolabs/gestiune/internal/customer/domain"
	"github.com/gufolabs/gestiune/internal/invoice/calc"
	invoicedomain "github.com/gufolabs/gestiune/internal/invoice/domain"
	"github.com/gufolabs/gestiune/internal/invoice/sequence"
	"github.com/gufolabs/gestiune/internal/money"
	"github.com/gufolabs/gestiune/internal/observability/metrics"
	profiledomain "github.com/gufolabs/gestiune/internal/profile/domain"
	"github.com/gufolabs/gestiune/pkg/db/pagination"
	"github.com/gufolabs/gestiune/pkg/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultUOM     = "buc"
	defaultVATRate = 19
)

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Cfg       config.Config
	Repo      invoicedomain.Repository
	Customers customerdomain.Repository
	Profiles  profiledomain.Repository
	Allocator *sequence.Allocator
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	cfg       config.Config
	repo      invoicedomain.Repository
	customers customerdomain.Repository
	profiles  profiledomain.Repository
	allocator *sequence.Allocator
	metrics   *metrics.Metrics
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("invoice.service"),
		genID:     p.GenID,
		cfg:       p.Cfg,
		repo:      p.Repo,
		customers: p.Customers,
		profiles:  p.Profiles,
		allocator: p.Allocator,
		metrics:   p.Metrics,
	}
}

type computedLine struct {
	productID   *snowflake.ID
	description string
	uom         string
	quantity    money.Money
	unitPrice   money.Money
	vatRate     money.Money
	vatCategory invoicedomain.VATCategory
	amounts     calc.LineAmounts
}

// Create issues one invoice: validate, resolve customer and numbering
// profile, compute every line, then allocate the number and persist the
// header plus all lines in a single transaction.
func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok {
		return invoicedomain.Invoice{}, invoicedomain.ErrMissingTenant
	}

	rawCustomerID := strings.TrimSpace(req.CustomerID)
	if rawCustomerID == "" {
		return invoicedomain.Invoice{}, invoicedomain.ErrMissingCustomerID
	}
	customerID, err := snowflake.ParseString(rawCustomerID)
	if err != nil || customerID == 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidCustomerID
	}

	if len(req.Items) == 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrNoItems
	}

	lines, subtotal, vatTotal, total, err := s.computeLines(req.Items)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	customer, err := s.customers.FindByID(ctx, s.db, tenantID, customerID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if customer == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrCustomerNotFound
	}

	profile, err := s.profiles.FindByTenant(ctx, s.db, tenantID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if profile == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrProfileNotConfigured
	}

	now := time.Now().UTC()
	issueDate := now
	if req.IssueDate != nil {
		issueDate = req.IssueDate.UTC()
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	var created invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := s.allocator.Next(ctx, tx, tenantID, profile.Series, profile.NumberStart)
		if err != nil {
			return err
		}

		invoice := invoicedomain.Invoice{
			ID:         s.genID.Generate(),
			TenantID:   tenantID,
			Series:     profile.Series,
			Number:     number,
			CustomerID: customerID,
			Status:     invoicedomain.InvoiceStatus(s.cfg.InvoiceDefaultStatus),
			Currency:   currency,
			IssueDate:  issueDate,
			DueDate:    req.DueDate,
			Notes:      optional(req.Notes),
			Subtotal:   subtotal,
			VATTotal:   vatTotal,
			Total:      total,
			Metadata:   datatypes.JSONMap{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.Insert(ctx, tx, &invoice); err != nil {
			return err
		}

		persisted := make([]invoicedomain.InvoiceLine, 0, len(lines))
		for _, line := range lines {
			record := invoicedomain.InvoiceLine{
				ID:          s.genID.Generate(),
				TenantID:    tenantID,
				InvoiceID:   invoice.ID,
				ProductID:   line.productID,
				Description: line.description,
				UOM:         line.uom,
				Quantity:    line.quantity,
				UnitPrice:   line.unitPrice,
				VATRate:     line.vatRate,
				VATCategory: line.vatCategory,
				LineNet:     line.amounts.Net,
				LineVAT:     line.amounts.VAT,
				LineTotal:   line.amounts.Total,
				CreatedAt:   now,
			}
			if err := s.repo.InsertLine(ctx, tx, &record); err != nil {
				return err
			}
			persisted = append(persisted, record)
		}

		invoice.Lines = persisted
		created = invoice
		return nil
	})
	if err != nil {
		s.metrics.RecordIssuanceFailure(tenantID)
		s.log.Error("invoice issuance failed",
			zap.String("tenant_id", tenantID),
			zap.String("series", profile.Series),
			zap.Error(err),
		)
		return invoicedomain.Invoice{}, err
	}

	totalAmount, _ := created.Total.Float64()
	s.metrics.RecordInvoiceIssued(tenantID, created.Series, created.Currency, totalAmount)
	created.Customer = customer
	s.log.Info("invoice issued",
		zap.String("tenant_id", tenantID),
		zap.String("series", created.Series),
		zap.Int64("number", created.Number),
		zap.String("total", created.Total.Display(money.DisplayScale)),
	)
	return created, nil
}

// computeLines applies per-item defaults, validates and derives all line
// amounts in input order, with no rounding between lines.
func (s *Service) computeLines(items []invoicedomain.LineItemInput) ([]computedLine, money.Money, money.Money, money.Money, error) {
	lines := make([]computedLine, 0, len(items))
	subtotal := money.Zero()
	vatTotal := money.Zero()
	total := money.Zero()

	for i, item := range items {
		vatRate := money.New(defaultVATRate)
		if item.VATRate != nil {
			vatRate = *item.VATRate
		}

		uom := strings.TrimSpace(item.UOM)
		if uom == "" {
			uom = defaultUOM
		}

		category := invoicedomain.VATCategory(strings.TrimSpace(item.VATCategory))
		switch category {
		case invoicedomain.VATCategoryStandard, invoicedomain.VATCategoryZero, invoicedomain.VATCategoryExempt:
		case "":
			category = invoicedomain.VATCategoryStandard
		default:
			return nil, money.Money{}, money.Money{}, money.Money{}, &calc.ItemError{
				Index: i, Field: "vat_category", Message: "unknown category",
			}
		}

		var productID *snowflake.ID
		if raw := strings.TrimSpace(item.ProductID); raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil || parsed == 0 {
				return nil, money.Money{}, money.Money{}, money.Money{}, &calc.ItemError{
					Index: i, Field: "product_id", Message: "invalid reference",
				}
			}
			productID = &parsed
		}

		amounts, err := calc.ComputeLine(i, calc.LineInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VATRate:     vatRate,
		})
		if err != nil {
			return nil, money.Money{}, money.Money{}, money.Money{}, err
		}

		subtotal = subtotal.Add(amounts.Net)
		vatTotal = vatTotal.Add(amounts.VAT)
		total = total.Add(amounts.Total)

		lines = append(lines, computedLine{
			productID:   productID,
			description: strings.TrimSpace(item.Description),
			uom:         uom,
			quantity:    item.Quantity,
			unitPrice:   item.UnitPrice,
			vatRate:     vatRate,
			vatCategory: category,
			amounts:     amounts,
		})
	}

	return lines, subtotal, vatTotal, total, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok {
		return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrMissingTenant
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, tenantID, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(invoice *invoicedomain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        invoice.ID.String(),
			CreatedAt: invoice.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	invoices := make([]invoicedomain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	if err := s.attachRelations(ctx, tenantID, invoices); err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	return invoicedomain.ListInvoiceResponse{PageInfo: *pageInfo, Invoices: invoices}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok {
		return invoicedomain.Invoice{}, invoicedomain.ErrMissingTenant
	}

	invoiceID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || invoiceID == 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidInvoiceID
	}

	item, err := s.repo.FindByID(ctx, s.db, tenantID, invoiceID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if item == nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}

	invoices := []invoicedomain.Invoice{*item}
	if err := s.attachRelations(ctx, tenantID, invoices); err != nil {
		return invoicedomain.Invoice{}, err
	}
	return invoices[0], nil
}

// attachRelations loads lines and customers for a page of invoices.
func (s *Service) attachRelations(ctx context.Context, tenantID string, invoices []invoicedomain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}

	invoiceIDs := make([]snowflake.ID, 0, len(invoices))
	customerIDs := make([]snowflake.ID, 0, len(invoices))
	seen := map[snowflake.ID]bool{}
	for _, invoice := range invoices {
		invoiceIDs = append(invoiceIDs, invoice.ID)
		if !seen[invoice.CustomerID] {
			seen[invoice.CustomerID] = true
			customerIDs = append(customerIDs, invoice.CustomerID)
		}
	}

	lines, err := s.repo.FindLines(ctx, s.db, tenantID, invoiceIDs)
	if err != nil {
		return err
	}
	linesByInvoice := map[snowflake.ID][]invoicedomain.InvoiceLine{}
	for _, line := range lines {
		if line == nil {
			continue
		}
		linesByInvoice[line.InvoiceID] = append(linesByInvoice[line.InvoiceID], *line)
	}

	customers, err := s.customers.FindByIDs(ctx, s.db, tenantID, customerIDs)
	if err != nil {
		return err
	}
	customersByID := map[snowflake.ID]*customerdomain.Customer{}
	for _, customer := range customers {
		if customer == nil {
			continue
		}
		customersByID[customer.ID] = customer
	}

	for i := range invoices {
		invoices[i].Lines = linesByInvoice[invoices[i].ID]
		invoices[i].Customer = customersByID[invoices[i].CustomerID]
	}
	return nil
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
