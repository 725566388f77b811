package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/gufolabs/gestiune/internal/invoice/domain"
	"github.com/gufolabs/gestiune/internal/money"
	"github.com/gufolabs/gestiune/pkg/db/pagination"
)

// Monetary fields bind as money.Money so the literal the client wrote is
// parsed exactly; a float64 intermediate would corrupt amounts beyond 15
// significant digits.
type createInvoiceItemRequest struct {
	ProductID   string       `json:"product_id"`
	Description string       `json:"description"`
	UOM         string       `json:"uom"`
	Quantity    money.Money  `json:"quantity"`
	UnitPrice   money.Money  `json:"unit_price"`
	VATRate     *money.Money `json:"vat_rate"`
	VATCategory string       `json:"vat_category"`
}

type createInvoiceRequest struct {
	CustomerID string                     `json:"customer_id"`
	Currency   string                     `json:"currency"`
	Notes      string                     `json:"notes"`
	IssueDate  *time.Time                 `json:"issue_date"`
	DueDate    *time.Time                 `json:"due_date"`
	Items      []createInvoiceItemRequest `json:"items"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items := make([]invoicedomain.LineItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, invoicedomain.LineItemInput{
			ProductID:   strings.TrimSpace(item.ProductID),
			Description: strings.TrimSpace(item.Description),
			UOM:         strings.TrimSpace(item.UOM),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VATRate:     item.VATRate,
			VATCategory: strings.TrimSpace(item.VATCategory),
		})
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		CustomerID: strings.TrimSpace(req.CustomerID),
		Currency:   strings.TrimSpace(req.Currency),
		Notes:      strings.TrimSpace(req.Notes),
		IssueDate:  req.IssueDate,
		DueDate:    req.DueDate,
		Items:      items,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query pagination.Pagination
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func isInvoiceValidationError(err error) bool {
	switch err {
	case invoicedomain.ErrMissingTenant,
		invoicedomain.ErrMissingCustomerID,
		invoicedomain.ErrInvalidCustomerID,
		invoicedomain.ErrNoItems,
		invoicedomain.ErrInvalidInvoiceID:
		return true
	default:
		return false
	}
}
