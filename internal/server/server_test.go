package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/gufolabs/gestiune/internal/config"
	customerdomain "github.com/gufolabs/gestiune/internal/customer/domain"
	customerrepo "github.com/gufolabs/gestiune/internal/customer/repository"
	customerservice "github.com/gufolabs/gestiune/internal/customer/service"
	invoicedomain "github.com/gufolabs/gestiune/internal/invoice/domain"
	invoicerepo "github.com/gufolabs/gestiune/internal/invoice/repository"
	"github.com/gufolabs/gestiune/internal/invoice/sequence"
	invoiceservice "github.com/gufolabs/gestiune/internal/invoice/service"
	obsmetrics "github.com/gufolabs/gestiune/internal/observability/metrics"
	productdomain "github.com/gufolabs/gestiune/internal/product/domain"
	productrepo "github.com/gufolabs/gestiune/internal/product/repository"
	productservice "github.com/gufolabs/gestiune/internal/product/service"
	profiledomain "github.com/gufolabs/gestiune/internal/profile/domain"
	profilerepo "github.com/gufolabs/gestiune/internal/profile/repository"
	profileservice "github.com/gufolabs/gestiune/internal/profile/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&customerdomain.Customer{},
		&productdomain.Product{},
		&profiledomain.NumberingProfile{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLine{},
		&invoicedomain.SequenceState{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	cfg := config.Config{
		DefaultCurrency:      "RON",
		InvoiceDefaultStatus: config.StatusIssued,
	}

	customerRepo := customerrepo.Provide()
	engine := NewEngine(obsmetrics.New())
	NewServer(ServerParams{
		Gin:   engine,
		Cfg:   cfg,
		DB:    db,
		Log:   log,
		GenID: node,
		InvoiceSvc: invoiceservice.NewService(invoiceservice.ServiceParam{
			DB:        db,
			Log:       log,
			GenID:     node,
			Cfg:       cfg,
			Repo:      invoicerepo.Provide(),
			Customers: customerRepo,
			Profiles:  profilerepo.Provide(),
			Allocator: sequence.NewAllocator(),
		}),
		CustomerSvc: customerservice.New(customerservice.Params{
			DB:    db,
			Log:   log,
			GenID: node,
			Repo:  customerRepo,
		}),
		ProductSvc: productservice.New(productservice.Params{
			DB:    db,
			Log:   log,
			GenID: node,
			Repo:  productrepo.Provide(),
		}),
		ProfileSvc: profileservice.New(profileservice.Params{
			DB:   db,
			Log:  log,
			Repo: profilerepo.Provide(),
		}),
	})

	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, tenant string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tenant != "" {
		req.Header.Set(HeaderTenant, tenant)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Data
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestServer(t)

	rec := doJSON(t, engine, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	engine := newTestServer(t)

	rec := doJSON(t, engine, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIRequiresTenant(t *testing.T) {
	engine := newTestServer(t)

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/customers", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_tenant")
}

func TestTenantFromQueryParam(t *testing.T) {
	engine := newTestServer(t)

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/customers?tenantId=REST-1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInvoiceFlow(t *testing.T) {
	engine := newTestServer(t)

	rec := doJSON(t, engine, http.MethodPut, "/api/v1/profile", "REST-1", gin.H{
		"company_name":         "Demo SRL",
		"invoice_series":       "FCT",
		"invoice_number_start": 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/customers", "REST-1", gin.H{
		"name":  "Client SRL",
		"email": "client@example.ro",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	customerID, _ := decodeData(t, rec)["id"].(string)
	require.NotEmpty(t, customerID)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/invoices", "REST-1", gin.H{
		"customer_id": customerID,
		"items": []gin.H{
			{"description": "Pizza", "quantity": 1, "unit_price": 50, "vat_rate": 19},
			{"description": "Cola", "quantity": 3, "unit_price": 10, "vat_rate": 9},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, "FCT", data["series"])
	assert.Equal(t, float64(100), data["number"])
	assert.Equal(t, "ISSUED", data["status"])
	assert.Equal(t, "RON", data["currency"])
	assert.Equal(t, "80", data["subtotal"])
	assert.Equal(t, "12.2", data["vat_total"])
	assert.Equal(t, "92.2", data["total"])

	invoiceID, _ := data["id"].(string)
	require.NotEmpty(t, invoiceID)

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/invoices/"+invoiceID, "REST-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Another tenant never sees it.
	rec = doJSON(t, engine, http.MethodGet, "/api/v1/invoices/"+invoiceID, "REST-2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateInvoiceWithoutProfileConflicts(t *testing.T) {
	engine := newTestServer(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/customers", "REST-1", gin.H{"name": "Client SRL"})
	require.Equal(t, http.StatusCreated, rec.Code)
	customerID, _ := decodeData(t, rec)["id"].(string)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/invoices", "REST-1", gin.H{
		"customer_id": customerID,
		"items":       []gin.H{{"description": "Pizza", "quantity": 1, "unit_price": 50}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "profile_not_configured")
}

func TestCreateInvoiceReportsOffendingItem(t *testing.T) {
	engine := newTestServer(t)

	rec := doJSON(t, engine, http.MethodPut, "/api/v1/profile", "REST-1", gin.H{})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/customers", "REST-1", gin.H{"name": "Client SRL"})
	require.Equal(t, http.StatusCreated, rec.Code)
	customerID, _ := decodeData(t, rec)["id"].(string)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/invoices", "REST-1", gin.H{
		"customer_id": customerID,
		"items": []gin.H{
			{"description": "Pizza", "quantity": 1, "unit_price": 50},
			{"description": "Cola", "quantity": 0, "unit_price": 10},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "items[1].quantity")
}

func TestCreateProductAndList(t *testing.T) {
	engine := newTestServer(t)

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/products", "REST-1", gin.H{
		"name":       "Pizza Margherita",
		"unit_price": "32.50",
		"vat_rate":   "9",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, "buc", data["uom"])

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/products", "REST-1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/products", "REST-2", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Pizza Margherita")
}

func TestCreateInvoiceKeepsLiteralPrecision(t *testing.T) {
	engine := newTestServer(t)

	rec := doJSON(t, engine, http.MethodPut, "/api/v1/profile", "REST-1", gin.H{})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/customers", "REST-1", gin.H{"name": "Client SRL"})
	require.Equal(t, http.StatusCreated, rec.Code)
	customerID, _ := decodeData(t, rec)["id"].(string)

	// Raw body: the literal below exceeds float64 precision, so this
	// fails if any layer routes the amount through a float.
	body := json.RawMessage(`{
		"customer_id": "` + customerID + `",
		"items": [
			{"description": "Consultanta", "quantity": 1, "unit_price": 123456789.123456789, "vat_rate": 0}
		]
	}`)
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/invoices", "REST-1", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, "123456789.123456789", data["subtotal"])
	assert.Equal(t, "123456789.123456789", data["total"])
}
