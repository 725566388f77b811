package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/gufolabs/gestiune/internal/customer/domain"
	"github.com/gufolabs/gestiune/internal/customer/repository"
	"github.com/gufolabs/gestiune/pkg/tenantctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Customer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func tenantCtx(tenantID string) context.Context {
	return tenantctx.WithTenantID(context.Background(), tenantID)
}

func TestCreateCustomer(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(tenantCtx("REST-1"), domain.CreateCustomerRequest{
		Name:  "  Demo SRL  ",
		Email: "office@demo.ro",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Demo SRL", created.Name)
	assert.Equal(t, "RO", created.Country)
	require.NotNil(t, created.Email)
	assert.Equal(t, "office@demo.ro", *created.Email)
	assert.Nil(t, created.Phone)
	assert.True(t, created.IsActive)
}

func TestCreateCustomerRequiresName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(tenantCtx("REST-1"), domain.CreateCustomerRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestCreateCustomerRequiresTenant(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateCustomerRequest{Name: "Demo SRL"})
	assert.ErrorIs(t, err, domain.ErrMissingTenant)
}

func TestCustomersAreTenantScoped(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(tenantCtx("REST-1"), domain.CreateCustomerRequest{Name: "Demo SRL"})
	require.NoError(t, err)

	got, err := svc.GetByID(tenantCtx("REST-1"), domain.GetCustomerRequest{ID: created.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetByID(tenantCtx("REST-2"), domain.GetCustomerRequest{ID: created.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	other, err := svc.List(tenantCtx("REST-2"), domain.ListCustomerRequest{})
	require.NoError(t, err)
	assert.Empty(t, other.Customers)
}

func TestGetCustomerRejectsMalformedID(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetByID(tenantCtx("REST-1"), domain.GetCustomerRequest{ID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestListCustomersPaginates(t *testing.T) {
	svc := newTestService(t)
	ctx := tenantCtx("REST-1")

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, domain.CreateCustomerRequest{Name: fmt.Sprintf("Customer %d", i)})
		require.NoError(t, err)
	}

	first, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, first.Customers, 3)
	require.True(t, first.PageInfo.HasMore)
	require.NotEmpty(t, first.PageInfo.NextPageToken)

	second, err := svc.List(ctx, domain.ListCustomerRequest{
		PageSize:  3,
		PageToken: first.PageInfo.NextPageToken,
	})
	require.NoError(t, err)
	assert.Len(t, second.Customers, 2)
	assert.False(t, second.PageInfo.HasMore)

	seen := map[snowflake.ID]bool{}
	for _, c := range append(first.Customers, second.Customers...) {
		assert.False(t, seen[c.ID], "customer %s returned twice", c.ID)
		seen[c.ID] = true
	}
}
