package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gufolabs/gestiune/internal/profile/domain"
	"github.com/gufolabs/gestiune/internal/profile/repository"
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

	require.NoError(t, db.AutoMigrate(&domain.NumberingProfile{}))

	return New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
}

func tenantCtx(tenantID string) context.Context {
	return tenantctx.WithTenantID(context.Background(), tenantID)
}

func TestGetWithoutProfile(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get(tenantCtx("REST-1"))
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestUpsertAppliesDefaults(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Upsert(tenantCtx("REST-1"), domain.UpsertProfileRequest{
		CompanyName: "Demo SRL",
	})
	require.NoError(t, err)
	assert.Equal(t, "FCT", created.Series)
	assert.Equal(t, int64(1), created.NumberStart)

	got, err := svc.Get(tenantCtx("REST-1"))
	require.NoError(t, err)
	assert.Equal(t, "Demo SRL", got.CompanyName)
}

func TestUpsertReplacesExistingProfile(t *testing.T) {
	svc := newTestService(t)
	ctx := tenantCtx("REST-1")

	_, err := svc.Upsert(ctx, domain.UpsertProfileRequest{Series: "fct", NumberStart: 1})
	require.NoError(t, err)

	updated, err := svc.Upsert(ctx, domain.UpsertProfileRequest{Series: "PRO", NumberStart: 500})
	require.NoError(t, err)
	assert.Equal(t, "PRO", updated.Series)
	assert.Equal(t, int64(500), updated.NumberStart)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PRO", got.Series)
	assert.Equal(t, int64(500), got.NumberStart)
}

func TestUpsertRejectsNegativeStart(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upsert(tenantCtx("REST-1"), domain.UpsertProfileRequest{NumberStart: -5})
	assert.ErrorIs(t, err, domain.ErrInvalidStart)
}

func TestProfileIsTenantScoped(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upsert(tenantCtx("REST-1"), domain.UpsertProfileRequest{})
	require.NoError(t, err)

	_, err = svc.Get(tenantCtx("REST-2"))
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}
