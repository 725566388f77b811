package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/gufolabs/gestiune/internal/customer/domain"
	"github.com/gufolabs/gestiune/internal/money"
	productdomain "github.com/gufolabs/gestiune/internal/product/domain"
	profiledomain "github.com/gufolabs/gestiune/internal/profile/domain"
	tenantdomain "github.com/gufolabs/gestiune/internal/tenant/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	demoTenantID    = "REST-1"
	demoTenantName  = "Restaurant Demo"
	demoCompanyName = "Restaurant Demo SRL"
	demoSeries      = "FCT"
	demoNumberStart = 1
)

// EnsureDemoTenant seeds a demo tenant with a numbering profile, a few
// products and a customer so a fresh install can issue invoices
// immediately. Existing rows are left untouched.
func EnsureDemoTenant(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTenant(tx); err != nil {
			return err
		}
		if err := ensureProfile(tx); err != nil {
			return err
		}
		if err := ensureProducts(tx, node); err != nil {
			return err
		}
		return ensureCustomer(tx, node)
	})
}

func ensureTenant(tx *gorm.DB) error {
	now := time.Now().UTC()
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tenantdomain.Tenant{
		ID:        demoTenantID,
		Name:      demoTenantName,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
}

func ensureProfile(tx *gorm.DB) error {
	now := time.Now().UTC()
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&profiledomain.NumberingProfile{
		TenantID:    demoTenantID,
		CompanyName: demoCompanyName,
		Series:      demoSeries,
		NumberStart: demoNumberStart,
		CreatedAt:   now,
		UpdatedAt:   now,
	}).Error
}

func ensureProducts(tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.Model(&productdomain.Product{}).
		Where("tenant_id = ?", demoTenantID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	type demoProduct struct {
		name  string
		price string
		rate  string
	}
	items := []demoProduct{
		{name: "Pizza Margherita", price: "32.50", rate: "9"},
		{name: "Cola 330ml", price: "8.00", rate: "9"},
		{name: "Livrare", price: "10.00", rate: "19"},
	}

	now := time.Now().UTC()
	for _, item := range items {
		price, err := money.Parse(item.price)
		if err != nil {
			return err
		}
		rate, err := money.Parse(item.rate)
		if err != nil {
			return err
		}
		product := productdomain.Product{
			ID:        node.Generate(),
			TenantID:  demoTenantID,
			Name:      item.name,
			UOM:       "buc",
			UnitPrice: price,
			VATRate:   rate,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureCustomer(tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.Model(&customerdomain.Customer{}).
		Where("tenant_id = ?", demoTenantID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	return tx.Create(&customerdomain.Customer{
		ID:        node.Generate(),
		TenantID:  demoTenantID,
		Name:      "Client Fidel SRL",
		Country:   "RO",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
}
