// Package domain holds the per-tenant numbering configuration. A profile
// is read-only input to invoice issuance; allocation state lives in the
// invoice_sequences table, not here.
package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// NumberingProfile configures the active invoice series and its starting
// number for one tenant.
type NumberingProfile struct {
	TenantID    string    `gorm:"primaryKey;type:text" json:"tenant_id"`
	CompanyName string    `gorm:"type:text" json:"company_name,omitempty"`
	Series      string    `gorm:"column:invoice_series;type:text;not null;default:'FCT'" json:"invoice_series"`
	NumberStart int64     `gorm:"column:invoice_number_start;not null;default:1" json:"invoice_number_start"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (NumberingProfile) TableName() string { return "numbering_profiles" }

type Repository interface {
	FindByTenant(ctx context.Context, db *gorm.DB, tenantID string) (*NumberingProfile, error)
	Upsert(ctx context.Context, db *gorm.DB, profile *NumberingProfile) error
}

var ErrNotConfigured = errors.New("profile_not_configured")
