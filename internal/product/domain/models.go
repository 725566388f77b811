package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gufolabs/gestiune/internal/money"
	"gorm.io/datatypes"
)

type Product struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID  string            `gorm:"type:text;not null;index" json:"tenant_id"`
	Name      string            `gorm:"not null" json:"name"`
	UOM       string            `gorm:"column:uom;type:text;not null;default:'buc'" json:"uom"`
	UnitPrice money.Money       `gorm:"type:numeric(18,6);not null" json:"unit_price"`
	VATRate   money.Money       `gorm:"column:vat_rate;type:numeric(8,4);not null" json:"vat_rate"`
	Active    bool              `gorm:"not null;default:true" json:"active"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Product) TableName() string { return "products" }
