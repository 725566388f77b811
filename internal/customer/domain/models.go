package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Customer struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	TenantID  string            `gorm:"type:text;not null;index" json:"tenant_id"`
	Name      string            `gorm:"not null" json:"name"`
	Email     *string           `gorm:"type:text" json:"email,omitempty"`
	Phone     *string           `gorm:"type:text" json:"phone,omitempty"`
	VATCode   *string           `gorm:"column:vat_code;type:text" json:"vat_code,omitempty"`
	RegNo     *string           `gorm:"column:reg_no;type:text" json:"reg_no,omitempty"`
	Address   *string           `gorm:"type:text" json:"address,omitempty"`
	City      *string           `gorm:"type:text" json:"city,omitempty"`
	Country   string            `gorm:"type:text;not null;default:'RO'" json:"country"`
	Notes     *string           `gorm:"type:text" json:"notes,omitempty"`
	IsActive  bool              `gorm:"not null;default:true" json:"is_active"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
