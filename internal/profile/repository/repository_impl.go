package repository

import (
	"context"

	"github.com/gufolabs/gestiune/internal/profile/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByTenant(ctx context.Context, db *gorm.DB, tenantID string) (*domain.NumberingProfile, error) {
	var profile domain.NumberingProfile
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM numbering_profiles WHERE tenant_id = ?`,
		tenantID,
	).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.TenantID == "" {
		return nil, nil
	}
	return &profile, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, profile *domain.NumberingProfile) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"company_name", "invoice_series", "invoice_number_start", "updated_at"}),
		}).
		Create(profile).Error
}
