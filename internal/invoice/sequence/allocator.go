// Package sequence hands out invoice numbers per (tenant, series). All
// coordination is delegated to the storage engine: the counter row is
// advanced with an atomic UPDATE whose row lock is held until the
// enclosing transaction resolves, so two concurrent allocations for the
// same stream serialize and can never observe the same number.
package sequence

import (
	"context"
	"errors"
	"time"

	invoicedomain "github.com/gufolabs/gestiune/internal/invoice/domain"
	pkgdb "github.com/gufolabs/gestiune/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Allocator struct{}

func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next returns the next unused number for (tenantID, series), advancing
// the high-water mark by exactly one. It must be called inside the
// caller's transaction; if that transaction aborts, the counter update
// rolls back with it and the same number is handed out again later.
//
// A missing counter row is seeded at start, taken from the tenant's
// numbering profile, so the first invoice of a series carries the
// configured start number. Seeding is conflict-free (ON CONFLICT DO
// NOTHING), so losing the race to a concurrent request never poisons
// the enclosing transaction; the loser blocks on the winner's row and
// falls back to the increment path.
func (a *Allocator) Next(ctx context.Context, tx *gorm.DB, tenantID, series string, start int64) (int64, error) {
	advanced, err := a.advance(ctx, tx, tenantID, series)
	if err != nil {
		return 0, err
	}
	if advanced {
		return a.currentNumber(ctx, tx, tenantID, series)
	}

	seeded, err := a.seed(ctx, tx, tenantID, series, start)
	if err != nil {
		return 0, err
	}
	if seeded {
		return start, nil
	}

	advanced, err = a.advance(ctx, tx, tenantID, series)
	if err != nil {
		return 0, err
	}
	if !advanced {
		return 0, errors.New("sequence row vanished during allocation")
	}
	return a.currentNumber(ctx, tx, tenantID, series)
}

// seed inserts the counter row at start. A concurrent insert of the
// same (tenant, series) is not an error: the statement reports zero
// affected rows and the caller takes the increment path instead.
func (a *Allocator) seed(ctx context.Context, tx *gorm.DB, tenantID, series string, start int64) (bool, error) {
	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "series"}},
			DoNothing: true,
		}).
		Create(&invoicedomain.SequenceState{
			TenantID:   tenantID,
			Series:     series,
			LastNumber: start,
			UpdatedAt:  time.Now().UTC(),
		})
	if result.Error != nil {
		return false, classify(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (a *Allocator) advance(ctx context.Context, tx *gorm.DB, tenantID, series string) (bool, error) {
	result := tx.WithContext(ctx).Exec(
		`UPDATE invoice_sequences
		 SET last_number = last_number + 1, updated_at = ?
		 WHERE tenant_id = ? AND series = ?`,
		time.Now().UTC(),
		tenantID,
		series,
	)
	if result.Error != nil {
		return false, classify(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (a *Allocator) currentNumber(ctx context.Context, tx *gorm.DB, tenantID, series string) (int64, error) {
	var number int64
	err := tx.WithContext(ctx).Raw(
		`SELECT last_number FROM invoice_sequences WHERE tenant_id = ? AND series = ?`,
		tenantID,
		series,
	).Scan(&number).Error
	if err != nil {
		return 0, classify(err)
	}
	return number, nil
}

// classify maps lock-wait failures onto the retryable ErrLockTimeout so
// callers can distinguish contention from real storage errors.
func classify(err error) error {
	if pkgdb.IsLockWaitErr(err) {
		return invoicedomain.ErrLockTimeout
	}
	return err
}
