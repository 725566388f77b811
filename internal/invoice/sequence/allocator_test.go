package sequence

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	invoicedomain "github.com/gufolabs/gestiune/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	// sqlite has a single writer; serializing the pool makes concurrent
	// transactions queue instead of failing with busy errors.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&invoicedomain.SequenceState{}))
	return db
}

func allocate(t *testing.T, db *gorm.DB, a *Allocator, tenantID, series string, start int64) int64 {
	t.Helper()
	var number int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		number, err = a.Next(context.Background(), tx, tenantID, series, start)
		return err
	})
	require.NoError(t, err)
	return number
}

func TestFirstAllocationSeedsFromStart(t *testing.T) {
	db := newTestDB(t)
	a := NewAllocator()

	assert.Equal(t, int64(100), allocate(t, db, a, "REST-1", "FCT", 100))
	assert.Equal(t, int64(101), allocate(t, db, a, "REST-1", "FCT", 100))
	assert.Equal(t, int64(102), allocate(t, db, a, "REST-1", "FCT", 100))
}

func TestSeriesAreIndependent(t *testing.T) {
	db := newTestDB(t)
	a := NewAllocator()

	assert.Equal(t, int64(1), allocate(t, db, a, "REST-1", "FCT", 1))
	assert.Equal(t, int64(500), allocate(t, db, a, "REST-1", "PRO", 500))
	assert.Equal(t, int64(2), allocate(t, db, a, "REST-1", "FCT", 1))
	assert.Equal(t, int64(501), allocate(t, db, a, "REST-1", "PRO", 500))
}

func TestTenantsAreIndependent(t *testing.T) {
	db := newTestDB(t)
	a := NewAllocator()

	assert.Equal(t, int64(1), allocate(t, db, a, "REST-1", "FCT", 1))
	assert.Equal(t, int64(1), allocate(t, db, a, "REST-2", "FCT", 1))
	assert.Equal(t, int64(2), allocate(t, db, a, "REST-1", "FCT", 1))
}

func TestAbortedTransactionLosesItsNumber(t *testing.T) {
	db := newTestDB(t)
	a := NewAllocator()

	assert.Equal(t, int64(1), allocate(t, db, a, "REST-1", "FCT", 1))

	boom := fmt.Errorf("boom")
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := a.Next(context.Background(), tx, "REST-1", "FCT", 1); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The rollback returns the counter to 1, so 2 is handed out again:
	// within the numbering transaction itself no number is ever consumed
	// without a committed invoice.
	assert.Equal(t, int64(2), allocate(t, db, a, "REST-1", "FCT", 1))
}

func TestConcurrentAllocationsAreUnique(t *testing.T) {
	db := newTestDB(t)
	a := NewAllocator()

	const workers = 16

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				number, err := a.Next(context.Background(), tx, "REST-1", "FCT", 1)
				if err != nil {
					return err
				}
				mu.Lock()
				numbers = append(numbers, number)
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, numbers, workers)
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	for i, number := range numbers {
		assert.Equal(t, int64(i+1), number, "numbers must be contiguous and duplicate-free")
	}
}

func TestSeedingAgainstExistingRowIsConflictFree(t *testing.T) {
	db := newTestDB(t)
	a := NewAllocator()

	// Another request already created the counter row, as the loser of
	// the seeding race observes once the winner commits.
	require.NoError(t, db.Create(&invoicedomain.SequenceState{
		TenantID:   "REST-1",
		Series:     "FCT",
		LastNumber: 7,
	}).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		seeded, err := a.seed(context.Background(), tx, "REST-1", "FCT", 1)
		// The insert must neither fail nor overwrite: a plain INSERT
		// would poison the surrounding transaction on postgres and turn
		// the retry into an aborted-transaction error.
		require.NoError(t, err)
		assert.False(t, seeded)

		number, err := a.Next(context.Background(), tx, "REST-1", "FCT", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(8), number)
		return nil
	})
	require.NoError(t, err)

	var state invoicedomain.SequenceState
	require.NoError(t, db.First(&state, "tenant_id = ? AND series = ?", "REST-1", "FCT").Error)
	assert.Equal(t, int64(8), state.LastNumber)
}
