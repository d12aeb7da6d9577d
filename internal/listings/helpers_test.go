package listings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/solehaus/wholesale-backend/pkg/db"
	"github.com/solehaus/wholesale-backend/pkg/db/models"
	"github.com/solehaus/wholesale-backend/pkg/enums"
)

var baseTime = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.AutoMigrate(&models.Listing{}, &models.PricingTier{}))
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.NewFromGorm(conn), nil)
	require.NoError(t, err)
	return svc
}

type listingOption func(*models.Listing)

func withFlatPrice(price string) listingOption {
	return func(l *models.Listing) {
		l.PricingMode = enums.PricingModeFlat
		l.FlatPricePerPair = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
}

func withTiers(tiers map[int]string) listingOption {
	return func(l *models.Listing) {
		l.PricingMode = enums.PricingModeTier
		for minQty, price := range tiers {
			l.Tiers = append(l.Tiers, models.PricingTier{MinQty: minQty, PricePerPair: decimal.RequireFromString(price)})
		}
	}
}

func withMOQ(moq int) listingOption {
	return func(l *models.Listing) { l.MOQ = moq }
}

func createdAt(offset time.Duration) listingOption {
	return func(l *models.Listing) { l.CreatedAt = baseTime.Add(offset) }
}

func mustCreateListing(t *testing.T, conn *gorm.DB, opts ...listingOption) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		Title:          "Court Classic Low",
		Brand:          "Solehaus",
		InventoryMode:  enums.InventoryModeSizeRun,
		Sizes:          pq.StringArray{"8", "9", "10", "11"},
		PairsPerCase:   12,
		AvailablePairs: 240,
		MOQ:            1,
		PricingMode:    enums.PricingModeFlat,
		IsActive:       true,
		CreatedAt:      baseTime,
	}
	for _, opt := range opts {
		opt(listing)
	}
	created, err := NewRepository(conn).CreateListing(context.Background(), listing)
	require.NoError(t, err)
	return created
}

func deactivate(t *testing.T, conn *gorm.DB, id int64) {
	t.Helper()
	require.NoError(t, conn.Model(&models.Listing{}).Where("id = ?", id).Update("is_active", false).Error)
}
