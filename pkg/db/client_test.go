package db

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/solehaus/wholesale-backend/pkg/db/models"
	"github.com/solehaus/wholesale-backend/pkg/enums"
)

type testModel struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}, &models.Listing{}, &models.PricingTier{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	client := NewFromGorm(db)
	if !client.IsSQLite() {
		t.Fatal("expected sqlite dialect to be detected")
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := newTestDB(t)
	client := NewFromGorm(db)

	require.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&testModel{Name: "panicked"}).Error; err != nil {
				return err
			}
			panic("boom")
		})
	})

	var count int64
	require.NoError(t, db.Model(&testModel{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestListingModelRoundTripsOnSQLite(t *testing.T) {
	db := newTestDB(t)

	listing := models.Listing{
		Title:            "Retro High OG",
		Brand:            "Jordan",
		InventoryMode:    enums.InventoryModeSizeRun,
		Sizes:            pq.StringArray{"8", "8.5", "9", "10"},
		PairsPerCase:     12,
		MOQ:              12,
		PricingMode:      enums.PricingModeTier,
		FlatPricePerPair: decimal.NullDecimal{},
		IsActive:         true,
		Tiers: []models.PricingTier{
			{MinQty: 12, PricePerPair: decimal.RequireFromString("95.00")},
			{MinQty: 48, PricePerPair: decimal.RequireFromString("87.50")},
		},
	}
	require.NoError(t, db.Create(&listing).Error)

	var loaded models.Listing
	require.NoError(t, db.Preload("Tiers").First(&loaded, listing.ID).Error)
	require.Equal(t, []string{"8", "8.5", "9", "10"}, []string(loaded.Sizes))
	require.False(t, loaded.FlatPricePerPair.Valid)
	require.Len(t, loaded.Tiers, 2)
	require.True(t, loaded.Tiers[1].PricePerPair.Equal(decimal.RequireFromString("87.5")))
}
