package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingTier is one quantity threshold of a tier-priced listing.
type PricingTier struct {
	ID           int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ListingID    int64           `gorm:"column:listing_id;not null;uniqueIndex:uq_pricing_tiers_listing_min_qty"`
	MinQty       int             `gorm:"column:min_qty;not null;uniqueIndex:uq_pricing_tiers_listing_min_qty"`
	PricePerPair decimal.Decimal `gorm:"column:price_per_pair;type:numeric(10,2);not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
