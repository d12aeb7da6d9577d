package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/solehaus/wholesale-backend/pkg/enums"
)

// Listing is a wholesale sneaker batch offered to buyers.
// Sizes is text[] in Postgres; the text tag only serves sqlite AutoMigrate.
type Listing struct {
	ID               int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Title            string              `gorm:"column:title;not null"`
	Brand            string              `gorm:"column:brand;not null"`
	Colorway         *string             `gorm:"column:colorway"`
	Description      *string             `gorm:"column:description"`
	InventoryMode    enums.InventoryMode `gorm:"column:inventory_mode;type:text;not null"`
	Sizes            pq.StringArray      `gorm:"column:sizes;type:text"`
	PairsPerCase     int                 `gorm:"column:pairs_per_case;not null;default:0"`
	AvailablePairs   int                 `gorm:"column:available_pairs;not null;default:0"`
	MOQ              int                 `gorm:"column:moq;not null;default:1"`
	PricingMode      enums.PricingMode   `gorm:"column:pricing_mode;type:text;not null"`
	FlatPricePerPair decimal.NullDecimal `gorm:"column:flat_price_per_pair;type:numeric(10,2)"`
	IsActive         bool                `gorm:"column:is_active;not null;default:true"`
	Tiers            []PricingTier       `gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
