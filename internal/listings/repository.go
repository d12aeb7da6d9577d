package listings

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/solehaus/wholesale-backend/pkg/db/models"
	"github.com/solehaus/wholesale-backend/pkg/pagination"
)

// Repository wraps listing and pricing tier persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the listing without tiers.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetListingDetail loads the listing with its tiers in ascending threshold order.
func (r *Repository) GetListingDetail(ctx context.Context, id int64) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).
		Preload("Tiers", orderTiers).
		First(&listing, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListActive returns one page of active listings, newest first.
func (r *Repository) ListActive(ctx context.Context, params pagination.Params) ([]models.Listing, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Preload("Tiers", orderTiers).
		Where("is_active = ?", true)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Listing
	err = qb.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).
		Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// CreateListing inserts a listing together with any tiers on it.
func (r *Repository) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// UpdateListing saves the listing row only; tiers are managed by ReplacePricingTiers.
func (r *Repository) UpdateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// ReplacePricingTiers deletes every tier of the listing and inserts tiers.
func (r *Repository) ReplacePricingTiers(ctx context.Context, listingID int64, tiers []models.PricingTier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("listing_id = ?", listingID).Delete(&models.PricingTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	for i := range tiers {
		tiers[i].ID = 0
		tiers[i].ListingID = listingID
	}
	return tx.Create(&tiers).Error
}

func orderTiers(db *gorm.DB) *gorm.DB {
	return db.Order("min_qty ASC")
}
