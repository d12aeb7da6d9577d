package buyers

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/solehaus/wholesale-backend/pkg/db/models"
)

// Repository exposes buyer persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a buyers repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new buyer and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateBuyerDTO) (*models.Buyer, error) {
	buyer := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(buyer).Error; err != nil {
		return nil, err
	}
	return buyer, nil
}

// FindByEmail retrieves the buyer matching email, ignoring case.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Buyer, error) {
	var buyer models.Buyer
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&buyer).
		Error
	if err != nil {
		return nil, err
	}
	return &buyer, nil
}

// FindByID loads a buyer by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Buyer, error) {
	var buyer models.Buyer
	if err := r.db.WithContext(ctx).First(&buyer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &buyer, nil
}

// UpdateLastLogin refreshes the buyer's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Buyer{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// SetActive toggles whether the buyer may sign in.
func (r *Repository) SetActive(ctx context.Context, id int64, active bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Buyer{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
