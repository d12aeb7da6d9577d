package buyers

import (
	"strings"
	"time"

	"github.com/solehaus/wholesale-backend/pkg/db/models"
)

// BuyerDTO is the transport shape that omits the password hash.
type BuyerDTO struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	CompanyName string     `json:"company_name"`
	ContactName string     `json:"contact_name"`
	Phone       *string    `json:"phone,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateBuyerDTO holds the data required to persist a new buyer.
type CreateBuyerDTO struct {
	Email        string
	PasswordHash string
	CompanyName  string
	ContactName  string
	Phone        *string
}

func FromModel(b *models.Buyer) *BuyerDTO {
	if b == nil {
		return nil
	}
	return &BuyerDTO{
		ID:          b.ID,
		Email:       b.Email,
		CompanyName: b.CompanyName,
		ContactName: b.ContactName,
		Phone:       b.Phone,
		IsActive:    b.IsActive,
		LastLoginAt: b.LastLoginAt,
		CreatedAt:   b.CreatedAt,
	}
}

func (d CreateBuyerDTO) ToModel() *models.Buyer {
	return &models.Buyer{
		Email:        strings.ToLower(strings.TrimSpace(d.Email)),
		PasswordHash: d.PasswordHash,
		CompanyName:  strings.TrimSpace(d.CompanyName),
		ContactName:  strings.TrimSpace(d.ContactName),
		Phone:        d.Phone,
		IsActive:     true,
	}
}
