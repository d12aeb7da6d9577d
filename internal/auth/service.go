package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/solehaus/wholesale-backend/internal/buyers"
	"github.com/solehaus/wholesale-backend/pkg/auth/session"
	"github.com/solehaus/wholesale-backend/pkg/db/models"
	pkgerrors "github.com/solehaus/wholesale-backend/pkg/errors"
	"github.com/solehaus/wholesale-backend/pkg/metrics"
	"github.com/solehaus/wholesale-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controllers.
type Service interface {
	BuyerLogin(ctx context.Context, req LoginRequest) (*BuyerLoginResult, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest) (*AdminLoginResult, error)
	CurrentBuyer(ctx context.Context, buyerID int64) (*buyers.BuyerDTO, error)
}

type buyerRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Buyer, error)
	FindByID(ctx context.Context, id int64) (*models.Buyer, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

type buyerTokenIssuer interface {
	IssueFor(subjectID int64) (string, error)
}

type adminTokenIssuer interface {
	Issue() (string, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	BuyerRepo  buyerRepository
	BuyerCodec buyerTokenIssuer
	AdminCodec adminTokenIssuer
	// AdminPasswordHash is the argon2id hash of the shared admin password.
	// Admin login is refused while it is empty.
	AdminPasswordHash string
	Metrics           *metrics.DomainMetrics
	Now               func() time.Time
}

type service struct {
	buyers            buyerRepository
	buyerCodec        buyerTokenIssuer
	adminCodec        adminTokenIssuer
	adminPasswordHash string
	metrics           *metrics.DomainMetrics
	now               func() time.Time
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.BuyerRepo == nil {
		return nil, fmt.Errorf("buyer repository is required")
	}
	if params.BuyerCodec == nil {
		return nil, fmt.Errorf("buyer session codec is required")
	}
	if params.AdminCodec == nil {
		return nil, fmt.Errorf("admin session codec is required")
	}
	if params.AdminPasswordHash != "" {
		if err := security.ValidateHash(params.AdminPasswordHash); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		buyers:            params.BuyerRepo,
		buyerCodec:        params.BuyerCodec,
		adminCodec:        params.AdminCodec,
		adminPasswordHash: params.AdminPasswordHash,
		metrics:           params.Metrics,
		now:               now,
	}, nil
}

func (s *service) BuyerLogin(ctx context.Context, req LoginRequest) (*BuyerLoginResult, error) {
	buyer, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.countLogin(session.BuyerCodecName, err)
		return nil, err
	}

	token, err := s.buyerCodec.IssueFor(buyer.ID)
	if err != nil {
		err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue buyer session")
		s.countLogin(session.BuyerCodecName, err)
		return nil, err
	}

	now := s.now().UTC()
	if err := s.buyers.UpdateLastLogin(ctx, buyer.ID, now); err != nil {
		err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update last login")
		s.countLogin(session.BuyerCodecName, err)
		return nil, err
	}
	buyer.LastLoginAt = &now

	s.countLogin(session.BuyerCodecName, nil)
	return &BuyerLoginResult{Token: token, Buyer: buyers.FromModel(buyer)}, nil
}

func (s *service) AdminLogin(ctx context.Context, req AdminLoginRequest) (*AdminLoginResult, error) {
	result, err := s.adminLogin(req)
	s.countLogin(session.AdminCodecName, err)
	return result, err
}

func (s *service) adminLogin(req AdminLoginRequest) (*AdminLoginResult, error) {
	if s.adminPasswordHash == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	valid, err := security.VerifyPassword(req.Password, s.adminPasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify admin password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, err := s.adminCodec.Issue()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue admin session")
	}
	return &AdminLoginResult{Token: token}, nil
}

// CurrentBuyer reloads the session's buyer. A buyer deleted or deactivated
// after the token was issued no longer counts as signed in.
func (s *service) CurrentBuyer(ctx context.Context, buyerID int64) (*buyers.BuyerDTO, error) {
	buyer, err := s.buyers.FindByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup buyer")
	}
	if !buyer.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return buyers.FromModel(buyer), nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Buyer, error) {
	input := strings.TrimSpace(email)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	buyer, err := s.buyers.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup buyer")
	}

	valid, err := security.VerifyPassword(password, buyer.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !buyer.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return buyer, nil
}

func (s *service) countLogin(kind string, err error) {
	switch {
	case err == nil:
		s.metrics.IncLogin(kind, metrics.LoginSuccess)
	case pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized):
		s.metrics.IncLogin(kind, metrics.LoginRejected)
	default:
		s.metrics.IncLogin(kind, metrics.LoginError)
	}
}
