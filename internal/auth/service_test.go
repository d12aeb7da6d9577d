package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/solehaus/wholesale-backend/pkg/auth/session"
	"github.com/solehaus/wholesale-backend/pkg/config"
	"github.com/solehaus/wholesale-backend/pkg/db/models"
	pkgerrors "github.com/solehaus/wholesale-backend/pkg/errors"
	"github.com/solehaus/wholesale-backend/pkg/security"
)

var (
	fixedNow   = time.Date(2025, time.March, 3, 14, 30, 0, 0, time.UTC)
	fastParams = config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
)

func TestBuyerLoginIssuesSession(t *testing.T) {
	buyer := activeBuyer(t, "case-pack-42")
	repo := &stubBuyerRepo{buyer: buyer}
	svc, buyerCodec, _ := buildTestService(t, repo, "")

	resp, err := svc.BuyerLogin(context.Background(), LoginRequest{
		Email:    "  Orders@Kickbox.Example ",
		Password: "case-pack-42",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	identity, ok := buyerCodec.Verify(resp.Token)
	if !ok || identity.SubjectID != buyer.ID {
		t.Fatalf("expected a buyer token for %d, got %+v ok=%v", buyer.ID, identity, ok)
	}
	if repo.lookedUp != "orders@kickbox.example" {
		t.Fatalf("expected normalized email lookup, got %q", repo.lookedUp)
	}
	if repo.lastLogin == nil || !repo.lastLogin.Equal(fixedNow) {
		t.Fatalf("expected last login recorded at %s, got %v", fixedNow, repo.lastLogin)
	}
	if resp.Buyer == nil || resp.Buyer.Email != buyer.Email {
		t.Fatalf("unexpected buyer payload %+v", resp.Buyer)
	}
}

func TestBuyerLoginRejections(t *testing.T) {
	tests := []struct {
		name     string
		repo     *stubBuyerRepo
		email    string
		password string
	}{
		{name: "wrong password", repo: &stubBuyerRepo{buyer: activeBuyer(t, "right")}, email: "orders@kickbox.example", password: "wrong"},
		{name: "unknown email", repo: &stubBuyerRepo{err: gorm.ErrRecordNotFound}, email: "who@nowhere.example", password: "right"},
		{name: "inactive buyer", repo: &stubBuyerRepo{buyer: inactive(activeBuyer(t, "right"))}, email: "orders@kickbox.example", password: "right"},
		{name: "blank email", repo: &stubBuyerRepo{buyer: activeBuyer(t, "right")}, email: "  ", password: "right"},
		{name: "blank password", repo: &stubBuyerRepo{buyer: activeBuyer(t, "right")}, email: "orders@kickbox.example", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := buildTestService(t, tt.repo, "")
			_, err := svc.BuyerLogin(context.Background(), LoginRequest{Email: tt.email, Password: tt.password})
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			if typed.Message() != invalidCredentialsMessage {
				t.Fatalf("expected uniform message, got %q", typed.Message())
			}
			if tt.repo.lastLogin != nil {
				t.Fatal("rejected login must not record a login")
			}
		})
	}
}

func TestBuyerLoginRepositoryFailure(t *testing.T) {
	svc, _, _ := buildTestService(t, &stubBuyerRepo{err: errors.New("connection reset")}, "")

	_, err := svc.BuyerLogin(context.Background(), LoginRequest{Email: "a@b.example", Password: "x"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestAdminLogin(t *testing.T) {
	hash, err := security.HashPassword("warehouse-master", fastParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	svc, _, adminCodec := buildTestService(t, &stubBuyerRepo{}, hash)

	resp, err := svc.AdminLogin(context.Background(), AdminLoginRequest{Password: "warehouse-master"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if _, ok := adminCodec.Verify(resp.Token); !ok {
		t.Fatal("expected a valid admin token")
	}

	_, err = svc.AdminLogin(context.Background(), AdminLoginRequest{Password: "warehouse-mistress"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}
}

func TestAdminLoginDisabledWithoutHash(t *testing.T) {
	svc, _, _ := buildTestService(t, &stubBuyerRepo{}, "")

	_, err := svc.AdminLogin(context.Background(), AdminLoginRequest{Password: "anything"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestNewServiceRejectsMalformedAdminHash(t *testing.T) {
	buyerCodec, adminCodec := testCodecs(t)
	_, err := NewService(ServiceParams{
		BuyerRepo:         &stubBuyerRepo{},
		BuyerCodec:        buyerCodec,
		AdminCodec:        adminCodec,
		AdminPasswordHash: "plaintext-password",
	})
	if err == nil || !strings.Contains(err.Error(), "admin password hash") {
		t.Fatalf("expected admin hash error, got %v", err)
	}

	if _, err := NewService(ServiceParams{BuyerCodec: buyerCodec, AdminCodec: adminCodec}); err == nil {
		t.Fatal("expected error without buyer repository")
	}
}

func TestCurrentBuyer(t *testing.T) {
	buyer := activeBuyer(t, "pw")
	svc, _, _ := buildTestService(t, &stubBuyerRepo{buyer: buyer}, "")

	dto, err := svc.CurrentBuyer(context.Background(), buyer.ID)
	if err != nil {
		t.Fatalf("current buyer: %v", err)
	}
	if dto.ID != buyer.ID || dto.CompanyName != "Kickbox Supply" {
		t.Fatalf("unexpected dto %+v", dto)
	}

	if _, err := svc.CurrentBuyer(context.Background(), 999); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for unknown buyer, got %v", err)
	}

	svc, _, _ = buildTestService(t, &stubBuyerRepo{buyer: inactive(activeBuyer(t, "pw"))}, "")
	if _, err := svc.CurrentBuyer(context.Background(), buyer.ID); !pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for inactive buyer, got %v", err)
	}
}

func buildTestService(t *testing.T, repo *stubBuyerRepo, adminHash string) (Service, *session.Codec, *session.Codec) {
	t.Helper()
	buyerCodec, adminCodec := testCodecs(t)
	svc, err := NewService(ServiceParams{
		BuyerRepo:         repo,
		BuyerCodec:        buyerCodec,
		AdminCodec:        adminCodec,
		AdminPasswordHash: adminHash,
		Now:               func() time.Time { return fixedNow },
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, buyerCodec, adminCodec
}

func testCodecs(t *testing.T) (*session.Codec, *session.Codec) {
	t.Helper()
	clock := session.WithClock(func() time.Time { return fixedNow })
	buyerCodec, err := session.NewCodec(session.Config{
		Name:        session.BuyerCodecName,
		Secret:      []byte("buyer-secret"),
		MaxAge:      time.Hour,
		WithSubject: true,
	}, clock)
	if err != nil {
		t.Fatalf("buyer codec: %v", err)
	}
	adminCodec, err := session.NewCodec(session.Config{
		Name:   session.AdminCodecName,
		Secret: []byte("admin-secret"),
		MaxAge: time.Hour,
	}, clock)
	if err != nil {
		t.Fatalf("admin codec: %v", err)
	}
	return buyerCodec, adminCodec
}

func activeBuyer(t *testing.T, password string) *models.Buyer {
	t.Helper()
	hash, err := security.HashPassword(password, fastParams)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.Buyer{
		ID:           42,
		Email:        "orders@kickbox.example",
		PasswordHash: hash,
		CompanyName:  "Kickbox Supply",
		ContactName:  "Dana Ruiz",
		IsActive:     true,
	}
}

func inactive(b *models.Buyer) *models.Buyer {
	b.IsActive = false
	return b
}

type stubBuyerRepo struct {
	buyer     *models.Buyer
	err       error
	lookedUp  string
	lastLogin *time.Time
}

func (s *stubBuyerRepo) FindByEmail(ctx context.Context, email string) (*models.Buyer, error) {
	s.lookedUp = email
	if s.err != nil {
		return nil, s.err
	}
	if s.buyer == nil || s.buyer.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.buyer, nil
}

func (s *stubBuyerRepo) FindByID(ctx context.Context, id int64) (*models.Buyer, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.buyer == nil || s.buyer.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.buyer, nil
}

func (s *stubBuyerRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	s.lastLogin = &at
	return nil
}
