package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/giftcert-next/internal/config"
	"github.com/giftcert-next/internal/constants"
	"github.com/giftcert-next/internal/models"
	"github.com/giftcert-next/internal/queue"
	"github.com/giftcert-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.GiftCertificate{},
		&models.CertificateTag{},
		&models.UserOrder{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("create queue client failed: %v", err)
	}
	audit := NewAuditService(repository.NewAuditLogRepository(db))
	svc := NewOrderService(
		repository.NewUserOrderRepository(db),
		repository.NewUserRepository(db),
		repository.NewCertificateRepository(db),
		audit,
		queueClient,
	)
	return svc, db
}

func seedOrderFixtures(t *testing.T, db *gorm.DB) (*models.User, *models.GiftCertificate) {
	t.Helper()
	user := &models.User{}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	now := models.Now()
	certificate := &models.GiftCertificate{Name: "CER5", Description: "spa day", Price: 199, Duration: 20, CreateDate: now, LastUpdateDate: now}
	if err := db.Create(certificate).Error; err != nil {
		t.Fatalf("create certificate failed: %v", err)
	}
	return user, certificate
}

func TestOrderServiceCreateCapturesCost(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user, certificate := seedOrderFixtures(t, db)

	order, err := svc.Create(CreateOrderInput{UserID: user.ID, GiftCertificateID: certificate.ID})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if order.Cost != 199 {
		t.Fatalf("cost should capture the certificate price: %+v", order)
	}
	if order.PurchaseTimestamp.String() == "" {
		t.Fatalf("purchase timestamp missing: %+v", order)
	}

	// 后续涨价不影响已成交订单
	if err := db.Model(&models.GiftCertificate{}).Where("id = ?", certificate.ID).Update("price", 500).Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}
	reloaded, err := svc.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if reloaded.Cost != 199 {
		t.Fatalf("cost must stay at purchase-time price: %+v", reloaded)
	}

	var audits []models.AuditLog
	if err := db.Where("entity_kind = ?", constants.AuditEntityOrder).Find(&audits).Error; err != nil {
		t.Fatalf("load audits failed: %v", err)
	}
	if len(audits) != 1 || audits[0].Operation != constants.AuditOperationCreate {
		t.Fatalf("unexpected audit entries: %+v", audits)
	}
}

func TestOrderServiceCreateValidatesReferences(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user, certificate := seedOrderFixtures(t, db)

	if _, err := svc.Create(CreateOrderInput{UserID: 0, GiftCertificateID: certificate.ID}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Create(CreateOrderInput{UserID: user.ID, GiftCertificateID: 0}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Create(CreateOrderInput{UserID: 404, GiftCertificateID: certificate.ID}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
	if _, err := svc.Create(CreateOrderInput{UserID: user.ID, GiftCertificateID: 404}); !errors.Is(err, ErrCertificateNotFound) {
		t.Fatalf("expected certificate not found, got %v", err)
	}
}

func TestOrderServiceGetAllByUser(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user, certificate := seedOrderFixtures(t, db)

	other := &models.User{}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(CreateOrderInput{UserID: user.ID, GiftCertificateID: certificate.ID}); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}
	if _, err := svc.Create(CreateOrderInput{UserID: other.ID, GiftCertificateID: certificate.ID}); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	orders, err := svc.GetAllByUser(user.ID, 2, 0)
	if err != nil {
		t.Fatalf("get all by user failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("pagination not applied: %+v", orders)
	}
	for _, order := range orders {
		if order.UserID != user.ID {
			t.Fatalf("order of wrong user returned: %+v", order)
		}
	}

	if _, err := svc.GetAllByUser(404, 10, 0); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestOrderServiceDelete(t *testing.T) {
	svc, db := setupOrderServiceTest(t)
	user, certificate := seedOrderFixtures(t, db)

	order, err := svc.Create(CreateOrderInput{UserID: user.ID, GiftCertificateID: certificate.ID})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := svc.Delete(order.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetByID(order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.Delete(order.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected not found for repeated delete, got %v", err)
	}
}
