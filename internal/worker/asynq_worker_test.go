package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/giftcert-next/internal/config"
	"github.com/giftcert-next/internal/models"
	"github.com/giftcert-next/internal/provider"
	"github.com/giftcert-next/internal/queue"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupWorkerTest(t *testing.T) *Consumer {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	cfg := &config.Config{}
	return NewConsumer(provider.NewContainer(cfg))
}

func notifyTask(t *testing.T, orderID uint) *asynq.Task {
	t.Helper()
	body, err := json.Marshal(queue.OrderNotifyEmailPayload{OrderID: orderID})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return asynq.NewTask(queue.TaskOrderNotifyEmail, body)
}

func TestHandleOrderNotifyEmailSkipsMissingOrder(t *testing.T) {
	consumer := setupWorkerTest(t)
	if err := consumer.handleOrderNotifyEmail(context.Background(), notifyTask(t, 404)); err != nil {
		t.Fatalf("missing order should be skipped, got %v", err)
	}
}

func TestHandleOrderNotifyEmailSkipsEmptyReceiver(t *testing.T) {
	consumer := setupWorkerTest(t)

	user := &models.User{}
	if err := models.DB.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	now := models.Now()
	certificate := &models.GiftCertificate{Name: "CER1", Description: "d", Price: 50, Duration: 10, CreateDate: now, LastUpdateDate: now}
	if err := models.DB.Create(certificate).Error; err != nil {
		t.Fatalf("create certificate failed: %v", err)
	}
	order := &models.UserOrder{UserID: user.ID, GiftCertificateID: certificate.ID, Cost: 50, PurchaseTimestamp: models.Now()}
	if err := models.DB.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// notify_to 未配置时跳过而不是报错
	if err := consumer.handleOrderNotifyEmail(context.Background(), notifyTask(t, order.ID)); err != nil {
		t.Fatalf("empty receiver should be skipped, got %v", err)
	}
}

func TestHandleOrderNotifyEmailSkipsInvalidPayload(t *testing.T) {
	consumer := setupWorkerTest(t)
	task := asynq.NewTask(queue.TaskOrderNotifyEmail, []byte(`{"order_id":0}`))
	if err := consumer.handleOrderNotifyEmail(context.Background(), task); err != nil {
		t.Fatalf("zero order id should be skipped, got %v", err)
	}
}
