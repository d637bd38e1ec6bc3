package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/giftcert-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.GiftCertificate{},
		&models.CertificateTag{},
		&models.UserOrder{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func createTestCertificate(t *testing.T, db *gorm.DB, name string, price, duration int) *models.GiftCertificate {
	t.Helper()
	now := models.Now()
	certificate := &models.GiftCertificate{
		Name:           name,
		Description:    name + " description",
		Price:          price,
		Duration:       duration,
		CreateDate:     now,
		LastUpdateDate: now,
	}
	if err := db.Create(certificate).Error; err != nil {
		t.Fatalf("create certificate failed: %v", err)
	}
	return certificate
}

func createTestTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("create tag failed: %v", err)
	}
	return tag
}

func linkTestTag(t *testing.T, db *gorm.DB, certificateID, tagID uint) {
	t.Helper()
	link := &models.CertificateTag{CertificateID: certificateID, TagID: tagID}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("link tag failed: %v", err)
	}
}
