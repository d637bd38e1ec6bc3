package main

import (
	"github.com/giftcert-next/internal/config"
	"github.com/giftcert-next/internal/logger"
	"github.com/giftcert-next/internal/models"

	"gorm.io/gorm/clause"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 标签
	tags := []models.Tag{
		{Name: "season"},
		{Name: "holiday"},
		{Name: "wellness"},
		{Name: "cinema"},
	}
	for i := range tags {
		if err := models.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed tag %s: %v", tags[i].Name, err)
		}
	}
	tagByName := map[string]uint{}
	var allTags []models.Tag
	if err := models.DB.Find(&allTags).Error; err != nil {
		stdLog.Fatalf("Failed to load tags: %v", err)
	}
	for _, tag := range allTags {
		tagByName[tag.Name] = tag.ID
	}

	// 礼品券
	now := models.Now()
	certificates := []struct {
		cert models.GiftCertificate
		tags []string
	}{
		{
			cert: models.GiftCertificate{Name: "CER1", Description: "Movie night for two", Price: 50, Duration: 10, CreateDate: now, LastUpdateDate: now},
			tags: []string{"season", "cinema"},
		},
		{
			cert: models.GiftCertificate{Name: "CER5", Description: "Full spa day package", Price: 199, Duration: 20, CreateDate: now, LastUpdateDate: now},
			tags: []string{"season", "holiday", "wellness"},
		},
		{
			cert: models.GiftCertificate{Name: "CER3", Description: "Weekend getaway voucher", Price: 120, Duration: 15, CreateDate: now, LastUpdateDate: now},
			tags: []string{"holiday"},
		},
	}
	for i := range certificates {
		entry := &certificates[i]
		if err := models.DB.Where("name = ?", entry.cert.Name).FirstOrCreate(&entry.cert).Error; err != nil {
			stdLog.Fatalf("Failed to seed certificate %s: %v", entry.cert.Name, err)
		}
		for _, tagName := range entry.tags {
			link := models.CertificateTag{CertificateID: entry.cert.ID, TagID: tagByName[tagName]}
			if err := models.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				stdLog.Fatalf("Failed to link certificate %s to tag %s: %v", entry.cert.Name, tagName, err)
			}
		}
	}

	// 用户与示例订单
	var userCount int64
	if err := models.DB.Model(&models.User{}).Count(&userCount).Error; err != nil {
		stdLog.Fatalf("Failed to count users: %v", err)
	}
	if userCount == 0 {
		users := make([]models.User, 3)
		if err := models.DB.Create(&users).Error; err != nil {
			stdLog.Fatalf("Failed to seed users: %v", err)
		}
		orders := []models.UserOrder{
			{UserID: users[0].ID, GiftCertificateID: certificates[0].cert.ID, Cost: certificates[0].cert.Price, PurchaseTimestamp: models.Now()},
			{UserID: users[0].ID, GiftCertificateID: certificates[1].cert.ID, Cost: certificates[1].cert.Price, PurchaseTimestamp: models.Now()},
			{UserID: users[1].ID, GiftCertificateID: certificates[2].cert.ID, Cost: certificates[2].cert.Price, PurchaseTimestamp: models.Now()},
		}
		if err := models.DB.Create(&orders).Error; err != nil {
			stdLog.Fatalf("Failed to seed orders: %v", err)
		}
	}

	stdLog.Println("Seed data ready")
}
