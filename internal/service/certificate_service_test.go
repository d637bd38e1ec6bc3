package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/giftcert-next/internal/constants"
	"github.com/giftcert-next/internal/models"
	"github.com/giftcert-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCertificateServiceTest(t *testing.T) (*CertificateService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:certificate_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	audit := NewAuditService(repository.NewAuditLogRepository(db))
	svc := NewCertificateService(
		repository.NewCertificateRepository(db),
		repository.NewTagRepository(db),
		repository.NewCertificateTagRepository(db),
		audit,
	)
	return svc, db
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}

func TestCertificateServiceCreateWithNewTags(t *testing.T) {
	svc, db := setupCertificateServiceTest(t)

	certificate, err := svc.Create(CreateCertificateInput{
		Name:        "CER5",
		Description: "spa day",
		Price:       199,
		Duration:    20,
		Tags:        []models.Tag{{Name: "season"}, {Name: "holiday"}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if certificate.ID == 0 || certificate.CreateDate.String() == "" {
		t.Fatalf("unexpected certificate: %+v", certificate)
	}
	if certificate.CreateDate.String() != certificate.LastUpdateDate.String() {
		t.Fatalf("create and update stamps should match on creation")
	}
	if len(certificate.Tags) != 2 {
		t.Fatalf("expected two attached tags: %+v", certificate.Tags)
	}

	var tagCount int64
	if err := db.Model(&models.Tag{}).Count(&tagCount).Error; err != nil {
		t.Fatalf("count tags failed: %v", err)
	}
	if tagCount != 2 {
		t.Fatalf("expected missing tags to be created, got %d", tagCount)
	}

	var audits []models.AuditLog
	if err := db.Where("entity_kind = ?", constants.AuditEntityCertificate).Find(&audits).Error; err != nil {
		t.Fatalf("load audits failed: %v", err)
	}
	if len(audits) != 1 || audits[0].Operation != constants.AuditOperationCreate {
		t.Fatalf("unexpected audit entries: %+v", audits)
	}
}

func TestCertificateServiceCreateValidation(t *testing.T) {
	svc, _ := setupCertificateServiceTest(t)

	cases := []CreateCertificateInput{
		{Name: "   ", Description: "d", Price: 10, Duration: 5},
		{Name: "n", Description: "", Price: 10, Duration: 5},
		{Name: "n", Description: "d", Price: 0, Duration: 5},
		{Name: "n", Description: "d", Price: 10, Duration: -1},
	}
	for i, input := range cases {
		if _, err := svc.Create(input); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestCertificateServiceUpdateReconcilesTags(t *testing.T) {
	svc, _ := setupCertificateServiceTest(t)

	certificate, err := svc.Create(CreateCertificateInput{
		Name:        "CER1",
		Description: "movie night",
		Price:       50,
		Duration:    10,
		Tags:        []models.Tag{{Name: "alpha"}, {Name: "beta"}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.Update(certificate.ID, UpdateCertificateInput{
		Tags: []models.Tag{{Name: "beta"}, {Name: "gamma"}},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	names := tagNames(updated.Tags)
	if len(names) != 2 || names[0] != "beta" || names[1] != "gamma" {
		t.Fatalf("unexpected reconciled tags: %v", names)
	}

	// 重复同一期望集合不应产生变化
	again, err := svc.Update(certificate.ID, UpdateCertificateInput{
		Tags: []models.Tag{{Name: "beta"}, {Name: "gamma"}},
	})
	if err != nil {
		t.Fatalf("repeated update failed: %v", err)
	}
	if len(again.Tags) != 2 {
		t.Fatalf("reconciliation should be idempotent: %+v", again.Tags)
	}
}

func TestCertificateServiceUpdateClearsTagsWithEmptySlice(t *testing.T) {
	svc, _ := setupCertificateServiceTest(t)

	certificate, err := svc.Create(CreateCertificateInput{
		Name:        "CER1",
		Description: "movie night",
		Price:       50,
		Duration:    10,
		Tags:        []models.Tag{{Name: "alpha"}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// nil 不动关联
	updated, err := svc.Update(certificate.ID, UpdateCertificateInput{Price: intPtr(60)})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(updated.Tags) != 1 {
		t.Fatalf("nil tags should keep links: %+v", updated.Tags)
	}

	// 空切片清空关联
	cleared, err := svc.Update(certificate.ID, UpdateCertificateInput{Tags: []models.Tag{}})
	if err != nil {
		t.Fatalf("clear update failed: %v", err)
	}
	if len(cleared.Tags) != 0 {
		t.Fatalf("empty tags should clear links: %+v", cleared.Tags)
	}
}

func TestCertificateServiceUpdateStampsLastUpdateDate(t *testing.T) {
	svc, _ := setupCertificateServiceTest(t)

	certificate, err := svc.Create(CreateCertificateInput{
		Name:        "CER1",
		Description: "movie night",
		Price:       50,
		Duration:    10,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	updated, err := svc.Update(certificate.ID, UpdateCertificateInput{Price: intPtr(75)})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.CreateDate.String() != certificate.CreateDate.String() {
		t.Fatalf("create_date must not change on update")
	}
	if updated.LastUpdateDate.String() == certificate.LastUpdateDate.String() {
		t.Fatalf("last_update_date should be stamped on update")
	}
}

func TestCertificateServiceUpdateFields(t *testing.T) {
	svc, _ := setupCertificateServiceTest(t)

	certificate, err := svc.Create(CreateCertificateInput{
		Name:        "CER1",
		Description: "movie night",
		Price:       50,
		Duration:    10,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdateFields(certificate.ID, map[string]string{"price": "75", "name": "CER1-plus"})
	if err != nil {
		t.Fatalf("update fields failed: %v", err)
	}
	if updated.Price != 75 || updated.Name != "CER1-plus" {
		t.Fatalf("unexpected updated certificate: %+v", updated)
	}
	if updated.Duration != 10 || updated.Description != "movie night" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	if _, err := svc.UpdateFields(certificate.ID, map[string]string{"create_date": "2020-01-01T00:00:00.000"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for non-updatable field, got %v", err)
	}
	if _, err := svc.UpdateFields(certificate.ID, map[string]string{"price": "abc"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for non-numeric price, got %v", err)
	}
	if _, err := svc.UpdateFields(404, map[string]string{"price": "75"}); !errors.Is(err, ErrCertificateNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCertificateServiceSearch(t *testing.T) {
	svc, _ := setupCertificateServiceTest(t)

	if _, err := svc.Create(CreateCertificateInput{
		Name: "CER5", Description: "spa day", Price: 199, Duration: 20,
		Tags: []models.Tag{{Name: "season"}, {Name: "holiday"}},
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(CreateCertificateInput{
		Name: "CER1", Description: "movie night", Price: 50, Duration: 10,
		Tags: []models.Tag{{Name: "season"}},
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	results, err := svc.Search(CertificateSearchInput{
		Fields:   map[string]string{"name": "ER5"},
		TagNames: []string{"season", "holiday"},
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 || results[0].Name != "CER5" {
		t.Fatalf("unexpected search result: %+v", results)
	}
	if len(results[0].Tags) != 2 {
		t.Fatalf("tags should be attached to search results: %+v", results[0].Tags)
	}

	if _, err := svc.Search(CertificateSearchInput{Fields: map[string]string{"owner": "x"}, Limit: 10}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
	if _, err := svc.Search(CertificateSearchInput{SortOrder: "sideways", Limit: 10}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for bad sort order, got %v", err)
	}
	if _, err := svc.Search(CertificateSearchInput{Limit: 0}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for zero limit, got %v", err)
	}
	if _, err := svc.Search(CertificateSearchInput{Limit: 10, Offset: -1}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for negative offset, got %v", err)
	}
}

func TestCertificateServiceDeleteRemovesLinksKeepsTags(t *testing.T) {
	svc, db := setupCertificateServiceTest(t)

	certificate, err := svc.Create(CreateCertificateInput{
		Name: "CER1", Description: "movie night", Price: 50, Duration: 10,
		Tags: []models.Tag{{Name: "season"}},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(certificate.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetByID(certificate.ID); !errors.Is(err, ErrCertificateNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	var linkCount int64
	if err := db.Model(&models.CertificateTag{}).Count(&linkCount).Error; err != nil {
		t.Fatalf("count links failed: %v", err)
	}
	if linkCount != 0 {
		t.Fatalf("links should be removed with the certificate")
	}

	var tagCount int64
	if err := db.Model(&models.Tag{}).Count(&tagCount).Error; err != nil {
		t.Fatalf("count tags failed: %v", err)
	}
	if tagCount != 1 {
		t.Fatalf("tags must survive certificate deletion")
	}

	if err := svc.Delete(certificate.ID); !errors.Is(err, ErrCertificateNotFound) {
		t.Fatalf("expected not found for repeated delete, got %v", err)
	}
}

// staleLookupTagRepository 前几次按名称查询返回未命中，
// 模拟标签在查询与写入之间被并发创建的竞态
type staleLookupTagRepository struct {
	*repository.GormTagRepository
	misses int
}

func (r *staleLookupTagRepository) GetByName(name string) (*models.Tag, error) {
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.GormTagRepository.GetByName(name)
}

func TestResolveTagSurvivesConcurrentCreate(t *testing.T) {
	_, db := setupCertificateServiceTest(t)

	existing := models.Tag{Name: "holiday"}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("create tag failed: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		repo := &staleLookupTagRepository{
			GormTagRepository: repository.NewTagRepository(db).WithTx(tx),
			misses:            1,
		}
		tag, err := resolveOrCreateTag(repo, "holiday")
		if err != nil {
			return err
		}
		if tag == nil || tag.ID != existing.ID {
			t.Fatalf("expected existing tag after conflicting create, got %+v", tag)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("resolve inside transaction failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Tag{}).Count(&count).Error; err != nil {
		t.Fatalf("count tags failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single tag row, got %d", count)
	}
}

func TestCertificateServiceGetAllOrdersByID(t *testing.T) {
	svc, _ := setupCertificateServiceTest(t)

	names := []string{"CER5", "CER1", "CER3"}
	for _, name := range names {
		if _, err := svc.Create(CreateCertificateInput{
			Name:        name,
			Description: "gift",
			Price:       50,
			Duration:    10,
			Tags:        []models.Tag{{Name: "season"}},
		}); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
	}

	certificates, err := svc.GetAll(2, 0)
	if err != nil {
		t.Fatalf("get all failed: %v", err)
	}
	if len(certificates) != 2 || certificates[0].Name != "CER5" || certificates[1].Name != "CER1" {
		t.Fatalf("expected first page in insertion order, got %+v", certificates)
	}
	if len(certificates[0].Tags) != 1 || certificates[0].Tags[0].Name != "season" {
		t.Fatalf("expected tags attached: %+v", certificates[0].Tags)
	}

	certificates, err = svc.GetAll(2, 2)
	if err != nil {
		t.Fatalf("get all failed: %v", err)
	}
	if len(certificates) != 1 || certificates[0].Name != "CER3" {
		t.Fatalf("expected second page in insertion order, got %+v", certificates)
	}

	if _, err := svc.GetAll(0, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for limit 0, got %v", err)
	}
}

func intPtr(v int) *int { return &v }
