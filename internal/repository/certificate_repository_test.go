package repository

import (
	"errors"
	"testing"

	"github.com/giftcert-next/internal/models"
)

func TestCertificateRepositorySearchByNameSubstring(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCertificateRepository(db)

	createTestCertificate(t, db, "CER5", 199, 20)
	createTestCertificate(t, db, "CER1", 50, 10)

	certificates, err := repo.Search(CertificateSearch{Fields: map[string]string{"name": "ER5"}}, nil, 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(certificates) != 1 || certificates[0].Name != "CER5" {
		t.Fatalf("unexpected search result: %+v", certificates)
	}
	if certificates[0].Price != 199 || certificates[0].Duration != 20 {
		t.Fatalf("unexpected certificate columns: %+v", certificates[0])
	}
}

func TestCertificateRepositorySearchByTags(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCertificateRepository(db)

	both := createTestCertificate(t, db, "CER5", 199, 20)
	one := createTestCertificate(t, db, "CER1", 50, 10)
	season := createTestTag(t, db, "season")
	holiday := createTestTag(t, db, "holiday")
	linkTestTag(t, db, both.ID, season.ID)
	linkTestTag(t, db, both.ID, holiday.ID)
	linkTestTag(t, db, one.ID, season.ID)

	certificates, err := repo.Search(CertificateSearch{}, []string{"season", "holiday"}, 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(certificates) != 1 || certificates[0].ID != both.ID {
		t.Fatalf("expected only certificate with both tags: %+v", certificates)
	}

	certificates, err = repo.Search(CertificateSearch{}, []string{"season"}, 10, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(certificates) != 2 {
		t.Fatalf("expected both certificates for shared tag: %+v", certificates)
	}
}

func TestCertificateRepositorySearchDefaultOrder(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCertificateRepository(db)

	first := createTestCertificate(t, db, "CER5", 199, 20)
	second := createTestCertificate(t, db, "CER1", 50, 10)
	third := createTestCertificate(t, db, "CER3", 120, 15)

	page, err := repo.Search(CertificateSearch{}, nil, 2, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(page) != 2 || page[0].ID != first.ID || page[1].ID != second.ID {
		t.Fatalf("expected first page in id order: %+v", page)
	}

	page, err = repo.Search(CertificateSearch{}, nil, 2, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(page) != 1 || page[0].ID != third.ID {
		t.Fatalf("expected second page in id order: %+v", page)
	}
}

func TestCertificateRepositorySearchSortAndPagination(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCertificateRepository(db)

	createTestCertificate(t, db, "CER1", 50, 10)
	createTestCertificate(t, db, "CER5", 199, 20)
	createTestCertificate(t, db, "CER3", 120, 15)

	asc := true
	certificates, err := repo.Search(CertificateSearch{SortField: "price", SortAscending: &asc}, nil, 2, 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(certificates) != 2 || certificates[0].Name != "CER3" || certificates[1].Name != "CER5" {
		t.Fatalf("unexpected sorted page: %+v", certificates)
	}
}

func TestCertificateRepositorySearchUnknownField(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCertificateRepository(db)

	_, err := repo.Search(CertificateSearch{Fields: map[string]string{"owner": "x"}}, nil, 10, 0)
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestCertificateRepositoryUpdateColumns(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCertificateRepository(db)

	certificate := createTestCertificate(t, db, "CER1", 50, 10)
	stamp := models.Now()
	err := repo.UpdateColumns(certificate.ID, map[string]interface{}{
		"price":            75,
		"last_update_date": stamp,
	})
	if err != nil {
		t.Fatalf("update columns failed: %v", err)
	}

	updated, err := repo.GetByID(certificate.ID)
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if updated == nil || updated.Price != 75 {
		t.Fatalf("unexpected updated certificate: %+v", updated)
	}
	if updated.Name != "CER1" || updated.Duration != 10 {
		t.Fatalf("untouched columns changed: %+v", updated)
	}
	if updated.LastUpdateDate.String() != stamp.String() {
		t.Fatalf("last_update_date not stamped: %s", updated.LastUpdateDate)
	}
}

func TestCertificateRepositoryGetByIDMissing(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCertificateRepository(db)

	certificate, err := repo.GetByID(404)
	if err != nil {
		t.Fatalf("get by id failed: %v", err)
	}
	if certificate != nil {
		t.Fatalf("expected nil for missing certificate, got %+v", certificate)
	}
}
