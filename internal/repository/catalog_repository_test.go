package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/salon-booking/internal/model"
)

func TestPriceFor(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewCatalogRepo(db)

	mock.ExpectQuery("SELECT price_huf FROM service_variants").
		WithArgs("thai", 60).
		WillReturnRows(sqlmock.NewRows([]string{"price_huf"}).AddRow(14000))
	mock.ExpectQuery("SELECT price_huf FROM service_variants").
		WithArgs("thai", 120).
		WillReturnError(sql.ErrNoRows)

	p, err := repo.PriceFor(context.Background(), "thai", 60)
	if err != nil || p != 14000 {
		t.Fatalf("PriceFor = %d, %v", p, err)
	}
	if _, err := repo.PriceFor(context.Background(), "thai", 120); !errors.Is(err, ErrPriceNotFound) {
		t.Fatalf("err = %v, want ErrPriceNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetAssemblesCatalog(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM categories").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "sort_order"}).AddRow("massage", "Massage", 0))
	mock.ExpectQuery("FROM services").WillReturnRows(
		sqlmock.NewRows([]string{"id", "category_id", "name", "image"}).
			AddRow("thai", "massage", "Thai massage", nil).
			AddRow("orphan", "gone", "Orphan", nil))
	mock.ExpectQuery("FROM service_variants").WillReturnRows(
		sqlmock.NewRows([]string{"service_id", "duration_min", "price_huf"}).
			AddRow("thai", 60, 14000).
			AddRow("thai", 90, 19000))
	mock.ExpectQuery("FROM faqs").WillReturnRows(
		sqlmock.NewRows([]string{"question", "answer"}).AddRow("Parking?", "Yes"))

	c, err := NewCatalogRepo(db).Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(c.Categories) != 1 || len(c.Categories[0].Services) != 1 {
		t.Fatalf("catalog = %+v", c)
	}
	if v := c.Categories[0].Services[0].Variants; len(v) != 2 || v[1].PriceHUF != 19000 {
		t.Fatalf("variants = %+v", v)
	}
	if len(c.FAQ) != 1 || c.FAQ[0].A != "Yes" {
		t.Fatalf("faq = %+v", c.FAQ)
	}
}

func TestReplaceRejectsInvalidCatalogWithoutTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	bad := model.Catalog{Categories: []model.Category{{ID: "m", Name: "M", Services: []model.Service{
		{ID: "thai", Name: "Thai", Variants: []model.Variant{{DurationMin: 60, PriceHUF: 1}, {DurationMin: 60, PriceHUF: 2}}},
	}}}}
	if err := NewCatalogRepo(db).Replace(context.Background(), bad); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("err = %v, want ErrInvalidCatalog", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestReplaceRollsBackOnInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	c := model.Catalog{Categories: []model.Category{{ID: "m", Name: "Massage"}}}
	mock.ExpectBegin()
	for _, table := range []string{"service_variants", "services", "categories", "faqs"} {
		mock.ExpectExec("DELETE FROM " + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("INSERT INTO categories").WithArgs("m", "Massage", 0).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if err := NewCatalogRepo(db).Replace(context.Background(), c); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestReplaceCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	c := model.Catalog{
		Categories: []model.Category{{ID: "m", Name: "Massage", Services: []model.Service{
			{ID: "thai", Name: "Thai", Variants: []model.Variant{{DurationMin: 60, PriceHUF: 14000}}},
		}}},
		FAQ: []model.FAQ{{Q: "Parking?", A: "Yes"}},
	}
	mock.ExpectBegin()
	for _, table := range []string{"service_variants", "services", "categories", "faqs"} {
		mock.ExpectExec("DELETE FROM " + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec("INSERT INTO categories").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO services").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO service_variants").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO faqs").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := NewCatalogRepo(db).Replace(context.Background(), c); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
