package storage

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPostgresStore_GetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer db.Close()

	s := NewPostgresStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value`)).
		WithArgs(KeyCart).
		WillReturnError(sql.ErrNoRows)

	_, found, err := s.Get(context.Background(), KeyCart)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Fatalf("expected not found")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_GetFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := NewPostgresStore(db)

	rows := sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[{"product_id":1,"quantity":2}]`))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM kv_records`)).
		WithArgs(KeyCart).
		WillReturnRows(rows)

	raw, found, err := s.Get(context.Background(), KeyCart)
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if string(raw) != `[{"product_id":1,"quantity":2}]` {
		t.Fatalf("raw=%s", raw)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_SetUpserts(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := NewPostgresStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (key) DO UPDATE`)).
		WithArgs(KeyOrders, `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Set(context.Background(), KeyOrders, []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_DeleteAndMissingTable(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := NewPostgresStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_records WHERE key = $1`)).
		WithArgs(KeySession).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := s.Delete(context.Background(), KeySession); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM kv_records`)).
		WithArgs(KeySession).
		WillReturnError(&pgconn.PgError{Code: pgUndefinedTable, Message: "relation does not exist"})
	err := s.Delete(context.Background(), KeySession)
	if !errors.Is(err, ErrSchemaMissing) {
		t.Fatalf("expected ErrSchemaMissing, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	s := NewPostgresStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS kv_records`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
