package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"uphera/internal/config"
	"uphera/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslate(t *testing.T) {
	if translate(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
	if !errors.Is(translate(pgx.ErrNoRows), database.ErrNoRows) {
		t.Fatalf("expected ErrNoRows")
	}
	if !errors.Is(translate(fmt.Errorf("scan: %w", pgx.ErrNoRows)), database.ErrNoRows) {
		t.Fatalf("expected wrapped ErrNoRows to translate")
	}

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "applications_user_job_key"}
	err := translate(dup)
	if !errors.Is(err, database.ErrUniqueViolation) {
		t.Fatalf("expected ErrUniqueViolation, got %v", err)
	}
	if !strings.Contains(err.Error(), "applications_user_job_key") {
		t.Fatalf("expected constraint name in error, got %v", err)
	}

	other := &pgconn.PgError{Code: "42P01"}
	if !errors.Is(translate(other), other) {
		t.Fatalf("unrelated errors must pass through")
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		DBHost: " db ", DBPort: "5432", DBUser: "u", DBPassword: "secret", DBName: "uphera", DBSSLMode: "disable",
	})
	want := "host=db port=5432 user=u password=secret dbname=uphera sslmode=disable"
	if dsn != want {
		t.Fatalf("unexpected dsn: %q", dsn)
	}
}

func TestNilPool(t *testing.T) {
	var p *Pool
	if err := p.Ping(context.Background()); err == nil {
		t.Fatalf("expected error from nil pool")
	}
	if err := p.QueryRow(context.Background(), "SELECT 1").Scan(); err == nil {
		t.Fatalf("expected error row from nil pool")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close on nil pool: %v", err)
	}
}
