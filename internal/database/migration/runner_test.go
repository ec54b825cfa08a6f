package migration

import (
	"context"
	"testing"
	"testing/fstest"

	"uphera/internal/database/migrations"
)

func TestLoad_OrdersAndFilters(t *testing.T) {
	src := fstest.MapFS{
		"V2__notifications.sql": {Data: []byte("CREATE TABLE b();")},
		"V1__init.sql":          {Data: []byte("  CREATE TABLE a();\n")},
		"README.md":             {Data: []byte("ignored")},
		"V3_bad_name.sql":       {Data: []byte("ignored")},
	}

	migs, err := Load(src)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migs))
	}
	if migs[0].Version != 1 || migs[0].Name != "init" || migs[1].Version != 2 {
		t.Fatalf("unexpected order: %+v", migs)
	}
	if migs[0].SQL != "CREATE TABLE a();" {
		t.Fatalf("expected trimmed sql, got %q", migs[0].SQL)
	}
	if migs[0].Checksum == "" || migs[0].Checksum == migs[1].Checksum {
		t.Fatalf("expected distinct checksums")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(fstest.MapFS{"V1__empty.sql": {Data: []byte("   ")}}); err == nil {
		t.Fatalf("expected empty file error")
	}
	dup := fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 2;")},
	}
	if _, err := Load(dup); err == nil {
		t.Fatalf("expected duplicate version error")
	}
}

func TestLoad_EmbeddedSchema(t *testing.T) {
	migs, err := Load(migrations.FS)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) == 0 || migs[0].Version != 1 {
		t.Fatalf("expected embedded migrations starting at V1, got %+v", migs)
	}
}

func TestRun_NilArgs(t *testing.T) {
	if err := (Runner{Source: migrations.FS}).Run(context.Background(), nil); err == nil {
		t.Fatalf("expected nil db error")
	}
}
