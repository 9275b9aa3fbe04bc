package db_test

import (
	"strings"
	"testing"

	"github.com/atinyakov/plantcafe/internal/db"
)

func TestInitPostgres_ErrorPaths(t *testing.T) {
	cases := []struct {
		name       string
		dsn        string
		wantSubstr string
	}{
		{"invalid DSN", "some=random", "ping postgres"},
		{"unreachable host", "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1", "ping postgres"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.InitPostgres(tc.dsn)
			if err == nil {
				t.Fatalf("InitPostgres(%q) did not return error", tc.dsn)
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Errorf("InitPostgres(%q) error = %q; want substring %q", tc.dsn, err.Error(), tc.wantSubstr)
			}
		})
	}
}

func TestMigrateDown_RejectsNonPositiveSteps(t *testing.T) {
	err := db.MigrateDown("postgres://unused", 0)
	if err == nil || !strings.Contains(err.Error(), "steps must be positive") {
		t.Fatalf("MigrateDown(0) error = %v; want steps error", err)
	}
}

func TestMigrateUp_UnreachableDatabase(t *testing.T) {
	err := db.MigrateUp("postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1")
	if err == nil {
		t.Fatal("expected error for unreachable database")
	}
}
