package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/service"
)

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("catalogctl %v: %v", args, err)
	}
	return out.String()
}

func TestSeedThenStatsOnMirror(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("SEED_ADMIN_PASSWORD=from-env-file\nSERVER_ENV=test\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	dbPath := filepath.Join(dir, "mobile_app.db")

	common := []string{"--env-file", envPath, "--store", "sqlite", "--sqlite-path", dbPath}

	run(t, append([]string{"seed"}, common...)...)
	run(t, append([]string{"seed"}, common...)...)

	out := run(t, append([]string{"stats"}, common...)...)
	var stats domain.StatsSnapshot
	if err := json.Unmarshal([]byte(out[bytes.IndexByte([]byte(out), '{'):]), &stats); err != nil {
		t.Fatalf("failed to decode stats output %q: %v", out, err)
	}
	if stats.CategoriesCount != len(service.DefaultCategories) {
		t.Errorf("expected %d categories, got %d", len(service.DefaultCategories), stats.CategoriesCount)
	}
	if stats.ProductsCount != 0 || stats.SumPerCategory() != 0 {
		t.Errorf("expected no products, got %+v", stats)
	}

	run(t, append([]string{"set-password", "admin", "--password", "changed"}, common...)...)
}
