package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/optilens/backoffice/internal/app/domain/diopter"
)

func TestDefaultGrids(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	grid := cfg.Grids.Order.Grid()
	if got := len(grid.Rows(diopter.NearSighted)); got != 61 {
		t.Fatalf("near-sighted axis length: %d", got)
	}
	if got := len(grid.Rows(diopter.FarSighted)); got != 60 {
		t.Fatalf("far-sighted axis length: %d", got)
	}
	if got := len(grid.Cols()); got != 17 {
		t.Fatalf("cyl axis length: %d", got)
	}

	variant := cfg.Grids.Variant.Grid()
	if got := len(variant.Rows(diopter.NearSighted)); got != 33 {
		t.Fatalf("variant near-sighted axis length: %d", got)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	data := []byte("server:\n  addr: \":9090\"\npricing:\n  rules:\n    - cyl_from: -2.25\n      cyl_to: -4\n      adjustment: 5000\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("addr override lost: %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout == 0 {
		t.Fatalf("defaults must survive a partial file")
	}

	rules := cfg.Pricing.Compile()
	if got := rules.AdjustmentFor(-3); got != 5000 {
		t.Fatalf("rule adjustment: %d", got)
	}
	if got := rules.AdjustmentFor(-1); got != 0 {
		t.Fatalf("outside band must be zero: %d", got)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load or default: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected defaults, got %q", cfg.Server.Addr)
	}
}
