package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/optilens/backoffice/internal/app/domain/diopter"
)

// Config holds the server configuration. Every field has a default so the
// binary runs without a config file.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Grids    GridsConfig    `yaml:"grids"`
	Pricing  PricingConfig  `yaml:"pricing"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	// URL is a lib/pq connection string. Empty selects the in-memory store.
	URL string `yaml:"url"`
}

// GridsConfig describes the diopter panels used by the entry sessions. Order
// entry covers the full stocked range; variant editing uses the narrower
// range the lab actually grinds.
type GridsConfig struct {
	Order   GridSpec `yaml:"order"`
	Variant GridSpec `yaml:"variant"`
}

// GridSpec holds axis endpoints in diopters. Both SPH panels share the CYL
// axis.
type GridSpec struct {
	NearSphFirst float64 `yaml:"near_sph_first"`
	NearSphLast  float64 `yaml:"near_sph_last"`
	FarSphFirst  float64 `yaml:"far_sph_first"`
	FarSphLast   float64 `yaml:"far_sph_last"`
	CylFirst     float64 `yaml:"cyl_first"`
	CylLast      float64 `yaml:"cyl_last"`
}

// PricingConfig lists the default cylinder surcharge bands applied when a
// variant is first selected.
type PricingConfig struct {
	Rules []RuleSpec `yaml:"rules"`
}

type RuleSpec struct {
	CylFrom    float64 `yaml:"cyl_from"`
	CylTo      float64 `yaml:"cyl_to"`
	Adjustment int     `yaml:"adjustment"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Grids: GridsConfig{
			Order: GridSpec{
				NearSphFirst: 0, NearSphLast: -15,
				FarSphFirst: 0.25, FarSphLast: 15,
				CylFirst: 0, CylLast: -4,
			},
			Variant: GridSpec{
				NearSphFirst: 0, NearSphLast: -8,
				FarSphFirst: 0.25, FarSphLast: 6,
				CylFirst: 0, CylLast: -4,
			},
		},
		Pricing: PricingConfig{
			Rules: []RuleSpec{
				{CylFrom: -2.25, CylTo: -4, Adjustment: 3000},
			},
		},
	}
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads the given path, falling back to defaults when the file
// does not exist.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Validate rejects configurations the grid constructors would panic on.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	for name, spec := range map[string]GridSpec{"order": c.Grids.Order, "variant": c.Grids.Variant} {
		if spec.NearSphFirst == spec.NearSphLast && spec.FarSphFirst == spec.FarSphLast {
			return fmt.Errorf("grids.%s: at least one sph axis must span a range", name)
		}
	}
	for i, r := range c.Pricing.Rules {
		if r.CylFrom == r.CylTo && r.CylFrom == 0 {
			return fmt.Errorf("pricing.rules[%d]: empty band", i)
		}
	}
	return nil
}

// Grid builds the diopter panel with the configured axis endpoints.
func (g GridSpec) Grid() diopter.Grid {
	return diopter.NewGrid(
		diopter.NewAxis(g.NearSphFirst, g.NearSphLast, diopter.Step),
		diopter.NewAxis(g.FarSphFirst, g.FarSphLast, diopter.Step),
		diopter.NewAxis(g.CylFirst, g.CylLast, diopter.Step),
	)
}

// Compile converts the configured surcharge bands.
func (p PricingConfig) Compile() diopter.Rules {
	rules := make(diopter.Rules, 0, len(p.Rules))
	for _, r := range p.Rules {
		rules = append(rules, diopter.Rule{
			CylFrom:    diopter.Value(r.CylFrom),
			CylTo:      diopter.Value(r.CylTo),
			Adjustment: r.Adjustment,
		})
	}
	return rules
}
