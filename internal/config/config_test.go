package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
server:
  address: ":8080"
database:
  driver: postgres
  url: postgres://localhost/illustra
contacts:
  phone_number: "3331234567"
  email: studio@example.com
shop:
  url: https://shop.example.com
admin:
  jwt_secret: secret
schemas:
  - collection: spille
    title: Spille
    fields:
      - key: title.it
        type: text
        show_in_table: true
      - key: tags
        type: multi-select
        options: [a, b]
        max: 1
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigFromYAML(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Address != ":8080" || cfg.Database.Driver != "postgres" {
		t.Fatalf("server/database = %+v %+v", cfg.Server, cfg.Database)
	}
	if cfg.Contacts.CountryCode != "39" {
		t.Fatalf("country code default = %q", cfg.Contacts.CountryCode)
	}
	if !cfg.IsShopCollection("spille") || cfg.IsShopCollection("charm") {
		t.Fatalf("shop collections = %v", cfg.Shop.Collections)
	}
	if cfg.Admin.SessionTTL != 12*time.Hour {
		t.Fatalf("session ttl = %v", cfg.Admin.SessionTTL)
	}
	if len(cfg.Schemas) != 1 || cfg.Schemas[0].Fields[1].Max != 1 {
		t.Fatalf("schemas = %+v", cfg.Schemas)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("SALES_STOPPED", "true")
	t.Setenv("ADMIN_SESSION_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Address != ":9000" || cfg.Database.Driver != "memory" {
		t.Fatalf("overrides not applied: %+v %+v", cfg.Server, cfg.Database)
	}
	if !cfg.Shop.SalesStopped || cfg.Admin.SessionTTL != 30*time.Minute {
		t.Fatalf("shop/admin = %+v %+v", cfg.Shop, cfg.Admin)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Fatalf("cors origins = %v", cfg.Server.CORSOrigins)
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "s")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Driver != "memory" || cfg.Server.Address != ":4000" {
		t.Fatalf("defaults = %+v %+v", cfg.Database, cfg.Server)
	}
}

func TestValidate(t *testing.T) {
	t.Run("bad integer", func(t *testing.T) {
		t.Setenv("REDIS_DB", "x")
		if _, err := LoadConfig(""); err == nil {
			t.Fatal("expected parse error")
		}
	})
	t.Run("firestore needs project", func(t *testing.T) {
		cfg := Config{Database: DatabaseConfig{Driver: "firestore"}, Admin: AdminConfig{Provider: "local", JWTSecret: "s"}}
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})
	t.Run("missing secret", func(t *testing.T) {
		cfg := Config{Database: DatabaseConfig{Driver: "memory"}, Admin: AdminConfig{Provider: "local"}}
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})
	t.Run("unknown driver", func(t *testing.T) {
		cfg := Config{Database: DatabaseConfig{Driver: "sqlite"}, Admin: AdminConfig{Provider: "local", JWTSecret: "s"}}
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected error")
		}
	})
}
