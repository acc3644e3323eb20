package marvelcards

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const testConfig = `
[db]
host = "localhost"
port = 5432
user = "marvel"
password = "secret"
database = "marvelcards"

[marvel]
public_key = "pub"
private_key = "priv"

[game]
sell_price = "0.2"
pack_price = "1.5"
pack_size = 3
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DB.Host != "localhost" || cfg.DB.Port != 5432 {
		t.Errorf("DB config = %+v", cfg.DB)
	}
	if cfg.Marvel.PublicKey != "pub" {
		t.Errorf("Marvel.PublicKey = %q, want pub", cfg.Marvel.PublicKey)
	}
	if cfg.Game.SellPrice != "0.2" || cfg.Game.PackPrice != "1.5" || cfg.Game.PackSize != 3 {
		t.Errorf("Game config = %+v", cfg.Game)
	}
}

func TestLoadConfig_envOverride(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("GAME_SELL_PRICE", "0.5")

	cfg, err := LoadConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DB.Host != "db.internal" {
		t.Errorf("DB.Host = %q, want env override db.internal", cfg.DB.Host)
	}
	if cfg.Game.SellPrice != "0.5" {
		t.Errorf("Game.SellPrice = %q, want env override 0.5", cfg.Game.SellPrice)
	}
	// Untouched keys keep their file values.
	if cfg.DB.Database != "marvelcards" {
		t.Errorf("DB.Database = %q, want marvelcards", cfg.DB.Database)
	}
}

func TestLoadConfig_missingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("LoadConfig() expected error for missing file")
	}
}

func TestGameConfig_defaults(t *testing.T) {
	var g GameConfig

	sell, err := g.SellPriceDecimal()
	if err != nil {
		t.Fatalf("SellPriceDecimal() error = %v", err)
	}
	if sell.String() != "0.2" {
		t.Errorf("SellPriceDecimal() = %s, want 0.2", sell)
	}

	pack, err := g.PackPriceDecimal()
	if err != nil {
		t.Fatalf("PackPriceDecimal() error = %v", err)
	}
	if pack.String() != "1" {
		t.Errorf("PackPriceDecimal() = %s, want 1", pack)
	}

	if got := g.Size(); got != 5 {
		t.Errorf("Size() = %d, want 5", got)
	}
}

func TestGameConfig_invalidPrice(t *testing.T) {
	g := GameConfig{SellPrice: "free"}
	if _, err := g.SellPriceDecimal(); err == nil {
		t.Fatal("SellPriceDecimal() expected error for non-decimal price")
	}
}
