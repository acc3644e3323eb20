package marvelcards

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"github.com/thomasbaio/progettomarvel/marvelcards/database"
	"github.com/thomasbaio/progettomarvel/marvelcards/marvel"
)

// LoadConfig reads the TOML file and then applies environment variable
// overrides, so deployments can keep secrets out of the file.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	if err = env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	DB     database.DBConfig `toml:"db"`
	Marvel marvel.Config     `toml:"marvel"`
	Game   GameConfig        `toml:"game"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level" env:"LOG_LEVEL"`
	AddSource bool       `toml:"add_source" env:"LOG_ADD_SOURCE"`
}

// GameConfig carries the trading economy constants. Prices are decimal
// strings; binary floats cannot represent 0.2 exactly.
type GameConfig struct {
	SellPrice string `toml:"sell_price" env:"GAME_SELL_PRICE"`
	PackPrice string `toml:"pack_price" env:"GAME_PACK_PRICE"`
	PackSize  int    `toml:"pack_size" env:"GAME_PACK_SIZE"`
}

const (
	defaultSellPrice = "0.2"
	defaultPackPrice = "1.0"
	defaultPackSize  = 5
)

func (g GameConfig) SellPriceDecimal() (decimal.Decimal, error) {
	if g.SellPrice == "" {
		g.SellPrice = defaultSellPrice
	}
	price, err := decimal.NewFromString(g.SellPrice)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid sell_price %q: %w", g.SellPrice, err)
	}
	return price, nil
}

func (g GameConfig) PackPriceDecimal() (decimal.Decimal, error) {
	if g.PackPrice == "" {
		g.PackPrice = defaultPackPrice
	}
	price, err := decimal.NewFromString(g.PackPrice)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid pack_price %q: %w", g.PackPrice, err)
	}
	return price, nil
}

func (g GameConfig) Size() int {
	if g.PackSize <= 0 {
		return defaultPackSize
	}
	return g.PackSize
}
