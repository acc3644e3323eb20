package marvelcards

import (
	"fmt"

	"github.com/thomasbaio/progettomarvel/marvelcards/auth"
	"github.com/thomasbaio/progettomarvel/marvelcards/database"
	"github.com/thomasbaio/progettomarvel/marvelcards/database/repositories"
	"github.com/thomasbaio/progettomarvel/marvelcards/exchange"
	"github.com/thomasbaio/progettomarvel/marvelcards/marvel"
	"github.com/thomasbaio/progettomarvel/marvelcards/packs"
)

// App wires the repositories and services together around one database
// connection.
type App struct {
	Cfg     Config
	Version string
	Commit  string

	DB                 *database.DB
	UserRepository     repositories.UserRepository
	AlbumRepository    repositories.AlbumRepository
	CardRepository     repositories.CardRepository
	ExchangeRepository repositories.ExchangeRepository

	Auth     *auth.Service
	Catalog  *marvel.Client
	Exchange exchange.Service
	Packs    *packs.Service
}

func New(cfg Config, version, commit string) *App {
	return &App{
		Cfg:     cfg,
		Version: version,
		Commit:  commit,
	}
}

// Setup builds the service graph. The database connection must already
// be assigned.
func (a *App) Setup() error {
	if a.DB == nil {
		return fmt.Errorf("database not connected")
	}

	bunDB := a.DB.BunDB()
	a.UserRepository = repositories.NewUserRepository(bunDB)
	a.AlbumRepository = repositories.NewAlbumRepository(bunDB)
	a.CardRepository = repositories.NewCardRepository(bunDB)
	a.ExchangeRepository = repositories.NewExchangeRepository(bunDB)

	catalog, err := marvel.NewClient(a.Cfg.Marvel)
	if err != nil {
		return err
	}
	a.Catalog = catalog

	sellPrice, err := a.Cfg.Game.SellPriceDecimal()
	if err != nil {
		return err
	}
	packPrice, err := a.Cfg.Game.PackPriceDecimal()
	if err != nil {
		return err
	}

	a.Auth = auth.NewService(a.UserRepository)
	a.Exchange = exchange.NewService(a.ExchangeRepository, a.CardRepository, sellPrice)
	a.Packs = packs.NewService(catalog, a.UserRepository, a.Exchange, packPrice, a.Cfg.Game.Size())
	return nil
}
