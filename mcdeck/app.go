package mcdeck

import (
	"github.com/cloudberries/mcdeck/mcdeck/marvelcdb"
	"github.com/cloudberries/mcdeck/mcdeck/octgn"
)

// App bundles the services the CLI operates: the OCTGN set database
// and the public card database client.
type App struct {
	Config  Config
	Version string
	Sets    *octgn.SetDatabase
	Client  *marvelcdb.Client
}

// New creates the application from configuration. The OCTGN data path
// falls back to the standard location when not configured.
func New(cfg Config, version string) *App {
	dataPath := cfg.Octgn.DataPath
	if dataPath == "" {
		dataPath = octgn.DefaultDataPath()
	}
	return &App{
		Config:  cfg,
		Version: version,
		Sets:    octgn.NewSetDatabase(dataPath),
		Client:  marvelcdb.NewClient(cfg.MarvelCDB.BaseURL),
	}
}
