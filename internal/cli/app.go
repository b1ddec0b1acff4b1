package cli

import (
	"github.com/llehouerou/bluewaves/internal/db"
	"github.com/llehouerou/bluewaves/internal/errmsg"
	"github.com/llehouerou/bluewaves/internal/library"
	"github.com/llehouerou/bluewaves/internal/logger"
	"github.com/llehouerou/bluewaves/internal/playlists"
	"github.com/llehouerou/bluewaves/internal/stats"
)

// app holds the services shared by every command.
type app struct {
	log       *logger.Logger
	db        *db.DB
	repo      *library.Repository
	stats     *stats.Store
	playlists *playlists.Store
}

func openApp() (*app, error) {
	lc := cfg.LoggerConfig()
	if verbose {
		lc.Level = "debug"
	}
	log := logger.New(lc)

	d, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, errmsg.Wrap(errmsg.OpInitialize, err)
	}
	store, err := playlists.New(cfg.PlaylistsDir())
	if err != nil {
		d.Close()
		return nil, errmsg.Wrap(errmsg.OpInitialize, err)
	}

	log.Debug("opened data dir", "path", cfg.DataPath())
	return &app{
		log:       log,
		db:        d,
		repo:      library.New(d),
		stats:     stats.New(d),
		playlists: store,
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("closing database", "err", err)
	}
}
