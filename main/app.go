package main

import (
	"log/slog"

	"f1dashboard/config"
	"f1dashboard/f1api"
	"f1dashboard/querycache"
	"f1dashboard/service"
	"f1dashboard/session"
	"f1dashboard/store"
)

type app struct {
	conf    *config.Config
	log     *slog.Logger
	tokens  session.TokenStore
	router  *session.Router
	api     *f1api.F1API
	stores  *store.Stores
	cache   *querycache.Cache
	service *service.ServiceF1
}

func newApp(conf *config.Config, log *slog.Logger) (*app, error) {
	tokenFile := conf.TokenFile
	if tokenFile == "" {
		path, err := session.DefaultPath()
		if err != nil {
			return nil, err
		}
		tokenFile = path
	}

	a := &app{
		conf:   conf,
		log:    log,
		tokens: session.NewFileStore(tokenFile),
		router: session.NewRouter(),
	}
	a.api = f1api.NewF1API(conf.BaseURL,
		f1api.WithTokenStore(a.tokens),
		f1api.WithNavigator(a.router),
		f1api.WithLogger(log))
	a.stores = store.NewStores(a.api, log)
	a.cache = querycache.New(querycache.Options{
		StaleTime: conf.StaleTime,
		GCTime:    conf.GCTime,
		Logger:    log,
	})
	a.service = service.NewServiceF1(a.api, a.stores, a.cache, log)
	return a, nil
}

func (a *app) Close() {
	a.cache.Close()
}
