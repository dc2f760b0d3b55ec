// Package cli is the interactive shell of the carrier agent. It wires the
// local state store, the server client, the location source and the
// visibility controller, and exposes them through a small command loop.
package cli

import (
	"context"
	"log"
	"time"

	"github.com/freightdesk/presence/internal/client/agent"
	"github.com/freightdesk/presence/internal/client/api"
	"github.com/freightdesk/presence/internal/client/config"
	"github.com/freightdesk/presence/internal/client/geoloc"
	"github.com/freightdesk/presence/internal/client/state"
	"github.com/freightdesk/presence/internal/client/visibility"
	"github.com/freightdesk/presence/internal/logging"
)

type App struct {
	config     *config.Config
	store      *state.Store
	client     api.Client
	provider   geoloc.Provider
	session    *agent.Session
	controller *visibility.Controller
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	store, err := state.Open(ctx, c.DatabaseDSN)
	if err != nil {
		log.Printf("error initializing local database: %s", err.Error())
		return nil, err
	}

	client := api.NewHTTPClient(c.ServerURL, c.Token, c.RequestTimeout)

	provider, err := buildProvider(c)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	session := agent.NewSession(agent.Config{
		SendInterval: c.SendInterval,
		CarrierClass: c.CarrierClass,
		Geoloc:       geoloc.Options{HighAccuracy: true, Timeout: c.RequestTimeout},
	}, provider, client, logger)

	controller := visibility.NewController(store, client, session, logger)

	return &App{
		config:     c,
		store:      store,
		client:     client,
		provider:   provider,
		session:    session,
		controller: controller,
	}, nil
}

// buildProvider picks the location source: a recorded route when configured,
// otherwise a short built-in demo loop.
func buildProvider(c *config.Config) (geoloc.Provider, error) {
	if c.RoutePath != "" {
		route, err := LoadRoute(c.RoutePath)
		if err != nil {
			return nil, err
		}
		return geoloc.NewSimulator(route, time.Second), nil
	}
	return geoloc.NewSimulator(demoRoute(), time.Second), nil
}

// demoRoute is a small loop around the Istanbul port area.
func demoRoute() []geoloc.Fix {
	return []geoloc.Fix{
		{Latitude: 41.0082, Longitude: 28.9784, Accuracy: 10},
		{Latitude: 41.0091, Longitude: 28.9812, Accuracy: 10},
		{Latitude: 41.0103, Longitude: 28.9845, Accuracy: 10},
		{Latitude: 41.0095, Longitude: 28.9871, Accuracy: 10},
		{Latitude: 41.0087, Longitude: 28.9830, Accuracy: 10},
	}
}

func (a *App) Close() {
	a.controller.Wait()
	a.session.Stop()
	_ = a.client.Close()
	_ = a.store.Close()
}
