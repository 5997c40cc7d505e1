package model

import (
	"context"

	"skycast/config"
	"skycast/weather"
)

// WeatherFetcher is the outbound weather boundary: one request per call,
// normalized record or error, never a panic. weather.Client implements it.
type WeatherFetcher interface {
	Fetch(ctx context.Context, location string) (*weather.Record, error)
}

// WeatherStore caches recent snapshots. storage.WeatherCache implements it.
type WeatherStore interface {
	Get(location string) (*weather.Record, error)
	Put(location string, rec *weather.Record) error
}

// Model holds the core application data and business logic state.
type Model struct {
	Config   *config.Config
	Channel  Channel
	Provider Provider
	Fetcher  WeatherFetcher
	Cache    WeatherStore

	Conversation *Conversation

	Quitting bool
}

// NewModel creates a new Model with the given collaborators. Cache may be
// nil, in which case every confirmed fetch goes to the provider.
func NewModel(cfg *config.Config, channel Channel, provider Provider, fetcher WeatherFetcher, cache WeatherStore) *Model {
	return &Model{
		Config:       cfg,
		Channel:      channel,
		Provider:     provider,
		Fetcher:      fetcher,
		Cache:        cache,
		Conversation: NewConversation(),
	}
}
