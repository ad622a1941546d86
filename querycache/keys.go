package querycache

import (
	"context"

	"f1dashboard/models"
)

const (
	KeyDrivers  = "drivers"
	KeyTeams    = "teams"
	KeyRaces    = "races"
	KeyCircuits = "circuits"
)

type f1Storage interface {
	GetDrivers(ctx context.Context) ([]models.Driver, error)
	GetTeams(ctx context.Context) ([]models.Team, error)
	GetRaces(ctx context.Context) ([]models.Race, error)
	GetCircuits(ctx context.Context) ([]models.Circuit, error)
}

func Drivers(ctx context.Context, c *Cache, storage f1Storage) (Result[[]models.Driver], error) {
	return Fetch(ctx, c, KeyDrivers, storage.GetDrivers)
}

func Teams(ctx context.Context, c *Cache, storage f1Storage) (Result[[]models.Team], error) {
	return Fetch(ctx, c, KeyTeams, storage.GetTeams)
}

func Races(ctx context.Context, c *Cache, storage f1Storage) (Result[[]models.Race], error) {
	return Fetch(ctx, c, KeyRaces, storage.GetRaces)
}

func Circuits(ctx context.Context, c *Cache, storage f1Storage) (Result[[]models.Circuit], error) {
	return Fetch(ctx, c, KeyCircuits, storage.GetCircuits)
}
