package store

import (
	"context"
	"log/slog"

	"f1dashboard/models"
)

type f1Storage interface {
	GetDrivers(ctx context.Context) ([]models.Driver, error)
	GetDriver(ctx context.Context, id int) (models.Driver, error)
	GetTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, id int) (models.Team, error)
	GetRaces(ctx context.Context) ([]models.Race, error)
	GetRace(ctx context.Context, id int) (models.Race, error)
	GetRaceResults(ctx context.Context, id int) ([]models.RaceDriver, error)
	GetCircuits(ctx context.Context) ([]models.Circuit, error)
	GetCircuit(ctx context.Context, id int) (models.Circuit, error)
}

// Stores bundles one store per resource so views get them injected together.
type Stores struct {
	Drivers  *Store[models.Driver]
	Teams    *Store[models.Team]
	Races    *RaceStore
	Circuits *Store[models.Circuit]
}

func NewStores(storage f1Storage, log *slog.Logger) *Stores {
	return &Stores{
		Drivers:  New[models.Driver]("drivers", "driver", storage.GetDrivers, storage.GetDriver, log),
		Teams:    New[models.Team]("teams", "team", storage.GetTeams, storage.GetTeam, log),
		Races:    NewRaceStore(storage.GetRaces, storage.GetRace, storage.GetRaceResults, log),
		Circuits: New[models.Circuit]("circuits", "circuit", storage.GetCircuits, storage.GetCircuit, log),
	}
}
