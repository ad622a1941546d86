package f1api

import (
	"context"
	"fmt"

	"f1dashboard/models"
)

func (api *F1API) GetDrivers(ctx context.Context) ([]models.Driver, error) {
	var drivers []models.Driver
	if err := api.getRequest(ctx, "/drivers", &drivers); err != nil {
		return nil, fmt.Errorf("in drivers %w", err)
	}
	return drivers, nil
}

func (api *F1API) GetDriver(ctx context.Context, id int) (models.Driver, error) {
	var driver models.Driver
	if err := api.getRequest(ctx, fmt.Sprintf("/drivers/%d", id), &driver); err != nil {
		return models.Driver{}, fmt.Errorf("in driver %d %w", id, err)
	}
	return driver, nil
}

func (api *F1API) GetDriverStats(ctx context.Context, id int) (models.DriverStats, error) {
	var stats models.DriverStats
	if err := api.getRequest(ctx, fmt.Sprintf("/drivers/%d/stats", id), &stats); err != nil {
		return models.DriverStats{}, fmt.Errorf("in driverStats %d %w", id, err)
	}
	return stats, nil
}

func (api *F1API) GetTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := api.getRequest(ctx, "/teams", &teams); err != nil {
		return nil, fmt.Errorf("in teams %w", err)
	}
	return teams, nil
}

func (api *F1API) GetTeam(ctx context.Context, id int) (models.Team, error) {
	var team models.Team
	if err := api.getRequest(ctx, fmt.Sprintf("/teams/%d", id), &team); err != nil {
		return models.Team{}, fmt.Errorf("in team %d %w", id, err)
	}
	return team, nil
}

func (api *F1API) GetTeamStats(ctx context.Context, id int) (models.TeamStats, error) {
	var stats models.TeamStats
	if err := api.getRequest(ctx, fmt.Sprintf("/teams/%d/stats", id), &stats); err != nil {
		return models.TeamStats{}, fmt.Errorf("in teamStats %d %w", id, err)
	}
	return stats, nil
}

func (api *F1API) GetRaces(ctx context.Context) ([]models.Race, error) {
	var races []models.Race
	if err := api.getRequest(ctx, "/races", &races); err != nil {
		return nil, fmt.Errorf("in races %w", err)
	}
	return races, nil
}

func (api *F1API) GetRace(ctx context.Context, id int) (models.Race, error) {
	var race models.Race
	if err := api.getRequest(ctx, fmt.Sprintf("/races/%d", id), &race); err != nil {
		return models.Race{}, fmt.Errorf("in race %d %w", id, err)
	}
	return race, nil
}

func (api *F1API) GetRaceResults(ctx context.Context, id int) ([]models.RaceDriver, error) {
	var results []models.RaceDriver
	if err := api.getRequest(ctx, fmt.Sprintf("/races/%d/results", id), &results); err != nil {
		return nil, fmt.Errorf("in raceResults %d %w", id, err)
	}
	return results, nil
}

func (api *F1API) GetCircuits(ctx context.Context) ([]models.Circuit, error) {
	var circuits []models.Circuit
	if err := api.getRequest(ctx, "/circuits", &circuits); err != nil {
		return nil, fmt.Errorf("in circuits %w", err)
	}
	return circuits, nil
}

func (api *F1API) GetCircuit(ctx context.Context, id int) (models.Circuit, error) {
	var circuit models.Circuit
	if err := api.getRequest(ctx, fmt.Sprintf("/circuits/%d", id), &circuit); err != nil {
		return models.Circuit{}, fmt.Errorf("in circuit %d %w", id, err)
	}
	return circuit, nil
}

// GetCircuitHistory returns the races held at the circuit.
func (api *F1API) GetCircuitHistory(ctx context.Context, id int) ([]models.Race, error) {
	var races []models.Race
	if err := api.getRequest(ctx, fmt.Sprintf("/circuits/%d/history", id), &races); err != nil {
		return nil, fmt.Errorf("in circuitHistory %d %w", id, err)
	}
	return races, nil
}
