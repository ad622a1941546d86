package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"f1dashboard/models"
	"f1dashboard/querycache"
	"f1dashboard/store"
	"f1dashboard/temperrors"
)

type f1Storage interface {
	GetDrivers(ctx context.Context) ([]models.Driver, error)
	GetTeams(ctx context.Context) ([]models.Team, error)
	GetRaces(ctx context.Context) ([]models.Race, error)
	GetCircuits(ctx context.Context) ([]models.Circuit, error)
	GetDriverStats(ctx context.Context, id int) (models.DriverStats, error)
	GetTeamStats(ctx context.Context, id int) (models.TeamStats, error)
	GetCircuitHistory(ctx context.Context, id int) ([]models.Race, error)
}

// ServiceF1 renders the dashboard from the query cache and every other view
// from the resource stores. The two are not reconciled.
type ServiceF1 struct {
	storage f1Storage
	stores  *store.Stores
	cache   *querycache.Cache
	log     *slog.Logger
}

func NewServiceF1(storage f1Storage, stores *store.Stores, cache *querycache.Cache, log *slog.Logger) *ServiceF1 {
	if log == nil {
		log = slog.Default()
	}
	return &ServiceF1{storage: storage, stores: stores, cache: cache, log: log}
}

func (s *ServiceF1) GetDashboardMessage(ctx context.Context) (string, error) {
	var d dashboard

	if res, err := querycache.Drivers(ctx, s.cache, s.storage); err != nil {
		d.driversErr = err
	} else {
		d.drivers = res.Data
	}
	if res, err := querycache.Teams(ctx, s.cache, s.storage); err != nil {
		d.teamsErr = err
	} else {
		d.teams = res.Data
	}
	if res, err := querycache.Races(ctx, s.cache, s.storage); err != nil {
		d.racesErr = err
	} else {
		d.races = res.Data
	}

	if d.driversErr != nil && d.teamsErr != nil && d.racesErr != nil {
		return "", fmt.Errorf("in dashboard %w", d.driversErr)
	}
	return dashboardToString(d), nil
}

func (s *ServiceF1) GetDriversMessage(ctx context.Context) (string, error) {
	err := s.stores.Drivers.FetchAll(ctx)
	return pageToString("Drivers", s.stores.Drivers.State(), driversToString), err
}

func (s *ServiceF1) GetTeamsMessage(ctx context.Context) (string, error) {
	err := s.stores.Teams.FetchAll(ctx)
	return pageToString("Teams", s.stores.Teams.State(), teamsToString), err
}

func (s *ServiceF1) GetRacesMessage(ctx context.Context) (string, error) {
	err := s.stores.Races.FetchAll(ctx)
	return pageToString("Races", s.stores.Races.State(), racesToString), err
}

func (s *ServiceF1) GetCircuitsMessage(ctx context.Context) (string, error) {
	err := s.stores.Circuits.FetchAll(ctx)
	return pageToString("Circuits", s.stores.Circuits.State(), circuitsToString), err
}

// Cards render from the fetched item rather than the store's selected slot,
// which concurrent requests share.
func (s *ServiceF1) GetDriverCard(ctx context.Context, id int) (string, error) {
	defer s.stores.Drivers.ClearSelected()
	driver, err := s.stores.Drivers.FetchOne(ctx, id)
	if err != nil {
		return fetchErrorMessage(err, "Failed to fetch driver"), err
	}

	stats, err := s.storage.GetDriverStats(ctx, id)
	if err != nil {
		s.log.Warn("Error with driver stats", slog.Int("id", id), slog.Any("error", err))
		return driverCardToString(driver, nil), nil
	}
	return driverCardToString(driver, &stats), nil
}

func (s *ServiceF1) GetTeamCard(ctx context.Context, id int) (string, error) {
	defer s.stores.Teams.ClearSelected()
	team, err := s.stores.Teams.FetchOne(ctx, id)
	if err != nil {
		return fetchErrorMessage(err, "Failed to fetch team"), err
	}

	stats, err := s.storage.GetTeamStats(ctx, id)
	if err != nil {
		s.log.Warn("Error with team stats", slog.Int("id", id), slog.Any("error", err))
		return teamCardToString(team, nil), nil
	}
	return teamCardToString(team, &stats), nil
}

func (s *ServiceF1) GetRaceCard(ctx context.Context, id int) (string, error) {
	defer s.stores.Races.ClearSelected()
	race, err := s.stores.Races.FetchOne(ctx, id)
	if err != nil {
		return fetchErrorMessage(err, "Failed to fetch race"), err
	}

	results, err := s.stores.Races.FetchResults(ctx, id)
	if err != nil {
		s.log.Warn("Error with race results", slog.Int("id", id), slog.Any("error", err))
	} else {
		race.Results = results
	}
	return raceCardToString(race), nil
}

func (s *ServiceF1) GetCircuitCard(ctx context.Context, id int) (string, error) {
	defer s.stores.Circuits.ClearSelected()
	circuit, err := s.stores.Circuits.FetchOne(ctx, id)
	if err != nil {
		return fetchErrorMessage(err, "Failed to fetch circuit"), err
	}

	history, err := s.storage.GetCircuitHistory(ctx, id)
	if err != nil {
		s.log.Warn("Error with circuit history", slog.Int("id", id), slog.Any("error", err))
	}
	return circuitCardToString(circuit, history), nil
}

// fetchErrorMessage mirrors the text a store records for a failed fetch.
func fetchErrorMessage(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func (s *ServiceF1) GetNextRaceMessage(ctx context.Context, now time.Time) (string, error) {
	if err := s.stores.Races.FetchAll(ctx); err != nil {
		return s.stores.Races.State().Error, err
	}
	races := s.stores.Races.State().List

	next, err := findNextRace(now, races)
	if err != nil {
		if errors.Is(err, temperrors.ErrEmptyList) {
			return "The season is over!", nil
		}
		return "", err
	}
	return fmt.Sprintf("Next grand prix:\n%s", raceToString(next)), nil
}

// GetCountDaysAfterRaceMessage counts whole days since the last completed race.
func (s *ServiceF1) GetCountDaysAfterRaceMessage(ctx context.Context, now time.Time) (string, error) {
	if err := s.stores.Races.FetchAll(ctx); err != nil {
		return s.stores.Races.State().Error, err
	}

	last, err := findLastRace(now, s.stores.Races.State().List)
	if err != nil {
		return "No race has been run yet.", nil
	}
	difference := now.Sub(parseRaceDate(last.Date))
	return fmt.Sprintf("Days without F1 - %d :(\n", int64(difference.Hours()/24)), nil
}

// GetDriverIDs lists driver ids for pickers, refreshing the drivers store.
func (s *ServiceF1) GetDriverIDs(ctx context.Context) ([]int, error) {
	if err := s.stores.Drivers.FetchAll(ctx); err != nil {
		return nil, err
	}
	drivers := s.stores.Drivers.State().List
	if len(drivers) == 0 {
		return nil, temperrors.ErrEmptyList
	}
	ids := make([]int, 0, len(drivers))
	for _, driver := range drivers {
		ids = append(ids, driver.ID)
	}
	return ids, nil
}
