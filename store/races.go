package store

import (
	"context"
	"log/slog"
	"slices"

	"f1dashboard/models"
)

type ResultsFunc func(ctx context.Context, raceID int) ([]models.RaceDriver, error)

// RaceStore adds fetching of results for the selected race.
type RaceStore struct {
	*Store[models.Race]
	results ResultsFunc
}

func NewRaceStore(list ListFunc[models.Race], get GetFunc[models.Race], results ResultsFunc, log *slog.Logger) *RaceStore {
	return &RaceStore{
		Store:   New[models.Race]("races", "race", list, get, log),
		results: results,
	}
}

// FetchResults writes the results into the selected race and returns them.
// Without a selected race the store keeps its selection untouched.
func (s *RaceStore) FetchResults(ctx context.Context, raceID int) ([]models.RaceDriver, error) {
	s.pending()

	results, err := s.results(ctx, raceID)
	if err != nil {
		s.rejected(err, "Failed to fetch race results")
		return nil, err
	}

	s.update(func(st *State[models.Race]) {
		st.Loading = false
		if st.Selected != nil {
			sel := st.Selected.Clone()
			sel.Results = slices.Clone(results)
			st.Selected = &sel
		}
	})
	return results, nil
}
