package models

import "slices"

type RaceStatus string

const (
	RaceScheduled RaceStatus = "Scheduled"
	RaceCompleted RaceStatus = "Completed"
	RaceCancelled RaceStatus = "Cancelled"
)

type Race struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	Season         int          `json:"season"`
	Round          int          `json:"round"`
	CircuitID      int          `json:"circuitId"`
	Circuit        Circuit      `json:"circuit"`
	Date           string       `json:"date"`
	RaceTime       string       `json:"raceTime"`
	QualifyingTime string       `json:"qualifyingTime"`
	Practice1Time  string       `json:"practice1Time"`
	Practice2Time  string       `json:"practice2Time"`
	Practice3Time  string       `json:"practice3Time"`
	SprintTime     string       `json:"sprintTime,omitempty"`
	Status         RaceStatus   `json:"status"`
	Laps           int          `json:"laps"`
	RaceDistance   float64      `json:"raceDistance"`
	Weather        string       `json:"weather"`
	Temperature    float64      `json:"temperature"`
	TrackCondition string       `json:"trackCondition"`
	Drivers        []Driver     `json:"drivers"`
	Teams          []Team       `json:"teams"`
	Results        []RaceDriver `json:"results"`
	TeamResults    []RaceTeam   `json:"teamResults"`
}

func (r Race) GetID() int { return r.ID }

// Clone copies the race including its nested lists.
func (r Race) Clone() Race {
	r.Drivers = slices.Clone(r.Drivers)
	r.Teams = slices.Clone(r.Teams)
	r.Results = slices.Clone(r.Results)
	r.TeamResults = slices.Clone(r.TeamResults)
	return r
}

// IsSprint reports whether the weekend has a sprint session.
func (r Race) IsSprint() bool { return r.SprintTime != "" }

// RaceDriver is one driver's classification in a race.
type RaceDriver struct {
	DriverID   int     `json:"driverId"`
	RaceID     int     `json:"raceId"`
	Position   int     `json:"position"`
	Points     float64 `json:"points"`
	Grid       int     `json:"grid"`
	FastestLap string  `json:"fastestLap"`
	RaceTime   string  `json:"raceTime"`
	Status     string  `json:"status"`
}

// RaceTeam is one team's classification in a race.
type RaceTeam struct {
	TeamID   int     `json:"teamId"`
	RaceID   int     `json:"raceId"`
	Points   float64 `json:"points"`
	Position int     `json:"position"`
}
