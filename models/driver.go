package models

type Driver struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Nationality     string `json:"nationality"`
	DateOfBirth     string `json:"dateOfBirth"`
	Number          int    `json:"number"`
	TeamID          int    `json:"teamId"`
	Team            Team   `json:"team"`
	CareerPoints    int    `json:"careerPoints"`
	CareerWins      int    `json:"careerWins"`
	CareerPoles     int    `json:"careerPoles"`
	CareerFastLaps  int    `json:"careerFastLaps"`
	CareerPodiums   int    `json:"careerPodiums"`
	Active          bool   `json:"active"`
	ProfileImageURL string `json:"profileImageUrl"`
	Biography       string `json:"biography"`
}

func (d Driver) GetID() int { return d.ID }

// DriverStats is the body of GET /drivers/{id}/stats.
type DriverStats struct {
	Wins        int `json:"wins"`
	Podiums     int `json:"podiums"`
	Points      int `json:"points"`
	Poles       int `json:"poles"`
	FastestLaps int `json:"fastestLaps"`
}
