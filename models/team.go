package models

type Team struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Nationality    string `json:"nationality"`
	Founded        string `json:"founded"`
	BaseLocation   string `json:"baseLocation"`
	TeamPrincipal  string `json:"teamPrincipal"`
	TechnicalChief string `json:"technicalChief"`
	Chassis        string `json:"chassis"`
	Engine         string `json:"engine"`
	FirstEntry     string `json:"firstEntry"`
	WorldTitles    int    `json:"worldTitles"`
	RaceWins       int    `json:"raceWins"`
	Poles          int    `json:"poles"`
	FastestLaps    int    `json:"fastestLaps"`
	Podiums        int    `json:"podiums"`
	Points         int    `json:"points"`
	Active         bool   `json:"active"`
	LogoURL        string `json:"logoUrl"`
	Website        string `json:"website"`
}

func (t Team) GetID() int { return t.ID }

// TeamStats is the body of GET /teams/{id}/stats.
type TeamStats struct {
	WorldTitles int `json:"worldTitles"`
	RaceWins    int `json:"raceWins"`
	Poles       int `json:"poles"`
	FastestLaps int `json:"fastestLaps"`
	Podiums     int `json:"podiums"`
	Points      int `json:"points"`
}
