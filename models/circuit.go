package models

type Circuit struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Location        string  `json:"location"`
	Country         string  `json:"country"`
	Length          float64 `json:"length"`
	FirstGrandPrix  string  `json:"firstGrandPrix"`
	LapRecord       string  `json:"lapRecord"`
	LapRecordHolder string  `json:"lapRecordHolder"`
	LapRecordYear   int     `json:"lapRecordYear"`
	ImageURL        string  `json:"imageUrl"`
	Description     string  `json:"description"`
}

func (c Circuit) GetID() int { return c.ID }
