package service

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"f1dashboard/models"
	"f1dashboard/store"
	"f1dashboard/temperrors"
)

const dashboardTop = 5

type dashboard struct {
	drivers    []models.Driver
	teams      []models.Team
	races      []models.Race
	driversErr error
	teamsErr   error
	racesErr   error
}

func pageToString[T store.Entity](title string, st store.State[T], render func([]T) string) string {
	switch {
	case st.Loading:
		return fmt.Sprintf("%s: loading...\n", title)
	case st.Error != "":
		return fmt.Sprintf("%s: %s\n", title, st.Error)
	case len(st.List) == 0:
		return fmt.Sprintf("%s: nothing to show\n", title)
	}
	return fmt.Sprintf("%s (%d):\n%s", title, len(st.List), render(st.List))
}

func dashboardToString(d dashboard) string {
	message := new(strings.Builder)
	message.WriteString("F1 dashboard\n\n")

	if d.driversErr != nil {
		fmt.Fprintf(message, "Drivers: %s\n\n", d.driversErr)
	} else {
		top := slices.Clone(d.drivers)
		slices.SortStableFunc(top, func(a, b models.Driver) int { return cmp.Compare(b.CareerPoints, a.CareerPoints) })
		fmt.Fprintf(message, "Drivers: %d, active %d\n", len(d.drivers), countActiveDrivers(d.drivers))
		message.WriteString(driversToString(top[:min(dashboardTop, len(top))]))
		message.WriteString("\n")
	}

	if d.teamsErr != nil {
		fmt.Fprintf(message, "Teams: %s\n\n", d.teamsErr)
	} else {
		top := slices.Clone(d.teams)
		slices.SortStableFunc(top, func(a, b models.Team) int { return cmp.Compare(b.Points, a.Points) })
		fmt.Fprintf(message, "Teams: %d\n", len(d.teams))
		message.WriteString(teamsToString(top[:min(dashboardTop, len(top))]))
		message.WriteString("\n")
	}

	if d.racesErr != nil {
		fmt.Fprintf(message, "Races: %s\n", d.racesErr)
	} else {
		completed := 0
		for _, race := range d.races {
			if race.Status == models.RaceCompleted {
				completed++
			}
		}
		fmt.Fprintf(message, "Races: %d, completed %d\n", len(d.races), completed)
	}

	return message.String()
}

func countActiveDrivers(drivers []models.Driver) int {
	n := 0
	for _, driver := range drivers {
		if driver.Active {
			n++
		}
	}
	return n
}

func driversToString(drivers []models.Driver) string {
	message := new(strings.Builder)
	w := tabwriter.NewWriter(message, 2, 5, 1, ' ', 0)
	for _, driver := range drivers {
		fmt.Fprintf(w, "%d |\t#%d |\t%s |\t%s |\t%d pts\n", driver.ID, driver.Number, driver.Name, driver.Team.Name, driver.CareerPoints)
	}
	w.Flush()
	return message.String()
}

func teamsToString(teams []models.Team) string {
	message := new(strings.Builder)
	w := tabwriter.NewWriter(message, 2, 5, 1, ' ', 0)
	for _, team := range teams {
		fmt.Fprintf(w, "%d |\t%s |\t%s |\t%d pts\n", team.ID, team.Name, team.Engine, team.Points)
	}
	w.Flush()
	return message.String()
}

func racesToString(races []models.Race) string {
	message := new(strings.Builder)
	w := tabwriter.NewWriter(message, 2, 5, 1, ' ', 0)
	for _, race := range races {
		fmt.Fprintf(w, "%d |\t%d/%d |\t%s |\t%s |\t%s\n", race.ID, race.Season, race.Round, race.Name, formatDate(race.Date), race.Status)
	}
	w.Flush()
	return message.String()
}

func circuitsToString(circuits []models.Circuit) string {
	message := new(strings.Builder)
	w := tabwriter.NewWriter(message, 2, 5, 1, ' ', 0)
	for _, circuit := range circuits {
		fmt.Fprintf(w, "%d |\t%s |\t%s, %s |\t%.3f km\n", circuit.ID, circuit.Name, circuit.Location, circuit.Country, circuit.Length)
	}
	w.Flush()
	return message.String()
}

func driverCardToString(driver models.Driver, stats *models.DriverStats) string {
	message := new(strings.Builder)
	fmt.Fprintf(message, "%s #%d\nNationality: %s\nTeam: %s\n", driver.Name, driver.Number, driver.Nationality, driver.Team.Name)
	if driver.DateOfBirth != "" {
		fmt.Fprintf(message, "Born: %s\n", formatDate(driver.DateOfBirth))
	}
	if stats != nil {
		fmt.Fprintf(message, "Wins: %d, podiums: %d, poles: %d, fastest laps: %d, points: %d\n",
			stats.Wins, stats.Podiums, stats.Poles, stats.FastestLaps, stats.Points)
	}
	if driver.Biography != "" {
		fmt.Fprintf(message, "\n%s\n", driver.Biography)
	}
	return message.String()
}

func teamCardToString(team models.Team, stats *models.TeamStats) string {
	message := new(strings.Builder)
	fmt.Fprintf(message, "%s\nBase: %s\nPrincipal: %s\nChassis: %s, engine: %s\n",
		team.Name, team.BaseLocation, team.TeamPrincipal, team.Chassis, team.Engine)
	if stats != nil {
		fmt.Fprintf(message, "Titles: %d, wins: %d, podiums: %d, poles: %d, fastest laps: %d, points: %d\n",
			stats.WorldTitles, stats.RaceWins, stats.Podiums, stats.Poles, stats.FastestLaps, stats.Points)
	}
	return message.String()
}

func raceToString(race models.Race) string {
	message := fmt.Sprintf("Round %d, %s\nCircuit: %s\nDate: %s\n", race.Round, race.Name, race.Circuit.Name, formatDate(race.Date))
	if race.IsSprint() {
		message += fmt.Sprintf("Sprint: %s\n", race.SprintTime)
	}
	return message
}

func raceCardToString(race models.Race) string {
	message := new(strings.Builder)
	message.WriteString(raceToString(race))
	fmt.Fprintf(message, "Status: %s\n", race.Status)

	if len(race.Results) == 0 {
		return message.String()
	}

	names := make(map[int]string, len(race.Drivers))
	for _, driver := range race.Drivers {
		names[driver.ID] = driver.Name
	}

	results := slices.Clone(race.Results)
	slices.SortFunc(results, func(a, b models.RaceDriver) int { return cmp.Compare(a.Position, b.Position) })

	message.WriteString("\n")
	w := tabwriter.NewWriter(message, 2, 5, 1, ' ', tabwriter.AlignRight)
	for _, position := range results {
		name, ok := names[position.DriverID]
		if !ok {
			name = fmt.Sprintf("#%d", position.DriverID)
		}
		if position.Status == "Finished" {
			if position.Points != 0 {
				fmt.Fprintf(w, "%d |\t%s |\t %s - %g\n", position.Position, name, position.RaceTime, position.Points)
			} else {
				fmt.Fprintf(w, "%d |\t%s |\t %s\n", position.Position, name, position.RaceTime)
			}
		} else {
			fmt.Fprintf(w, "%d |\t%s |\t - %s\n", position.Position, name, position.Status)
		}
	}
	w.Flush()
	return message.String()
}

func circuitCardToString(circuit models.Circuit, history []models.Race) string {
	message := new(strings.Builder)
	fmt.Fprintf(message, "%s\n%s, %s\nLength: %.3f km\n", circuit.Name, circuit.Location, circuit.Country, circuit.Length)
	if circuit.LapRecord != "" {
		fmt.Fprintf(message, "Lap record: %s (%s, %d)\n", circuit.LapRecord, circuit.LapRecordHolder, circuit.LapRecordYear)
	}
	if len(history) > 0 {
		fmt.Fprintf(message, "\nHistory:\n%s", racesToString(history))
	}
	return message.String()
}

// parseRaceDate accepts RFC 3339 timestamps and plain dates.
func parseRaceDate(date string) time.Time {
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t
	}
	t, _ := time.Parse(time.DateOnly, date)
	return t
}

func formatDate(date string) string {
	t := parseRaceDate(date)
	if t.IsZero() {
		return date
	}
	return t.Format("02 Jan 2006")
}

func findNextRace(now time.Time, races []models.Race) (models.Race, error) {
	var next *models.Race
	for i, race := range races {
		if race.Status == models.RaceCancelled {
			continue
		}
		date := parseRaceDate(race.Date)
		if date.After(now) && (next == nil || date.Before(parseRaceDate(next.Date))) {
			next = &races[i]
		}
	}
	if next == nil {
		return models.Race{}, temperrors.ErrEmptyList
	}
	return *next, nil
}

func findLastRace(now time.Time, races []models.Race) (models.Race, error) {
	var last *models.Race
	for i, race := range races {
		if race.Status != models.RaceCompleted {
			continue
		}
		date := parseRaceDate(race.Date)
		if !date.After(now) && (last == nil || date.After(parseRaceDate(last.Date))) {
			last = &races[i]
		}
	}
	if last == nil {
		return models.Race{}, temperrors.ErrEmptyList
	}
	return *last, nil
}
