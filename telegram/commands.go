package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type messageService interface {
	GetDashboardMessage(ctx context.Context) (string, error)
	GetDriversMessage(ctx context.Context) (string, error)
	GetTeamsMessage(ctx context.Context) (string, error)
	GetRacesMessage(ctx context.Context) (string, error)
	GetCircuitsMessage(ctx context.Context) (string, error)
	GetDriverCard(ctx context.Context, id int) (string, error)
	GetTeamCard(ctx context.Context, id int) (string, error)
	GetRaceCard(ctx context.Context, id int) (string, error)
	GetCircuitCard(ctx context.Context, id int) (string, error)
	GetNextRaceMessage(ctx context.Context, now time.Time) (string, error)
	GetCountDaysAfterRaceMessage(ctx context.Context, now time.Time) (string, error)
}

const helpMessage = `Commands:
/dashboard - season overview
/drivers, /teams, /races, /circuits - lists
/driver <id>, /team <id>, /race <id>, /circuit <id> - details
/nextrace - the next grand prix
/daysafterrace - days since the last race`

// parseCommand splits "/driver@bot 44" into "driver" and ["44"].
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	name := strings.TrimPrefix(fields[0], "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name), fields[1:]
}

func messageForCommand(ctx context.Context, svc messageService, command string, args []string, userDate time.Time) (string, error) {
	card := func(get func(context.Context, int) (string, error)) (string, error) {
		if len(args) != 1 {
			return fmt.Sprintf("Usage: /%s <id>", command), nil
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Sprintf("%q is not an id", args[0]), nil
		}
		return get(ctx, id)
	}

	switch command {
	case "start", "help":
		return helpMessage, nil
	case "dashboard":
		return svc.GetDashboardMessage(ctx)
	case "drivers":
		return svc.GetDriversMessage(ctx)
	case "teams":
		return svc.GetTeamsMessage(ctx)
	case "races":
		return svc.GetRacesMessage(ctx)
	case "circuits":
		return svc.GetCircuitsMessage(ctx)
	case "driver":
		return card(svc.GetDriverCard)
	case "team":
		return card(svc.GetTeamCard)
	case "race":
		return card(svc.GetRaceCard)
	case "circuit":
		return card(svc.GetCircuitCard)
	case "nextrace":
		return svc.GetNextRaceMessage(ctx, userDate)
	case "daysafterrace":
		return svc.GetCountDaysAfterRaceMessage(ctx, userDate)
	}
	return "Unknown command. " + helpMessage, nil
}
