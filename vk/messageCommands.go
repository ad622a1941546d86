package vk

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	commandDashboard     command = `^(dashboard|overview)$`
	commandDrivers       command = `^drivers$`
	commandTeams         command = `^teams$`
	commandRaces         command = `^races$`
	commandCircuits      command = `^circuits$`
	commandNextRace      command = `next.*race`
	commandDaysAfterRace command = `days without (formula|f1)|dwf`
	commandDriver        command = `^driver_\d+$`
	commandTeam          command = `^team_\d+$`
	commandRace          command = `^race_\d+$`
	commandCircuit       command = `^circuit_\d+$`
	commandHelp          command = `help|what can you do`
	commandHello         command = `^(start|hello)$`
	commandUnknown       command = ``
)

type command string

var commands = []command{
	commandDashboard,
	commandDrivers,
	commandTeams,
	commandRaces,
	commandCircuits,
	commandNextRace,
	commandDaysAfterRace,
	commandDriver,
	commandTeam,
	commandRace,
	commandCircuit,
	commandHelp,
	commandHello,
}

var compiled = func() map[command]*regexp.Regexp {
	m := make(map[command]*regexp.Regexp, len(commands))
	for _, c := range commands {
		m[c] = regexp.MustCompile(string(c))
	}
	return m
}()

func getCommand(message string) command {
	message = strings.ToLower(strings.TrimSpace(message))
	for _, command := range commands {
		if compiled[command].MatchString(message) {
			return command
		}
	}
	return commandUnknown
}

// idFromCommand returns the number after the last underscore, as in "race_12".
func idFromCommand(text string) (int, bool) {
	i := strings.LastIndexByte(text, '_')
	if i < 0 {
		return 0, false
	}
	id, err := strconv.Atoi(text[i+1:])
	return id, err == nil
}
