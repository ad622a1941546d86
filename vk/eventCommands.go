package vk

import "regexp"

const (
	commandDriversPage eventCommand = `^driversPage_\d{1,2}$`
	commandDriverCard  eventCommand = `^driver_\d+$`
	commandNothing     eventCommand = ``
)

type eventCommand string

var eventCommands = []eventCommand{
	commandDriversPage,
	commandDriverCard,
}

func getEventCommand(event string) eventCommand {
	for _, eventCommand := range eventCommands {
		matched, _ := regexp.MatchString(string(eventCommand), event)
		if matched {
			return eventCommand
		}
	}
	return commandNothing
}
