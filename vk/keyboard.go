package vk

import (
	"encoding/json"
	"fmt"
)

type Kb struct {
	OneTime bool       `json:"one_time,omitempty"`
	Inline  bool       `json:"inline,omitempty"`
	Buttons [][]Button `json:"buttons"`
}

type Button struct {
	Action ActionBtn `json:"action"`
	Color  string    `json:"color,omitempty"`
}

type ActionBtn struct {
	TypeAction string `json:"type"`
	Link       string `json:"link,omitempty"`
	Label      string `json:"label,omitempty"`
	Payload    string `json:"payload,omitempty"`
}

type Payload struct {
	Command string `json:"command"`
}

func payload(command string) string {
	return fmt.Sprintf(`{"command" : "%s"}`, command)
}

// mainKeyboard is the persistent keyboard with one button per view.
func mainKeyboard() Kb {
	text := func(label, command string) Button {
		return Button{Action: ActionBtn{TypeAction: "text", Label: label, Payload: payload(command)}}
	}
	return Kb{Buttons: [][]Button{
		{text("Dashboard", "dashboard")},
		{text("Drivers", "drivers"), text("Teams", "teams")},
		{text("Races", "races"), text("Circuits", "circuits")},
		{{Action: ActionBtn{TypeAction: "callback", Label: "Driver cards", Payload: payload("driversPage_1")}, Color: "primary"}},
	}}
}

// makeKeyboard lays out one page of driver buttons, row x col per page, with
// navigation buttons to the neighbouring pages.
func makeKeyboard(row, col, numPage int, ids []int, inline bool) (Kb, error) {
	var button Button
	btnsRow := make([]Button, 0, col)
	buttons := [][]Button{}
	sizeKb := row * col
	countEl := len(ids)

	visKb := countEl - sizeKb*(numPage-1)
	if visKb > sizeKb {
		visKb = sizeKb
	}
	if numPage < 1 || visKb <= 0 {
		return Kb{}, fmt.Errorf("page %d does not exist for %d elements with %d buttons per page", numPage, countEl, sizeKb)
	}
	addedNum := sizeKb * (numPage - 1)
	for i := 1; i <= visKb; i++ {
		id := ids[i-1+addedNum]
		button = Button{Action: ActionBtn{TypeAction: "callback", Label: fmt.Sprintf("%d", id), Payload: payload(fmt.Sprintf("driver_%d", id))}}
		btnsRow = append(btnsRow, button)

		if (i%col == 0) || (i == visKb) {
			buttons = append(buttons, btnsRow)
			btnsRow = nil
		}
	}

	nav := []Button{}
	if numPage > 1 {
		nav = append(nav, Button{Action: ActionBtn{TypeAction: "callback", Label: "Back", Payload: payload(fmt.Sprintf("driversPage_%d", numPage-1))}, Color: "primary"})
	}
	if addedNum+visKb < countEl {
		nav = append(nav, Button{Action: ActionBtn{TypeAction: "callback", Label: "Next", Payload: payload(fmt.Sprintf("driversPage_%d", numPage+1))}, Color: "primary"})
	}
	if len(nav) > 0 {
		buttons = append(buttons, nav)
	}

	return Kb{Inline: inline, Buttons: buttons}, nil
}

func keyboardJSON(kb Kb) (string, error) {
	js, err := json.Marshal(kb)
	if err != nil {
		return "", fmt.Errorf("error marshal keyboard: %w", err)
	}
	return string(js), nil
}
