package vk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SevereCloud/vksdk/v2/api"
	"github.com/SevereCloud/vksdk/v2/api/params"
	"github.com/SevereCloud/vksdk/v2/events"
	longpoll "github.com/SevereCloud/vksdk/v2/longpoll-bot"
)

const (
	requestTimeout = 30 * time.Second
	pageRows       = 3
	pageCols       = 4
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
	GetDriverIDs(ctx context.Context) ([]int, error)
}

const helpMessage = `Commands I understand:
• dashboard - season overview
• drivers / teams / races / circuits - lists
• next race - the next grand prix
• days without F1 - days since the last race
Use the keyboard buttons for driver cards.`

type VkAPI struct {
	lp             *longpoll.LongPoll
	messageService messageService
}

func NewVKAPI(token string, messageService messageService) (*VkAPI, error) {
	vk := api.NewVK(token)

	group, err := vk.GroupsGetByID(api.Params{})
	if err != nil {
		return nil, fmt.Errorf("error groups get by id: %w", err)
	}
	if len(group) == 0 {
		return nil, errors.New("error groups get by id: token is not a group token")
	}

	lp, err := longpoll.NewLongPoll(vk, group[0].ID)
	if err != nil {
		return nil, fmt.Errorf("error creating new long poll: %w", err)
	}

	return &VkAPI{lp: lp, messageService: messageService}, nil
}

// Run serves the long poll until ctx is cancelled.
func (vk *VkAPI) Run(ctx context.Context, log *slog.Logger) error {
	vk.messageHandler(ctx, log)
	vk.eventHandler(ctx, log)

	go func() {
		<-ctx.Done()
		vk.lp.Shutdown()
	}()

	log.Info("Start vk longpoll")
	if err := vk.lp.Run(); err != nil {
		return fmt.Errorf("error in vk longpoll: %w", err)
	}
	return nil
}

// reply builds the answer for a text command or payload.
func reply(ctx context.Context, svc messageService, text string, userDate time.Time) (string, error) {
	command := getCommand(text)
	id, _ := idFromCommand(text)

	switch command {
	case commandHello, commandHelp:
		return helpMessage, nil
	case commandDashboard:
		return svc.GetDashboardMessage(ctx)
	case commandDrivers:
		return svc.GetDriversMessage(ctx)
	case commandTeams:
		return svc.GetTeamsMessage(ctx)
	case commandRaces:
		return svc.GetRacesMessage(ctx)
	case commandCircuits:
		return svc.GetCircuitsMessage(ctx)
	case commandDriver:
		return svc.GetDriverCard(ctx, id)
	case commandTeam:
		return svc.GetTeamCard(ctx, id)
	case commandRace:
		return svc.GetRaceCard(ctx, id)
	case commandCircuit:
		return svc.GetCircuitCard(ctx, id)
	case commandNextRace:
		return svc.GetNextRaceMessage(ctx, userDate)
	case commandDaysAfterRace:
		return svc.GetCountDaysAfterRaceMessage(ctx, userDate)
	}
	return "", nil
}

func (vk *VkAPI) messageHandler(ctx context.Context, log *slog.Logger) {
	vk.lp.MessageNew(func(_ context.Context, obj events.MessageNewObject) {
		log.Info(
			"MESSAGE info",
			slog.Int("peer_id", obj.Message.PeerID),
			slog.String("text", obj.Message.Text))

		userDate := time.Unix(int64(obj.Message.Date), 0)

		text := obj.Message.Text
		textPayload, err := extractCommand(obj.Message.Payload)
		if err != nil {
			log.Error("Error reading payload", slog.Any("error", err))
		}
		if textPayload != nil {
			text = *textPayload
		}

		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		messageToUser, err := reply(reqCtx, vk.messageService, text, userDate)
		if err != nil {
			log.Error("Error with command", slog.String("text", text), slog.Any("error", err))
		}
		if messageToUser == "" {
			log.Info("Command is not recognized", slog.String("text", obj.Message.Text))
			return
		}

		var keyboard *string
		if getCommand(text) == commandHello {
			kb, err := keyboardJSON(mainKeyboard())
			if err != nil {
				log.Error("Error creating keyboard", slog.Any("error", err))
			} else {
				keyboard = &kb
			}
		}

		if err := sendMessageToUser(messageToUser, obj.Message.PeerID, vk.lp.VK, keyboard); err != nil {
			log.Error("Error with sending message-answer to user", slog.Int("peer_id", obj.Message.PeerID), slog.Any("error", err))
		}
	})
}

func (vk *VkAPI) eventHandler(ctx context.Context, log *slog.Logger) {
	vk.lp.MessageEvent(func(_ context.Context, obj events.MessageEventObject) {
		log.Info(
			"EVENT info",
			slog.Int("peer_id", obj.PeerID),
			slog.Any("text", obj.Payload))

		payloadCommand, err := extractCommand(string(obj.Payload))
		if err != nil || payloadCommand == nil {
			log.Error("Error reading payload", slog.Any("error", err))
			return
		}

		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		var messageToUser string
		var keyboard *string

		switch getEventCommand(*payloadCommand) {
		case commandDriversPage:
			numPage, _ := idFromCommand(*payloadCommand)
			ids, err := vk.messageService.GetDriverIDs(reqCtx)
			if err != nil {
				log.Error("Error with driver ids", slog.Any("error", err))
				break
			}
			kb, err := makeKeyboard(pageRows, pageCols, numPage, ids, true)
			if err != nil {
				log.Error("Error making keyboard", slog.Any("error", err))
				break
			}
			jsKb, err := keyboardJSON(kb)
			if err != nil {
				log.Error("Error marshall keyboard", slog.Any("error", err))
				break
			}
			messageToUser = fmt.Sprintf("Drivers, page %d:", numPage)
			keyboard = &jsKb

		case commandDriverCard:
			id, _ := idFromCommand(*payloadCommand)
			messageToUser, err = vk.messageService.GetDriverCard(reqCtx, id)
			if err != nil {
				log.Error("Error with driver card", slog.Int("id", id), slog.Any("error", err))
			}
		}

		if messageToUser != "" {
			if err := sendMessageToUser(messageToUser, obj.PeerID, vk.lp.VK, keyboard); err != nil {
				log.Error("Error with sending message-answer to user", slog.Int("peer_id", obj.PeerID), slog.Any("error", err))
			}
		}
		if err := sendEventMessageToUser(vk.lp.VK, obj.PeerID, obj.EventID, obj.UserID); err != nil {
			log.Error("Error with sending event-answer to user", slog.Int("peer_id", obj.PeerID), slog.Any("error", err))
		}
	})
}

func sendMessageToUser(messageToUser string, peerID int, vk *api.VK, keyboard *string) error {
	b := params.NewMessagesSendBuilder()
	b.Message(messageToUser)
	b.RandomID(0)
	b.PeerID(peerID)

	if keyboard != nil {
		b.Keyboard(*keyboard)
	}

	msgID, err := vk.MessagesSend(b.Params)
	if err != nil {
		return fmt.Errorf("error sending message to user: %w", err)
	}
	slog.Debug("Message-answer sent", slog.Int("id", msgID))
	return nil
}

func sendEventMessageToUser(vk *api.VK, peerID int, eventID string, userID int) error {
	prms := params.NewMessagesSendMessageEventAnswerBuilder()
	prms.PeerID(peerID)
	prms.EventID(eventID)
	prms.UserID(userID)

	if _, err := vk.MessagesSendMessageEventAnswer(prms.Params); err != nil {
		return fmt.Errorf("error sending event answer to user: %w", err)
	}
	return nil
}

func extractCommand(payload string) (*string, error) {
	if payload == "" {
		return nil, nil
	}
	var pl Payload
	if err := json.Unmarshal([]byte(payload), &pl); err != nil {
		return nil, fmt.Errorf("error unmarshal command in payload message: %w", err)
	}
	return &pl.Command, nil
}
