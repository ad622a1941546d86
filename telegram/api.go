package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"
)

const requestTimeout = 30 * time.Second

type TgAPI struct {
	bot            *telego.Bot
	messageService messageService
}

func NewTGAPI(token string, messageService messageService) (*TgAPI, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("error create tg bot from token: %w", err)
	}
	return &TgAPI{bot: bot, messageService: messageService}, nil
}

// Run polls for updates until ctx is cancelled.
func (tg *TgAPI) Run(ctx context.Context, log *slog.Logger) error {
	updates, err := tg.bot.UpdatesViaLongPolling(nil)
	if err != nil {
		return fmt.Errorf("error taking updates from longpool: %w", err)
	}
	defer tg.bot.StopLongPolling()

	handler, err := th.NewBotHandler(tg.bot, updates)
	if err != nil {
		return fmt.Errorf("error creating bot handler: %w", err)
	}
	// A panic in one update must not stop the bot.
	handler.Use(th.PanicRecovery())
	tg.messageHandler(ctx, handler, log)

	go handler.Start()
	log.Info("Start tg longpoll")
	<-ctx.Done()
	handler.Stop()
	return nil
}

func (tg *TgAPI) messageHandler(ctx context.Context, handler *th.BotHandler, log *slog.Logger) {
	handler.Handle(func(bot *telego.Bot, update telego.Update) {
		log.Info(
			"MESSAGE info",
			slog.Int64("chat_id", update.Message.Chat.ID),
			slog.String("text", update.Message.Text))

		command, args := parseCommand(update.Message.Text)
		userDate := getDateFromMessage(update.Message.Date)

		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		defer cancel()

		messageToUser, err := messageForCommand(reqCtx, tg.messageService, command, args, userDate)
		if err != nil {
			log.Error("Error with command", slog.String("command", command), slog.Any("error", err))
			if messageToUser == "" {
				messageToUser = "Something went wrong, try again later."
			}
		}

		_, err = bot.SendMessage(tu.Message(
			tu.ID(update.Message.Chat.ID),
			messageToUser,
		))
		if err != nil {
			log.Error("Error sending message", slog.String("command", command), slog.Any("error", err))
		}
	}, th.AnyCommand())
}

func getDateFromMessage(userTimestamp int64) time.Time {
	return time.Unix(userTimestamp, 0)
}
