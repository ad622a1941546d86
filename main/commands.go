package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"f1dashboard/config"
	"f1dashboard/session"
	tg_api "f1dashboard/telegram"
	vk_api "f1dashboard/vk"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type rootFlags struct {
	baseURL   string
	tokenFile string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	var a *app
	var syncLog func()

	cmd := &cobra.Command{
		Use:           "f1dash",
		Short:         "Formula 1 statistics dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.New()
			if err != nil {
				return err
			}
			if flags.baseURL != "" {
				conf.BaseURL = flags.baseURL
			}
			if flags.tokenFile != "" {
				conf.TokenFile = flags.tokenFile
			}
			if flags.logLevel != "" {
				conf.LogLevel = flags.logLevel
			}

			log, sync, err := setupLogger(conf.LogLevel)
			if err != nil {
				return err
			}
			syncLog = sync

			a, err = newApp(conf, log)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.Close()
			}
			if syncLog != nil {
				syncLog()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "API base URL (default $F1_API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&flags.tokenFile, "token-file", "", "session file (default $F1_TOKEN_FILE)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (default $F1_LOG_LEVEL)")

	getApp := func() *app { return a }

	cmd.AddCommand(
		newDashboardCmd(getApp),
		newResourceCmd(getApp, "drivers", "List drivers or show one driver",
			func(a *app) showFuncs { return showFuncs{a.service.GetDriversMessage, a.service.GetDriverCard} }),
		newResourceCmd(getApp, "teams", "List teams or show one team",
			func(a *app) showFuncs { return showFuncs{a.service.GetTeamsMessage, a.service.GetTeamCard} }),
		newResourceCmd(getApp, "races", "List races or show one race with results",
			func(a *app) showFuncs { return showFuncs{a.service.GetRacesMessage, a.service.GetRaceCard} }),
		newResourceCmd(getApp, "circuits", "List circuits or show one circuit with history",
			func(a *app) showFuncs { return showFuncs{a.service.GetCircuitsMessage, a.service.GetCircuitCard} }),
		newNextRaceCmd(getApp),
		newLoginCmd(getApp),
		newLogoutCmd(getApp),
		newServeCmd(getApp),
	)
	return cmd
}

type showFuncs struct {
	list func(ctx context.Context) (string, error)
	card func(ctx context.Context, id int) (string, error)
}

// printMessage writes the rendered view and points at login when the session expired.
func printMessage(w io.Writer, a *app, message string, err error) error {
	if message != "" {
		fmt.Fprint(w, message)
	}
	if a.router.Current() == session.RouteLogin {
		fmt.Fprintln(w, "Session expired, run `f1dash login --token <token>`.")
	}
	return err
}

func newDashboardCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the season overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			a.router.Navigate(session.RouteDashboard)
			msg, err := a.service.GetDashboardMessage(cmd.Context())
			return printMessage(cmd.OutOrStdout(), a, msg, err)
		},
	}
}

func newResourceCmd(getApp func() *app, name, short string, funcs func(*app) showFuncs) *cobra.Command {
	return &cobra.Command{
		Use:   name + " [id]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			a.router.Navigate("/" + name)
			f := funcs(a)

			if len(args) == 0 {
				msg, err := f.list(cmd.Context())
				return printMessage(cmd.OutOrStdout(), a, msg, err)
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%q is not an id", args[0])
			}
			a.router.Navigate(fmt.Sprintf("/%s/%d", name, id))
			msg, err := f.card(cmd.Context(), id)
			return printMessage(cmd.OutOrStdout(), a, msg, err)
		},
	}
}

func newNextRaceCmd(getApp func() *app) *cobra.Command {
	var daysAfter bool
	cmd := &cobra.Command{
		Use:   "next-race",
		Short: "Show the next grand prix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			a.router.Navigate(session.RouteRaces)
			var msg string
			var err error
			if daysAfter {
				msg, err = a.service.GetCountDaysAfterRaceMessage(cmd.Context(), time.Now())
			} else {
				msg, err = a.service.GetNextRaceMessage(cmd.Context(), time.Now())
			}
			return printMessage(cmd.OutOrStdout(), a, msg, err)
		},
	}
	cmd.Flags().BoolVar(&daysAfter, "days-after", false, "count days since the last race instead")
	return cmd
}

func newLoginCmd(getApp func() *app) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return errors.New("--token is required")
			}
			if err := getApp().tokens.SetToken(token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token saved.")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "bearer token")
	return cmd
}

func newLogoutCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := getApp().tokens.ClearToken(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token removed.")
			return nil
		},
	}
}

func newServeCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the enabled chat bots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if !a.conf.TgEnabled && !a.conf.VkEnabled {
				return errors.New("no bot enabled, set F1_TG_ENABLED or F1_VK_ENABLED")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			g, ctx := errgroup.WithContext(ctx)

			if a.conf.TgEnabled {
				tgAPI, err := tg_api.NewTGAPI(a.conf.TgChatToken, a.service)
				if err != nil {
					return err
				}
				g.Go(func() error { return tgAPI.Run(ctx, a.log) })
			}
			if a.conf.VkEnabled {
				vkAPI, err := vk_api.NewVKAPI(a.conf.VkGroupToken, a.service)
				if err != nil {
					return err
				}
				g.Go(func() error { return vkAPI.Run(ctx, a.log) })
			}
			return g.Wait()
		},
	}
}
