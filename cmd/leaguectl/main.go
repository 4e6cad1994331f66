package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Dosada05/league-tracker/bootstrap"
	"github.com/Dosada05/league-tracker/config"
	"github.com/Dosada05/league-tracker/console"
	"github.com/Dosada05/league-tracker/services"
	"github.com/Dosada05/league-tracker/storage"
	"github.com/urfave/cli/v2"
)

const (
	leagueFlag    = "league"
	formatFlag    = "format"
	outputFlag    = "output"
	stdoutCLIName = "-"
)

var version = "v0.1.0-dev"

// session is the store stack and service a command works on.
type session struct {
	stores *bootstrap.Stores
	svc    services.LeagueService
	logger *slog.Logger
	cfg    *config.Config
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &session{
		stores: stores,
		svc:    services.NewLeagueService(stores.Store, nil, logger),
		logger: logger,
		cfg:    cfg,
	}, nil
}

// withSession opens the configured stores around a command action.
func withSession(action func(cCtx *cli.Context, s *session) error) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		s, err := openSession(cCtx.Context)
		if err != nil {
			return err
		}
		defer func() {
			if err := s.stores.Close(); err != nil {
				s.logger.Error("failed to close storage", slog.Any("error", err))
			}
		}()
		return action(cCtx, s)
	}
}

func leagueFlagDef() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     leagueFlag,
		Aliases:  []string{"l"},
		Usage:    "league name",
		Required: true,
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	return &cli.App{
		Name:      "leaguectl",
		Usage:     "Manage round-based leagues from the terminal",
		Version:   version,
		Reader:    in,
		Writer:    out,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			{
				Name:  "menu",
				Usage: "Open the interactive menu on a league, creating it when nothing is saved under that name",
				Flags: []cli.Flag{leagueFlagDef()},
				Action: withSession(func(cCtx *cli.Context, s *session) error {
					ctx := cCtx.Context
					name := cCtx.String(leagueFlag)
					league, err := s.svc.LoadLeague(ctx, name)
					if errors.Is(err, services.ErrLeagueNotFound) {
						league, err = s.svc.CreateLeague(ctx, name)
					}
					if err != nil {
						return err
					}
					return console.New(s.svc, league.Name, cCtx.App.Reader, cCtx.App.Writer).Run(ctx)
				}),
			},
			{
				Name:  "list",
				Usage: "List saved leagues",
				Action: withSession(func(cCtx *cli.Context, s *session) error {
					saved, err := s.svc.ListSaved(cCtx.Context)
					if err != nil {
						return err
					}
					if len(saved) == 0 {
						fmt.Fprintln(cCtx.App.Writer, "No saved leagues.")
						return nil
					}
					for _, key := range saved {
						fmt.Fprintln(cCtx.App.Writer, key)
					}
					return nil
				}),
			},
			{
				Name:  "standings",
				Usage: "Print the team standings of a saved league",
				Flags: []cli.Flag{leagueFlagDef()},
				Action: withSession(func(cCtx *cli.Context, s *session) error {
					league, err := s.svc.LoadLeague(cCtx.Context, cCtx.String(leagueFlag))
					if err != nil {
						return err
					}
					rows, err := s.svc.Standings(cCtx.Context, league.Name)
					if err != nil {
						return err
					}
					fmt.Fprintf(cCtx.App.Writer, "%s, round %d\n", league.Name, league.CurrentRound)
					return console.WriteStandings(cCtx.App.Writer, rows)
				}),
			},
			{
				Name:  "rankings",
				Usage: "Print the player win-rate rankings of a saved league",
				Flags: []cli.Flag{leagueFlagDef()},
				Action: withSession(func(cCtx *cli.Context, s *session) error {
					league, err := s.svc.LoadLeague(cCtx.Context, cCtx.String(leagueFlag))
					if err != nil {
						return err
					}
					rows, err := s.svc.PlayerRankings(cCtx.Context, league.Name)
					if err != nil {
						return err
					}
					fmt.Fprintf(cCtx.App.Writer, "%s, round %d\n", league.Name, league.CurrentRound)
					return console.WriteRankings(cCtx.App.Writer, rows)
				}),
			},
			{
				Name:  "export",
				Usage: "Write a saved league snapshot as YAML or JSON",
				Flags: []cli.Flag{
					leagueFlagDef(),
					&cli.StringFlag{
						Name:  formatFlag,
						Usage: "yaml or json",
						Value: "yaml",
					},
					&cli.StringFlag{
						Name:    outputFlag,
						Aliases: []string{"o"},
						Usage:   "The location to write the snapshot. Can be a file path or \"-\" (for stdout).",
						Value:   stdoutCLIName,
					},
				},
				Action: withSession(func(cCtx *cli.Context, s *session) error {
					codec, err := storage.CodecFor(cCtx.String(formatFlag))
					if err != nil {
						return err
					}
					league, err := s.stores.Store.Load(cCtx.Context, cCtx.String(leagueFlag))
					if err != nil {
						return err
					}

					output := cCtx.String(outputFlag)
					if output == stdoutCLIName {
						return storage.EncodeLeague(codec, cCtx.App.Writer, league)
					}
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					if err := storage.EncodeLeague(codec, f, league); err != nil {
						f.Close()
						return err
					}
					if err := f.Close(); err != nil {
						return err
					}
					s.logger.Info("league exported", slog.String("league", league.Name), slog.String("output", output))
					return nil
				}),
			},
		},
	}
}

func main() {
	if err := newApp(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "leaguectl: %v\n", err)
		os.Exit(1)
	}
}
