// Package cmd implements the CLI application to manage a paper-trading account.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/papertrade/papertrade"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Commands is the list of subcommands registered by the main package.
var Commands = []subcommands.Command{
	&depositCmd{},
	&withdrawCmd{},
	&createCmd{},
	&editCmd{},
	&rmCmd{},
	&selectCmd{},
	&buyCmd{},
	&sellCmd{},
	&priceCmd{},
	&tradesCmd{},
	&deleteTradeCmd{},
	&positionsCmd{},
	&summaryCmd{},
	&networthCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "papertrade.toml", "Path to the account configuration file (TOML)")
var accountName = flag.String("account", "", "Account id, overriding the one in the configuration file")
var verbose = flag.Bool("v", false, "Enable debug logging")

// app holds everything a command needs for one run: the loaded account
// state, the autosaver wiring both stores, and the logger.
type app struct {
	cfg     *papertrade.Config
	logger  zerolog.Logger
	state   *papertrade.State
	saver   *papertrade.Autosaver
	surreal *papertrade.SurrealStore
}

// openApp loads the configuration, connects the stores and loads the
// account state. An unreachable remote store degrades to local-only
// operation with a warning.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := papertrade.LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if *accountName != "" {
		cfg.Account = *accountName
	}

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	cache, err := papertrade.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	var remote papertrade.Store
	var sdb *papertrade.SurrealStore
	if cfg.Surreal.Endpoint != "" {
		sdb, err = papertrade.NewSurrealStore(ctx, papertrade.SurrealOptions{
			Endpoint:  cfg.Surreal.Endpoint,
			Namespace: cfg.Surreal.Namespace,
			Database:  cfg.Surreal.Database,
			Username:  cfg.Surreal.Username,
			Password:  cfg.Surreal.Password,
		})
		if err != nil {
			logger.Warn().Err(err).Str("endpoint", cfg.Surreal.Endpoint).
				Msg("remote store unavailable, operating on the local cache")
			sdb = nil
		} else {
			remote = sdb
		}
	}

	state, err := papertrade.OpenAccount(ctx, remote, cache, cfg.Account, cfg.Seed(), logger)
	if err != nil {
		return nil, err
	}
	// The display conversion settings follow the configuration file.
	if cfg.SecondaryCurrency != "" {
		state, err = state.SetSecondaryRate(cfg.SecondaryCurrency, decimal.NewFromFloat(cfg.SecondaryRate))
		if err != nil {
			return nil, err
		}
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		state:   state,
		saver:   papertrade.NewAutosaver(remote, cache, cfg.Account, cfg.Debounce(), logger),
		surreal: sdb,
	}, nil
}

// commit installs the new snapshot and schedules persistence.
func (a *app) commit(s *papertrade.State) {
	a.state = s
	a.saver.Commit(s)
}

// close flushes any pending save and releases the remote connection.
func (a *app) close(ctx context.Context) {
	a.saver.Close()
	if a.surreal != nil {
		if err := a.surreal.Close(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("closing remote store")
		}
	}
}

// money parses a decimal string into a Money in the account currency.
func (a *app) money(s string) (papertrade.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return papertrade.Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return papertrade.M(d, a.cfg.Currency), nil
}

// quantity parses a decimal string into a Quantity.
func quantity(s string) (papertrade.Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return papertrade.Quantity{}, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	return papertrade.Q(d), nil
}

// targetPortfolio resolves the portfolio a command operates on: the explicit
// flag wins, then the account's current selection.
func (a *app) targetPortfolio(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if a.state.SelectedID != "" {
		return a.state.SelectedID, nil
	}
	return "", fmt.Errorf("no portfolio selected, use -p or the select command")
}

// printMarkdown writes a rendered report to stdout.
func printMarkdown(md string) {
	fmt.Println(md)
}

// fail prints the error and maps it to the subcommands exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
