package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"github.com/papertrade/papertrade/renderer"
)

type tradesCmd struct {
	head int
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "list the trade ledger, newest first" }
func (*tradesCmd) Usage() string {
	return `pt trades [-head <n>]

  Lists the recorded trades with their ids, for use with delete-trade.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.head, "head", 0, "Show only the first N trades.")
}

func (c *tradesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.close(ctx)

	s := a.state
	if c.head > 0 && len(s.TradeHistory) > c.head {
		trimmed := *s
		trimmed.TradeHistory = s.TradeHistory[:c.head]
		s = &trimmed
	}
	printMarkdown(renderer.TradesMarkdown(s))
	return subcommands.ExitSuccess
}

type deleteTradeCmd struct{}

func (*deleteTradeCmd) Name() string     { return "delete-trade" }
func (*deleteTradeCmd) Synopsis() string { return "remove a trade and rebuild the affected portfolio" }
func (*deleteTradeCmd) Usage() string {
	return `pt delete-trade <trade-id>

  Removes a trade from the ledger, reverses its direct cash effect, and
  rebuilds the affected portfolio's holdings by replaying its surviving
  trades. Deleting a sell also unwinds its profit propagation.
`
}
func (*deleteTradeCmd) SetFlags(_ *flag.FlagSet) {}

func (c *deleteTradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(fmt.Errorf("expected exactly one trade id argument"))
	}
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.close(ctx)

	next, err := a.state.DeleteTrade(f.Arg(0), time.Now())
	if err != nil {
		return fail(err)
	}
	a.commit(next)
	fmt.Printf("Deleted trade %s, cash balance is %s\n", f.Arg(0), next.Cash)
	return subcommands.ExitSuccess
}
