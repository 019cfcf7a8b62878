package cmd

import (
	"context"
	"flag"
	"time"

	"github.com/google/subcommands"
	"github.com/papertrade/papertrade/renderer"
)

type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "show open and closed positions" }
func (*positionsCmd) Usage() string {
	return `pt positions

  Reconstructs positions from the trade ledger: consecutive trades on the
  same asset in the same portfolio, from first buy to full exit.
`
}
func (*positionsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.close(ctx)

	printMarkdown(renderer.RenderPositions(renderer.NewPositionsReport(a.state, time.Now())))
	return subcommands.ExitSuccess
}

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show cash, net worth and the portfolio tree" }
func (*summaryCmd) Usage() string {
	return `pt summary

  Shows the account's cash, net worth, and every portfolio with its
  allocation, holdings and unrealized profit.
`
}
func (*summaryCmd) SetFlags(_ *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.close(ctx)

	printMarkdown(renderer.RenderSummary(renderer.NewSummary(a.state, time.Now())))
	return subcommands.ExitSuccess
}

type networthCmd struct{}

func (*networthCmd) Name() string     { return "networth" }
func (*networthCmd) Synopsis() string { return "show the net-worth history" }
func (*networthCmd) Usage() string {
	return `pt networth

  Shows the net-worth sample recorded after each mutating operation.
`
}
func (*networthCmd) SetFlags(_ *flag.FlagSet) {}

func (c *networthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.close(ctx)

	printMarkdown(renderer.RenderNetWorth(renderer.NewNetWorthReport(a.state)))
	return subcommands.ExitSuccess
}
