package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
)

type priceCmd struct {
	portfolio string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "set the current price of a held asset" }
func (*priceCmd) Usage() string {
	return `pt price [-p <portfolio>] <asset> <price>

  Updates the current price used to value a holding. Prices are manual;
  there is no market data feed.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id. Defaults to the current selection.")
}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return fail(fmt.Errorf("expected asset and price arguments"))
	}
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.close(ctx)

	id, err := a.targetPortfolio(c.portfolio)
	if err != nil {
		return fail(err)
	}
	price, err := a.money(f.Arg(1))
	if err != nil {
		return fail(err)
	}
	next, err := a.state.SetPrice(id, f.Arg(0), price, time.Now())
	if err != nil {
		return fail(err)
	}
	a.commit(next)
	fmt.Printf("Priced %s at %s\n", f.Arg(0), price)
	return subcommands.ExitSuccess
}
