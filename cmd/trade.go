package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"github.com/papertrade/papertrade"
)

type buyCmd struct {
	portfolio string
	amount    string
	price     string
	fee       string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy an asset in a portfolio" }
func (*buyCmd) Usage() string {
	return `pt buy [-p <portfolio>] -q <amount> -price <price> [-fee <fee>] <asset>

  Buys an asset. Cash decreases by amount*price plus the fee; the asset's
  average buy price is updated as a weighted average.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id. Defaults to the current selection.")
	f.StringVar(&c.amount, "q", "", "Quantity to buy.")
	f.StringVar(&c.price, "price", "", "Price per unit.")
	f.StringVar(&c.fee, "fee", "0", "Flat trade fee.")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return executeTrade(ctx, f, papertrade.Buy, c.portfolio, c.amount, c.price, c.fee)
}

type sellCmd struct {
	portfolio string
	amount    string
	price     string
	fee       string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell an asset from a portfolio" }
func (*sellCmd) Usage() string {
	return `pt sell [-p <portfolio>] -q <amount> -price <price> [-fee <fee>] <asset>

  Sells an asset. Cash increases by amount*price minus the fee, and the
  realized profit net of fee is added to the portfolio's allocation and to
  every ancestor's.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id. Defaults to the current selection.")
	f.StringVar(&c.amount, "q", "", "Quantity to sell.")
	f.StringVar(&c.price, "price", "", "Price per unit.")
	f.StringVar(&c.fee, "fee", "0", "Flat trade fee.")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return executeTrade(ctx, f, papertrade.Sell, c.portfolio, c.amount, c.price, c.fee)
}

// executeTrade is the shared body of the buy and sell commands.
func executeTrade(ctx context.Context, f *flag.FlagSet, side papertrade.TradeSide, portfolio, amount, price, fee string) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(fmt.Errorf("expected exactly one asset argument"))
	}
	if amount == "" || price == "" {
		return fail(fmt.Errorf("-q and -price are required"))
	}
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.close(ctx)

	id, err := a.targetPortfolio(portfolio)
	if err != nil {
		return fail(err)
	}
	q, err := quantity(amount)
	if err != nil {
		return fail(err)
	}
	p, err := a.money(price)
	if err != nil {
		return fail(err)
	}
	fe, err := a.money(fee)
	if err != nil {
		return fail(err)
	}

	intent := papertrade.TradeIntent{
		PortfolioID: id,
		Side:        side,
		Asset:       f.Arg(0),
		Amount:      q,
		Price:       p,
		Fee:         fe,
	}
	next, err := a.state.Execute(intent, time.Now())
	if err != nil {
		return fail(err)
	}
	a.commit(next)

	trade := next.TradeHistory[0]
	fmt.Printf("%s %s %s at %s, total %s, fee %s\n", side, q, f.Arg(0), p, trade.TotalValue, fe)
	if side == papertrade.Sell {
		fmt.Printf("Realized PnL %s (net %s)\n", trade.RealizedPnL.SignedString(), trade.NetPnL().SignedString())
	}
	fmt.Printf("Cash balance is %s\n", next.Cash)
	return subcommands.ExitSuccess
}
