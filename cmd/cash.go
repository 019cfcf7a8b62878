package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
)

type depositCmd struct{}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "add cash to the account" }
func (*depositCmd) Usage() string {
	return `pt deposit <amount>

  Adds cash to the account balance and records a net-worth sample.
`
}
func (*depositCmd) SetFlags(_ *flag.FlagSet) {}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(fmt.Errorf("expected exactly one amount argument"))
	}
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.close(ctx)

	amount, err := a.money(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	next, err := a.state.Deposit(amount, time.Now())
	if err != nil {
		return fail(err)
	}
	a.commit(next)
	fmt.Printf("Deposited %s, cash balance is %s\n", amount, next.Cash)
	return subcommands.ExitSuccess
}

type withdrawCmd struct{}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "remove cash from the account" }
func (*withdrawCmd) Usage() string {
	return `pt withdraw <amount>

  Removes cash from the account balance. Fails when the balance is
  insufficient.
`
}
func (*withdrawCmd) SetFlags(_ *flag.FlagSet) {}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(fmt.Errorf("expected exactly one amount argument"))
	}
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.close(ctx)

	amount, err := a.money(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	next, err := a.state.Withdraw(amount, time.Now())
	if err != nil {
		return fail(err)
	}
	a.commit(next)
	fmt.Printf("Withdrew %s, cash balance is %s\n", amount, next.Cash)
	return subcommands.ExitSuccess
}
