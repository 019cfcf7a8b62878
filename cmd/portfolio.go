package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"github.com/papertrade/papertrade"
)

type createCmd struct {
	parent     string
	allocation string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a portfolio" }
func (*createCmd) Usage() string {
	return `pt create [-parent <id>] -a <allocation> <name>

  Creates a portfolio under the given parent, or at the root when no parent
  is given. The allocation plus the allocations of its siblings must fit in
  the parent's allocation (or in the account net worth for roots).
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.parent, "parent", "", "Parent portfolio id. Empty creates a root portfolio.")
	f.StringVar(&c.allocation, "a", "0", "Budget allocation for the new portfolio.")
}

func (c *createCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(fmt.Errorf("expected exactly one name argument"))
	}
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.close(ctx)

	allocation, err := a.money(c.allocation)
	if err != nil {
		return fail(err)
	}
	next, err := a.state.CreatePortfolio(c.parent, f.Arg(0), allocation)
	if err != nil {
		return fail(err)
	}
	a.commit(next)
	fmt.Printf("Created portfolio %q with allocation %s\n", f.Arg(0), allocation)
	return subcommands.ExitSuccess
}

type editCmd struct {
	portfolio  string
	name       string
	allocation string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "rename or rebudget a portfolio" }
func (*editCmd) Usage() string {
	return `pt edit [-p <id>] [-name <name>] [-a <allocation>]

  Updates the name and/or the allocation of a portfolio. Fields left out
  keep their value. Allocations are not re-validated against the parent.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id. Defaults to the current selection.")
	f.StringVar(&c.name, "name", "", "New display name.")
	f.StringVar(&c.allocation, "a", "", "New budget allocation.")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.close(ctx)

	id, err := a.targetPortfolio(c.portfolio)
	if err != nil {
		return fail(err)
	}
	// A negative allocation is the sentinel for "unchanged".
	allocation := papertrade.M(-1, a.cfg.Currency)
	if c.allocation != "" {
		if allocation, err = a.money(c.allocation); err != nil {
			return fail(err)
		}
	}
	next, err := a.state.EditPortfolio(id, c.name, allocation)
	if err != nil {
		return fail(err)
	}
	a.commit(next)
	fmt.Printf("Updated portfolio %s\n", id)
	return subcommands.ExitSuccess
}

type rmCmd struct {
	portfolio string
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a portfolio and its subtree" }
func (*rmCmd) Usage() string {
	return `pt rm -p <id>

  Deletes a portfolio and all its descendants. Their trades remain in the
  ledger as history.
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio id to delete.")
}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		return fail(fmt.Errorf("portfolio id is required"))
	}
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.close(ctx)

	next, err := a.state.DeletePortfolio(c.portfolio, time.Now())
	if err != nil {
		return fail(err)
	}
	a.commit(next)
	fmt.Printf("Deleted portfolio %s\n", c.portfolio)
	return subcommands.ExitSuccess
}

type selectCmd struct{}

func (*selectCmd) Name() string     { return "select" }
func (*selectCmd) Synopsis() string { return "select the working portfolio" }
func (*selectCmd) Usage() string {
	return `pt select [<id>]

  Records the portfolio that subsequent commands default to. Without an
  argument the selection is cleared.
`
}
func (*selectCmd) SetFlags(_ *flag.FlagSet) {}

func (c *selectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail(err)
	}
	defer a.close(ctx)

	next, err := a.state.SelectPortfolio(f.Arg(0))
	if err != nil {
		return fail(err)
	}
	a.commit(next)
	if f.Arg(0) == "" {
		fmt.Println("Selection cleared")
	} else {
		fmt.Printf("Selected portfolio %s\n", f.Arg(0))
	}
	return subcommands.ExitSuccess
}
