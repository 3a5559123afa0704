package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/scheduler"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/validation"
)

type searchCmd struct {
	out output
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "find ETFs by ticker or name" }
func (*searchCmd) Usage() string {
	return `simctl search [-json] <query>

  Searches the local store, then the built-in list of popular ETFs.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.out.json, "json", false, "print JSON")
	c.out.raw = true
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q := strings.Join(f.Args(), " ")
	if err := validation.ValidateSearchQuery(q); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	results, err := a.ETFService.SearchETFs(ctx, q)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	for _, r := range results {
		category := "-"
		if r.Category != nil {
			category = *r.Category
		}
		fmt.Fprintf(&b, "%-6s %-45s %s\n", r.Ticker, r.Name, category)
	}
	if err := c.out.print(os.Stdout, response.ETFSearchResponse{Results: results}, b.String()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "pull recent prices of every known ETF into the store" }
func (*refreshCmd) Usage() string {
	return `simctl refresh

  Runs the scheduled price refresh once, outside its schedule.
`
}

func (*refreshCmd) SetFlags(*flag.FlagSet) {}

func (*refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := scheduler.New(a.Log).RunNow(a.PriceRefreshJob()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
