package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/report"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/validation"
)

type compareCmd struct {
	file  string
	title string
	out   output
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare up to five scenarios over one window" }
func (*compareCmd) Usage() string {
	return `simctl compare [-f <request.json>] [-title <title>] [-json | -raw]

  Runs every scenario of a comparison request, the same body as
  POST /api/v1/simulation/compare, and prints them side by side.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "-", "request file, - for stdin")
	f.StringVar(&c.title, "title", "Comparison", "report title")
	f.BoolVar(&c.out.json, "json", false, "print the API response body instead of a report")
	f.BoolVar(&c.out.raw, "raw", false, "print markdown without terminal styling")
}

func (c *compareCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req, err := readRequest[request.ComparisonRequest](c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := validation.ValidateComparisonRequest(req); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	in := req.ToModel()
	results, err := a.SimulationService.CompareScenarios(ctx, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	md, err := report.Comparison(report.ComparisonData{
		Title:   c.title,
		Start:   in.StartDate,
		End:     in.EndDate,
		Results: results,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := c.out.print(os.Stdout, response.ComparisonResponse{Scenarios: results}, md); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
