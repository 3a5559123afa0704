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

type runCmd struct {
	file  string
	title string
	out   output
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "simulate one portfolio" }
func (*runCmd) Usage() string {
	return `simctl run [-f <request.json>] [-title <title>] [-json | -raw]

  Simulates the portfolio described by a run request, the same body as
  POST /api/v1/simulation/run, and prints the summary and monthly values.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "-", "request file, - for stdin")
	f.StringVar(&c.title, "title", "Simulation", "report title")
	f.BoolVar(&c.out.json, "json", false, "print the API response body instead of a report")
	f.BoolVar(&c.out.raw, "raw", false, "print markdown without terminal styling")
}

func (c *runCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req, err := readRequest[request.SimulationRequest](c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := validation.ValidateSimulationRequest(req); err != nil {
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
	result, err := a.SimulationService.RunSimulation(ctx, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	md, err := report.Simulation(report.SimulationData{
		Title:     c.title,
		Portfolio: in.Portfolio,
		Start:     in.StartDate,
		End:       in.EndDate,
		Result:    result,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := c.out.print(os.Stdout, response.NewSimulationResponse(result), md); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
