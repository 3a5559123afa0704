package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"

	"github.com/ndewijer/ETF-Simulator-Backend/internal/app"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/config"
	"github.com/ndewijer/ETF-Simulator-Backend/internal/logging"
)

// output selects how a command prints its result.
type output struct {
	json bool
	raw  bool
}

func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// Logs go to stderr so that -json output stays parseable.
	logger := logging.NewWithWriter(logging.Config{Level: "warn", Pretty: true}, os.Stderr)
	return app.New(ctx, cfg, logger)
}

// readRequest decodes the JSON request in file, or stdin when file is "-".
func readRequest[T any](file string) (T, error) {
	var req T

	var r io.Reader = os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return req, err
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("invalid request in %s: %w", file, err)
	}
	return req, nil
}

// print writes v as indented JSON or md as a terminal rendering.
func (o output) print(w io.Writer, v any, md string) error {
	if o.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	if o.raw {
		_, err := io.WriteString(w, md)
		return err
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return err
	}
	out, err := renderer.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
