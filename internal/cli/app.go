// Package cli implements the mediwallet command line client on top of a
// domain.Backend.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	ucli "github.com/urfave/cli/v2"

	"mediwallet/internal/config"
	"mediwallet/internal/domain"
)

// OpenFunc opens the backend a command operates on.
type OpenFunc func(ctx context.Context) (domain.Backend, error)

type app struct {
	in      io.Reader
	out     io.Writer
	open    OpenFunc
	polling config.PollingConfig
}

// NewApp builds the command tree. Interactive input is read from in and
// output goes to out; polling sets the refresh intervals of the watch
// commands.
func NewApp(in io.Reader, out io.Writer, open OpenFunc, polling config.PollingConfig) *ucli.App {
	a := &app{in: in, out: out, open: open, polling: polling}
	return &ucli.App{
		Name:      "mediwallet",
		Usage:     "manage personal medical records",
		Writer:    out,
		ErrWriter: out,
		Commands: []*ucli.Command{
			a.resultsCommand(),
			a.statsCommand(),
			a.settingsCommand(),
			a.chatCommand(),
			a.shareCommand(),
		},
	}
}

// withBackend opens the backend for the duration of fn.
func (a *app) withBackend(fn func(c *ucli.Context, b domain.Backend) error) ucli.ActionFunc {
	return func(c *ucli.Context) error {
		b, err := a.open(c.Context)
		if err != nil {
			return fmt.Errorf("open backend: %w", err)
		}
		defer b.Close()
		return fn(c, b)
	}
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
