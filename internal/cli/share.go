package cli

import (
	"fmt"
	"time"

	ucli "github.com/urfave/cli/v2"

	"mediwallet/internal/domain"
)

func (a *app) shareCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "share",
		Usage: "time-limited access to a test result",
		Subcommands: []*ucli.Command{
			{
				Name:      "create",
				ArgsUsage: "ID",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "recipient", Aliases: []string{"r"}, Required: true},
					&ucli.StringFlag{Name: "email"},
					&ucli.DurationFlag{Name: "expires-in", Value: 24 * time.Hour, Usage: "at most 48h"},
				},
				Action: a.withBackend(a.createShare),
			},
			{
				Name:      "list",
				ArgsUsage: "ID",
				Action:    a.withBackend(a.listShares),
			},
			{
				Name:      "open",
				ArgsUsage: "TOKEN",
				Action:    a.withBackend(a.openShare),
			},
		},
	}
}

func (a *app) createShare(c *ucli.Context, b domain.Backend) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	in := domain.NewShare{
		TestResultID:  id,
		RecipientName: c.String("recipient"),
		ExpiresAt:     time.Now().Add(c.Duration("expires-in")),
	}
	if c.IsSet("email") {
		v := c.String("email")
		in.RecipientEmail = &v
	}
	link, err := b.CreateShare(c.Context, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "share %d expires %s\ntoken: %s\n", link.Share.ID, link.Share.ExpiresAt.Local().Format(time.RFC3339), link.Token)
	return nil
}

func (a *app) listShares(c *ucli.Context, b domain.Backend) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	shares, err := b.ListShares(c.Context, id)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tRECIPIENT\tEXPIRES\tACTIVE")
	for _, s := range shares {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\n", s.ID, s.RecipientName, s.ExpiresAt.Local().Format(time.RFC3339), s.Active)
	}
	return tw.Flush()
}

func (a *app) openShare(c *ucli.Context, b domain.Backend) error {
	shared, err := b.OpenShare(c.Context, c.Args().First())
	if err != nil {
		return err
	}
	return a.printJSON(shared)
}
