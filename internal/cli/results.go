package cli

import (
	"fmt"
	"strconv"

	ucli "github.com/urfave/cli/v2"

	"mediwallet/internal/domain"
)

func (a *app) resultsCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "results",
		Usage: "test results",
		Subcommands: []*ucli.Command{
			{
				Name:   "list",
				Usage:  "list test results, newest first",
				Action: a.withBackend(a.listResults),
			},
			{
				Name:      "add",
				Usage:     "store an image and create a test result",
				ArgsUsage: "IMAGE",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "test type", Required: true},
					&ucli.StringFlag{Name: "results", Usage: "result values"},
					&ucli.StringFlag{Name: "notes", Usage: "free-form notes"},
				},
				Action: a.withBackend(a.addResult),
			},
			{
				Name:      "show",
				ArgsUsage: "ID",
				Action:    a.withBackend(a.showResult),
			},
			{
				Name:      "delete",
				ArgsUsage: "ID",
				Action:    a.withBackend(a.deleteResult),
			},
			{
				Name:      "analyze",
				Usage:     "run AI analysis on the test result image",
				ArgsUsage: "ID",
				Flags: []ucli.Flag{
					&ucli.BoolFlag{Name: "save", Usage: "store the analysis on the record"},
				},
				Action: a.withBackend(a.analyzeResult),
			},
		},
	}
}

func argID(c *ucli.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: expected a test result id", domain.ErrValidation)
	}
	return id, nil
}

func (a *app) listResults(c *ucli.Context, b domain.Backend) error {
	list, err := b.GetAllTestResults(c.Context)
	if err != nil {
		return err
	}
	tw := a.table()
	fmt.Fprintln(tw, "ID\tCREATED\tTYPE\tRESULTS")
	for _, r := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.TestType, deref(r.Results))
	}
	return tw.Flush()
}

func (a *app) addResult(c *ucli.Context, b domain.Backend) error {
	src := c.Args().First()
	if src == "" {
		return fmt.Errorf("%w: image path is required", domain.ErrValidation)
	}
	in := domain.NewTestResult{TestType: c.String("type")}
	if c.IsSet("results") {
		v := c.String("results")
		in.Results = &v
	}
	if c.IsSet("notes") {
		v := c.String("notes")
		in.Notes = &v
	}
	id, _, err := b.AddTestResultWithImage(c.Context, in, domain.ImageSource{Path: src})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created test result %d\n", id)
	return nil
}

func (a *app) showResult(c *ucli.Context, b domain.Backend) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	r, err := b.GetTestResultByID(c.Context, id)
	if err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("test result %d: %w", id, domain.ErrNotFound)
	}
	return a.printJSON(r)
}

func (a *app) deleteResult(c *ucli.Context, b domain.Backend) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	if err := b.DeleteTestResult(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted test result %d\n", id)
	return nil
}

func (a *app) analyzeResult(c *ucli.Context, b domain.Backend) error {
	id, err := argID(c)
	if err != nil {
		return err
	}
	text, err := b.AnalyzeTestResult(c.Context, id, c.Bool("save"))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, text)
	return nil
}

func (a *app) statsCommand() *ucli.Command {
	return &ucli.Command{
		Name:  "stats",
		Usage: "record count and image storage size",
		Action: a.withBackend(func(c *ucli.Context, b domain.Backend) error {
			s, err := b.GetDatabaseStats(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "tests: %d\nimage bytes: %d\n", s.TotalTests, s.TotalSize)
			return nil
		}),
	}
}
