package main

import (
	"github.com/Black-And-White-Club/ghost-log/app"
	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/Black-And-White-Club/ghost-log/app/modules/reports"
	"github.com/Black-And-White-Club/ghost-log/app/modules/runfilter"
	"github.com/urfave/cli/v2"
)

func reportsCommand() *cli.Command {
	outFlag := func(def string) cli.Flag {
		return &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: def, Usage: `output file, "-" for stdout`}
	}
	return &cli.Command{
		Name:  "reports",
		Usage: "render reports over the filtered runs",
		Subcommands: []*cli.Command{
			{
				Name:  "xlsx",
				Usage: "write the runs as a spreadsheet",
				Flags: append(filterFlags(), outFlag("ghostlog-runs.xlsx")),
				Action: func(c *cli.Context) error {
					return withApp(c, func(application *app.App) error {
						views, err := filteredViews(c, application)
						if err != nil {
							return err
						}
						data, err := reports.RunsWorkbook(views)
						if err != nil {
							return err
						}
						return writeOutput(c, c.String("out"), data)
					})
				},
			},
			{
				Name:  "chart",
				Usage: "write a PNG bar chart of ghost frequency",
				Flags: append(filterFlags(), outFlag("ghostlog-ghosts.png")),
				Action: func(c *cli.Context) error {
					return withApp(c, func(application *app.App) error {
						views, err := filteredViews(c, application)
						if err != nil {
							return err
						}
						data, err := reports.GhostFrequencyChart(reports.GhostStats(views), reports.DefaultPalette)
						if err != nil {
							return err
						}
						return writeOutput(c, c.String("out"), data)
					})
				},
			},
		},
	}
}

func filteredViews(c *cli.Context, application *app.App) ([]recordsdomain.RunView, error) {
	crit, err := criteriaFromFlags(c, application)
	if err != nil {
		return nil, err
	}
	snap, err := application.Records.Snapshot(c.Context)
	if err != nil {
		return nil, err
	}
	return runfilter.Apply(snap, crit).Runs, nil
}
