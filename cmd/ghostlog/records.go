package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Black-And-White-Club/ghost-log/app"
	recordsservice "github.com/Black-And-White-Club/ghost-log/app/modules/records/application"
	recordsdomain "github.com/Black-And-White-Club/ghost-log/app/modules/records/domain"
	"github.com/Black-And-White-Club/ghost-log/app/modules/runfilter"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v2"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the whole snapshot as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, stdout when empty"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(application *app.App) error {
				data, err := application.Records.Export(c.Context)
				if err != nil {
					return err
				}
				return writeOutput(c, c.String("out"), data)
			})
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "replace all data with a previously exported file",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("import requires a FILE argument", 2)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			return withApp(c, func(application *app.App) error {
				snap, err := application.Records.Import(c.Context, data)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Imported %d runs, %d maps, %d ghosts, %d players\n",
					len(snap.Runs), len(snap.Maps), len(snap.Ghosts), len(snap.Players))
				return nil
			})
		},
	}
}

func clearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "delete all data, or only runs",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "runs-only", Usage: "keep reference data and delete only runs"},
		},
		Action: func(c *cli.Context) error {
			return withApp(c, func(application *app.App) error {
				if c.Bool("runs-only") {
					n, err := application.Records.ClearRuns(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Removed %d runs\n", n)
					return nil
				}
				if err := application.Records.ClearAll(c.Context); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, "Cleared all data")
				return nil
			})
		},
	}
}

// filterFlags are shared by every command that selects runs.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "date", Usage: `run date, YYYY-MM-DD or natural text such as "yesterday"`},
		&cli.StringFlag{Name: "player", Usage: "player name"},
		&cli.StringFlag{Name: "map", Usage: "map name or id"},
		&cli.StringFlag{Name: "ghost", Usage: "guessed ghost name or id"},
		&cli.StringFlag{Name: "possession", Usage: `cursed possession name or id, or "none"`},
		&cli.StringFlag{Name: "deaths", Usage: `player name, "none" or "any"`},
		&cli.StringSliceFlag{Name: "roster", Usage: "exact set of players, repeatable"},
	}
}

// criteriaFromFlags turns filter flags into criteria, resolving names to ids.
func criteriaFromFlags(c *cli.Context, application *app.App) (runfilter.Criteria, error) {
	crit := runfilter.NewCriteria()

	date, err := runfilter.AnchoredDateParser(application.Clock).Parse(c.String("date"))
	if err != nil {
		return crit, err
	}
	crit = crit.With(runfilter.FieldDate, date)
	crit = crit.With(runfilter.FieldPlayer, strings.TrimSpace(c.String("player")))
	crit = crit.With(runfilter.FieldDeaths, strings.TrimSpace(c.String("deaths")))

	refs := []struct {
		flag  string
		field runfilter.Field
		kind  recordsservice.Kind
	}{
		{"map", runfilter.FieldMap, recordsservice.KindMaps},
		{"ghost", runfilter.FieldGhost, recordsservice.KindGhosts},
		{"possession", runfilter.FieldCursedPossession, recordsservice.KindCursedPossessions},
	}
	for _, ref := range refs {
		v, err := resolveRef(c.Context, application.Records, ref.kind, c.String(ref.flag))
		if err != nil {
			return crit, err
		}
		crit = crit.With(ref.field, v)
	}
	crit.ExactRoster = c.StringSlice("roster")
	return crit, nil
}

// resolveRef returns value as a filter id: ids and sentinels pass through, names are
// looked up.
func resolveRef(ctx context.Context, svc *recordsservice.Service, kind recordsservice.Kind, value string) (string, error) {
	value = strings.TrimSpace(value)
	switch strings.ToLower(value) {
	case "", runfilter.All:
		return "", nil
	case runfilter.None:
		return runfilter.None, nil
	}
	if _, err := strconv.Atoi(value); err == nil {
		return value, nil
	}
	id, err := svc.ResolveID(ctx, kind, value)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(id), nil
}

func runsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "browse logged runs",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "print runs matching the filters, newest first",
				Flags: filterFlags(),
				Action: func(c *cli.Context) error {
					return withApp(c, func(application *app.App) error {
						crit, err := criteriaFromFlags(c, application)
						if err != nil {
							return err
						}
						snap, err := application.Records.Snapshot(c.Context)
						if err != nil {
							return err
						}
						res := runfilter.Apply(snap, crit)
						fmt.Fprintln(c.App.Writer, runsTable(res.Runs))
						fmt.Fprintf(c.App.Writer, "%d runs\n", res.Total)
						return nil
					})
				},
			},
		},
	}
}

func runsTable(views []recordsdomain.RunView) string {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		result := "-"
		if v.ActualGhostID != nil {
			result = "wrong"
			if v.WasCorrect {
				result = "correct"
			}
		}
		rows = append(rows, []string{
			v.Date,
			strconv.Itoa(v.RunNumber),
			v.MapName,
			v.GhostName,
			result,
			strings.Join(v.PlayerNames(), ", "),
			v.FormattedRunTime,
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "#", "Map", "Ghost", "Result", "Players", "Time").
		Rows(rows...).
		String()
}

func writeOutput(c *cli.Context, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := c.App.Writer.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(c.App.ErrWriter, "Wrote %s\n", path)
	return nil
}
