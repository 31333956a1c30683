// cmd/parkgolfctl/main.go
// Operator tool for the scorecard store: import and dump browser
// localStorage backups, export records, print statistics.
//
// Usage:
//
//	STORE_BACKEND=postgres DATABASE_URL=... go run ./cmd/parkgolfctl import dump.json
//	go run ./cmd/parkgolfctl export xlsx -o records.xlsx
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/padraicbc/parkgolf/backup"
	"github.com/padraicbc/parkgolf/config"
	"github.com/padraicbc/parkgolf/db"
	"github.com/padraicbc/parkgolf/export"
	"github.com/padraicbc/parkgolf/kv"
	applog "github.com/padraicbc/parkgolf/logger"
	"github.com/padraicbc/parkgolf/models"
	"github.com/padraicbc/parkgolf/records"
	"github.com/padraicbc/parkgolf/stats"
)

const (
	outputFlag    = "output"
	recentFlag    = "recent"
	stdoutCLIName = "-"
)

type env struct {
	cfg   *config.Config
	log   *zap.Logger
	store kv.Store
	close func() error
}

func open(c *cli.Context) (*env, error) {
	cfg := config.Load()
	logger, err := applog.New(cfg.ServiceName+"ctl", cfg.Debug)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	store, closeFn, err := db.OpenStore(c.Context, cfg)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: logger, store: store, close: closeFn}, nil
}

func (e *env) Close() {
	if err := e.close(); err != nil {
		e.log.Warn("closing store", zap.Error(err))
	}
	_ = e.log.Sync()
}

func (e *env) records(c *cli.Context) ([]models.GameRecord, error) {
	return records.NewStore(e.store, records.Options{Dedupe: e.cfg.DedupeRecords}, e.log).List(c.Context)
}

func output(c *cli.Context) (io.WriteCloser, error) {
	path := c.String(outputFlag)
	if path == "" || path == stdoutCLIName {
		return os.Stdout, nil
	}
	return os.Create(path)
}

var outputFlagDef = &cli.StringFlag{
	Name:    outputFlag,
	Aliases: []string{"o"},
	Value:   stdoutCLIName,
	Usage:   "write to `FILE` (- for stdout)",
}

func main() {
	app := &cli.App{
		Name:  "parkgolfctl",
		Usage: "manage the park-golf scorecard store",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "load a browser localStorage dump",
				ArgsUsage: "DUMP.json",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("import needs exactly one dump file", 2)
					}
					f, err := os.Open(c.Args().First())
					if err != nil {
						return err
					}
					defer f.Close()

					e, err := open(c)
					if err != nil {
						return err
					}
					defer e.Close()

					sum, err := backup.Import(c.Context, e.store, f, e.log)
					if err != nil {
						return err
					}
					fmt.Fprintf(os.Stderr, "%-12s %d\n%-12s %v\n%-12s %d\n%-12s %d\n",
						"venues", sum.Venues, "user name", sum.UserName, "game states", sum.GameStates, "records", sum.Records)
					for _, k := range sum.Skipped {
						fmt.Fprintf(os.Stderr, "skipped      %s\n", k)
					}
					return nil
				},
			},
			{
				Name:  "dump",
				Usage: "write every stored key as a localStorage dump",
				Flags: []cli.Flag{outputFlagDef},
				Action: func(c *cli.Context) error {
					e, err := open(c)
					if err != nil {
						return err
					}
					defer e.Close()

					w, err := output(c)
					if err != nil {
						return err
					}
					defer w.Close()

					n, err := backup.Dump(c.Context, e.store, w)
					if err != nil {
						return err
					}
					fmt.Fprintf(os.Stderr, "%d keys written\n", n)
					return nil
				},
			},
			{
				Name:  "export",
				Usage: "export saved records",
				Subcommands: []*cli.Command{
					exportCommand("csv", export.WriteCSV),
					exportCommand("xlsx", export.WriteXLSX),
				},
			},
			{
				Name:  "stats",
				Usage: "print the statistics series as JSON",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: recentFlag, Aliases: []string{"n"}, Value: stats.DefaultRecentRounds, Usage: "length of the recent-rounds series"},
				},
				Action: func(c *cli.Context) error {
					e, err := open(c)
					if err != nil {
						return err
					}
					defer e.Close()

					list, err := e.records(c)
					if err != nil {
						return err
					}
					loc := e.cfg.Location()
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(map[string]any{
						"monthly":    stats.MonthlyAverage(list, loc),
						"byVenue":    stats.ByVenueAverage(list),
						"recent":     stats.RecentRoundsSeries(list, c.Int(recentFlag)),
						"playCounts": stats.PlayCounts(list),
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type writeFunc func(w io.Writer, list []models.GameRecord, loc *time.Location) error

func exportCommand(format string, write writeFunc) *cli.Command {
	return &cli.Command{
		Name:  format,
		Usage: "write the record table as " + format,
		Flags: []cli.Flag{outputFlagDef},
		Action: func(c *cli.Context) error {
			e, err := open(c)
			if err != nil {
				return err
			}
			defer e.Close()

			list, err := e.records(c)
			if err != nil {
				return err
			}
			w, err := output(c)
			if err != nil {
				return err
			}
			defer w.Close()

			if err := write(w, list, e.cfg.Location()); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "%d records exported\n", len(list))
			return nil
		},
	}
}
