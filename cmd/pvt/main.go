// Command pvt generates and samples motion trajectories from CSV files.
//
// The input CSV names its columns: a column containing "time" holds point
// times, columns containing "pos" hold per-axis positions, and columns
// containing "vel" hold per-axis velocities. Empty cells and missing
// columns are generated; see the package documentation for the supported
// combinations.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"motionkit.dev/pvt"
)

func main() {
	cmd := &cli.Command{
		Name:  "pvt",
		Usage: "Generate and sample position-velocity-time trajectories",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enables debug logging",
				Aliases: []string{
					"v",
				},
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "generate",
				Aliases: []string{"g"},
				Usage:   "Completes a partially specified trajectory",
				Flags: append(ioFlags(),
					&cli.Float64Flag{
						Category: "Targets",
						Name:     "target-speed",
						Usage:    "The speed to move at along the path when generating times",
					},
					&cli.Float64Flag{
						Category: "Targets",
						Name:     "target-accel",
						Usage:    "The acceleration bound used when generating times",
					},
					&cli.IntFlag{
						Category: "Targets",
						Name:     "resample",
						Usage:    "Redistributes the generated points evenly along the path",
					},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					seq, err := generate(cmd)
					if err != nil {
						return err
					}
					slog.Info("generated sequence",
						"points", seq.Len(),
						"axes", seq.Dim(),
						"duration", seq.EndTime()-seq.StartTime())
					return writeTable(cmd.String("output"), seq.Table())
				},
			},
			{
				Name:    "sample",
				Aliases: []string{"s"},
				Usage:   "Completes a trajectory and samples it at a fixed interval",
				Flags: append(ioFlags(),
					&cli.Float64Flag{
						Category: "Targets",
						Name:     "target-speed",
						Usage:    "The speed to move at along the path when generating times",
					},
					&cli.Float64Flag{
						Category: "Targets",
						Name:     "target-accel",
						Usage:    "The acceleration bound used when generating times",
					},
					&cli.Float64Flag{
						Category: "Sampling",
						Name:     "interval",
						Usage:    "The time step between samples in seconds",
						Value:    0.01,
					},
				),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					seq, err := generate(cmd)
					if err != nil {
						return err
					}
					return writeSamples(cmd.String("output"), seq, cmd.Float64("interval"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func ioFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Category: "Inputs and Outputs",
			Name:     "input",
			Usage:    "The CSV file holding the trajectory data",
			Aliases: []string{
				"i",
			},
			Required: true,
		},
		&cli.StringFlag{
			Category: "Inputs and Outputs",
			Name:     "output",
			Usage:    "The CSV file to write to, defaulting to standard output",
			Aliases: []string{
				"o",
			},
		},
	}
}

func generate(cmd *cli.Command) (*pvt.Sequence, error) {
	if cmd.Bool("verbose") {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	table, err := readTable(cmd.String("input"))
	if err != nil {
		return nil, err
	}
	in, err := table.Input()
	if err != nil {
		return nil, err
	}
	in.TargetSpeed = cmd.Float64("target-speed")
	in.TargetAccel = cmd.Float64("target-accel")
	in.Resample = int(cmd.Int("resample"))
	slog.Debug("parsed input",
		"rows", table.Len(),
		"times", len(in.Times),
		"axes", len(in.Positions))
	return pvt.Generate(in)
}

func readTable(path string) (*pvt.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open input file")
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "could not read input file")
	}
	if len(records) == 0 {
		return nil, errors.New("input file has no header")
	}
	return pvt.ParseTable(records[0], records[1:])
}

func output(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "could not create output file")
	}
	return f, func() { f.Close() }, nil
}

func writeTable(path string, table *pvt.Table) error {
	f, closer, err := output(path)
	if err != nil {
		return err
	}
	defer closer()
	w := csv.NewWriter(f)
	if err := w.Write(table.Names()); err != nil {
		return err
	}
	if err := w.WriteAll(table.Records()); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeSamples(path string, seq *pvt.Sequence, interval float64) error {
	if interval <= 0 {
		return errors.New("interval must be positive")
	}
	f, closer, err := output(path)
	if err != nil {
		return err
	}
	defer closer()
	w := csv.NewWriter(f)
	header := []string{"Time"}
	for d := range seq.Dim() {
		header = append(header,
			fmt.Sprintf("Axis %d Position", d+1),
			fmt.Sprintf("Axis %d Velocity", d+1),
			fmt.Sprintf("Axis %d Acceleration", d+1))
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for time := seq.StartTime(); time <= seq.EndTime(); time += interval {
		pos, err := seq.Position(time)
		if err != nil {
			return err
		}
		vel, err := seq.Velocity(time)
		if err != nil {
			return err
		}
		acc, err := seq.Acceleration(time)
		if err != nil {
			return err
		}
		record := []string{fmt.Sprintf("%g", time)}
		for d := range seq.Dim() {
			record = append(record,
				fmt.Sprintf("%g", pos[d]),
				fmt.Sprintf("%g", vel[d]),
				fmt.Sprintf("%g", acc[d]))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
